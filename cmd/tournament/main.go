package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"team_iso/internal/report"
	"team_iso/internal/tournament"
)

func main() {
	numMatches := flag.Int("matches", 5, "матчей против каждого соперника (2 партии на матч)")
	workers := flag.Int("workers", 0, "воркеров; 0 = по числу CPU")
	moveTimeMs := flag.Int("move-time", 150, "лимит на ход, мс")
	width := flag.Int("width", 7, "ширина доски")
	height := flag.Int("height", 7, "высота доски")
	pdfOut := flag.String("pdf", "", "путь для PDF-отчёта (опционально)")
	flag.Parse()

	// .env не обязателен для турнира, но подхватывается как у сервера
	_ = godotenv.Load()

	logger := NewLogger()
	defer logger.Sync()

	cfg := tournament.Config{
		NumMatches: *numMatches,
		MoveTime:   time.Duration(*moveTimeMs) * time.Millisecond,
		Width:      *width,
		Height:     *height,
		Workers:    *workers,
	}

	logger.Infow("tournament starting",
		"matches", cfg.NumMatches,
		"move_time", cfg.MoveTime,
		"board", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
	)

	start := time.Now()
	tour := tournament.New(cfg, logger)
	reports := tour.Run(tournament.TestAgents(), tournament.DefaultOpponents())
	logger.Infow("tournament finished", "elapsed", time.Since(start))

	printReports(reports)

	if *pdfOut != "" {
		if err := report.WritePDF(reports, cfg, *pdfOut); err != nil {
			logger.Error("failed to write pdf report", zap.Error(err))
			os.Exit(1)
		}
		logger.Infof("pdf report written to %s", *pdfOut)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func printReports(reports []tournament.Report) {
	for _, rep := range reports {
		fmt.Printf("\n*** %s ***\n", rep.Agent)
		for _, res := range rep.Results {
			fmt.Printf("  vs %-16s %3d - %-3d\n", res.Opponent, res.Wins, res.Losses)
		}
		fmt.Printf("  win rate: %.1f%% (%d/%d)\n", rep.WinRate(), rep.Wins, rep.Games)
	}
}
