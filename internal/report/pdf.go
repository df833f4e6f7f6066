package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"team_iso/internal/tournament"
)

// WritePDF сохраняет итоговую таблицу турнира в PDF-файл.
func WritePDF(reports []tournament.Report, cfg tournament.Config, output string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Courier", "", 10)
	pdf.AddPage()

	pdf.Cell(40, 10, "Isolation tournament results")
	pdf.Ln(6)
	pdf.Cell(40, 10, fmt.Sprintf("date: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(40, 10, fmt.Sprintf("matches per opponent: %d, move time: %s, board: %dx%d",
		cfg.NumMatches, cfg.MoveTime, cfg.Width, cfg.Height))
	pdf.Ln(12)

	for _, rep := range reports {
		pdf.Cell(40, 10, rep.Agent)
		pdf.Ln(6)
		for _, res := range rep.Results {
			line := fmt.Sprintf("  vs %-14s %d-%d", res.Opponent, res.Wins, res.Losses)
			pdf.MultiCell(0, 4.5, line, "", "L", false)
		}
		pdf.MultiCell(0, 4.5, fmt.Sprintf("  win rate: %.1f%% (%d/%d)",
			rep.WinRate(), rep.Wins, rep.Games), "", "L", false)
		pdf.Ln(4)
	}

	return pdf.OutputFileAndClose(output)
}
