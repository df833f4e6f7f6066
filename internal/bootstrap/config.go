package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	RedisUrl       string `mapstructure:"REDIS_URL"`
	MongoUri       string `mapstructure:"MONGO_URI"`
	IsLocalCors    bool   `mapstructure:"LOCAL_CORS"`
	BoardWidth     int    `mapstructure:"BOARD_WIDTH"`
	BoardHeight    int    `mapstructure:"BOARD_HEIGHT"`
	MoveTimeMs     int    `mapstructure:"MOVE_TIME_MS"`
	AgentMethod    string `mapstructure:"AGENT_METHOD"`
	AgentHeuristic string `mapstructure:"AGENT_HEURISTIC"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.BoardWidth <= 0 {
		cfg.BoardWidth = 7
	}
	if cfg.BoardHeight <= 0 {
		cfg.BoardHeight = 7
	}
	if cfg.MoveTimeMs <= 0 {
		cfg.MoveTimeMs = 150
	}

	return &cfg, nil
}
