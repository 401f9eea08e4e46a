package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	DatabasePath string
	UploadDir    string
	DiagramDir   string
	GeminiApiKey string
}

type Server struct {
	Port string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3001")
	viper.SetDefault("DATABASE_PATH", "data/exam.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("DIAGRAM_DIR", "uploads/diagrams")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.DatabasePath = viper.GetString("DATABASE_PATH")
	config.UploadDir = viper.GetString("UPLOAD_DIR")
	config.DiagramDir = viper.GetString("DIAGRAM_DIR")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("database", config.DatabasePath).Msg("Config loaded")
	return &config, nil
}
