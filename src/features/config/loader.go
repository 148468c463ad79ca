package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()

		if err := saveConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		slog.Info("Default configuration created successfully", "path", path)
		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Override with environment variables if set
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	return NewManager(&cfg), nil
}

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Watch: Watch{
			Root:      "",
			AutoStart: false,
		},
		Categories: DefaultCategories(),
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3636,
		},
		Database: Database{
			Path: "./tidyfold.db",
		},
		MoveLog: MoveLog{
			Path: "./log.txt",
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "", // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{},
			NotifyMoves:  false,
		},
	}
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif"}},
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".txt"}},
		{Name: "Videos", Extensions: []string{".mp4", ".mkv"}},
		{Name: "Executables", Extensions: []string{".exe"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar"}},
	}
}

// saveConfig saves the configuration to the specified file path
func saveConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Configuration saved", "path", path)
	return nil
}
