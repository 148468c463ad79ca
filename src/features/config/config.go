package config

// Config holds the application configuration.
type Config struct {
	Watch      Watch          `yaml:"watch"`
	Categories []CategoryRule `yaml:"categories" validate:"required,min=1,dive"`
	Logger     Logger         `yaml:"logger"`
	Server     Server         `yaml:"server"`
	Database   Database       `yaml:"database" validate:"required"`
	MoveLog    MoveLog        `yaml:"move_log" validate:"required"`
	Telegram   Telegram       `yaml:"telegram"`
}

// Watch holds the monitored root settings.
type Watch struct {
	// Root is the initially selected folder. It can be replaced at
	// runtime through the control API.
	Root      string `yaml:"root"`
	AutoStart bool   `yaml:"auto_start"`
}

// CategoryRule maps a category name to the extensions it owns. The rule
// order in the file is the classification match order.
type CategoryRule struct {
	Name       string   `yaml:"name" validate:"required"`
	Extensions []string `yaml:"extensions" validate:"required,min=1"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server holds the configuration for the Fiber server
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Database holds the configuration for the move history store
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// MoveLog holds the configuration for the plain-text move log
type MoveLog struct {
	Path string `yaml:"path" validate:"required"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	NotifyMoves  bool     `yaml:"notify_moves"`
}
