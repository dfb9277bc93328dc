package config

import "time"

// Config holds settings for both the server and the CLI client.
type Config struct {
	LogLevel       string   `koanf:"log_level"`
	Addr           string   `koanf:"addr"`
	AllowedOrigins []string `koanf:"allowed_origins"`

	// DBDriver selects the gorm dialector: "postgres" or "sqlite".
	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBPort     string `koanf:"db_port"`
	DBPath     string `koanf:"db_path"`

	UploadDir string `koanf:"upload_dir"`

	ServerURL      string        `koanf:"server_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		DBDriver:       "postgres",
		DBHost:         "localhost",
		DBPort:         "5432",
		DBName:         "evaluation",
		DBPath:         "evaluation.db",
		UploadDir:      "uploads",
		ServerURL:      "http://localhost:8080",
		RequestTimeout: 10 * time.Second,
	}
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}
