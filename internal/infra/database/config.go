package database

import (
	"fmt"

	"weather-api/pkg/resource"
)

// Settings holds the PostgreSQL connection properties
type Settings struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

// SettingsFromProperties reads app.db.* from the application properties
func SettingsFromProperties() Settings {
	return Settings{
		Host:     resource.GetStringOrDefault("app.db.host", "localhost"),
		Port:     resource.GetStringOrDefault("app.db.port", "5432"),
		Username: resource.GetString("app.db.username"),
		Password: resource.GetString("app.db.password"),
		Database: resource.GetString("app.db.database"),
		Schema:   resource.GetStringOrDefault("app.db.schema", "public"),
		SSLMode:  resource.GetStringOrDefault("app.db.ssl-mode", "disable"),
	}
}

// DSN renders the settings as a libpq key/value connection string
func (s Settings) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		s.Host, s.Port, s.Username, s.Password, s.Database, s.SSLMode, s.Schema)
}
