// Package config loads application configuration.
//
// Precedence: real environment variables win; a .env file in the working
// directory fills in anything unset (handy in development, absent in
// production). godotenv.Load never overrides variables that are already
// exported.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every knob the server needs. It is assembled once in main
// and passed down; nothing else reads the environment.
type Config struct {
	Port        int
	DBPath      string
	TemplateDir string
	StaticDir   string

	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load reads the .env file (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	return Config{
		Port:        getenvInt("PORT", 8080),
		DBPath:      getenv("DB_PATH", "data/notebox.db"),
		TemplateDir: getenv("TEMPLATE_DIR", "web/templates"),
		StaticDir:   getenv("STATIC_DIR", "web/static"),

		JWTSecret: getenv("JWT_SECRET", ""),

		GitHubClientID:     getenv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:  getenv("GITHUB_CALLBACK_URL", ""),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
