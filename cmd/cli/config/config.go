package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	appconfig "github.com/crucial707/student-records/internal/config"
)

// Load reads an optional .env file from the working directory, then the same
// environment and CONFIG_PATH settings the web server uses.
func Load() (appconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return appconfig.Config{}, err
	}
	return appconfig.Load()
}
