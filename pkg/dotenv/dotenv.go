// Package dotenv applies a .env file to the process environment. It is imported by pkg/log,
// so it initialises before every package that reads the environment in its init.
package dotenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	path, ok := os.LookupEnv("DOTENV_FILE_PATH")
	if !ok {
		path = ".env"
	}
	if err := Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
	}
}

// Load sets the variables of the file at path that are not already set. A missing file is not
// an error.
func Load(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("fail to load %s: %w", path, err)
	}
	return nil
}
