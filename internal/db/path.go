package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// expandPath resolves a sqlite file path from the config: a leading ~
// becomes the home directory and $VAR references are expanded.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("type sqlite needs the path field")
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path, nil
}
