package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"resume-ats/internal/shared/telemetry"
)

// mergeEnvFiles merges KEY=VALUE files into v when they exist. It is a
// best-effort helper for local development; unreadable files are logged and skipped.
func mergeEnvFiles(v *viper.Viper, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			telemetry.Warn("config.env_file_unreadable", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}
