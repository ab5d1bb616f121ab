package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger sets up the global logrus logger. Hosts collect stdout, so
// JSON is used whenever a platform is detected or LOG_JSON is set.
func ConfigureLogger(cfg *Config, platform *PlatformConfig) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)

	if platform.Platform != PlatformLocal || GetEnvAsBool("LOG_JSON", false) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
