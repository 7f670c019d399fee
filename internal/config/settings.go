package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CHEFTONIC"

// Settings are the runtime knobs read from the environment.
type Settings struct {
	APIURL          string        `envconfig:"API_URL" default:"https://apidev.cheftonic.com/dev/chftqry"`
	HTTPMinInterval time.Duration `envconfig:"HTTP_MIN_INTERVAL" default:"0s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"warn"`
	Timezone        string        `envconfig:"TIMEZONE"`
	Locale          string        `envconfig:"LOCALE"`
	HorizonDays     int           `envconfig:"HORIZON_DAYS" default:"180"`
	ConfigPath      string        `envconfig:"CONFIG_PATH"`
}

// LoadSettings reads the given .env files, when present, then the CHEFTONIC_*
// environment. Variables already set win over .env values.
func LoadSettings(envFiles ...string) (Settings, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	var settings Settings
	if err := envconfig.Process(envPrefix, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if settings.Locale == "" {
		settings.Locale = os.Getenv("LANG")
	}
	if settings.HorizonDays <= 0 {
		return Settings{}, fmt.Errorf("%w: horizon days must be positive, got %d", ErrInvalidSettings, settings.HorizonDays)
	}
	if settings.HTTPMinInterval < 0 {
		return Settings{}, fmt.Errorf("%w: http min interval must not be negative", ErrInvalidSettings)
	}
	return settings, nil
}

// ResolveLocation loads an IANA zone name. Empty means the local zone.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, name, err)
	}
	return loc, nil
}
