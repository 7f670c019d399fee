package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CHEFTONIC_API_URL",
		"CHEFTONIC_HTTP_MIN_INTERVAL",
		"CHEFTONIC_LOG_LEVEL",
		"CHEFTONIC_TIMEZONE",
		"CHEFTONIC_LOCALE",
		"CHEFTONIC_HORIZON_DAYS",
		"CHEFTONIC_CONFIG_PATH",
	} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
	t.Setenv("LANG", "es_ES.UTF-8")
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)
	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("load settings returned error: %v", err)
	}
	if settings.APIURL != "https://apidev.cheftonic.com/dev/chftqry" {
		t.Fatalf("unexpected api url %q", settings.APIURL)
	}
	if settings.HorizonDays != 180 || settings.LogLevel != "warn" || settings.HTTPMinInterval != 0 {
		t.Fatalf("unexpected defaults %+v", settings)
	}
	if settings.Locale != "es_ES.UTF-8" {
		t.Fatalf("expected LANG fallback, got %q", settings.Locale)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CHEFTONIC_HTTP_MIN_INTERVAL", "250ms")
	t.Setenv("CHEFTONIC_HORIZON_DAYS", "30")
	t.Setenv("CHEFTONIC_LOCALE", "en-GB")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("load settings returned error: %v", err)
	}
	if settings.HTTPMinInterval != 250*time.Millisecond || settings.HorizonDays != 30 || settings.Locale != "en-GB" {
		t.Fatalf("unexpected overrides %+v", settings)
	}
}

func TestLoadSettingsReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	clearSettingsEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "CHEFTONIC_TIMEZONE=Europe/Madrid\nCHEFTONIC_LOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CHEFTONIC_LOG_LEVEL", "error")
	t.Cleanup(func() { _ = os.Unsetenv("CHEFTONIC_TIMEZONE") })

	settings, err := LoadSettings(envFile, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load settings returned error: %v", err)
	}
	if settings.Timezone != "Europe/Madrid" {
		t.Fatalf("expected timezone from .env, got %q", settings.Timezone)
	}
	if settings.LogLevel != "error" {
		t.Fatalf("expected environment to win over .env, got %q", settings.LogLevel)
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("CHEFTONIC_HORIZON_DAYS", "soon")
	if _, err := LoadSettings(); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	t.Setenv("CHEFTONIC_HORIZON_DAYS", "0")
	if _, err := LoadSettings(); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for zero horizon, got %v", err)
	}
}

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("")
	if err != nil || loc != time.Local {
		t.Fatalf("expected local zone, got %v err=%v", loc, err)
	}
	loc, err = ResolveLocation("UTC")
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v err=%v", loc, err)
	}
	if _, err := ResolveLocation("Mars/Olympus"); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}
