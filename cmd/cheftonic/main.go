package main

import (
	"context"
	"os"

	"github.com/mekedron/cheftonic-cli/internal/cli"
	"github.com/mekedron/cheftonic-cli/internal/config"
	"github.com/mekedron/cheftonic-cli/internal/gateway/cheftonic"
	"github.com/mekedron/cheftonic-cli/internal/logging"
	"github.com/mekedron/cheftonic-cli/internal/service/profile"
)

var version = "dev"

func main() {
	settings, err := config.LoadSettings(".env")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, settings.LogLevel, false)

	store, err := config.NewStoreAt(settings.ConfigPath)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	deps := cli.Dependencies{
		API: cheftonic.NewClient(
			cheftonic.WithEndpoint(settings.APIURL),
			cheftonic.WithRequestMinInterval(settings.HTTPMinInterval),
			cheftonic.WithLogger(logger),
		),
		Profiles: profile.NewResolver(store),
		Config:   store,
		Settings: settings,
		Logger:   logger,
		Version:  version,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	_ = logger.Sync()
	os.Exit(exitCode)
}
