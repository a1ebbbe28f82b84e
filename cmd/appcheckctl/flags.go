package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var flagConfig = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to a TOML configuration file",
}

var flagApp = &cli.StringFlag{
	Name:  "app",
	Usage: "app name to configure (default: file setting or [DEFAULT])",
}

var flagProvider = &cli.StringFlag{
	Name:  "provider",
	Usage: "provider id: debug, deviceCheck, appAttest or appAttestWithDeviceCheckFallback",
}

var flagAutoRefresh = &cli.BoolFlag{
	Name:  "auto-refresh",
	Value: true,
	Usage: "refresh tokens before they expire",
}

var flagDebugToken = &cli.StringFlag{
	Name:  "debug-token",
	Usage: "debug token to use with the debug provider",
}

var flagOSVersion = &cli.StringFlag{
	Name:  "os-version",
	Usage: "host OS version used to decide App Attest support",
}

var flagForce = &cli.BoolFlag{
	Name:  "force",
	Usage: "bypass the token cache",
}

var logJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var logDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var logUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var commonFlags = []cli.Flag{
	logJSONFlag,
	logDebugFlag,
	logUIDFlag,
}

var providerFlags = []cli.Flag{
	flagConfig,
	flagApp,
	flagProvider,
	flagAutoRefresh,
	flagDebugToken,
	flagOSVersion,
}

func setupLogger(cCtx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if cCtx.Bool(logDebugFlag.Name) {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cCtx.Bool(logJSONFlag.Name) {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler).With("service", "appcheckctl")
	if cCtx.Bool(logUIDFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}
