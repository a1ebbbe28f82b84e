package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	appcheck "github.com/kacy/appcheck-provider"
	"github.com/kacy/appcheck-provider/config"
	"github.com/kacy/appcheck-provider/sandbox"
)

func main() {
	app := &cli.App{
		Name:  "appcheckctl",
		Usage: "Configure App Check providers and mint sandbox tokens",
		Flags: commonFlags,
		Commands: []*cli.Command{
			{
				Name:  "kinds",
				Usage: "list provider ids",
				Action: func(cCtx *cli.Context) error {
					return printJSON(appcheck.Kinds())
				},
			},
			{
				Name:   "configure",
				Usage:  "resolve and print the provider for an app",
				Flags:  providerFlags,
				Action: runConfigure,
			},
			{
				Name:   "token",
				Usage:  "configure the provider and mint a token",
				Flags:  append([]cli.Flag{flagForce}, providerFlags...),
				Action: runToken,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type providerOutput struct {
	App              string    `json:"app"`
	Requested        string    `json:"requested"`
	Kind             string    `json:"kind"`
	AutoRefresh      bool      `json:"auto_refresh"`
	Downgraded       bool      `json:"downgraded"`
	DebugToken       string    `json:"debug_token,omitempty"`
	DebugTokenSource string    `json:"debug_token_source,omitempty"`
	ConfiguredAt     time.Time `json:"configured_at"`
}

type tokenOutput struct {
	Provider  providerOutput  `json:"provider"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Claims    *sandbox.Claims `json:"claims,omitempty"`
}

func runConfigure(cCtx *cli.Context) error {
	facade, resolved, err := configure(cCtx)
	if err != nil {
		return err
	}
	defer facade.Close()

	return printJSON(newProviderOutput(resolved))
}

func runToken(cCtx *cli.Context) error {
	facade, resolved, err := configure(cCtx)
	if err != nil {
		return err
	}
	defer facade.Close()

	token, err := facade.GetToken(cCtx.Context, cCtx.Bool(flagForce.Name))
	if err != nil {
		return err
	}

	out := tokenOutput{
		Provider:  newProviderOutput(resolved),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}
	if claims, err := sandbox.Decode(token.Value); err == nil {
		out.Claims = claims
	}
	return printJSON(out)
}

// configure builds a facade from the file and flags and applies the
// requested provider.
func configure(cCtx *cli.Context) (*appcheck.Facade, *appcheck.ResolvedProvider, error) {
	logger := setupLogger(cCtx)

	file := config.Default()
	if path := cCtx.String(flagConfig.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		file = loaded
	}

	if cCtx.IsSet(flagApp.Name) {
		file.App = cCtx.String(flagApp.Name)
	}
	if cCtx.IsSet(flagProvider.Name) {
		file.Provider = cCtx.String(flagProvider.Name)
	}
	if cCtx.IsSet(flagDebugToken.Name) {
		file.DebugToken = cCtx.String(flagDebugToken.Name)
	}
	if cCtx.IsSet(flagOSVersion.Name) {
		file.Platform.OSVersion = cCtx.String(flagOSVersion.Name)
	}

	var autoRefresh *bool
	if cCtx.IsSet(flagAutoRefresh.Name) {
		v := cCtx.Bool(flagAutoRefresh.Name)
		autoRefresh = &v
	}

	oracle, err := file.Oracle()
	if err != nil {
		return nil, nil, err
	}
	ttl, err := file.SandboxTTL()
	if err != nil {
		return nil, nil, err
	}

	facade, err := appcheck.New(appcheck.Config{
		App:         file.App,
		Library:     sandbox.NewLibrary(sandbox.Config{TTL: ttl}),
		Oracle:      oracle,
		Environment: file.DebugTokenReader(),
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}

	resolved, err := facade.ConfigureProvider(file.Provider, file.AutoRefreshEnabled(autoRefresh), file.DebugToken)
	if err != nil {
		facade.Close()
		if appcheck.IsConfigError(err) {
			logger.Error("invalid provider configuration", "provider", file.Provider, "error", err)
		}
		return nil, nil, fmt.Errorf("failed to configure provider: %w", err)
	}
	return facade, resolved, nil
}

func newProviderOutput(r *appcheck.ResolvedProvider) providerOutput {
	out := providerOutput{
		App:          r.App,
		Requested:    r.Requested.String(),
		Kind:         r.Kind.String(),
		AutoRefresh:  r.AutoRefreshEnabled,
		Downgraded:   r.Downgraded,
		ConfiguredAt: r.ConfiguredAt,
	}
	if r.DebugToken != nil {
		out.DebugToken = r.DebugToken.Value
		out.DebugTokenSource = r.DebugToken.Source.String()
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
