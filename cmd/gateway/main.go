package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/preston-bernstein/scoreboard-gateway/internal/config"
	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/server"
)

const (
	appName        = "scoreboard-gateway"
	appVersion     = "dev"
	defaultEnvFile = ".env"
)

type options struct {
	envFile       string
	envFileSet    bool
	configFile    string
	overridesFile string
}

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
	return nil
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file loaded before reading the environment")
	flagSet.StringVar(&opts.configFile, "config", "", "YAML gateway file with the vMix field map and foul images (overrides GATEWAY_CONFIG_FILE)")
	flagSet.StringVar(&opts.overridesFile, "overrides", "", "YAML file seeding the team name overrides (overrides OVERRIDES_FILE)")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	opts.envFileSet = flagSet.Changed("env-file")
	return opts, nil
}

// loadConfig layers the env file, the environment, the gateway file and the flags.
// The default env file may be absent; an explicitly named one must exist.
func loadConfig(opts options) (config.Config, error) {
	if err := config.LoadEnvFile(opts.envFile, !opts.envFileSet); err != nil {
		return config.Config{}, err
	}

	cfg := config.Load()
	if opts.configFile != "" {
		cfg.GatewayFile = opts.configFile
	}
	if opts.overridesFile != "" {
		cfg.OverridesFile = opts.overridesFile
	}
	if cfg.GatewayFile != "" {
		if err := config.ApplyGatewayFile(&cfg, cfg.GatewayFile); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}
