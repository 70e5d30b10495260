package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dbonates/quark/core/config"
	"github.com/dbonates/quark/core/handler"
	"github.com/dbonates/quark/core/logger"
	"github.com/dbonates/quark/core/server"
	"github.com/dbonates/quark/core/session"
	"github.com/dbonates/quark/middleware"
)

// appConfig is the full application configuration. Server settings sit at
// the top level so that "-tcp.port 8081" addresses them directly.
type appConfig struct {
	server.Config `config:",squash"`

	LogFormat string `config:"logFormat" env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `config:"logLevel" env:"LOG_LEVEL" envDefault:"info"`

	SessionTTL     time.Duration `config:"sessionTTL" env:"SESSION_TTL" envDefault:"24h"`
	SessionCleanup time.Duration `config:"sessionCleanup" env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`

	Trace bool `config:"trace" env:"QUARK_TRACE" envDefault:"false"`
}

type serveOptions struct {
	configFile string
	envFile    string
	logFormat  string
	trace      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quark",
		Short:         "quark HTTP/1.1 server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve [-- -key value ...]",
		Short: "Run the demo application",
		Long: `Run the demo application until interrupted.

Arguments after "--" override configuration keys, for example:

  quark serve -- -tcp.port 8081 -backlog 256 -session false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = opts.logFormat
			}
			if cmd.Flags().Changed("trace") {
				cfg.Trace = opts.trace
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file (default: ./quark.yaml when present)")
	flags.StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before the environment is read")
	flags.StringVar(&opts.logFormat, "log-format", logger.FormatText, "log output format: text or json")
	flags.BoolVar(&opts.trace, "trace", false, "export traces to stdout")

	return cmd
}

// loadConfig layers defaults, environment, config file and arguments.
func loadConfig(opts serveOptions, args []string) (appConfig, error) {
	var cfg appConfig

	if opts.envFile != "" {
		if err := config.LoadEnvFile(opts.envFile); err != nil {
			return cfg, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if err := config.Load(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load environment: %w", err)
	}

	file := config.OptionalYAMLFile("quark.yaml")
	if opts.configFile != "" {
		file = config.FromYAMLFile(opts.configFile)
	}

	m, err := config.Read(file, config.FromArgs(args))
	if err != nil {
		return cfg, err
	}
	if err := m.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

func serve(ctx context.Context, cfg appConfig) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogFormat, level, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	shutdownTelemetry, err := setupTelemetry(cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error("failed to flush telemetry", logger.Error(err))
		}
	}()

	store := session.NewMemoryStore()

	mws := []handler.Middleware{
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.SecurityHeaders(),
		middleware.BodyLimit(),
	}
	if cfg.Trace {
		mws = append(mws, middleware.Tracing(), middleware.Metrics())
	}

	srv, err := server.New(cfg.Config, newRouter(log, store),
		server.WithLogger(log),
		server.WithSessionStore(store),
		server.WithSessionOptions(session.WithTTL(cfg.SessionTTL)),
		server.WithMiddleware(mws...),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx))
	g.Go(sweepSessions(gctx, session.NewManager(store), cfg.SessionCleanup, log))
	return g.Wait()
}

// sweepSessions removes expired sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, m *session.Manager, interval time.Duration, log *slog.Logger) func() error {
	return func() error {
		if interval <= 0 {
			return nil
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := m.CleanupExpired(ctx)
				if err != nil {
					log.ErrorContext(ctx, "failed to remove expired sessions", logger.Error(err))
					continue
				}
				if n > 0 {
					log.DebugContext(ctx, "removed expired sessions", slog.Int("count", n))
				}
			}
		}
	}
}
