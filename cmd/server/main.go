package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/urfave/cli/v3"

	"ghmcp/server/internal/auth"
	"ghmcp/server/internal/config"
	"ghmcp/server/internal/mcp"
	"ghmcp/server/internal/middleware"
	"ghmcp/server/internal/modules"
	"ghmcp/server/internal/modules/github"
	"ghmcp/server/internal/observability"
	"ghmcp/server/pkg/githubapi"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "github-mcp-server",
		Usage:   "Serve GitHub tools, resources and prompts over the Model Context Protocol",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML config file",
				Sources: cli.EnvVars("GITHUB_MCP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "github-token",
				Usage:   "GitHub personal access token",
				Sources: cli.EnvVars("GITHUB_PERSONAL_ACCESS_TOKEN", "GITHUB_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "github-api-url",
				Usage:   "GitHub Enterprise API base URL",
				Sources: cli.EnvVars("GITHUB_API_URL"),
			},
			&cli.StringFlag{
				Name:    "transport",
				Usage:   "stdio or http (default stdio)",
				Sources: cli.EnvVars("MCP_TRANSPORT"),
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address of the http transport (default " + config.DefaultAddr + ")",
				Sources: cli.EnvVars("MCP_HTTP_ADDR"),
			},
			&cli.StringFlag{
				Name:    "auth-secret",
				Usage:   "HMAC secret; when set, the http transport requires a bearer token",
				Sources: cli.EnvVars("MCP_AUTH_SECRET"),
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Usage:   "max http requests per second per client, 0 disables",
				Sources: cli.EnvVars("MCP_RATE_LIMIT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error (default info)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{Name: "loki-url", Sources: cli.EnvVars("GRAFANA_LOKI_URL")},
			&cli.StringFlag{Name: "loki-user", Sources: cli.EnvVars("GRAFANA_LOKI_USER")},
			&cli.StringFlag{Name: "loki-api-key", Sources: cli.EnvVars("GRAFANA_LOKI_API_KEY")},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:  "token",
				Usage: "Mint a bearer token for the http transport",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "token subject", Required: true},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, 0 for no expiry", Value: 30 * 24 * time.Hour},
				},
				Action: issueToken,
			},
		},
	}
}

// loadConfig layers the optional TOML file under flags and env vars.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return config.Config{}, err
		}
	}

	for flag, dst := range map[string]*string{
		"github-token":   &cfg.GitHub.Token,
		"github-api-url": &cfg.GitHub.APIURL,
		"transport":      &cfg.Server.Transport,
		"addr":           &cfg.Server.Addr,
		"auth-secret":    &cfg.Server.AuthSecret,
		"log-level":      &cfg.Log.Level,
		"loki-url":       &cfg.Log.LokiURL,
		"loki-user":      &cfg.Log.LokiUser,
		"loki-api-key":   &cfg.Log.LokiKey,
	} {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	if cmd.IsSet("rate-limit") {
		cfg.Server.RateLimit = cmd.Int("rate-limit")
	}
	return cfg, nil
}

// observabilityOptions passes the Loki credentials on only when all of
// them are configured.
func observabilityOptions(cfg config.Config) observability.Options {
	opts := observability.Options{
		AppName: "github-mcp-server",
		Level:   observability.ParseLevel(cfg.Log.Level),
	}
	if cfg.LokiEnabled() {
		opts.LokiURL = cfg.Log.LokiURL
		opts.LokiUser = cfg.Log.LokiUser
		opts.LokiKey = cfg.Log.LokiKey
	}
	return opts
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	observability.Init(observabilityOptions(cfg))
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := githubapi.NewClient(cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		observability.LogError("create GitHub client", err)
		return errors.Wrap(err, "create GitHub client")
	}

	registry := modules.NewRegistry(github.New(client))
	slog.Info("registered modules", "modules", registry.ListModules(), "tools", registry.ToolCount())

	handler, err := mcp.NewHandler(registry, version)
	if err != nil {
		return err
	}

	if cfg.Server.Transport == config.TransportHTTP {
		return serveHTTP(ctx, cfg, handler, registry)
	}

	slog.Info("serving on stdio", "version", version)
	if err := handler.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		observability.LogError("stdio server", err)
		return errors.Wrap(err, "stdio server")
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg config.Config, handler *mcp.Handler, registry *modules.Registry) error {
	var mcpHandler http.Handler = handler.HTTPHandler()
	if cfg.Server.RateLimit > 0 {
		mcpHandler = middleware.NewRateLimiter(ctx, cfg.Server.RateLimit).Middleware(mcpHandler)
	}
	if cfg.Server.AuthSecret != "" {
		verifier, err := auth.NewVerifier([]byte(cfg.Server.AuthSecret))
		if err != nil {
			return err
		}
		mcpHandler = middleware.NewAuthorizer(verifier).Authorize(mcpHandler)
	} else {
		slog.Warn("http transport running without authorization; set MCP_AUTH_SECRET to require bearer tokens")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth(registry.ToolCount()))
	mux.Handle("/mcp", middleware.Recovery(middleware.RequestLogger(mcpHandler)))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving streamable http", "addr", cfg.Server.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			observability.LogError("listen", err)
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down gracefully")

	// Give in-flight requests up to 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.LogError("shutdown", err)
		return errors.Wrap(err, "shutdown")
	}
	slog.Info("server stopped")
	return nil
}

// handleHealth serves {"status":"ok","tools":n}.
func handleHealth(toolCount int) http.HandlerFunc {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
		e.Field("tools", func(e *jx.Encoder) { e.Int(toolCount) })
	})
	body := e.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func issueToken(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Server.AuthSecret == "" {
		return errors.New("auth secret is required (set MCP_AUTH_SECRET)")
	}
	token, err := auth.IssueToken([]byte(cfg.Server.AuthSecret), cmd.String("subject"), cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, token)
	return err
}
