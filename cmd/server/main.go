package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"wordduel/internal/config"
	"wordduel/internal/game"
	"wordduel/internal/server"
	"wordduel/internal/store"
	"wordduel/internal/store/filestore"
	"wordduel/internal/store/pgstore"
	"wordduel/internal/words"
)

const defaultConfigPath = "config/server.yaml"

func main() {
	app := cli.NewApp()
	app.Name = "wordduel-server"
	app.Usage = "two-player word duel game server"
	app.ArgsUsage = "[port]"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Value:  defaultConfigPath,
			Usage:  "path to the YAML config",
			EnvVar: "WORDDUEL_CONFIG",
		},
		cli.StringFlag{
			Name:   "listen, l",
			Usage:  "override the bind address from the config",
			EnvVar: "WORDDUEL_LISTEN",
		},
		cli.StringFlag{
			Name:  "metrics, m",
			Usage: "override the metrics listen address from the config",
		},
	}
	app.Action = func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		// A bare port argument overrides the config, old-school style.
		if c.NArg() > 0 {
			port, err := strconv.Atoi(c.Args().First())
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("invalid port %q", c.Args().First())
			}
			cfg.Port = port
		}
		if addr := c.String("listen"); addr != "" {
			cfg.BindAddress = addr
		}
		if addr := c.String("metrics"); addr != "" {
			cfg.MetricsAddress = addr
		}
		return run(cfg)
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Server) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("wordduel server starting", "log_level", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	users, history, closeStore, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStore()

	wordPaths := cfg.Words.Paths()
	corpus, err := words.Load(wordPaths[0], wordPaths[1], wordPaths[2])
	if err != nil {
		return fmt.Errorf("loading word lists: %w", err)
	}

	auth := game.NewAuthService(users, game.BcryptHasher{})
	if err := auth.Load(ctx); err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	rooms := game.NewRoomService()
	matches := game.NewMatchService(corpus, auth, users, history, cfg.DeterministicWords)
	beforePlay := game.NewBeforePlayService(auth, rooms, matches)
	summary := game.NewSummaryService(auth, history)

	clients := server.NewClientManager()
	handler := server.NewHandler(clients, auth, rooms, matches, beforePlay, summary)
	srv := server.New(cfg, clients, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return server.ServeMetrics(gctx, cfg.MetricsAddress) })
	g.Go(func() error {
		srv.RunHousekeeping(gctx)
		return nil
	})
	if cfg.Words.Watch {
		g.Go(func() error { return corpus.Watch(gctx) })
	}

	return g.Wait()
}

// openStores builds the configured persistence backend and returns a
// cleanup func.
func openStores(ctx context.Context, cfg config.StorageConfig) (store.UserStore, store.HistoryStore, func(), error) {
	switch cfg.Backend {
	case "", "file":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("creating data dir: %w", err)
		}
		users := filestore.NewUserStore(cfg.DataDir + "/users.txt")
		history := filestore.NewHistoryStore(cfg.DataDir + "/history")
		return users, history, func() {}, nil
	case "postgres":
		dsn := cfg.Database.DSN()
		if err := pgstore.RunMigrations(ctx, dsn); err != nil {
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		db, err := pgstore.New(ctx, dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, db, db.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
