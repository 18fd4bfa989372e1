package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/IssaParty/cinque-for-congress-sub000/internal/botsignal"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/config"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/cryptobox"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/domain/progress"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/domain/submission"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/inputgate"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/securestore"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/sqlite"
	"github.com/IssaParty/cinque-for-congress-sub000/internal/transport"
)

func main() {
	op := flag.String("op", "serve", "operation: serve | count | increment | submit")
	kind := flag.String("kind", "endorsement", "form kind: endorsement | join | ideas")
	name := flag.String("name", "", "submitter name")
	city := flag.String("city", "", "submitter city")
	zip := flag.String("zip", "", "submitter zip code")
	phone := flag.String("phone", "", "submitter phone (optional)")
	email := flag.String("email", "", "submitter email")
	idea := flag.String("idea", "", "idea text (ideas kind)")
	category := flag.String("category", "", "idea category (ideas kind)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.Store.Path); err != nil {
		logger.Error("failed to prepare store path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	key, err := cryptobox.GenerateKey()
	if err != nil {
		logger.Error("failed to generate session key", "error", err)
		os.Exit(1)
	}
	box, err := cryptobox.NewBox(key)
	if err != nil {
		logger.Error("failed to build crypto box", "error", err)
		os.Exit(1)
	}

	store := securestore.New(sqlite.NewKVRepository(db), box, logger)

	bridge := transport.NewBridge(cfg.Endpoint.AllowedOrigins, logger)
	channel := transport.NewHiddenChannel(transport.Config{
		Endpoint:  cfg.Endpoint.URL,
		AckWindow: cfg.Endpoint.AckWindow(),
		Logger:    logger,
	}, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Bridge.Host, cfg.Bridge.Port)
	ackServer := &http.Server{Addr: addr, Handler: transport.NewServer(bridge)}
	go func() {
		logger.Info("acknowledgment bridge listening", "addr", addr)
		if err := ackServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("bridge server error", "error", err)
		}
	}()

	cache := progress.NewCache(store, cfg.Cache.Timeout())
	scheduler := progress.NewScheduler(cache, channel, cfg.Cache.SyncInterval(), logger)
	synchronizer := progress.NewSynchronizer(cache, scheduler, channel, logger)

	collector := botsignal.New()
	submitter := submission.NewService(channel, collector, submission.Metadata{
		Source:    "cinqueforcongress.com",
		UserAgent: "cinque-relay/1.0",
		SessionID: submission.EnsureSessionID(ctx, store),
	}, logger)

	switch *op {
	case "serve":
		scheduler.Start(ctx)
		defer scheduler.Stop()
		waitForShutdown(logger, ackServer)
	case "count":
		fmt.Println(synchronizer.GetCount(ctx))
		shutdownBridge(logger, ackServer)
	case "increment":
		fmt.Println(synchronizer.Increment(ctx))
		shutdownBridge(logger, ackServer)
	case "submit":
		record := map[string]string{
			"name":     *name,
			"city":     *city,
			"zipCode":  *zip,
			"phone":    *phone,
			"email":    *email,
			"idea":     *idea,
			"category": *category,
		}
		outcome := submitter.Submit(ctx, record, inputgate.FormKind(*kind))
		out, _ := json.Marshal(outcome)
		fmt.Println(string(out))
		shutdownBridge(logger, ackServer)
		if !outcome.Success {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown op %q\n", *op)
		os.Exit(2)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownBridge(logger, server)
}

func shutdownBridge(logger *slog.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
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
