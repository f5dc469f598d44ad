package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/cardtable/blackjack/internal/account"
	"github.com/cardtable/blackjack/internal/api"
	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/game"
	"github.com/cardtable/blackjack/internal/mail"
	"github.com/cardtable/blackjack/internal/session"
)

var cli struct {
	Addr     string `help:"HTTP listen address, overrides BLACKJACK_ADDR." placeholder:"ADDR"`
	Database string `help:"Account database, overrides BLACKJACK_DB." placeholder:"DSN"`
	Debug    bool   `help:"Enable debug logging."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("blackjack-server"),
		kong.Description("HTTP and websocket server for single-player blackjack."),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)
	if cli.Addr != "" {
		cfg.Addr = cli.Addr
	}
	if cli.Database != "" {
		cfg.DatabaseURL = cli.Database
	}
	if cli.Debug {
		cfg.Debug = true
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	// A sqlite path needs its parent directory to exist.
	if !strings.Contains(cfg.DatabaseURL, "://") && !strings.HasPrefix(cfg.DatabaseURL, "host=") {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0755); err != nil {
			logger.Fatal("creating data directory", "error", err)
		}
	}

	store, err := account.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening account database", "error", err)
	}
	defer store.Close()
	logger.Info("account database ready", "dsn", cfg.DatabaseURL)

	var sender mail.CodeSender
	if cfg.SendGridKey != "" {
		sender = mail.NewHTTPSender(cfg.SendGridKey, cfg.MailFrom)
		logger.Info("confirmation mail enabled", "from", cfg.MailFrom)
	} else {
		sender = mail.NewLogSender(logger)
		logger.Warn("SENDGRID_API_KEY not set, confirmation codes will be logged")
	}

	accounts := account.NewService(store, sender, logger)

	// Live sessions are served from memory; resolved snapshots are
	// written through to the database for inspection.
	sessions := session.NewAuditStore(session.NewMemoryStore(), store)

	hub := api.NewHub(logger)
	go hub.Run()

	engineCfg := game.Config{
		DealerThreshold: cfg.DealerThreshold,
		Payout:          cfg.Payout,
	}
	handlers := api.NewHandlers(sessions, accounts, hub, engineCfg, logger)

	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debug("request", "method", req.Method, "uri", req.RequestURI, "duration", time.Since(start))
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
}
