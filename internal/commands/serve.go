package commands

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/andreusxcarvalho/SplitTON/internal/auth"
	"github.com/andreusxcarvalho/SplitTON/internal/config"
	"github.com/andreusxcarvalho/SplitTON/internal/cryptopay"
	"github.com/andreusxcarvalho/SplitTON/internal/notify"
	"github.com/andreusxcarvalho/SplitTON/internal/server"
	"github.com/andreusxcarvalho/SplitTON/internal/service"
	"github.com/andreusxcarvalho/SplitTON/internal/storage/sqlite"
	"github.com/andreusxcarvalho/SplitTON/pkg/logging"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewOTPAuthenticator(store, store, nil)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.TelegramBotToken)
		slog.Info("Telegram notifications enabled")
	}

	var crypto *cryptopay.Client
	if cfg.CryptoPayToken != "" {
		crypto = cryptopay.New(cfg.CryptoPayToken)
		slog.Info("Crypto settlement enabled")
	}

	srv := server.New(
		service.NewAuthService(authenticator, tokens),
		service.NewSettlementService(store, notifier, crypto),
		service.NewFriendService(store),
		service.NewTransactionService(store),
		tokens,
	)

	// h2c allows HTTP/2 without TLS for clients that speak it; plain
	// HTTP/1.1 still works.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
