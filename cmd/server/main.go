package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/olomek/trolley/internal/auth"
	"github.com/olomek/trolley/internal/config"
	"github.com/olomek/trolley/internal/realtime"
	"github.com/olomek/trolley/internal/server"
	"github.com/olomek/trolley/internal/service"
	"github.com/olomek/trolley/internal/storage/sqlite"
	"github.com/olomek/trolley/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	hub := realtime.NewHub()

	authSvc := service.NewAuthService(authenticator, tokens)
	listSvc := service.NewListService(store)
	itemSvc := service.NewItemService(store, hub)

	ws := realtime.NewHandler(hub, tokens)
	handler := server.New(authSvc, listSvc, itemSvc, tokens, ws)

	// h2c lets non-upgrade clients speak HTTP/2 without TLS; websocket
	// upgrades pass through on HTTP/1.1.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
