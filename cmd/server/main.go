package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inkthread/inkthread/backend-go/internal/artwork"
	"github.com/inkthread/inkthread/backend-go/internal/auth"
	"github.com/inkthread/inkthread/backend-go/internal/catalog"
	"github.com/inkthread/inkthread/backend-go/internal/config"
	"github.com/inkthread/inkthread/backend-go/internal/db"
	"github.com/inkthread/inkthread/backend-go/internal/design"
	"github.com/inkthread/inkthread/backend-go/internal/live"
	mw "github.com/inkthread/inkthread/backend-go/internal/middleware"
	"github.com/inkthread/inkthread/backend-go/internal/placement"
	"github.com/inkthread/inkthread/backend-go/internal/render"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	authService := auth.NewService(pool, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(pool)
	catalogHandler := catalog.NewHandler(catalogService)

	designService := design.NewService(pool)
	designHandler := design.NewHandler(designService)

	areaLoader := func(ctx context.Context, designID string) (map[placement.Side]placement.PrintArea, error) {
		productID, err := designService.ProductID(ctx, designID)
		if err != nil {
			return nil, err
		}
		return catalogService.PrintAreas(ctx, productID)
	}
	hub := live.NewHub(designService.LatestConfig, designService.SaveConfig, areaLoader)
	go hub.Run()

	artworkHandler := artwork.NewHandler(cfg.AssetDir, pool)
	renderHandler := render.NewHandler()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Product catalog (public)
	r.HandleFunc("/products", catalogHandler.List).Methods("GET")
	r.HandleFunc("/products/{productId}", catalogHandler.Get).Methods("GET")

	// Artwork endpoints (public — the editor uploads before login is forced)
	r.HandleFunc("/artwork/upload", artworkHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/artwork/").Handler(artworkHandler.Serve()).Methods("GET")

	// Preview compositing (public)
	r.HandleFunc("/render/preview", renderHandler.Preview).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/designs", designHandler.List).Methods("GET")
	api.HandleFunc("/designs", designHandler.Create).Methods("POST")
	api.HandleFunc("/designs/{designId}", designHandler.Get).Methods("GET")
	api.HandleFunc("/designs/{designId}", designHandler.Delete).Methods("DELETE")
	api.HandleFunc("/designs/{designId}/snapshots", designHandler.SaveSnapshot).Methods("POST")
	api.HandleFunc("/designs/{designId}/snapshots/latest", designHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint for the live preview
	r.HandleFunc("/ws/design/{designId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, designService, cfg.AllowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so every open room persists its config
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *live.Hub, authSvc *auth.Service, designSvc *design.Service, allowedOrigins string) {
	vars := mux.Vars(r)
	designID := vars["designId"]

	// Auth via query param; browsers cannot set headers on websocket dials
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	customerID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	owner, err := designSvc.Owner(r.Context(), designID)
	if err != nil {
		http.Error(w, "design not found", http.StatusNotFound)
		return
	}
	if owner != customerID {
		http.Error(w, "not your design", http.StatusForbidden)
		return
	}

	customer, err := authSvc.GetCustomer(r.Context(), customerID)
	if err != nil {
		http.Error(w, "customer not found", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(allowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := live.NewClient(hub, conn, customerID, customer.DisplayName, designID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips schemes from the configured origins; the websocket
// library matches on host patterns.
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}
