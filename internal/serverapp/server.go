package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/haythammda/Gift-Storm/internal/auth"
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/clock"
	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/donation"
	"github.com/haythammda/Gift-Storm/internal/httpmw"
	"github.com/haythammda/Gift-Storm/internal/leaderboard"
	"github.com/haythammda/Gift-Storm/internal/live"
	"github.com/haythammda/Gift-Storm/internal/pages"
	"github.com/haythammda/Gift-Storm/internal/payment"
	"github.com/haythammda/Gift-Storm/internal/player"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
	staticfiles "github.com/haythammda/Gift-Storm/static"
)

// telemetryCapacity bounds the in-memory event log served at /api/admin/stats.
const telemetryCapacity = 10000

type Options struct {
	Config *config.Config

	// DataDir overrides Config.Server.DataDir.
	DataDir       string
	StaticDir     string
	UseDiskStatic bool
	Catalog       *catalog.Catalog
	Clock         clock.Clock
	Logger        *log.Logger
}

// Server is the assembled HTTP surface plus the services behind it.
type Server struct {
	Handler     http.Handler
	Players     *player.Registry
	Leaderboard *leaderboard.Service
	Donations   *donation.Service
	Admin       *auth.Service
	Hub         *live.Hub
	Events      *telemetry.MemoryRepository
}

func NewHandler(opts Options) (http.Handler, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.Handler, nil
}

func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = cfg.Server.DataDir
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = "data"
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	clk := clock.Or(opts.Clock)
	inMemory := cfg.Server.Storage == config.StorageMemory

	events := telemetry.NewMemoryRepository(clk, telemetryCapacity)
	srv := &Server{Events: events}

	// Services publish into the hub; its hello snapshot reads the donation
	// service, so the hub is built first and the snapshot resolved lazily.
	srv.Hub = live.NewHub(live.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Snapshot: func() any {
			if srv.Donations == nil {
				return nil
			}
			return srv.Donations.Status()
		},
		Logger: opts.Logger,
	})

	var (
		authRepo     auth.Repository
		scoreRepo    leaderboard.Repository
		donationRepo donation.Repository
		players      player.RepoSource
	)
	if inMemory {
		authRepo = auth.NewMemoryRepo()
		scoreRepo = leaderboard.NewMemoryRepo()
		donationRepo = donation.NewMemoryRepo()
		players = player.MemorySource()
	} else {
		a, err := auth.NewFileRepo(filepath.Join(opts.DataDir, "auth"))
		if err != nil {
			return nil, err
		}
		l, err := leaderboard.NewFileRepo(opts.DataDir)
		if err != nil {
			return nil, err
		}
		d, err := donation.NewFileRepo(opts.DataDir)
		if err != nil {
			return nil, err
		}
		p, err := player.NewFileRepo(filepath.Join(opts.DataDir, "players"))
		if err != nil {
			return nil, err
		}
		authRepo, scoreRepo, donationRepo, players = a, l, d, player.FileSource(p)
	}

	authService, err := auth.NewService(auth.Options{
		Repo:      authRepo,
		AdminKey:  cfg.Admin.Key,
		JWTSecret: cfg.Admin.JWTSecret,
		TokenTTL:  cfg.Admin.TokenTTL,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	srv.Admin = authService
	logSecurityHints(opts.Logger, cfg, authService)

	srv.Leaderboard = leaderboard.NewService(leaderboard.Options{
		Repo:      scoreRepo,
		Clock:     clk,
		Logger:    opts.Logger,
		Telemetry: events,
		Live:      srv.Hub,
	})

	srv.Donations, err = donation.NewService(donation.Options{
		Repo:       donationRepo,
		Milestones: opts.Catalog.Milestones,
		Defaults: donation.State{
			Goal:          cfg.Donation.Goal,
			URL:           cfg.Donation.URL,
			DevSimulation: cfg.Donation.DevSimulation,
		},
		Logger:    opts.Logger,
		Telemetry: events,
		Live:      srv.Hub,
	})
	if err != nil {
		return nil, err
	}

	srv.Players = player.NewRegistry(players, player.Options{
		Catalog:   opts.Catalog,
		Logger:    opts.Logger,
		Telemetry: events,
	})

	r := mux.NewRouter()
	r.Use(httpmw.WithAccessLog(opts.Logger))
	r.NotFoundHandler = httpmw.WithAccessLog(opts.Logger)(http.HandlerFunc(notFound))

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticHandler))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "giftstorm",
			"time":    clk.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := srv.Leaderboard.Top(1); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "leaderboard storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":          true,
			"service":     "giftstorm",
			"subscribers": srv.Hub.Count(),
			"time":        clk.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", srv.Hub.ServeWS)

	// Public game data.
	gameAPI := newGameAPI(opts.Catalog, cfg.Balance)
	r.HandleFunc("/api/catalog", gameAPI.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/api/levels", gameAPI.Levels).Methods(http.MethodGet)
	r.HandleFunc("/api/levels/{id:[0-9]+}", gameAPI.Level).Methods(http.MethodGet)
	r.HandleFunc("/api/difficulty", gameAPI.Difficulty).Methods(http.MethodGet)
	r.HandleFunc("/api/schema/{name}", gameAPI.Schema).Methods(http.MethodGet)

	playerHandler := player.NewHandler()
	playerHandler.SetStoreResolver(player.RegistryResolver(srv.Players))
	r.HandleFunc("/api/profile", playerHandler.Profile)
	r.HandleFunc("/api/profile/cmd", playerHandler.Cmd)

	scoreHandler := leaderboard.NewHandler(srv.Leaderboard)
	r.HandleFunc("/api/scores", scoreHandler.Scores)
	r.HandleFunc("/api/score", scoreHandler.Submit)

	donationHandler := donation.NewHandler(srv.Donations)
	r.HandleFunc("/api/status", donationHandler.Status)

	checkout := payment.HostedCheckout{
		CheckoutURL: cfg.Payment.CheckoutBaseURL,
		PublicURL:   cfg.Payment.PublicBaseURL,
		Catalog:     opts.Catalog,
	}
	paymentHandler := payment.NewHandler(checkout, opts.Catalog, opts.Logger, events)
	paymentHandler.SetGranteeResolver(func(r *http.Request) (payment.Grantee, error) {
		st, err := srv.Players.Store(r.Header.Get(player.PlayerIDHeader))
		if err != nil {
			return nil, err
		}
		return st, nil
	})
	r.HandleFunc("/api/shop-products", paymentHandler.Products)
	r.HandleFunc("/api/create-checkout", paymentHandler.Checkout)
	r.HandleFunc("/api/purchase/complete", paymentHandler.Complete)

	// Admin.
	authHandler := auth.NewHandler(authService)
	r.HandleFunc("/api/admin/login", authHandler.Login)
	r.HandleFunc("/api/admin/session", authHandler.Session)
	r.HandleFunc("/api/admin/logout", authHandler.Logout)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(authService.RequireAPI)
	admin.HandleFunc("/update", donationHandler.Update)
	admin.HandleFunc("/simulate", donationHandler.Simulate)
	admin.HandleFunc("/reset-leaderboard", scoreHandler.Reset)
	admin.HandleFunc("/stats", statsHandler(events, clk)).Methods(http.MethodGet)
	admin.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}).Methods(http.MethodGet)

	// Pages.
	r.Handle("/", templ.Handler(pages.HomePage())).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		scores, err := srv.Leaderboard.Top(leaderboard.DefaultTopLimit)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		templ.Handler(pages.LeaderboardPage(scores)).ServeHTTP(w, r)
	}).Methods(http.MethodGet)
	r.HandleFunc("/donate", func(w http.ResponseWriter, r *http.Request) {
		templ.Handler(pages.DonationPage(srv.Donations.Status())).ServeHTTP(w, r)
	}).Methods(http.MethodGet)

	srv.Handler = httpmw.Chain(
		r,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithCORS(cfg.Server.AllowedOrigins),
	)
	return srv, nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GIFTSTORM_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	http.NotFound(w, r)
}

func logSecurityHints(logger *log.Logger, cfg *config.Config, admin *auth.Service) {
	if logger == nil {
		return
	}
	if !admin.Enabled() {
		logger.Printf("[security] GIFTSTORM_ADMIN_KEY unset; admin endpoints are disabled")
	}
	env := strings.ToLower(strings.TrimSpace(os.Getenv("GIFTSTORM_ENV")))
	cookieSecure := strings.ToLower(strings.TrimSpace(os.Getenv("GIFTSTORM_COOKIE_SECURE")))
	if env == "production" || env == "prod" {
		if cookieSecure != "1" && cookieSecure != "true" && cookieSecure != "yes" {
			logger.Printf("[security] GIFTSTORM_ENV=%s but GIFTSTORM_COOKIE_SECURE is not explicitly true", env)
		}
		if cfg.Donation.DevSimulation {
			logger.Printf("[security] GIFTSTORM_ENV=%s with donation dev simulation enabled", env)
		}
		if len(cfg.Server.AllowedOrigins) == 0 {
			logger.Printf("[security] GIFTSTORM_ENV=%s and no allowed websocket origins configured", env)
		}
	}
}
