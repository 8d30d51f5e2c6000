package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BenInbound/survey-app-v2-sub000/internal/api"
	"github.com/BenInbound/survey-app-v2-sub000/internal/config"
	"github.com/BenInbound/survey-app-v2-sub000/internal/db"
	"github.com/BenInbound/survey-app-v2-sub000/internal/middleware"
	"github.com/BenInbound/survey-app-v2-sub000/internal/utils"
)

func main() {
	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Alignment API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})

	// Serve the built frontend when a static dir is configured
	// (fullstack image); otherwise the API runs standalone.
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.LocaleMiddleware(
					middleware.WithAuth(mux)))))

	log.Printf("Alignment server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore selects the persistence backend. ALIGN_STORE=memory keeps
// everything in process for local development; the default is sqlite at
// ALIGN_SQLITE_PATH with embedded migrations applied on boot.
func openStore(cfg *config.Config) (api.Store, error) {
	if os.Getenv("ALIGN_STORE") == "memory" {
		log.Printf("using in-memory store; data will not survive a restart")
		return api.NewMemoryStore(), nil
	}
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(cfg.SQLitePath))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.RunMigrations(sqliteDB, cfg.MigrationsDir); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db.NewStore(sqliteDB)
}
