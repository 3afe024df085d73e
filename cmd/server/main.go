package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"service-area-service/internal/adapters/cache"
	"service-area-service/internal/adapters/isochrone"
	"service-area-service/internal/api"
	"service-area-service/internal/config"
	"service-area-service/internal/platform/db"
	"service-area-service/internal/ports"
	"service-area-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	port := config.Get("PORT", "8080")
	profile := config.Get("TRAVEL_PROFILE", "driving-car")

	breakMinutes, err := strconv.ParseFloat(config.Get("DEFAULT_BREAK_MINUTES", "5"), 64)
	if err != nil || breakMinutes <= 0 {
		log.Fatal("DEFAULT_BREAK_MINUTES must be a positive number")
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	solveCache, closeCache, err := openCache(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	solver, err := isochrone.NewORSSolver(orsKey, solveCache)
	if err != nil {
		log.Fatal(err)
	}

	controller := services.NewController(solver, breakMinutes, profile)
	router := api.NewRouter(controller)

	// Write timeout covers cold-cache solves (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openCache picks the solve-cache backend: Redis when REDIS_ADDR is set,
// Postgres when DATABASE_URL is set (schema via dbtool), otherwise a local
// SQLite file.
func openCache(dbPath string) (ports.SolveCache, func(), error) {
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		ttl, err := time.ParseDuration(config.Get("CACHE_TTL", "168h"))
		if err != nil {
			return nil, nil, fmt.Errorf("openCache: parse CACHE_TTL: %w", err)
		}

		client := redis.NewClient(&redis.Options{Addr: addr})
		log.Printf("solve cache backend=redis addr=%s ttl=%s", addr, ttl)
		return cache.NewRedisSolveCache(client, ttl), func() { _ = client.Close() }, nil
	}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}

		log.Printf("solve cache backend=postgres")
		return cache.NewSQLSolveCache(pg), func() { _ = pg.Close() }, nil
	}

	sqlite, err := openDB(dbPath)
	if err != nil {
		return nil, nil, err
	}

	if err := cache.InitSchema(sqlite); err != nil {
		sqlite.Close()
		return nil, nil, err
	}

	log.Printf("solve cache backend=sqlite path=%s", dbPath)
	return cache.NewSqliteSolveCache(sqlite), func() { _ = sqlite.Close() }, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
