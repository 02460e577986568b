package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/kindledapp/kindled-engine/internal/adapters/cache"
	adapterHTTP "github.com/kindledapp/kindled-engine/internal/adapters/handler/http"
	"github.com/kindledapp/kindled-engine/internal/adapters/repository"
	"github.com/kindledapp/kindled-engine/internal/core/domain"
	"github.com/kindledapp/kindled-engine/internal/core/services"
)

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	serverPort := os.Getenv("PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	rdb, err := cache.NewRedisClient(
		os.Getenv("REDIS_HOST"),
		os.Getenv("REDIS_PORT"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable, continuing without cache: %v", err)
		rdb = nil
	} else {
		defer rdb.Close()
		log.Println("Redis connected successfully.")
	}

	userRepo := repository.NewPostgresUserRepository(db)
	logRepo := repository.NewPostgresDailyLogRepository(db)
	statsRepo := repository.NewPostgresStatsRepository(db)

	habitRepo := repository.NewPostgresHabitRepository(db)

	var wrappedHabitRepo domain.HabitRepository = habitRepo
	if rdb != nil {
		wrappedHabitRepo = repository.NewCachedHabitRepository(habitRepo, rdb)
	}

	transactor := repository.NewSQLTransactor(db)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, "kindled-engine", 24*time.Hour, userRepo)
	habitService := services.NewHabitService(wrappedHabitRepo)
	ledger := services.NewXPLedger(habitRepo, logRepo, statsRepo)
	progressService := services.NewProgressService(wrappedHabitRepo, logRepo, userRepo, ledger, transactor)
	statsService := services.NewStatsService(statsRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kindled Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
