package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"hexisle/internal/server"
)

// envConfig is filled from the environment after .env loading. Flags
// default to these values, so a flag beats the environment.
type envConfig struct {
	Port      string        `env:"PORT" envDefault:"30000"`
	DBPath    string        `env:"DB_PATH" envDefault:"data/hexisle.db"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
}

func main() {
	// Load .env if present; the real environment wins.
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	port := flag.String("port", ec.Port, "Server port")
	dbPath := flag.String("db", ec.DBPath, "Database path")
	jwtSecret := flag.String("jwt-secret", ec.JWTSecret, "Session token signing secret")
	tokenTTL := flag.Duration("token-ttl", ec.TokenTTL, "Session token lifetime")
	flag.Parse()

	secret := *jwtSecret
	if secret == "" {
		// Ephemeral secret: sessions will not survive a restart.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatalf("Failed to generate token secret: %v", err)
		}
		secret = hex.EncodeToString(buf)
		log.Printf("JWT_SECRET not set, using an ephemeral secret")
	}

	cfg := server.Config{
		Addr:      ":" + *port,
		DBPath:    *dbPath,
		JWTSecret: secret,
		TokenTTL:  *tokenTTL,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle shutdown gracefully
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Hexisle server running on %s", cfg.Addr)
	log.Printf("Database: %s", cfg.DBPath)

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
