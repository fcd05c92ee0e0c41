package main

import (
	"fmt"
	"log"
	"time"

	"GostCipher/server/internal/api/gateway"
	"GostCipher/server/internal/config"
	"GostCipher/server/internal/pkg/encryption"
	"GostCipher/server/internal/pkg/helpers"
	"GostCipher/server/internal/services/auth"
	"GostCipher/server/internal/services/cipher"
	"GostCipher/server/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	fmt.Println("Configuration loaded:")
	fmt.Println(cfg)

	helpers.SetDebug(cfg.Log.Debug)

	var cipherOpts []cipher.ServiceOption
	if cfg.Database.Enabled() {
		db := connectDB(cfg.Database)
		defer db.Close()

		// Initialize database schema
		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}
		fmt.Println("Database schema initialized")
		cipherOpts = append(cipherOpts, cipher.WithKeyStore(db))
	}

	// Create services
	engine := encryption.NewGOST(encryption.WithWorkers(cfg.Cipher.Workers))
	cipherService, err := cipher.NewService(engine, cfg.Cipher.DefaultKey, cipherOpts...)
	if err != nil {
		log.Fatalf("Failed to create cipher service: %v", err)
	}
	authService := auth.New(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if !authService.Enabled() {
		log.Printf("Warning: JWT_SECRET is not set, API is open to every client")
	}

	// Create gateway server with services
	gatewayServer := gateway.New(
		cfg.Addr(),
		authService,
		cipherService,
		gateway.WithRequestTimeout(cfg.Server.RequestTimeout),
		gateway.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	// Start gateway server
	if err := gatewayServer.Start(); err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}

// connectDB connects to the keyring database with retries
func connectDB(cfg config.DatabaseConfig) *storage.DB {
	dbConfig := storage.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		SSLMode:  cfg.SSLMode,
	}

	maxRetries := 30
	retryDelay := 2 * time.Second

	for attempt := 1; ; attempt++ {
		db, err := storage.New(dbConfig)
		if err == nil {
			fmt.Printf("✓ Connected to database (attempt %d)\n", attempt)
			return db
		}
		if attempt == maxRetries {
			log.Fatalf("Failed to connect to database after %d attempts: %v", maxRetries, err)
		}
		fmt.Printf("✗ Failed to connect to database (attempt %d/%d): %v\n", attempt, maxRetries, err)
		fmt.Printf("  Retrying in %v...\n", retryDelay)
		time.Sleep(retryDelay)
	}
}
