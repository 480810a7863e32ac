package main

import (
	"shared_pockets/internal/config" // Custom import path (Config)
	"shared_pockets/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Create or update every table
}
