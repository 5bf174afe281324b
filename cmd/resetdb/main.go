// Command resetdb drops the folder and image tables for the current
// ENVIRONMENT prefix and, with -recreate, applies the schema again.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"clipnest/internal/config"
	"clipnest/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	recreate := flag.Bool("recreate", false, "apply the schema again after dropping")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop production tables")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.DropTables(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}
	fmt.Printf("Tables dropped (prefix: %q)\n", cfg.TablePrefix)

	if *recreate {
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		fmt.Println("Schema applied")
	}
}
