package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/iterate-backend/config"
	"github.com/oksasatya/iterate-backend/internal/application"
	"github.com/oksasatya/iterate-backend/internal/domain/valueobject"
	pginfra "github.com/oksasatya/iterate-backend/internal/infrastructure/postgres"
	"github.com/oksasatya/iterate-backend/pkg/helpers"
)

// seed upserts a demo user twice through the webhook use case; both runs
// must land on the same row.
func main() {
	clerkID := flag.String("clerk-id", "user_demo", "clerk id of the demo user")
	name := flag.String("name", "demoUser", "display name")
	avatar := flag.String("avatar", "", "avatar url")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	dsn := cfg.PostgresDSN()
	if dsn == "" {
		log.Fatal("DATABASE_URL or DB_HOST must be set")
	}
	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, dsn, pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(dsn, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cmd, err := valueobject.NewSaveUser(*clerkID, *name, *avatar)
	if err != nil {
		log.Fatalf("invalid seed user: %v", err)
	}
	save := application.NewSaveUsersUseCase(pginfra.NewUserRepository(pool), logger)

	first, err := save.Execute(ctx, cmd)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	second, err := save.Execute(ctx, cmd)
	if err != nil {
		log.Fatalf("failed to re-seed user: %v", err)
	}
	if first.ID != second.ID {
		log.Fatalf("upsert is not idempotent: %s != %s", first.ID, second.ID)
	}
	fmt.Printf("seeded user: id=%s clerk_id=%s name=%s\n", second.ID, second.ClerkID, second.Name)
}
