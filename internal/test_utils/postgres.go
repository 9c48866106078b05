package test_utils

import (
	"context"
	"database/sql"

	"github.com/budgetbot/budgetbot/internal/config"
	"github.com/budgetbot/budgetbot/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestWithDB starts a disposable Postgres container, applies all migrations
// and returns the container together with a connector for the migrated
// database. Callers terminate the container when done.
func TestWithDB() (*postgres.PostgresContainer, func() *sql.DB) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithDatabase("budgetbot"),
		postgres.WithUsername("test_budgetbot"),
		postgres.WithPassword("test_budgetbot"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Fatalf("Failed to start postgres container: %v", err)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")

	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   "test_budgetbot",
		Pass:   "test_budgetbot",
		Name:   "budgetbot",
		Schema: "public",
	}

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	return container, func() *sql.DB {
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}
		return db
	}
}
