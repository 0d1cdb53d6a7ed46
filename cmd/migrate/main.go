package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"pool-api/migrations"
)

type seedGame struct {
	date          time.Time
	first, second string
}

var errUsage = errors.New("usage: migrate [up|down|seed]")

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	if len(os.Args) < 2 {
		log.Fatal(errUsage)
	}

	if err := run(context.Background(), os.Args[1], os.Getenv("DATABASE_URL")); err != nil {
		log.Fatal(err)
	}
}

// run executes one migrate command. Resources it opens are released before it returns.
func run(ctx context.Context, command, dbURL string) error {
	switch command {
	case "up", "down", "seed":
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
	if dbURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}

	switch command {
	case "up":
		if err := migrations.Up(dbURL); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		fmt.Println("Migrations applied")

	case "down":
		if err := migrations.Down(dbURL); err != nil {
			return fmt.Errorf("failed to revert migrations: %w", err)
		}
		fmt.Println("Migrations reverted")

	case "seed":
		conn, err := pgx.Connect(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close(ctx)

		n, err := seedGames(ctx, conn, defaultSchedule(time.Now().UTC()))
		if err != nil {
			return fmt.Errorf("failed to seed data: %w", err)
		}
		fmt.Printf("Seeded %d games\n", n)
	}

	return nil
}

// defaultSchedule returns a mix of finished and upcoming games relative to now
func defaultSchedule(now time.Time) []seedGame {
	day := now.Truncate(24 * time.Hour)
	return []seedGame{
		{day.Add(-48 * time.Hour), "BR", "AR"},
		{day.Add(24*time.Hour + 16*time.Hour), "DE", "FR"},
		{day.Add(48*time.Hour + 13*time.Hour), "JP", "KR"},
		{day.Add(72*time.Hour + 19*time.Hour), "US", "MX"},
	}
}

func seedGames(ctx context.Context, conn *pgx.Conn, games []seedGame) (int, error) {
	batch := &pgx.Batch{}
	for _, g := range games {
		batch.Queue(
			`INSERT INTO games (id, date, first_team_country_code, second_team_country_code)
			 VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), g.date, g.first, g.second,
		)
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()
	for range games {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("failed to insert game: %w", err)
		}
	}
	return len(games), nil
}
