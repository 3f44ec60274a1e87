package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDemoFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(),
		&cli.IntFlag{
			Name:  "stores",
			Usage: "Number of stores to create",
			Value: 5,
		},
		&cli.IntFlag{
			Name:  "skus",
			Usage: "Number of SKUs to create",
			Value: 200,
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Days of sales history to generate",
			Value: 60,
		},
		&cli.Int64Flag{
			Name:  "rand-seed",
			Usage: "Seed for the random generator, fixed for reproducible demos",
			Value: 42,
		},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and load demo data",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Create tables and indexes (idempotent)",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: runSchema,
			},
			{
				Name:   "demo",
				Usage:  "Generate demo stores, SKUs and sales history",
				Flags:  newDemoFlags(),
				Action: runDemo,
			},
			{
				Name:  "all",
				Usage: "Create the schema, then load demo data",
				Flags: newDemoFlags(),
				Action: func(c *cli.Context) error {
					if err := runSchema(c); err != nil {
						return fmt.Errorf("error creating schema: %w", err)
					}
					if err := runDemo(c); err != nil {
						return fmt.Errorf("error loading demo data: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Println("Creating schema...")
	if err := createSchema(c.Context, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("Schema ready")
	return nil
}

func runDemo(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := demoOptions{
		Stores:   c.Int("stores"),
		SKUs:     c.Int("skus"),
		Days:     c.Int("days"),
		RandSeed: c.Int64("rand-seed"),
	}

	ctx := context.Background()
	if c.Context != nil {
		ctx = c.Context
	}

	// Everything lands in one transaction so a failed run leaves no
	// half-seeded database behind.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting demo data generation...")
	stats, err := seedDemoData(ctx, tx, opts)
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Demo data generation complete: %+v", stats)
	return nil
}
