package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/silowatch/silowatch/internal/config"
	"github.com/silowatch/silowatch/internal/silowatch"
	"github.com/silowatch/silowatch/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "silowatch",
		Usage: "Silowatch notifies Telegram users when their Silo Finance positions approach liquidation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "telegram-token", Aliases: []string{"T"}, Usage: "Telegram bot token"},
			&cli.StringFlag{Name: "positions-api-url", Aliases: []string{"a"}, Usage: "Position lookup API URL"},
			&cli.IntFlag{Name: "api-port", Usage: "HTTP API port"},
			&cli.IntFlag{Name: "ingest-workers", Usage: "Number of update ingestion workers"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("telegram-token") {
		cfg.TelegramBotToken = c.String("telegram-token")
	}
	if c.IsSet("positions-api-url") {
		cfg.PositionsAPIURL = c.String("positions-api-url")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("ingest-workers") {
		cfg.IngestWorkers = c.Int("ingest-workers")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}

	// Initialize logger
	logg, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	app, err := silowatch.NewApp(cfg, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}
