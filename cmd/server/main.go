package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// @title WellMind Tracker API
// @version 1.0
// @description Wellness check-ins with derived scores, classifications and alerts.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFileFlag := &cli.StringFlag{
		Name:    "env-file",
		Value:   "config.env",
		Usage:   "dotenv file loaded before reading the environment",
		EnvVars: []string{"ENV_FILE"},
	}

	app := &cli.App{
		Name:   "wellmind",
		Usage:  "wellness tracking API with scoring and alerting",
		Flags:  []cli.Flag{envFileFlag},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema and exit",
				Action: migrateAction,
			},
			{
				Name:  "alerts",
				Usage: "print the records requiring an alert as JSON",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 0, Usage: "trailing window in days (defaults to ALERT_WINDOW_DAYS)"},
				},
				Action: alertsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("wellmind exited with an error")
	}
}
