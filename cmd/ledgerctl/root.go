package main

import (
	"io"

	"github.com/spf13/cobra"

	"freelance-ledger/internal/app"
	"freelance-ledger/internal/config"
	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/models"
)

// cli carries what every subcommand shares. app is opened by the root's
// pre-run hook and closed by run.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configFile string
	envFile    string
	logLevel   string
	dbPath     string

	app *app.App
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Administer a freelance ledger database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			if err := cmd.ValidateRequiredFlags(); err != nil {
				return err
			}
			return c.open(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: search ./config.yaml)")
	pf.StringVar(&c.envFile, "env", ".env", "dotenv file")
	pf.StringVar(&c.logLevel, "log-level", "", "override log.level")
	pf.StringVar(&c.dbPath, "db", "", "sqlite database path (overrides storage.sqlite_path)")

	root.AddCommand(
		newSeedCmd(c),
		newUserCmd(c),
		newReportCmd(c),
		newExportCmd(c),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{ConfigFile: c.configFile, EnvFile: c.envFile})
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.dbPath != "" {
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.SQLitePath = c.dbPath
	}

	log := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	if la, ok := log.(*logging.LogrusAdapter); ok {
		la.SetOutput(c.stderr)
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func identity(subject string) models.Identity {
	return models.Identity{Subject: subject}
}
