package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/clients"
	"epicevents.org/internal/command"
	"epicevents.org/internal/config"
	"epicevents.org/internal/contracts"
	"epicevents.org/internal/employees"
	"epicevents.org/internal/events"
	"epicevents.org/internal/seed"
	"epicevents.org/internal/store/pg"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "epicevents",
		Short:         "Epic Events, the menu-driven CRM for employees, clients, contracts and events",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	root.AddCommand(createEmployeeCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "epicevents:", err)
		os.Exit(1)
	}
}

// createEmployeeCmd bootstraps the first management account so the
// interactive program has someone who can log in.
func createEmployeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-employee",
		Short: "Create an employee account from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.CreateEmployee(cmd.Context())
		},
	}
}

// seedCmd loads the demo dataset.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo employees, clients, contracts and events",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()
			return seed.Demo(cmd.Context(), app.store)
		},
	}
}

func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, err := pg.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	authService, err := auth.NewService(
		st.Employees(), cfg.Token.Secret, cfg.Token.File,
		auth.WithTTL(cfg.Token.TTL()))
	if err != nil {
		st.Close()
		return nil, err
	}

	engine := command.NewEngine()
	employees.Register(engine)
	clients.Register(engine)
	contracts.Register(engine)
	events.Register(engine)

	return &App{
		store:   st,
		auth:    authService,
		engine:  engine,
		console: cli.Stdio(),
		audit:   audit.NewRecorder(st.Audit()),
	}, nil
}
