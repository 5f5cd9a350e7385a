package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ecamli/monk/internal/auth"
	"github.com/ecamli/monk/internal/config"
	"github.com/ecamli/monk/internal/export"
	"github.com/ecamli/monk/internal/session"
	"github.com/ecamli/monk/internal/store"
	"github.com/ecamli/monk/internal/tui"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "monk",
	Short: "A terminal habit and focus session tracker",
	Long: `monk tracks date-bounded tasks with a daily session quota and a single
global countdown timer. Completed sessions feed streaks and analytics.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, provider, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		machine, err := session.New(st)
		if err != nil {
			return err
		}

		app := tui.NewApp(st, machine, provider)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full state to a CSV or JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.Snapshot()
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		dateStr := time.Now().Format("2006-01-02")

		switch exportFormat {
		case "csv":
			if path == "" {
				path = fmt.Sprintf("monk-export-%s.csv", dateStr)
			}
			if err := export.ToCSV(snap, path); err != nil {
				return err
			}
		case "json":
			if path == "" {
				path = fmt.Sprintf("monk-export-%s.json", dateStr)
			}
			if err := export.ToJSON(snap, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
		}

		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func openStore() (*store.Store, auth.Provider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	return st, auth.NewFileProvider(cfg.Auth), nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "path to config file")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format (csv or json)")
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
