package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkwant/list-to-sheets/internal/config"
)

var (
	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "list-to-sheets",
	Short: "Sort record-list workbooks and sync the newest list to a remote bucket",
}

// Execute runs the CLI and exits non-zero on any fatal error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		cfg = config.Load()
		log = config.NewLogger(cfg.LogLevel)
	})

	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(syncCmd)
}
