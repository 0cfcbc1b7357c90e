// Package cmd provides the CLI commands for the mteval tool.
// This file defines the root command and global logging setup.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:   "mteval",
	Short: "mteval - machine translation evaluation scores",
	Long: `mteval computes corpus-level and sentence-level machine translation
evaluation scores (chrF, BLEU) from plain-text hypothesis and reference
files, with reproducible configuration signatures.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if rootVerbose {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable informational logging")
}

func Execute() error {
	return rootCmd.Execute()
}
