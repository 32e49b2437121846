package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "numbergame",
	Short:        "Sum three numbers, over HTTP",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		level, err := parseLevel(levelFlag)
		if err != nil {
			return err
		}
		setupLogger(level, format)
		return nil
	},
}

func init() {
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "text"
	}
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("log-format", format, "log format: text or json (LOG_FORMAT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("numbergame %s (built %s)\n", VERSION, BUILDTIME)
	},
}
