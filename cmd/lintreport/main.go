package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lintreport/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "lintreport",
	Short:        "Aggregate analyzer findings into SonarLint XML reports",
	Long:         `lintreport groups code-analysis issues by file and writes them as a SonarLint XML report`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(xmlCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|info|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
}

// main executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
