package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lintreport/internal/rules"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the rule metadata cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := rules.OpenDiskCache(cacheAppName)
		if err != nil {
			return fmt.Errorf("failed to open rule cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached rule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := rules.OpenDiskCache(cacheAppName)
		if err != nil {
			return fmt.Errorf("failed to open rule cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear rule cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
