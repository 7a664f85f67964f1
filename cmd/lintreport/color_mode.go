package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func shouldUseColor(mode colorMode, f *os.File) bool {
	switch mode {
	case colorModeOn:
		return true
	case colorModeOff:
		return false
	default:
		return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}

// useColor resolves the global --color flag for stdout.
func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return false, err
	}
	return shouldUseColor(mode, os.Stdout), nil
}
