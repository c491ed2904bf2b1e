// Package cli holds the plain-terminal helpers the postdeck commands
// print with: the logo and a small set of ANSI color wrappers.
package cli

import (
	"fmt"
	"os"
	"strings"
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func colorsEnabled() bool {
	return os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
}

func colorize(text, color string) string {
	if !colorsEnabled() {
		return text
	}
	return color + text + colorReset
}

// SuccessText wraps text in the success color.
func SuccessText(text string) string {
	return colorize(text, colorGreen)
}

// ErrorText wraps text in the error color.
func ErrorText(text string) string {
	return colorize(text, colorRed)
}

// WarningText wraps text in the warning color.
func WarningText(text string) string {
	return colorize(text, colorYellow)
}

// InfoText wraps text in the info color.
func InfoText(text string) string {
	return colorize(text, colorBlue)
}

// HeaderText wraps text in the bold header color.
func HeaderText(text string) string {
	return colorize(text, colorCyan+colorBold)
}

// DrawLogo returns the postdeck banner shown on the help screens.
func DrawLogo() string {
	logo := strings.Join([]string{
		`                     __      __         __  `,
		`    ____  ____  ____/ /_____/ /__  ____/ /__`,
		`   / __ \/ __ \/ ___/ __/ __  / _ \/ ___/ //_/`,
		`  / /_/ / /_/ (__  ) /_/ /_/ /  __/ /__/ ,<   `,
		` / .___/\____/____/\__/\__,_/\___/\___/_/|_|  `,
		`/_/                                           `,
	}, "\n")
	return colorize(logo, colorCyan) + "\n" +
		colorize("  draft, schedule, and publish social posts", colorBlue)
}

// PrintKV prints an aligned label/value line.
func PrintKV(label, value string) {
	fmt.Printf("  %-14s %s\n", label+":", value)
}
