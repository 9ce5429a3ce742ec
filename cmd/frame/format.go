// ABOUTME: Output helpers shared by CLI commands.
// ABOUTME: Date argument parsing, value formatting, and column padding.
package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/harperreed/frame/internal/goal"
	"github.com/harperreed/frame/internal/models"
)

var (
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
)

// parseDay accepts YYYY-MM-DD, "today", or "yesterday".
func parseDay(arg, today string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return models.AddDays(today, -1)
	}
	if err := models.ValidateDate(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// cellText renders a logged value as plain text and reports whether it meets the goal.
func cellText(m models.MetricDefinition, v models.Value) (string, bool) {
	if v.IsNull() {
		return "·", false
	}
	text := v.String()
	if b, ok := v.Boolean(); ok {
		text = "no"
		if b {
			text = "yes"
		}
	}
	if goal.IsGoalMet(m, v) {
		return text + " ✓", true
	}
	return text, false
}

// formatCell pads a value to width and colors it: green when met, faint when empty.
func formatCell(m models.MetricDefinition, v models.Value, width int) string {
	text, met := cellText(m, v)
	text = padRight(text, width)
	switch {
	case met:
		return green.Sprint(text)
	case v.IsNull():
		return faint.Sprint(text)
	}
	return text
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
