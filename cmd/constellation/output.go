package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

// printJSON marshals v as indented JSON to stdout.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		FatalError("encode output: %v", err)
	}
	fmt.Println(string(data))
}

// printTable renders rows under headers. When stdout isn't a terminal
// (e.g. piped into another tool) it falls back to plain tab-separated
// output instead of styled, column-aligned text.
func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("(no results)")
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Println(strings.Join(row, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(padRight(h, widths[i]))
		headerLine.WriteString("  ")
	}
	fmt.Println(headerStyle.Render(strings.TrimRight(headerLine.String(), " ")))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				line.WriteString(padRight(cell, widths[i]))
				line.WriteString("  ")
			}
		}
		fmt.Println(strings.TrimRight(line.String(), " "))
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
