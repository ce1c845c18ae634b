package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// every command prints with the same layout
// ═══════════════════════════════════════════════════════════

// PrintJobHeader prints a formatted job header
func PrintJobHeader(title, target string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	if target != "" {
		fmt.Printf("  Target    : %s\n", target)
		PrintSeparator()
	}
}

// PrintJobCompletion prints job completion message
func PrintJobCompletion(seconds float64) {
	fmt.Println()
	fmt.Printf("✅ Completed in %.2fs\n", seconds)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTable prints headers and rows with columns sized to their widest cell
func PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	printRow(headers, widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	fmt.Println(strings.Repeat("─", total))

	for _, row := range rows {
		printRow(row, widths)
	}
}

func printRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Print(val)
		if i < len(values)-1 {
			fmt.Print(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}
