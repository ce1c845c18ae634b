package main

import (
	"os"

	"github.com/wonny/telecom-kpi/cmd/kpi/commands"
)

// main is the entry point for the telecom KPI CLI
// ⭐ Unified CLI entry point: go run ./cmd/kpi [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
