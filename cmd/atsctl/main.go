package main

import (
	"context"
	"os"

	"resume-ats/internal/cli"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	err := cli.Execute(context.Background(), cfg)
	telemetry.Sync()
	if err != nil {
		os.Exit(1)
	}
}
