// Package cli implements the atsctl command line: offline scoring against
// the same pipeline the API serves.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"resume-ats/internal/analyses"
	"resume-ats/internal/bootstrap"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

type configKeyType struct{}

var configKey = configKeyType{}

// serviceBuilder assembles an analysis service without storage. Tests swap it.
var serviceBuilder = func(ctx context.Context, cfg config.Config) (*analyses.Service, func(), error) {
	pipeline, tiered, embedder, err := bootstrap.BuildPipeline(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = tiered.Close()
		if embedder != nil {
			_ = embedder.Close()
		}
	}
	return &analyses.Service{Pipeline: pipeline, MaxUploadBytes: cfg.MaxUploadBytes}, cleanup, nil
}

// NewRootCmd builds the atsctl command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "atsctl",
		Short: "Score résumés against job descriptions",
		Long: `atsctl runs the ATS analysis pipeline locally. It reads a résumé
(PDF, DOCX or plain text) and a job description and prints the score,
keyword coverage and suggestions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return telemetry.Init(telemetry.Options{Format: "console", Level: logLevel})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newStatusCmd())
	return root
}

// Execute runs the command tree with cfg available to every subcommand.
func Execute(ctx context.Context, cfg config.Config) error {
	root := NewRootCmd()
	root.SetContext(context.WithValue(ctx, configKey, cfg))
	return root.Execute()
}

func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Load()
}
