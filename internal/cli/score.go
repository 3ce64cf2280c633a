package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-ats/internal/analyses"
)

type scoreOptions struct {
	resumePath string
	jobPath    string
	mode       string
	asJSON     bool
}

func newScoreCmd() *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a résumé file against a job description file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.resumePath, "resume", "r", "", "path to the résumé (pdf, docx or txt)")
	cmd.Flags().StringVarP(&opts.jobPath, "job", "j", "", "path to the job description text")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "full", "analysis type: full, quick or keywords_only")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full response as JSON")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func runScore(cmd *cobra.Command, opts scoreOptions) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	job, err := os.ReadFile(opts.jobPath)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}
	f, err := os.Open(opts.resumePath)
	if err != nil {
		return fmt.Errorf("open résumé: %w", err)
	}
	defer f.Close()

	svc, cleanup, err := serviceBuilder(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.AnalyzeUpload(ctx, analyses.Upload{
		FileName:       filepath.Base(opts.resumePath),
		Body:           f,
		JobDescription: string(job),
		AnalysisType:   opts.mode,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printSummary(out, resp)
	return nil
}

func printSummary(w io.Writer, resp analyses.Response) {
	m := resp.Metadata
	fmt.Fprintf(w, "Score: %d/100 (%s)\n", resp.Score, m.AnalysisType)
	fmt.Fprintf(w, "  keyword %d  semantic %d  structure %d\n", m.KeywordScore, m.SemanticScore, m.StructureScore)
	if m.SemanticError != nil {
		fmt.Fprintf(w, "  semantic unavailable: %s\n", m.SemanticError.Message)
	}
	fmt.Fprintf(w, "Matched keywords: %s\n", joinOrNone(resp.KeywordMatches))
	fmt.Fprintf(w, "Missing keywords: %s\n", joinOrNone(resp.MissingKeywords))
	if len(resp.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "Suggestions:")
	for _, s := range resp.Suggestions {
		fmt.Fprintf(w, "  [%s] %s: %s\n", s.Impact, s.Title, s.Description)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
