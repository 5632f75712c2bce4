package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"PairLink/internal/domain/models"
	"PairLink/internal/usecase"
	"PairLink/pkg/config"
	xhttp "PairLink/pkg/http"
	applogger "PairLink/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	analyzeFile    string
	analyzeY       string
	analyzeX       string
	analyzeDate    string
	analyzeServer  string
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate two columns of a price CSV",
	Long: `Read a CSV with a header row, take two price columns and print the
JSON pair report. Rows with an empty price in either column are skipped.

Examples:
  pairlink analyze --file prices.csv --y KO --x PEP
  pairlink analyze --file prices.csv --y KO --x PEP --server http://localhost:8080`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "CSV file with a header row")
	analyzeCmd.Flags().StringVar(&analyzeY, "y", "", "column of the dependent series")
	analyzeCmd.Flags().StringVar(&analyzeX, "x", "", "column of the independent series")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "date", "date column, ignored when absent")
	analyzeCmd.Flags().StringVar(&analyzeServer, "server", "", "evaluate on a running server instead of locally")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", time.Minute, "evaluation timeout")
	_ = analyzeCmd.MarkFlagRequired("file")
	_ = analyzeCmd.MarkFlagRequired("y")
	_ = analyzeCmd.MarkFlagRequired("x")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	f, err := os.Open(analyzeFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", analyzeFile, err)
	}
	defer f.Close()

	req, err := readPairCSV(f, analyzeDate, analyzeY, analyzeX)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	report, err := evaluate(ctx, req)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report)
}

func evaluate(ctx context.Context, req *models.PairEvaluationRequest) (*models.PairReport, error) {
	if analyzeServer != "" {
		client := xhttp.NewClient(xhttp.WithBaseURL(analyzeServer), xhttp.WithTimeout(analyzeTimeout))
		var report models.PairReport
		if err := client.Call(ctx, xhttp.MethodPost, "/api/pairs/evaluate", req, &report); err != nil {
			return nil, fmt.Errorf("remote evaluate: %w", err)
		}
		return &report, nil
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if errs := xhttp.ApplyDefaultsAndValidate(ctx, req); errs != nil {
		return nil, fmt.Errorf("invalid input: %s", errs[0].Message)
	}

	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, err
	}
	analyzer, err := usecase.NewPairAnalyzer(cfg.Analysis, nil, nil, l)
	if err != nil {
		return nil, err
	}
	return analyzer.Evaluate(ctx, req)
}

func writeReport(w io.Writer, report *models.PairReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
