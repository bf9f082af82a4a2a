package main

import (
	"context"
	"encoding/json"
	"fmt"

	"SEO_Analysis/internal/config"
	"SEO_Analysis/internal/logger"
	"SEO_Analysis/internal/models"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		websiteURL string
		keywords   []string
		cacheType  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one SEO analysis and print the result as JSON",
		Long:  "Analyze a customer site once against the configured provider and print the AnalysisResult.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cacheType != "" {
				cfg.CacheType = cacheType
			}

			appLogger, cleanup, err := initializeLogger(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := newPipeline(cfg, appLogger)
			if err != nil {
				return err
			}
			defer p.Close()

			return runAnalyze(cmd.Context(), cmd, p, websiteURL, keywords)
		},
	}

	cmd.Flags().StringVarP(&websiteURL, "url", "u", "", "customer website URL")
	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "target keywords (repeatable or comma separated)")
	cmd.Flags().StringVar(&cacheType, "cache", "", "cache backend: memory, redis or postgres (overrides CACHE_TYPE)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("keywords")

	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, p *pipeline, websiteURL string, keywords []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.EnsureLogEvent(ctx)

	result, err := p.analysis.AnalyzeCustomerSeo(ctx, websiteURL, keywords)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return printResult(cmd, result)
}

func printResult(cmd *cobra.Command, result *models.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
