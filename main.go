package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seo-analysis",
		Short:         "SEO analysis aggregation API",
		Long:          "Collects SERP rankings, keyword metrics and a technical audit for a customer site and aggregates competitors across keywords.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
