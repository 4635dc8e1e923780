package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dizid/unplugged-cv/internal/analyze"
	"github.com/dizid/unplugged-cv/internal/config"
	"github.com/dizid/unplugged-cv/internal/llm"
)

var parseJobInput string

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Parse a job posting into structured requirements JSON",
	Long:  "Parse a job posting text file (or stdin) into structured requirements JSON: skills, seniority, compensation signals and red flags.",
	RunE:  runParseJob,
}

func init() {
	parseJobCmd.Flags().StringVarP(&parseJobInput, "in", "i", "", "Path to job posting text file (default: stdin)")
	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var text []byte
	if parseJobInput != "" {
		text, err = os.ReadFile(parseJobInput)
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read job posting: %w", err)
	}

	client, err := llm.NewGeminiClient(cmd.Context(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	parsed, err := analyze.New(client).Analyze(cmd.Context(), string(text))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
