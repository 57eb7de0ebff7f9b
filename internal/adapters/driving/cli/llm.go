package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the language model backend",
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the model server is reachable",
	Args:  cobra.NoArgs,
	RunE:  runLLMPing,
}

var llmModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the server",
	Args:  cobra.NoArgs,
	RunE:  runLLMModels,
}

func init() {
	llmCmd.AddCommand(llmPingCmd)
	llmCmd.AddCommand(llmModelsCmd)
	rootCmd.AddCommand(llmCmd)
}

func runLLMPing(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Mode:  %s\n", appSettings.LLM.Mode)
	if modelClient == nil {
		cmd.Println("Status: disabled, answers are extracted from documents")
		return nil
	}

	cmd.Printf("Model: %s\n", modelClient.ModelName())
	start := time.Now()
	if err := modelClient.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	cmd.Printf("Status: reachable (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func runLLMModels(cmd *cobra.Command, _ []string) error {
	if modelClient == nil {
		return fmt.Errorf("no model backend configured (llm.mode = %s)", appSettings.LLM.Mode)
	}

	models, err := modelClient.ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if len(models) == 0 {
		cmd.Println("No models installed.")
		return nil
	}

	current := modelClient.ModelName()
	for _, m := range models {
		marker := " "
		if m.Name == current {
			marker = "*"
		}
		cmd.Printf("%s %-30s %s\n", marker, m.Name, formatSize(m.Size))
	}
	return nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
