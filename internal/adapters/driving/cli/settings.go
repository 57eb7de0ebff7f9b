package cli

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chunking, search, answer, model, server and storage settings.

Settings are stored in config.toml inside the configuration directory.
Every key can also be overridden by an environment variable, for example
PDFCHAT_LLM_MODE=ollama.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting and save it to config.toml.

Run 'pdfchat settings keys' to list the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List recognised setting keys",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noServices: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		keys := services.SettingKeys()
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Println(k)
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Limit: %d\n", settings.Search.Limit)
	cmd.Println()

	cmd.Println("[Answer]")
	cmd.Printf("  Preview chars: %d\n", settings.Answer.PreviewChars)
	cmd.Printf("  Context chars: %d\n", settings.Answer.ContextChars)
	cmd.Printf("  Context paragraphs: %d\n", settings.Answer.ContextParagraphs)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Mode: %s\n", settings.LLM.Mode.Description())
	if settings.LLM.Mode == domain.LLMModeOllama {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Mode.Enabled() {
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
		cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
		cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
		cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Max upload: %d MB\n", settings.Server.MaxUploadBytes>>20)
	if settings.Server.ChatRatePerSecond > 0 {
		cmd.Printf("  Chat rate: %.2f/s (burst %d)\n", settings.Server.ChatRatePerSecond, settings.Server.ChatBurst)
	} else {
		cmd.Println("  Chat rate: unlimited")
	}
	cmd.Printf("  Sessions: %d max, idle %s\n", settings.Server.MaxSessions, settings.Server.SessionTTL)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	switch settings.Storage.Backend {
	case domain.StorageSQLite:
		path := settings.Storage.Path
		if path == "" {
			path = "(default)"
		}
		cmd.Printf("  Path: %s\n", path)
	case domain.StoragePostgres:
		cmd.Printf("  DSN: %s\n", maskDSN(settings.Storage.DSN))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: settings are not valid yet: %v\n", err)
	}
	return nil
}

// maskDSN hides the password of a URL style connection string.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
