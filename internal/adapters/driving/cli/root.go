// Package cli implements the pdfchat command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfchat/internal/adapters/driven/extract/pdf"
	"github.com/custodia-labs/pdfchat/internal/app"
	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driving"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
	envFiles  []string
)

// Services used by the commands. initServices fills them from configuration.
var (
	documentService driving.DocumentService
	searchService   driving.SearchService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	modelClient     driven.LLMService
	textExtractor   driven.TextExtractor = pdf.New()
	appSettings                          = domain.DefaultAppSettings()
)

// application is the wired app built by initServices, closed by Execute.
var application *app.App

// noServices marks commands that run without opening storage or the model.
const noServices = "pdfchat/no-services"

// initServices builds the services from configuration.
var initServices = func(ctx context.Context) error {
	a, err := app.New(ctx, app.Options{ConfigDir: configDir, EnvFiles: envFiles})
	if err != nil {
		return err
	}
	application = a
	documentService = a.Documents
	searchService = a.Search
	chatService = a.Chat
	settingsService = a.SettingsSvc
	modelClient = a.LLM
	appSettings = a.Settings
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Chat with your PDF documents",
	Long: `pdfchat answers questions about PDF documents.

Upload PDFs, then ask questions. Answers are the most relevant paragraph
of the best matching document, or are generated by a local Ollama model
from that paragraph when one is configured.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pdfchat)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "environment files to load (default .env)")
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[noServices] == "true" || servicesReady() {
		return nil
	}
	if err := initServices(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	return nil
}

func servicesReady() bool {
	return documentService != nil && searchService != nil &&
		chatService != nil && settingsService != nil
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func closeServices() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn("Closing services: %v", err)
	}
	application = nil
}

var (
	errDocumentServiceMissing = errors.New("document service not configured")
	errSearchServiceMissing   = errors.New("search service not configured")
	errChatServiceMissing     = errors.New("chat service not configured")
	errSettingsServiceMissing = errors.New("settings service not configured")
)
