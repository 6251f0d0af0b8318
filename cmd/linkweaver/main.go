// Package main is the entry point for the linkweaver CLI.
// It provides transform and audit commands over local rule and content files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linkweaver/linkweaver-oss/pkg/config"
	"github.com/linkweaver/linkweaver-oss/pkg/domain"
	"github.com/linkweaver/linkweaver-oss/pkg/engine"
	"github.com/linkweaver/linkweaver-oss/pkg/logging"
	"github.com/linkweaver/linkweaver-oss/pkg/storage"
)

const defaultLogLevel = "warn"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for linkweaver
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linkweaver",
		Short: "Keyword-to-link annotation engine",
		Long: `Annotates content with hyperlinks based on keyword rules, and audits
existing content to report how often each rule's keyword appears.

Examples:
  linkweaver transform --rules rules.yaml --item-type post page.html
  linkweaver audit --rules rules.yaml --rule-id shoes content/`,
	}

	rootCmd.PersistentFlags().StringP("rules", "r", "rules.yaml", "Path to rule file (YAML or JSON)")
	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newTransformCmd())
	rootCmd.AddCommand(newAuditCmd())
	return rootCmd
}

func newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [content file]",
		Short: "Annotate a content file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransform,
	}
	cmd.Flags().String("item-id", "", "Content item id (defaults to the file name)")
	cmd.Flags().String("item-type", "", "Content item type tag")
	return cmd
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [content dir]",
		Short: "Audit keyword usage for one rule across a content directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runAudit,
	}
	cmd.Flags().String("rule-id", "", "Rule to audit (required)")
	cmd.Flags().String("type", "", "Content type tag assigned to loaded files")
	_ = cmd.MarkFlagRequired("rule-id")
	return cmd
}

func runTransform(cmd *cobra.Command, args []string) error {
	svc, err := buildService(cmd, nil)
	if err != nil {
		return err
	}

	contentPath := args[0]
	raw, err := os.ReadFile(contentPath) // #nosec G304 -- operator-supplied path
	if err != nil {
		return fmt.Errorf("read content file: %w", err)
	}

	itemID, _ := cmd.Flags().GetString("item-id")
	if itemID == "" {
		itemID = filepath.Base(contentPath)
	}
	itemType, _ := cmd.Flags().GetString("item-type")

	item := domain.ContentItem{ID: itemID, Type: itemType, RawMarkup: string(raw)}
	annotated, err := svc.TransformContent(cmd.Context(), string(raw), item)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), annotated)
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	itemType, _ := cmd.Flags().GetString("type")

	store := storage.NewMemoryContentStore()
	if err := loadContentDir(store, args[0], itemType); err != nil {
		return err
	}

	svc, err := buildService(cmd, store)
	if err != nil {
		return err
	}

	ruleID, _ := cmd.Flags().GetString("rule-id")
	report, err := svc.AuditRule(cmd.Context(), ruleID)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func buildService(cmd *cobra.Command, content domain.ContentRepository) (*engine.Service, error) {
	rulesPath, _ := cmd.Flags().GetString("rules")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logger := logging.NewLogger(logging.Config{Level: logLevel, Pretty: true})

	snapshot, err := config.LoadSnapshot(rulesPath)
	if err != nil {
		return nil, err
	}
	ruleSet, skipped := snapshot.ToDomain()
	for _, id := range skipped {
		logger.Warn().Str("rule_id", id).Msg("skipping malformed rule")
	}

	return engine.NewService(engine.Options{
		Rules:   storage.NewMemoryRuleStore(ruleSet),
		Content: content,
		Logger:  logger,
	})
}

// loadContentDir loads every HTML/text file in dir into the store, keyed by
// file name.
func loadContentDir(store *storage.MemoryContentStore, dir, itemType string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read content dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".html", ".htm", ".txt", ".md":
		default:
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- operator-supplied dir
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		store.Put(domain.ContentItem{
			ID:        name,
			Type:      itemType,
			Title:     strings.TrimSuffix(name, filepath.Ext(name)),
			RawMarkup: string(data),
		})
	}
	return nil
}
