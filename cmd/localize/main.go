// localize manages translation state for structured content from the command
// line: PO export/import, machine translation and progress reporting.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	localize "github.com/goliatone/go-localize"
)

var (
	configPath  string
	catalogPath string
	locale      string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "localize",
		Short: "Translation state manager for structured content",
		Long: `localize reconciles translation state for structured editorial content.

Segments are read from a catalog file describing one source snapshot; the
translation store is selected by the configuration file (in-memory or
sqlite). Exported PO files embed the session id so imports can be matched
back to the session they came from.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (YAML)")
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "catalog.yaml", "Catalog file describing the source snapshot")
	root.PersistentFlags().StringVar(&locale, "locale", "", "Target locale")

	root.AddCommand(
		newPoCmd(),
		newTranslateCmd(),
		newStatusCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadModule(ctx context.Context) (*localize.Module, error) {
	cfg := localize.DefaultConfig()
	if configPath != "" {
		loaded, err := localize.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	module, err := localize.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := module.Migrate(ctx); err != nil {
		module.Close()
		return nil, err
	}
	return module, nil
}

// catalogFile is the on-disk description of one source snapshot.
type catalogFile struct {
	ObjectID     string `yaml:"object_id"`
	SourceLocale string `yaml:"source_locale"`
	Strings      []struct {
		Order int    `yaml:"order"`
		Path  string `yaml:"path"`
		Text  string `yaml:"text"`
	} `yaml:"strings"`
	Overridables []struct {
		Order int    `yaml:"order"`
		Path  string `yaml:"path"`
		Data  string `yaml:"data"`
	} `yaml:"overridables"`
}

func loadCatalog() (*localize.Catalog, error) {
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", catalogPath, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", catalogPath, err)
	}

	objectID, err := uuid.Parse(file.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("catalog object_id: %w", err)
	}

	strs := make([]localize.StringSegment, 0, len(file.Strings))
	for _, segment := range file.Strings {
		strs = append(strs, localize.StringSegment{
			Order: segment.Order,
			Path:  localize.ContentPath(segment.Path),
			Text:  segment.Text,
		})
	}
	overridables := make([]localize.OverridableSegment, 0, len(file.Overridables))
	for _, segment := range file.Overridables {
		overridables = append(overridables, localize.OverridableSegment{
			Order: segment.Order,
			Path:  localize.ContentPath(segment.Path),
			Data:  []byte(segment.Data),
		})
	}

	return localize.NewCatalog(objectID, file.SourceLocale, strs, overridables)
}

func requireLocale() error {
	if locale == "" {
		return fmt.Errorf("--locale is required")
	}
	return nil
}

func newPoCmd() *cobra.Command {
	po := &cobra.Command{
		Use:   "po",
		Short: "Export and import gettext PO files",
	}
	po.AddCommand(newPoExportCmd(), newPoImportCmd())
	return po
}

func newPoExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog and its translations as a PO file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLocale(); err != nil {
				return err
			}
			ctx := cmd.Context()

			module, err := loadModule(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			service := module.Translations()
			session, _, err := service.EnsureSession(ctx, catalog, locale)
			if err != nil {
				return err
			}
			records, err := service.Records(ctx, catalog.ObjectID, locale)
			if err != nil {
				return err
			}

			file := module.Po().Export(session, catalog, records)

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return file.Write(out)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newPoImportCmd() *cobra.Command {
	var inPath string
	var actorID string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import translated entries from a PO file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLocale(); err != nil {
				return err
			}
			if inPath == "" {
				return fmt.Errorf("--in is required")
			}
			ctx := cmd.Context()

			module, err := loadModule(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			var actor *uuid.UUID
			if actorID != "" {
				parsed, err := uuid.Parse(actorID)
				if err != nil {
					return fmt.Errorf("--actor: %w", err)
				}
				actor = &parsed
			}

			service := module.Translations()
			session, _, err := service.EnsureSession(ctx, catalog, locale)
			if err != nil {
				return err
			}

			f, err := os.Open(inPath)
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := module.Po().Import(ctx, session, catalog, f, actor)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", result.Imported, result.Skipped)
			for _, warning := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %q at %q\n", warning.Kind, warning.Text, warning.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "PO file to import")
	cmd.Flags().StringVar(&actorID, "actor", "", "Actor id recorded on imported translations")
	return cmd
}

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Machine translate every untranslated segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLocale(); err != nil {
				return err
			}
			ctx := cmd.Context()

			module, err := loadModule(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			service := module.Translations()
			if _, _, err := service.EnsureSession(ctx, catalog, locale); err != nil {
				return err
			}

			count, err := service.MachineTranslate(ctx, catalog, locale, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "translated %d segments\n", count)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show translation progress for the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLocale(); err != nil {
				return err
			}
			ctx := cmd.Context()

			module, err := loadModule(ctx)
			if err != nil {
				return err
			}
			defer module.Close()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			service := module.Translations()
			total, translated, err := service.Progress(ctx, catalog, locale)
			if err != nil {
				return err
			}
			status, err := service.StatusDisplay(ctx, catalog, locale)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d translated (%s)\n", locale, translated, total, status)
			return nil
		},
	}
}
