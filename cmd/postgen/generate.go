// cmd/postgen/generate.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/internal/common/errors"
	"postgen/internal/common/httpclient"
	"postgen/internal/common/logger"
	"postgen/internal/oas"
	"postgen/internal/testsuite"
	"postgen/pkg/postman"
)

type generateFlags struct {
	specPath       string
	collectionPath string
	outputPath     string
	configPath     string
	envFile        string
	baseURL        string
	logLevel       string
}

func newGenerateCommand() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the enriched collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.specPath, "spec", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringVarP(&flags.collectionPath, "collection", "c", "", "input Postman collection (omit to derive a skeleton from the document)")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "output collection path")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "configuration file (default: postgen.yaml lookup)")
	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "env file to load before reading configuration")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "value for the baseUrl collection variable")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runGenerate(flags *generateFlags) error {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", flags.envFile, err)
		}
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, flags)

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Generate.SpecPath == "" {
		return fmt.Errorf("no OpenAPI document given, use --spec or generate.spec_path")
	}

	doc, err := loadDocument(cfg, log)
	if err != nil {
		return err
	}

	col, err := loadCollection(cfg, doc, log)
	if err != nil {
		return err
	}

	if cfg.Generate.BaseURL != "" {
		col.UpsertVariable("baseUrl", cfg.Generate.BaseURL)
	}

	suite := testsuite.New(&cfg.Generate, doc, col, log)
	stats := suite.Execute(nil)

	if err := col.WriteFile(cfg.Generate.OutputPath); err != nil {
		log.WithError(err).Error("failed to write collection", map[string]interface{}{
			"path": cfg.Generate.OutputPath,
		})
		return errors.NewOutputWriteFailedError(cfg.Generate.OutputPath, err)
	}

	log.Info("collection written", map[string]interface{}{
		"path": cfg.Generate.OutputPath,
	})
	printSummary(cfg.Generate.OutputPath, stats)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func applyFlagOverrides(cfg *config.Config, flags *generateFlags) {
	if flags.specPath != "" {
		cfg.Generate.SpecPath = flags.specPath
	}
	if flags.collectionPath != "" {
		cfg.Generate.CollectionPath = flags.collectionPath
	}
	if flags.outputPath != "" {
		cfg.Generate.OutputPath = flags.outputPath
	}
	if flags.baseURL != "" {
		cfg.Generate.BaseURL = flags.baseURL
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
}

func loadDocument(cfg *config.Config, log logger.Logger) (*oas.Document, error) {
	location := cfg.Generate.SpecPath

	var data []byte
	if httpclient.IsURL(location) {
		log.Info("downloading OpenAPI document", map[string]interface{}{"url": location})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Generate.DownloadTimeout())
		defer cancel()

		client := httpclient.NewClient(cfg.Generate.DownloadTimeout())
		fetched, err := client.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		data = fetched
	} else {
		read, err := os.ReadFile(location)
		if err != nil {
			return nil, errors.NewSpecReadFailedError(location, err)
		}
		data = read
	}

	doc, err := oas.Parse(data)
	if err != nil {
		return nil, errors.NewSpecParseFailedError(err)
	}
	return doc, nil
}

func loadCollection(cfg *config.Config, doc *oas.Document, log logger.Logger) (*postman.Collection, error) {
	if cfg.Generate.CollectionPath == "" {
		name := cfg.Generate.CollectionName
		if name == "" {
			name = doc.Info.Title
		}
		log.Info("no input collection, deriving skeleton from document", map[string]interface{}{
			"collection": name,
		})
		return collection.BuildSkeleton(doc, name), nil
	}

	col, err := postman.ParseFile(cfg.Generate.CollectionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewCollectionReadFailedError(cfg.Generate.CollectionPath, err)
		}
		return nil, errors.NewCollectionParseFailedError(err)
	}
	return col, nil
}

func printSummary(outputPath string, stats *testsuite.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Generated", outputPath})
	t.AppendRows([]table.Row{
		{"Requests processed", stats.RequestsProcessed},
		{"Contract assertions", stats.ContractAssertions},
		{"Content assertions", stats.ContentAssertions},
		{"Extend blocks", stats.ExtendBlocks},
		{"Variables assigned", stats.VariablesAssigned},
		{"Overwrites applied", stats.OverwritesApplied},
		{"Variations", stats.Variations},
		{"Scenarios", stats.Scenarios},
	})
	t.Render()
}
