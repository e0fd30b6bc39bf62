package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/towerscope/towerscope/pkg/catalog"
)

func newValidateCmd() *cobra.Command {
	var (
		configPath  string
		catalogPath string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an upgrade catalog",
		Long: `Checks a catalog document for structural problems: duplicate ids,
non-increasing costs, broken level sequences, inconsistent effect deltas.
Errors make the catalog unusable; warnings flag suspicious data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			path := firstNonEmpty(catalogPath, cfg.Data.CatalogPath)
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading catalog: %w", err)
			}

			report := catalog.ValidateRaw(data)
			if report.OK() {
				c, parseErr := catalog.Parse(data, cfg.Scoring.Categories)
				if parseErr != nil {
					report.Errors = append(report.Errors, parseErr.Error())
				} else {
					report = catalog.Validate(c, cfg.Scoring.Categories)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())

			if !report.OK() {
				return fmt.Errorf("catalog %s has %d error(s)", path, len(report.Errors))
			}
			if strict && len(report.Warnings) > 0 {
				return fmt.Errorf("catalog %s has %d warning(s) (strict mode)", path, len(report.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to catalog JSON (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
