package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/towerscope/towerscope/pkg/advisor"
	"github.com/towerscope/towerscope/pkg/surface"
)

func newRankCmd() *cobra.Command {
	var (
		configPath   string
		catalogPath  string
		researchPath string
		profileRef   string
		strategyName string
		outputFmt    string
		explain      bool
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank upgrades by marginal value",
		Long: `Scores the next purchasable level of every upgrade for a profile and
prints the recommendation order for the chosen strategy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cfg, catalogPath)
			if err != nil {
				return err
			}
			research, err := loadResearch(cfg, researchPath)
			if err != nil {
				return err
			}

			mgr := newManager(cfg, cat)
			p, err := findProfile(cmd.Context(), mgr, profileRef)
			if err != nil {
				return err
			}

			name := firstNonEmpty(strategyName, cfg.Scoring.DefaultStrategy)
			strategy, err := advisor.ByName(name, research)
			if err != nil {
				return err
			}

			results := strategy.Rank(cat, p)
			if limit > 0 && limit < len(results) {
				results = results[:limit]
			}

			renderer, err := rendererFor(outputFmt)
			if err != nil {
				return err
			}

			view := surface.NewRankingView(strategy, p.Name, p.Coins, results, explain)
			if err := renderer.Render(os.Stdout, view); err != nil {
				return fmt.Errorf("rendering: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to catalog JSON (default from config)")
	cmd.Flags().StringVar(&researchPath, "research", "", "Path to lab research JSON (default from config)")
	cmd.Flags().StringVarP(&profileRef, "profile", "p", "", "Profile id or name (required)")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Ranking strategy (default from config)")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, or markdown")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the arithmetic behind each recommendation")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N recommendations (0 = all)")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func newStrategiesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List available ranking strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			for _, s := range advisor.DefaultStrategies(nil) {
				marker := " "
				if s.Name() == cfg.Scoring.DefaultStrategy {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (v%s)\n", marker, s.Name(), s.Version())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}
