package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/towerscope/towerscope/internal/store"
	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/config"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage player profiles",
	}

	cmd.AddCommand(
		newProfileCreateCmd(),
		newProfileListCmd(),
		newProfileShowCmd(),
		newProfileDeleteCmd(),
		newProfileDuplicateCmd(),
		newProfileSetLevelCmd(),
		newProfileSetCoinsCmd(),
		newProfileSetWeightCmd(),
		newProfileSetResearchCmd(),
		newProfileBackupCmd(),
	)

	return cmd
}

// profileEnv bundles the pieces every profile subcommand needs.
type profileEnv struct {
	cfg *config.Config
	cat *catalog.Catalog
	mgr *store.Manager
}

func newProfileEnv(configPath string) (*profileEnv, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg, "")
	if err != nil {
		return nil, err
	}
	return &profileEnv{cfg: cfg, cat: cat, mgr: newManager(cfg, cat)}, nil
}

func newProfileCreateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := env.mgr.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			profiles, err := env.mgr.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles. Create one with: towerscope profile create <name>")
				return nil
			}
			for _, p := range profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-20s  %d coins, %d upgrades tracked\n",
					p.ID, p.Name, p.Coins, len(p.Levels))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <profile>",
		Short: "Show a profile's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s (%s)\n", p.Name, p.ID)
			fmt.Fprintf(out, "Coins:   %d\n", p.Coins)
			fmt.Fprintf(out, "Updated: %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))

			fmt.Fprintln(out, "\nUpgrade levels:")
			for _, id := range env.cat.IDs() {
				lvl := p.Level(id)
				if lvl == 0 {
					continue
				}
				u := env.cat.Get(id)
				fmt.Fprintf(out, "  %-24s %d/%d\n", u.Name, lvl, u.MaxLevel)
			}

			if len(p.ResearchLevels) > 0 {
				fmt.Fprintln(out, "\nResearch levels:")
				for id, lvl := range p.ResearchLevels {
					fmt.Fprintf(out, "  %-24s %d\n", id, lvl)
				}
			}

			fmt.Fprintln(out, "\nCategory weights:")
			for _, cat := range env.cfg.Scoring.Categories {
				fmt.Fprintf(out, "  %-12s %.2f\n", cat, p.Weights.For(cat))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <profile>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			if err := env.mgr.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileDuplicateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "duplicate <profile> <new-name>",
		Short: "Copy a profile under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			copied, err := env.mgr.Duplicate(cmd.Context(), p.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %q (%s) from %q\n", copied.Name, copied.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileSetLevelCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set-level <profile> <upgrade-id> <level>",
		Short: "Set an upgrade's current level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid level %q", args[2])
			}
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			updated, err := env.mgr.SetLevel(cmd.Context(), p.ID, args[1], level)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %d\n", updated.Name, args[1], updated.Level(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileSetCoinsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set-coins <profile> <coins>",
		Short: "Set a profile's available coins",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coins, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid coin amount %q", args[1])
			}
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			updated, err := env.mgr.SetCoins(cmd.Context(), p.ID, coins)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d coins\n", updated.Name, updated.Coins)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileSetWeightCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set-weight <profile> <category> <weight>",
		Short: "Set a category weight (0 to 2)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q", args[2])
			}
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			updated, err := env.mgr.SetWeights(cmd.Context(), p.ID, p.Weights.Set(args[1], weight))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: weight[%s] = %.2f\n", updated.Name, args[1], updated.Weights.For(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileSetResearchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set-research <profile> <research-id> <level>",
		Short: "Set a lab research level",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid level %q", args[2])
			}
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			updated, err := env.mgr.SetResearchLevel(cmd.Context(), p.ID, args[1], level)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %d\n", updated.Name, args[1], updated.ResearchLevel(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}

func newProfileBackupCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "backup <profile>",
		Short: "Store a timestamped copy of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newProfileEnv(configPath)
			if err != nil {
				return err
			}
			p, err := findProfile(cmd.Context(), env.mgr, args[0])
			if err != nil {
				return err
			}
			backupID, err := env.mgr.Backup(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %q as %s\n", p.Name, backupID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	return cmd
}
