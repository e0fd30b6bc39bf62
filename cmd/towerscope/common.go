package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/towerscope/towerscope/internal/store"
	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/config"
	"github.com/towerscope/towerscope/pkg/profile"
	"github.com/towerscope/towerscope/pkg/surface"
)

// loadConfig loads .towerscope/config.yaml from the working directory or a
// parent, falling back to defaults.
func loadConfig(explicitPath string) (*config.Config, error) {
	path := explicitPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = config.FindConfigFile(wd)
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// loadCatalog loads and fully validates the upgrade catalog. Any hard
// validation error is fatal: rankings over a broken catalog are worthless.
func loadCatalog(cfg *config.Config, override string) (*catalog.Catalog, error) {
	path := firstNonEmpty(override, cfg.Data.CatalogPath)
	c, err := catalog.Load(path, cfg.Scoring.Categories)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// loadResearch loads the lab research dataset; a missing file yields an
// empty set rather than an error.
func loadResearch(cfg *config.Config, override string) (*catalog.ResearchSet, error) {
	path := firstNonEmpty(override, cfg.Data.ResearchPath)
	r, err := catalog.LoadResearch(path)
	if err != nil {
		return nil, fmt.Errorf("loading research %s: %w", path, err)
	}
	return r, nil
}

// newManager builds a profile manager over local storage.
func newManager(cfg *config.Config, cat *catalog.Catalog) *store.Manager {
	client := store.NewLocalStorage(cfg.Storage.LocalDir)
	return store.NewManager(client, cat, cfg.Scoring.Categories)
}

// findProfile resolves a profile reference: exact id first, then unique
// case-insensitive name match.
func findProfile(ctx context.Context, mgr *store.Manager, ref string) (*profile.Profile, error) {
	if p, err := mgr.Get(ctx, ref); err == nil {
		return p, nil
	}

	profiles, err := mgr.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*profile.Profile
	for _, p := range profiles {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no profile matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d profiles named %q; use the profile id", len(matches), ref)
	}
}

// rendererFor maps an --output value to a surface renderer.
func rendererFor(format string) (surface.Renderer, error) {
	switch format {
	case "text", "":
		return &surface.TerminalRenderer{}, nil
	case "json":
		return &surface.JSONRenderer{}, nil
	case "markdown":
		return &surface.MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or markdown)", format)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
