package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/towerscope/towerscope/pkg/catalog"
	"github.com/towerscope/towerscope/pkg/profile"
)

// Manager provides profile CRUD on top of a storage Client, enforcing the
// boundary rules: unknown upgrade ids are rejected, levels clamp to the
// catalog's range, coins never go negative. Writes go through the backend's
// replace-on-write semantics; last write wins across concurrent mutations.
type Manager struct {
	client     Client
	catalog    *catalog.Catalog
	categories []string
}

// NewManager creates a profile Manager. The catalog bounds level mutations.
func NewManager(client Client, c *catalog.Catalog, categories []string) *Manager {
	return &Manager{client: client, catalog: c, categories: categories}
}

// Create makes a new profile with defaults and persists it.
func (m *Manager) Create(ctx context.Context, name string) (*profile.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("profile name must not be empty")
	}
	p := profile.New(name, m.categories)
	if err := m.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get loads a profile by id. Returns ErrNotFound if absent or unreadable.
func (m *Manager) Get(ctx context.Context, id string) (*profile.Profile, error) {
	data, err := m.client.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile %s is corrupt: %w", id, err)
	}
	p.Normalize()
	return &p, nil
}

// List returns all readable profiles sorted by name. Corrupt documents are
// skipped rather than failing the whole listing.
func (m *Manager) List(ctx context.Context) ([]*profile.Profile, error) {
	ids, err := m.client.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	var profiles []*profile.Profile
	for _, id := range ids {
		p, err := m.Get(ctx, id)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles, nil
}

// Save persists a profile with a refreshed UpdatedAt, returning the stored version.
func (m *Manager) Save(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	updated := p.Touched()
	if err := m.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a profile. Returns ErrNotFound if it does not exist.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.client.DeleteProfile(ctx, id)
}

// Duplicate copies a profile under a new id and name.
func (m *Manager) Duplicate(ctx context.Context, id, newName string) (*profile.Profile, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, errors.New("profile name must not be empty")
	}
	original, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := original.WithName(newName)
	copied.ID = uuid.NewString()
	copied.CreatedAt = copied.UpdatedAt
	if err := m.save(ctx, copied); err != nil {
		return nil, err
	}
	return copied, nil
}

// SetLevel updates one upgrade level. Unknown upgrade ids are rejected;
// levels clamp to [0, maxLevel].
func (m *Manager) SetLevel(ctx context.Context, id, upgradeID string, level int) (*profile.Profile, error) {
	u := m.catalog.Get(upgradeID)
	if u == nil {
		return nil, fmt.Errorf("unknown upgrade %q", upgradeID)
	}
	if level > u.MaxLevel {
		level = u.MaxLevel
	}

	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := p.WithLevel(upgradeID, level)
	if err := m.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetResearchLevel updates one lab research level. Research ids are not
// validated against the catalog: the research dataset is optional and a
// profile may legitimately track research the current dataset lacks.
func (m *Manager) SetResearchLevel(ctx context.Context, id, researchID string, level int) (*profile.Profile, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := p.WithResearchLevel(researchID, level)
	if err := m.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetCoins updates the coin balance. Negative values are rejected.
func (m *Manager) SetCoins(ctx context.Context, id string, coins int64) (*profile.Profile, error) {
	if coins < 0 {
		return nil, fmt.Errorf("coins must be >= 0, got %d", coins)
	}
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := p.WithCoins(coins)
	if err := m.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// SetWeights replaces the profile's category weights, clamped to range.
func (m *Manager) SetWeights(ctx context.Context, id string, w profile.Weights) (*profile.Profile, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := p.WithWeights(w)
	if err := m.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Backup stores a timestamped copy of a profile, returning the backup id.
func (m *Manager) Backup(ctx context.Context, id string) (string, error) {
	data, err := m.client.GetProfile(ctx, id)
	if err != nil {
		return "", err
	}
	backupID := fmt.Sprintf("%s_%s", id, time.Now().UTC().Format("20060102_150405"))
	if err := m.client.PutBackup(ctx, backupID, data); err != nil {
		return "", err
	}
	return backupID, nil
}

func (m *Manager) save(ctx context.Context, p *profile.Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}
	return m.client.PutProfile(ctx, p.ID, data)
}
