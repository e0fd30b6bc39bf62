package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parse decodes and hard-validates a catalog document. It runs the raw
// string-leak check first, then the typed structural checks; any blocking
// problem refuses the whole catalog, with enough context to fix the source
// data. expectedCategories only influences soft warnings and may be nil here.
func Parse(data []byte, expectedCategories []string) (*Catalog, error) {
	if raw := ValidateRaw(data); !raw.OK() {
		return nil, fmt.Errorf("raw catalog check failed:\n  %s", strings.Join(raw.Errors, "\n  "))
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if errs := hardErrors(&c, expectedCategories); len(errs) > 0 {
		return nil, fmt.Errorf("catalog failed validation:\n  %s", strings.Join(errs, "\n  "))
	}

	return &c, nil
}

// Load reads and validates a catalog from disk.
func Load(path string, expectedCategories []string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data, expectedCategories)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// Save writes a catalog to disk with an atomic replace: the document is
// written to a temp file in the target directory and renamed over the
// destination, so readers never observe a partial file.
func Save(path string, c *Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	return atomicWrite(path, data)
}

// LoadResearch reads the lab research dataset from disk. A missing file is
// not an error: the reference strategy simply runs without lab boosts.
func LoadResearch(path string) (*ResearchSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ResearchSet{}, nil
		}
		return nil, fmt.Errorf("reading research data: %w", err)
	}

	var r ResearchSet
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing research data: %w", err)
	}

	for i := range r.Researches {
		def := &r.Researches[i]
		if len(def.Levels) != def.MaxLevel {
			return nil, fmt.Errorf("research %s: level count %d != max_level %d",
				def.ID, len(def.Levels), def.MaxLevel)
		}
		for j := range def.Levels {
			if def.Levels[j].Level != j+1 {
				return nil, fmt.Errorf("research %s: expected level %d at index %d, got %d",
					def.ID, j+1, j, def.Levels[j].Level)
			}
			if !isFinite(def.Levels[j].Value) {
				return nil, fmt.Errorf("research %s level %d: value is not finite",
					def.ID, def.Levels[j].Level)
			}
		}
	}

	return &r, nil
}

// atomicWrite writes data to path via a temp file and rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
