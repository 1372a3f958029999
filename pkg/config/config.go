package config

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
)

// Config holds the full modmerge configuration
type Config struct {
	Conflicts Conflicts `koanf:"conflicts"`
	Merge     Merge     `koanf:"merge"`
	Packs     Packs     `koanf:"packs"`
}

// Conflicts configures the conflict index
type Conflicts struct {
	// AllowList holds base names exempt from conflicts
	AllowList []string `koanf:"allow_list"`
}

// Merge configures candidate building, sessions and export
type Merge struct {
	UnresolvedSuffix string `koanf:"unresolved_suffix"`
	AutoCommit       bool   `koanf:"auto_commit"`
	Strategy         string `koanf:"strategy"`
}

// Packs configures how package directories are read
type Packs struct {
	// Descriptor is the metadata file name inside a package directory
	Descriptor string `koanf:"descriptor"`
	// Ignore holds glob patterns of names the loader skips
	Ignore []string `koanf:"ignore"`
}

var strategies = []string{"none", "left", "right"}

// Validate checks values the rest of the program relies on
func (c *Config) Validate() error {
	if c.Merge.UnresolvedSuffix == "" {
		return errors.New(errors.ErrConfigParse, "merge.unresolved_suffix must not be empty")
	}
	if c.Packs.Descriptor == "" || strings.ContainsAny(c.Packs.Descriptor, `/\`) {
		return errors.Newf(errors.ErrConfigParse, "packs.descriptor must be a plain file name, got %q", c.Packs.Descriptor)
	}

	c.Merge.Strategy = strings.ToLower(strings.TrimSpace(c.Merge.Strategy))
	for _, s := range strategies {
		if c.Merge.Strategy == s {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigParse, "merge.strategy must be one of %s, got %q",
		strings.Join(strategies, ", "), c.Merge.Strategy).
		WithDetail("strategy", c.Merge.Strategy)
}
