package packs

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// Descriptor is the on-disk metadata of a package
type Descriptor struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Version string   `toml:"version,omitempty"`
	Tags    []string `toml:"tags,omitempty"`
}

// ParseDescriptor decodes descriptor TOML
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, errors.Wrap(err, errors.ErrPackInvalid, "failed to parse descriptor")
	}
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	return d, nil
}

// DescriptorOf returns the descriptor describing pkg
func DescriptorOf(pkg *types.Package) Descriptor {
	return Descriptor{
		ID:      pkg.ID,
		Name:    pkg.Name,
		Version: pkg.Version.String(),
		Tags:    pkg.Tags,
	}
}

// Marshal encodes the descriptor as TOML
func (d Descriptor) Marshal() ([]byte, error) {
	data, err := toml.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode descriptor")
	}
	return data, nil
}

// apply fills pkg from the descriptor. Missing id and name keep the values
// pkg already carries.
func (d Descriptor) apply(pkg *types.Package) error {
	if d.ID != "" {
		pkg.ID = d.ID
	}
	switch {
	case d.Name != "":
		pkg.Name = d.Name
	case d.ID != "":
		pkg.Name = d.ID
	}

	version, err := types.ParseVersion(d.Version)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPackInvalid, "package %s declares an invalid version", pkg.ID).
			WithDetail("version", d.Version)
	}
	pkg.Version = version
	pkg.Tags = append([]string(nil), d.Tags...)
	return nil
}
