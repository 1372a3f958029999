package packs

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/types"
	"github.com/samber/lo"
)

// Select picks packages by id or name, in the order the names are given.
// No names selects every package.
func Select(all []*types.Package, names []string) ([]*types.Package, error) {
	logger := logging.GetLogger("packs.selection")

	if len(names) == 0 {
		return all, nil
	}

	var (
		selected []*types.Package
		notFound []string
	)
	for _, name := range NormalizeNames(names) {
		pkg, ok := lo.Find(all, func(p *types.Package) bool {
			return p.ID == name || strings.EqualFold(p.Name, name)
		})
		if !ok {
			notFound = append(notFound, name)
			continue
		}
		if lo.Contains(selected, pkg) {
			continue
		}
		selected = append(selected, pkg)
		logger.Trace().Str("name", name).Str("id", pkg.ID).Msg("Selected package")
	}

	if len(notFound) > 0 {
		return nil, errors.Newf(errors.ErrNotFound, "package(s) not found: %s", strings.Join(notFound, ", ")).
			WithDetail("notFound", notFound).
			WithDetail("available", Names(all))
	}

	logger.Debug().
		Int("selected", len(selected)).
		Int("total", len(all)).
		Msg("Selected packages")
	return selected, nil
}

// Names returns the display names of packages
func Names(packages []*types.Package) []string {
	return lo.Map(packages, func(p *types.Package, _ int) string { return p.Name })
}

// NormalizeNames removes trailing slashes that shell completion adds to
// directory names
func NormalizeNames(names []string) []string {
	return lo.Map(names, func(name string, _ int) string {
		return strings.TrimRight(name, `/\`)
	})
}
