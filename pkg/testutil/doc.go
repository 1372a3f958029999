// Package testutil provides fixtures for modmerge tests.
//
// Key components:
//   - PackageBuilder: declarative in-memory packages for the core
//   - TestEnvironment: a virtual mods directory on afero's memory filesystem
//     for loader and exporter tests
//
// All test data is defined inline; nothing touches the real filesystem.
package testutil
