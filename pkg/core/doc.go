// Package core implements the pipelines behind modmerge's commands.
//
// Each pipeline starts by loading every package under a root and selecting
// the ones named on the command line:
//
//   - ListConflicts computes the conflict records of the selection against
//     every loaded package.
//   - MergePackages consolidates the selection into one package, ejects the
//     sources the caller asked to keep apart, resolves merge targets with a
//     strategy and exports the result.
//
// Filesystem access goes through afero so pipelines run unchanged against an
// in-memory filesystem in tests.
package core
