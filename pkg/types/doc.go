// Package types defines the domain model shared by every modmerge package:
// packages and their files, merge targets awaiting consolidation and the
// game version triples packages declare.
package types
