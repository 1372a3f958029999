// Package output renders conflict and merge reports for the command line.
//
// Text output is styled with lipgloss through the semantic registry in
// pkg/output/styles; YAML and JSON output encode the same report values for
// scripts.
package output
