// Package packs reads packages from disk and writes consolidated packages
// back.
//
// A package is a directory under a root holding arbitrary resource files and
// an optional descriptor (descriptor.toml by default) with its id, display
// name, supported game version and tags:
//
//	id = "better-events"
//	name = "Better Events"
//	version = "1.5.*"
//	tags = ["Events", "Gameplay"]
//
// Directories without a descriptor use their directory name as id and name.
//
// Merge targets that are still unresolved when exported are written as zip
// archives next to where the file would live, named with the configured
// suffix (".unresolved" by default). Each source variant is one entry named
// NN/<base name> where NN is its two-digit position. The loader reads such
// archives back as merge targets so a consolidation can be resumed.
package packs
