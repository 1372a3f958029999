package types

import (
	"path"
	"strings"
)

// File is one logical file supplied by a package. Two files are the same
// file, and therefore collide, when their keys are equal.
type File interface {
	// Path is the display path: forward slashes, original case
	Path() string
	// Key is the normalized, case-insensitive path
	Key() string
	// PackageID identifies the owning package
	PackageID() string
	// Bytes returns the raw file content
	Bytes() ([]byte, error)
	// WithPath returns a copy of the file living at another path
	WithPath(p string) File
	// WithPackage returns a copy of the file owned by another package
	WithPackage(packageID string) File
}

// NormalizePath converts separators to forward slashes and cleans the path.
// Leading slashes are dropped; case is preserved.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// PathKey returns the conflict key for a path
func PathKey(p string) string {
	return strings.ToLower(NormalizePath(p))
}

// BaseName returns the lower-cased base filename of a path
func BaseName(p string) string {
	return path.Base(PathKey(p))
}

// SourceFile is a file read from a package, either lazily through a loader
// function or held in memory.
type SourceFile struct {
	path      string
	packageID string
	load      func() ([]byte, error)
}

// NewSourceFile creates a file whose content is produced by load on demand
func NewSourceFile(packageID, p string, load func() ([]byte, error)) *SourceFile {
	return &SourceFile{
		path:      NormalizePath(p),
		packageID: packageID,
		load:      load,
	}
}

// NewMemoryFile creates a file holding data in memory
func NewMemoryFile(packageID, p string, data []byte) *SourceFile {
	return NewSourceFile(packageID, p, func() ([]byte, error) {
		return data, nil
	})
}

func (f *SourceFile) Path() string      { return f.path }
func (f *SourceFile) Key() string       { return strings.ToLower(f.path) }
func (f *SourceFile) PackageID() string { return f.packageID }

func (f *SourceFile) Bytes() ([]byte, error) {
	if f.load == nil {
		return nil, nil
	}
	return f.load()
}

func (f *SourceFile) WithPath(p string) File {
	cp := *f
	cp.path = NormalizePath(p)
	return &cp
}

func (f *SourceFile) WithPackage(packageID string) File {
	cp := *f
	cp.packageID = packageID
	return &cp
}

// Text returns the content of f as a string
func Text(f File) (string, error) {
	data, err := f.Bytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
