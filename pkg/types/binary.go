package types

import "github.com/gabriel-vasile/mimetype"

// IsBinary reports whether data is not plain text. Binary files are flagged
// as conflicts but never diffed.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}

// IsBinaryFile is IsBinary applied to the content of f
func IsBinaryFile(f File) (bool, error) {
	data, err := f.Bytes()
	if err != nil {
		return false, err
	}
	return IsBinary(data), nil
}
