package e2e

import (
	"os"
	"path/filepath"
)

// Variant is one on-disk rendering of the corpus.
type Variant struct {
	Name      string
	Delimiter string
	Newline   string
}

// SupportedVariants covers every delimiter the loader detects, plus CRLF line endings.
var SupportedVariants = []Variant{
	{Name: "comma-space", Delimiter: ", ", Newline: "\n"},
	{Name: "comma", Delimiter: ",", Newline: "\n"},
	{Name: "space", Delimiter: " ", Newline: "\n"},
	{Name: "comma-space-crlf", Delimiter: ", ", Newline: "\r\n"},
}

// WriteVariant writes the corpus to dir in the given variant and returns the file path.
func WriteVariant(dir string, c *Corpus, v Variant) (string, error) {
	path := filepath.Join(dir, v.Name+".txt")
	if err := os.WriteFile(path, c.Encode(v.Delimiter, v.Newline), 0644); err != nil {
		return "", err
	}
	return path, nil
}
