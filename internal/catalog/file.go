package catalog

import (
	"context"
	"fmt"
	"os"
)

// File reads the catalog from a CSV file on disk.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Name() string { return f.Path }

func (f *File) Listings(ctx context.Context) ([]Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	listings, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}

	return listings, nil
}
