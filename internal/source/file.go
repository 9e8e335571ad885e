package source

import (
	"context"
	"fmt"
	"os"

	"github.com/asset-dashboard/internal/types"
)

// FileSource reads the asset list from a JSON file
type FileSource struct {
	path string
}

// NewFileSource creates a file source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source
func (s *FileSource) Name() string { return "file:" + s.path }

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open asset file: %w", err)
	}
	defer f.Close()

	return DecodeAssets(f)
}
