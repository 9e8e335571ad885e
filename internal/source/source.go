// Package source provides the collaborators the asset store loads from.
// Every source performs exactly one fetch per call and never writes.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/asset-dashboard/internal/types"
)

// Source fetches the full asset collection
type Source interface {
	// Name identifies the source in logs and errors, e.g. "file:assets.json"
	Name() string
	Fetch(ctx context.Context) ([]types.Asset, error)
}

// record mirrors the wire format with pointer fields so missing keys are detectable
type record struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"`
	Image string  `json:"image"`
	Owner string  `json:"owner"`
}

// DecodeAssets reads a JSON array of asset records. A missing array,
// a record without id or name, or trailing garbage is an error.
func DecodeAssets(r io.Reader) ([]types.Asset, error) {
	dec := json.NewDecoder(r)

	var records []*record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode asset list: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("decode asset list: expected a JSON array")
	}
	if dec.More() {
		return nil, fmt.Errorf("decode asset list: unexpected data after array")
	}

	assets := make([]types.Asset, 0, len(records))
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("asset %d: null record", i)
		}
		if rec.ID == nil {
			return nil, fmt.Errorf("asset %d: missing id", i)
		}
		if rec.Name == nil {
			return nil, fmt.Errorf("asset %d: missing name", i)
		}
		assets = append(assets, types.Asset{
			ID:    *rec.ID,
			Name:  *rec.Name,
			Image: rec.Image,
			Owner: rec.Owner,
		})
	}
	return assets, nil
}

// EncodeAssets writes assets in the source wire format
func EncodeAssets(w io.Writer, assets []types.Asset) error {
	if assets == nil {
		assets = []types.Asset{}
	}
	return json.NewEncoder(w).Encode(assets)
}
