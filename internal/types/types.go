// Package types provides common type definitions for the asset dashboard.
package types

// Asset is a single collectible as delivered by the data source.
// Assets are immutable once loaded.
type Asset struct {
	ID    int64  `json:"id"`    // Unique, non-negative identity and primary sort key
	Name  string `json:"name"`  // Display name
	Image string `json:"image"` // Opaque image reference (URL or path)
	Owner string `json:"owner"` // Owner identifier, compared case-insensitively
}

// SortKey selects the ordering of the visible asset list
type SortKey string

const (
	// SortByID orders assets by ascending numeric id
	SortByID SortKey = "id"
	// SortByName orders assets by name using locale-aware, case-insensitive collation
	SortByName SortKey = "name"
)

// Valid reports whether the key is one of the supported sort keys
func (k SortKey) Valid() bool {
	return k == SortByID || k == SortByName
}

// Rarity is a display-only tier derived from an asset id
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
