// Package viewstate holds the user-adjustable dashboard view parameters and
// the intents that change them.
package viewstate

import (
	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/types"
)

// IdentityProvider supplies the wallet identity used when the user connects.
// The stub returns a fixed placeholder; a real wallet integration can be
// substituted without touching the projection.
type IdentityProvider interface {
	Identity() string
}

// StubIdentity is an IdentityProvider that always returns the same value
type StubIdentity string

// DefaultStubIdentity is the placeholder wallet assigned by the connect stub
const DefaultStubIdentity StubIdentity = "0x1111"

// Identity implements IdentityProvider
func (s StubIdentity) Identity() string { return string(s) }

// ViewState is a snapshot of the view parameters.
// FilterMineOnly is only meaningful while WalletIdentity is set.
type ViewState struct {
	WalletIdentity  *string       `json:"wallet"`
	FilterMineOnly  bool          `json:"filterMineOnly"`
	SortKey         types.SortKey `json:"sortKey"`
	SelectedAssetID *int64        `json:"selectedAssetId"`
	IsLoaded        bool          `json:"loaded"`
}

// Default returns the start-of-session state
func Default() ViewState {
	return ViewState{SortKey: types.SortByID}
}

// Connected reports whether a wallet identity is set
func (s ViewState) Connected() bool {
	return s.WalletIdentity != nil
}

// clone copies the pointer fields so snapshots never alias controller state
func (s ViewState) clone() ViewState {
	out := s
	if s.WalletIdentity != nil {
		w := *s.WalletIdentity
		out.WalletIdentity = &w
	}
	if s.SelectedAssetID != nil {
		id := *s.SelectedAssetID
		out.SelectedAssetID = &id
	}
	return out
}

// Controller owns a ViewState and applies intents to it.
// It is not safe for concurrent use; the session serializes access.
type Controller struct {
	state    ViewState
	identity IdentityProvider
}

// NewController creates a controller with default state.
// A nil provider falls back to DefaultStubIdentity.
func NewController(identity IdentityProvider) *Controller {
	if identity == nil {
		identity = DefaultStubIdentity
	}
	return &Controller{
		state:    Default(),
		identity: identity,
	}
}

// State returns a snapshot of the current view state
func (c *Controller) State() ViewState {
	return c.state.clone()
}

// ToggleWallet connects the provider's identity when disconnected and
// disconnects otherwise. FilterMineOnly is left untouched.
func (c *Controller) ToggleWallet() {
	if c.state.WalletIdentity != nil {
		c.state.WalletIdentity = nil
		return
	}
	id := c.identity.Identity()
	c.state.WalletIdentity = &id
}

// ToggleFilterMineOnly flips the "mine only" flag
func (c *Controller) ToggleFilterMineOnly() {
	c.state.FilterMineOnly = !c.state.FilterMineOnly
}

// SetSortKey changes the sort order. Keys other than id and name are
// rejected with an InvalidSortKey error and leave the state unchanged.
func (c *Controller) SetSortKey(key types.SortKey) error {
	if !key.Valid() {
		return apperrors.NewInvalidSortKeyError(string(key))
	}
	c.state.SortKey = key
	return nil
}

// SelectAsset opens the detail view for id, or closes it when id is nil.
// The id is not checked against the asset store.
func (c *Controller) SelectAsset(id *int64) {
	if id == nil {
		c.state.SelectedAssetID = nil
		return
	}
	v := *id
	c.state.SelectedAssetID = &v
}

// MarkLoaded sets IsLoaded. It is one-way; there is no transition back.
func (c *Controller) MarkLoaded() {
	c.state.IsLoaded = true
}
