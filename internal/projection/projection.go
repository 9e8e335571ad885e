// Package projection turns the loaded assets and the current view state into
// what the dashboard renders. Every function here is pure: inputs are never
// mutated and outputs depend only on the arguments.
package projection

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/asset-dashboard/internal/types"
	"github.com/asset-dashboard/internal/viewstate"
)

var rarityTable = [4]types.Rarity{
	types.RarityCommon,
	types.RarityRare,
	types.RarityEpic,
	types.RarityLegendary,
}

// RarityOf derives the display rarity from the asset id alone
func RarityOf(asset types.Asset) types.Rarity {
	i := asset.ID % 4
	if i < 0 {
		i += 4
	}
	return rarityTable[i]
}

// Card is one rendered grid entry
type Card struct {
	types.Asset
	Rarity types.Rarity `json:"rarity"`
	Owned  bool         `json:"owned"`
}

// Sorted returns a stably sorted copy of assets. Unknown keys keep the
// original order.
func Sorted(assets []types.Asset, key types.SortKey) []types.Asset {
	out := slices.Clone(assets)

	switch key {
	case types.SortByID:
		slices.SortStableFunc(out, func(a, b types.Asset) int {
			return cmp.Compare(a.ID, b.ID)
		})
	case types.SortByName:
		// Collators carry scratch buffers and are not safe to share
		c := newNameCollator()
		slices.SortStableFunc(out, func(a, b types.Asset) int {
			return c.CompareString(a.Name, b.Name)
		})
	}

	return out
}

// CompareNames orders two names the way the ByName sort does
func CompareNames(a, b string) int {
	return newNameCollator().CompareString(a, b)
}

func newNameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// OwnedBy reports whether asset belongs to wallet, ignoring case
func OwnedBy(asset types.Asset, wallet string) bool {
	return strings.EqualFold(asset.Owner, wallet)
}

// FilterOwned keeps the assets owned by wallet, preserving order
func FilterOwned(assets []types.Asset, wallet string) []types.Asset {
	out := make([]types.Asset, 0, len(assets))
	for _, a := range assets {
		if OwnedBy(a, wallet) {
			out = append(out, a)
		}
	}
	return out
}

// VisibleAssets sorts by state.SortKey, then applies the "mine only" filter
// when it is enabled and a wallet is connected.
func VisibleAssets(assets []types.Asset, state viewstate.ViewState) []types.Asset {
	sorted := Sorted(assets, state.SortKey)
	if state.FilterMineOnly && state.WalletIdentity != nil {
		return FilterOwned(sorted, *state.WalletIdentity)
	}
	return sorted
}

// DetailPayload returns the selected asset, or false when nothing is
// selected or the selected id does not exist.
func DetailPayload(assets []types.Asset, state viewstate.ViewState) (types.Asset, bool) {
	if state.SelectedAssetID == nil {
		return types.Asset{}, false
	}
	for _, a := range assets {
		if a.ID == *state.SelectedAssetID {
			return a, true
		}
	}
	return types.Asset{}, false
}

// CardFor decorates a single asset for display
func CardFor(asset types.Asset, state viewstate.ViewState) Card {
	owned := state.WalletIdentity != nil && OwnedBy(asset, *state.WalletIdentity)
	return Card{Asset: asset, Rarity: RarityOf(asset), Owned: owned}
}

// Cards is VisibleAssets decorated with rarity and ownership
func Cards(assets []types.Asset, state viewstate.ViewState) []Card {
	visible := VisibleAssets(assets, state)
	cards := make([]Card, len(visible))
	for i, a := range visible {
		cards[i] = CardFor(a, state)
	}
	return cards
}
