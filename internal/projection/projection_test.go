package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asset-dashboard/internal/types"
	"github.com/asset-dashboard/internal/viewstate"
)

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

func ids(assets []types.Asset) []int64 {
	out := make([]int64, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestRarityOf(t *testing.T) {
	tests := []struct {
		id   int64
		want types.Rarity
	}{
		{0, types.RarityCommon},
		{1, types.RarityRare},
		{2, types.RarityEpic},
		{3, types.RarityLegendary},
		{4, types.RarityCommon},
		{8, types.RarityCommon},
		{1001, types.RarityRare},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RarityOf(types.Asset{ID: tt.id}), "id %d", tt.id)
	}
}

func TestVisibleAssets_WalletScenario(t *testing.T) {
	assets := []types.Asset{
		{ID: 2, Name: "Axe", Owner: "0x1111"},
		{ID: 1, Name: "Bow", Owner: "0xAAAA"},
	}

	c := viewstate.NewController(nil)
	assert.Equal(t, []int64{1, 2}, ids(VisibleAssets(assets, c.State())))

	c.ToggleWallet()
	require.Equal(t, "0x1111", *c.State().WalletIdentity)
	assert.Equal(t, []int64{1, 2}, ids(VisibleAssets(assets, c.State())), "connecting alone must not filter")

	c.ToggleFilterMineOnly()
	visible := VisibleAssets(assets, c.State())
	require.Len(t, visible, 1)
	assert.Equal(t, "Axe", visible[0].Name)

	// Disconnecting makes the still-enabled filter inert
	c.ToggleWallet()
	assert.Equal(t, []int64{1, 2}, ids(VisibleAssets(assets, c.State())))
}

func TestVisibleAssets_OwnerMatchIgnoresCase(t *testing.T) {
	assets := []types.Asset{
		{ID: 1, Name: "a", Owner: "0XABCD"},
		{ID: 2, Name: "b", Owner: "0xabcd"},
		{ID: 3, Name: "c", Owner: "0x9999"},
	}
	state := viewstate.ViewState{
		WalletIdentity: strPtr("0xAbCd"),
		FilterMineOnly: true,
		SortKey:        types.SortByID,
	}

	assert.Equal(t, []int64{1, 2}, ids(VisibleAssets(assets, state)))
}

func TestSorted_ByNameIsCaseInsensitiveAndStable(t *testing.T) {
	assets := []types.Asset{
		{ID: 1, Name: "bow"},
		{ID: 2, Name: "axe"},
		{ID: 3, Name: "Apple"},
		{ID: 4, Name: "Axe"},
	}

	got := Sorted(assets, types.SortByName)
	assert.Equal(t, []int64{3, 2, 4, 1}, ids(got))
}

func TestSorted_UnknownKeyKeepsOrder(t *testing.T) {
	assets := []types.Asset{{ID: 3}, {ID: 1}, {ID: 2}}

	got := Sorted(assets, types.SortKey("price"))
	assert.Equal(t, []int64{3, 1, 2}, ids(got))
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	assets := []types.Asset{{ID: 3}, {ID: 1}, {ID: 2}}

	_ = Sorted(assets, types.SortByID)
	assert.Equal(t, []int64{3, 1, 2}, ids(assets))
}

func TestDetailPayload(t *testing.T) {
	assets := []types.Asset{{ID: 1, Name: "Bow"}, {ID: 2, Name: "Axe"}}

	tests := []struct {
		name     string
		selected *int64
		wantOK   bool
		wantName string
	}{
		{name: "nothing selected", selected: nil, wantOK: false},
		{name: "existing asset", selected: idPtr(2), wantOK: true, wantName: "Axe"},
		{name: "missing asset", selected: idPtr(999), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetailPayload(assets, viewstate.ViewState{SelectedAssetID: tt.selected})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestDetailPayload_IgnoresFilter(t *testing.T) {
	assets := []types.Asset{{ID: 1, Owner: "0xAAAA"}}
	state := viewstate.ViewState{
		WalletIdentity:  strPtr("0x1111"),
		FilterMineOnly:  true,
		SelectedAssetID: idPtr(1),
	}

	_, ok := DetailPayload(assets, state)
	assert.True(t, ok, "detail lookup runs against the whole store")
}

func TestCards(t *testing.T) {
	assets := []types.Asset{
		{ID: 3, Name: "Crown", Owner: "0x1111"},
		{ID: 6, Name: "Shield", Owner: "0x2222"},
	}

	disconnected := Cards(assets, viewstate.Default())
	require.Len(t, disconnected, 2)
	assert.False(t, disconnected[0].Owned)
	assert.Equal(t, types.RarityLegendary, disconnected[0].Rarity)
	assert.Equal(t, types.RarityEpic, disconnected[1].Rarity)

	state := viewstate.Default()
	state.WalletIdentity = strPtr("0x1111")
	connected := Cards(assets, state)
	assert.True(t, connected[0].Owned)
	assert.False(t, connected[1].Owned)
}
