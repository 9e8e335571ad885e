package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/source"
	"github.com/asset-dashboard/internal/store"
	"github.com/asset-dashboard/internal/types"
)

var testAssets = []types.Asset{
	{ID: 2, Name: "Axe", Image: "/img/axe.png", Owner: "0x1111"},
	{ID: 1, Name: "Bow", Image: "/img/bow.png", Owner: "0xAAAA"},
	{ID: 999, Name: "Crown", Image: "/img/crown.png", Owner: "0x1111"},
}

type stubSource struct {
	assets []types.Asset
	err    error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	return s.assets, s.err
}

// blockingSource never answers until its context is cancelled
type blockingSource struct{}

func (blockingSource) Name() string { return "blocking" }

func (blockingSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestSession(t *testing.T, src source.Source) (*Session, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	s := New(store.NewAssetStore(src), Options{
		ID:     "test-session",
		Clock:  mock,
		Logger: logging.NewLoggerWithOutput(logging.LevelDebug, logging.FormatJSON, io.Discard),
	})
	t.Cleanup(s.Close)
	return s, mock
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}
}

func startLoaded(t *testing.T) *Session {
	t.Helper()
	s, mock := newTestSession(t, &stubSource{assets: testAssets})
	require.NoError(t, s.Start(context.Background()))
	waitDone(t, s)
	mock.Add(DefaultSettleDelay)
	require.Eventually(t, s.Loaded, time.Second, time.Millisecond)
	return s
}

func TestSession_InitialView(t *testing.T) {
	s, _ := newTestSession(t, &stubSource{assets: testAssets})

	v := s.View()
	assert.Equal(t, "test-session", v.SessionID)
	assert.False(t, v.Loaded)
	assert.Equal(t, PlaceholderCount, v.Placeholders)
	assert.NotNil(t, v.Assets)
	assert.Empty(t, v.Assets)
	assert.Nil(t, v.Wallet)
	assert.False(t, v.FilterMineOnly)
	assert.Equal(t, types.SortByID, v.SortKey)
	assert.Nil(t, v.SelectedAssetID)
	assert.Nil(t, v.Detail)
}

func TestSession_GeneratesID(t *testing.T) {
	s := New(store.NewAssetStore(&stubSource{}), Options{})
	defer s.Close()
	assert.Len(t, s.ID(), 36)
}

func TestSession_SettleDelay(t *testing.T) {
	s, mock := newTestSession(t, &stubSource{assets: testAssets})
	require.NoError(t, s.Start(context.Background()))
	waitDone(t, s)
	require.NoError(t, s.LoadErr())

	// store has data, but the dashboard still shows placeholders
	mock.Add(DefaultSettleDelay - time.Millisecond)
	v := s.View()
	assert.False(t, v.Loaded)
	assert.Empty(t, v.Assets)
	assert.Equal(t, PlaceholderCount, v.Placeholders)

	mock.Add(time.Millisecond)
	require.Eventually(t, s.Loaded, time.Second, time.Millisecond)

	v = s.View()
	assert.Zero(t, v.Placeholders)
	require.Len(t, v.Assets, 3)
	assert.Equal(t, int64(1), v.Assets[0].ID)

	// stays loaded
	mock.Add(time.Hour)
	assert.True(t, s.Loaded())
}

func TestSession_CustomSettleDelay(t *testing.T) {
	mock := clock.NewMock()
	s := New(store.NewAssetStore(&stubSource{assets: testAssets}), Options{
		SettleDelay: time.Second,
		Clock:       mock,
		Logger:      logging.NewLoggerWithOutput(logging.LevelError, logging.FormatJSON, io.Discard),
	})
	defer s.Close()

	require.NoError(t, s.Start(context.Background()))
	waitDone(t, s)

	mock.Add(DefaultSettleDelay)
	assert.False(t, s.Loaded())

	mock.Add(time.Second)
	assert.Eventually(t, s.Loaded, time.Second, time.Millisecond)
}

func TestSession_LoadFailureStaysLoading(t *testing.T) {
	s, mock := newTestSession(t, &stubSource{err: errors.New("connection refused")})
	require.NoError(t, s.Start(context.Background()))
	waitDone(t, s)

	assert.True(t, apperrors.IsLoadError(s.LoadErr()))

	mock.Add(time.Hour)
	v := s.View()
	assert.False(t, v.Loaded)
	assert.Equal(t, PlaceholderCount, v.Placeholders)
	assert.Empty(t, v.Assets)

	// intents still work, they just have nothing to show
	v, err := s.ToggleWallet()
	require.NoError(t, err)
	require.NotNil(t, v.Wallet)
	assert.Empty(t, v.Assets)
}

func TestSession_StartTwice(t *testing.T) {
	s, _ := newTestSession(t, &stubSource{assets: testAssets})
	require.NoError(t, s.Start(context.Background()))

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAlreadyLoaded, apperrors.Categorize(err).Code)
}

func TestSession_CloseDuringLoad(t *testing.T) {
	s, mock := newTestSession(t, blockingSource{})
	require.NoError(t, s.Start(context.Background()))

	s.Close()
	waitDone(t, s)

	mock.Add(time.Hour)
	assert.False(t, s.Loaded())
	assert.NoError(t, s.LoadErr(), "a torn-down session records nothing")
}

func TestSession_CloseBeforeSettle(t *testing.T) {
	s, mock := newTestSession(t, &stubSource{assets: testAssets})
	require.NoError(t, s.Start(context.Background()))
	waitDone(t, s)

	s.Close()
	mock.Add(time.Hour)

	// give a stray timer callback a chance to run
	time.Sleep(10 * time.Millisecond)
	assert.False(t, s.Loaded())
	assert.True(t, s.Closed())
}

func TestSession_StartAfterClose(t *testing.T) {
	s, _ := newTestSession(t, &stubSource{assets: testAssets})
	s.Close()

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSessionClosed, apperrors.Categorize(err).Code)
}

func TestSession_IntentsAfterClose(t *testing.T) {
	s := startLoaded(t)
	s.Close()
	s.Close()

	_, err := s.ToggleWallet()
	assert.Equal(t, apperrors.CodeSessionClosed, apperrors.Categorize(err).Code)
	_, err = s.ToggleFilterMineOnly()
	assert.Error(t, err)
	_, err = s.SetSortKey(types.SortByName)
	assert.Error(t, err)
	_, err = s.SelectAsset(nil)
	assert.Error(t, err)

	assert.Equal(t, types.SortByID, s.State().SortKey)
}

func TestSession_WalletAndFilter(t *testing.T) {
	s := startLoaded(t)

	// filter without a wallet is inert
	v, err := s.ToggleFilterMineOnly()
	require.NoError(t, err)
	assert.True(t, v.FilterMineOnly)
	assert.Len(t, v.Assets, 3)

	v, err = s.ToggleWallet()
	require.NoError(t, err)
	require.NotNil(t, v.Wallet)
	assert.Equal(t, "0x1111", *v.Wallet)
	require.Len(t, v.Assets, 2)
	for _, c := range v.Assets {
		assert.True(t, c.Owned)
	}

	// disconnecting keeps the filter flag but shows everything again
	v, err = s.ToggleWallet()
	require.NoError(t, err)
	assert.Nil(t, v.Wallet)
	assert.True(t, v.FilterMineOnly)
	assert.Len(t, v.Assets, 3)
}

func TestSession_SetSortKey(t *testing.T) {
	s := startLoaded(t)

	v, err := s.SetSortKey(types.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Axe", "Bow", "Crown"}, names(v))

	v, err = s.SetSortKey("price")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidSortKey(err))
	assert.Equal(t, types.SortByName, v.SortKey)
	assert.Equal(t, []string{"Axe", "Bow", "Crown"}, names(v))
}

func TestSession_SelectAsset(t *testing.T) {
	s := startLoaded(t)

	id := int64(999)
	v, err := s.SelectAsset(&id)
	require.NoError(t, err)
	require.NotNil(t, v.Detail)
	assert.Equal(t, "Crown", v.Detail.Name)
	assert.Equal(t, types.RarityLegendary, v.Detail.Rarity)

	// caller mutation does not leak into the session
	id = 1
	assert.Equal(t, int64(999), *s.State().SelectedAssetID)

	missing := int64(12345)
	v, err = s.SelectAsset(&missing)
	require.NoError(t, err)
	assert.Nil(t, v.Detail)
	require.NotNil(t, v.SelectedAssetID)

	v, err = s.SelectAsset(nil)
	require.NoError(t, err)
	assert.Nil(t, v.Detail)
	assert.Nil(t, v.SelectedAssetID)
}

func TestSession_Asset(t *testing.T) {
	s := startLoaded(t)

	card, ok := s.Asset(2)
	require.True(t, ok)
	assert.Equal(t, "Axe", card.Name)
	assert.Equal(t, types.RarityEpic, card.Rarity)
	assert.False(t, card.Owned)
	assert.Nil(t, s.State().SelectedAssetID)

	_, ok = s.Asset(42)
	assert.False(t, ok)
}

func names(v View) []string {
	out := make([]string, 0, len(v.Assets))
	for _, c := range v.Assets {
		out = append(out, c.Name)
	}
	return out
}
