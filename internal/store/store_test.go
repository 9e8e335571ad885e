package store

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/types"
)

type stubSource struct {
	assets []types.Asset
	err    error
	calls  int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	s.calls++
	return s.assets, s.err
}

func quietContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.NewLoggerWithOutput(logging.LevelDebug, logging.FormatJSON, &buf)
	return logging.WithLogger(context.Background(), logger), &buf
}

func TestAssetStore_Load(t *testing.T) {
	src := &stubSource{assets: []types.Asset{{ID: 2, Name: "Axe"}, {ID: 1, Name: "Bow"}}}
	s := NewAssetStore(src)
	ctx, logs := quietContext(t)

	assert.False(t, s.Loaded())
	assert.Nil(t, s.Assets())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, s.Loaded())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, src.assets, s.Assets())
	assert.Contains(t, logs.String(), "Asset store loaded")
}

func TestAssetStore_IsWriteOnce(t *testing.T) {
	src := &stubSource{assets: []types.Asset{{ID: 1}}}
	s := NewAssetStore(src)
	ctx, _ := quietContext(t)

	_, err := s.Load(ctx)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAlreadyLoaded, apperrors.Categorize(err).Code)
	assert.Equal(t, 1, src.calls, "source must be fetched exactly once")
}

func TestAssetStore_AssetsIsACopy(t *testing.T) {
	s := NewAssetStore(&stubSource{assets: []types.Asset{{ID: 1, Name: "Bow"}}})
	ctx, _ := quietContext(t)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	view := s.Assets()
	view[0].Name = "Mutated"

	assert.Equal(t, "Bow", s.Assets()[0].Name)
}

func TestAssetStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     *stubSource
		wantMsg string
	}{
		{
			name:    "source unreachable",
			src:     &stubSource{err: errors.New("connection refused")},
			wantMsg: "connection refused",
		},
		{
			name:    "negative id",
			src:     &stubSource{assets: []types.Asset{{ID: -1}}},
			wantMsg: "negative id",
		},
		{
			name:    "duplicate id",
			src:     &stubSource{assets: []types.Asset{{ID: 4}, {ID: 4}}},
			wantMsg: "duplicate id 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAssetStore(tt.src)
			ctx, logs := quietContext(t)

			got, err := s.Load(ctx)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, apperrors.IsLoadError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			assert.False(t, s.Loaded())
			assert.Zero(t, s.Len())
			assert.Contains(t, logs.String(), "Asset load failed")

			// no retry: the store stays empty
			_, err = s.Load(ctx)
			assert.Equal(t, apperrors.CodeAlreadyLoaded, apperrors.Categorize(err).Code)
			assert.Equal(t, 1, tt.src.calls)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([]types.Asset{{ID: 0}, {ID: 1}}))
	assert.Error(t, Validate([]types.Asset{{ID: 0}, {ID: 0}}))
}
