package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/asset-dashboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadError(t *testing.T) {
	err := NewLoadError("file:assets.json", io.ErrUnexpectedEOF)

	assert.Equal(t, CategoryProvider, err.Category)
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "LOAD_ERROR")
	assert.Contains(t, err.Error(), "file:assets.json")
}

func TestNewInvalidSortKeyError(t *testing.T) {
	err := NewInvalidSortKeyError("price")

	assert.Equal(t, CodeInvalidSortKey, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "price", err.Details["sortKey"])
	assert.True(t, IsUserError(err))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "categorized error passes through",
			err:        NewNotFoundError("asset", "999"),
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped categorized error is found",
			err:        fmt.Errorf("store: %w", NewLoadError("http", io.EOF)),
			wantCode:   CodeLoadError,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "service error is mapped by code",
			err:        &types.ServiceError{Code: CodeInvalidSortKey, Message: "bad key"},
			wantCode:   CodeInvalidSortKey,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "plain error becomes internal",
			err:        io.ErrClosedPipe,
			wantCode:   CodeInternalError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, GetHTTPStatusCode(tt.err))
		})
	}

	assert.Nil(t, Categorize(nil))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsLoadError(fmt.Errorf("wrap: %w", NewLoadError("redis", nil))))
	assert.False(t, IsLoadError(NewInvalidSortKeyError("x")))
	assert.True(t, IsInvalidSortKey(NewInvalidSortKeyError("x")))
	assert.False(t, IsInvalidSortKey(io.EOF))
}
