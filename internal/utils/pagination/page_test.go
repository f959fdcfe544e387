package pagination

import (
	"math"
	"testing"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantSize     int
		wantOffset   int
		wantValidErr bool
	}{
		{name: "defaults size", page: 0, size: 0, wantSize: DefaultPageSize, wantOffset: 0},
		{name: "explicit size", page: 2, size: 10, wantSize: 10, wantOffset: 20},
		{name: "clamps size", page: 1, size: 500, wantSize: MaxPageSize, wantOffset: MaxPageSize},
		{name: "negative page", page: -1, size: 10, wantValidErr: true},
		{name: "negative size", page: 0, size: -5, wantValidErr: true},
		{name: "last addressable page", page: math.MaxInt / MaxPageSize, size: MaxPageSize, wantSize: MaxPageSize, wantOffset: math.MaxInt / MaxPageSize * MaxPageSize},
		{name: "offset overflows", page: math.MaxInt/MaxPageSize + 1, size: MaxPageSize, wantValidErr: true},
		{name: "overflow after clamp", page: math.MaxInt / 50, size: 500, wantValidErr: true},
		{name: "overflow with default size", page: math.MaxInt, size: 0, wantValidErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPageRequest(tt.page, tt.size)
			if tt.wantValidErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}
