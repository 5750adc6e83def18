package services_test

import (
	"errors"
	"fmt"
	"testing"

	"finance/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShares(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		kind error
	}{
		{raw: "10", want: 10},
		{raw: " 3 ", want: 3},
		{raw: "", kind: services.ErrMissingField},
		{raw: "0", kind: services.ErrInvalidShareCount},
		{raw: "-2", kind: services.ErrInvalidShareCount},
		{raw: "+2", kind: services.ErrInvalidShareCount},
		{raw: "1.5", kind: services.ErrInvalidShareCount},
		{raw: "abc", kind: services.ErrInvalidShareCount},
		{raw: "99999999999999999999", kind: services.ErrInvalidShareCount},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.raw), func(t *testing.T) {
			got, err := services.ParseShares(tc.raw)
			if tc.kind != nil {
				assert.ErrorIs(t, err, tc.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	_, err := services.ParseShares("")
	var userErr *services.Error
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "must provide number of shares", userErr.Message)
	assert.False(t, errors.Is(err, services.ErrInvalidShareCount))

	wrapped := fmt.Errorf("tx: %w", err)
	assert.ErrorIs(t, wrapped, services.ErrMissingField)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", services.NormalizeSymbol("  aapl "))
	assert.Equal(t, "", services.NormalizeSymbol("   "))
}
