package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaria4/notaria4/internal/domain"
)

func percentages(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestValidateCoproperty(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		wantErr bool
		wantSum string
	}{
		{name: "halves", values: []string{"50.00", "50.00"}},
		{name: "thirds short by a cent", values: []string{"33.33", "33.33", "33.33"}, wantErr: true, wantSum: "99.99"},
		{name: "thirds with remainder", values: []string{"33.33", "33.33", "33.34"}},
		{name: "single owner of everything", values: []string{"100"}},
		{name: "over one hundred", values: []string{"60", "50"}, wantErr: true, wantSum: "110.00"},
		{name: "empty", values: nil, wantErr: true, wantSum: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoproperty("personas", percentages(tt.values...))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrValidation)
			verr, ok := domain.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "percentage sum mismatch", verr.Message)
			assert.Equal(t, tt.wantSum, verr.Value)
		})
	}
}
