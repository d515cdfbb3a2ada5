package service

import (
	"github.com/shopspring/decimal"

	"github.com/notaria4/notaria4/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// ValidateCoproperty checks that ownership percentages add up to exactly 100.00.
// Each percentage is taken at two decimal places, as it will be rendered.
func ValidateCoproperty(field string, percentages []decimal.Decimal) error {
	total := decimal.Zero
	for _, p := range percentages {
		total = total.Add(p.Round(2))
	}

	if !total.Equal(oneHundred) {
		return domain.NewValidationError(field, "percentage sum mismatch").WithValue(domain.FormatMoney(total))
	}
	return nil
}
