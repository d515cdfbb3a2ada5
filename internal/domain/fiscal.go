package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TaxpayerClass classifies an RFC holder by the length of the normalized RFC
type TaxpayerClass int

const (
	NaturalPerson TaxpayerClass = iota // 13 characters (persona física)
	LegalPerson                        // 12 characters (persona moral)
)

const (
	LegalPersonRFCLength   = 12
	NaturalPersonRFCLength = 13
)

// String returns the human-readable name for a taxpayer class
func (c TaxpayerClass) String() string {
	switch c {
	case LegalPerson:
		return "Persona Moral"
	case NaturalPerson:
		return "Persona Fisica"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the class by name
func (c TaxpayerClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// FiscalRules is the immutable rate and precision configuration shared by every
// computation. It is built once at process start and passed by value.
type FiscalRules struct {
	VATRate                decimal.Decimal
	IncomeTaxRetentionRate decimal.Decimal
	// VAT retention is VATRetentionNumerator/VATRetentionDenominator of the transferred VAT.
	VATRetentionNumerator   decimal.Decimal
	VATRetentionDenominator decimal.Decimal
	TransferTaxRate         decimal.Decimal
	// MoneyPlaces is the number of decimal places for every currency output.
	MoneyPlaces int32
	// DivisionPrecision bounds intermediate quotients; the package-wide
	// decimal.DivisionPrecision is never touched.
	DivisionPrecision int32
}

// DefaultFiscalRules returns the rates in force for the Manzanillo notary office
func DefaultFiscalRules() FiscalRules {
	return FiscalRules{
		VATRate:                 decimal.RequireFromString("0.16"),
		IncomeTaxRetentionRate:  decimal.RequireFromString("0.10"),
		VATRetentionNumerator:   decimal.NewFromInt(2),
		VATRetentionDenominator: decimal.NewFromInt(3),
		TransferTaxRate:         decimal.RequireFromString("0.03"),
		MoneyPlaces:             2,
		DivisionPrecision:       16,
	}
}

// Round applies the half-up money rounding policy.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts this package accepts.
func (r FiscalRules) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(r.MoneyPlaces)
}

// FormatMoney renders a decimal with exactly two places
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RetentionSet holds the withholdings applied to a legal-person counterparty
type RetentionSet struct {
	IncomeTax decimal.Decimal
	VAT       decimal.Decimal
}

// ZeroRetentions is the retention set for natural persons
func ZeroRetentions() RetentionSet {
	return RetentionSet{IncomeTax: decimal.Zero, VAT: decimal.Zero}
}

// Total returns the sum of both withholdings
func (r RetentionSet) Total() decimal.Decimal {
	return r.IncomeTax.Add(r.VAT)
}

// IsZero reports whether nothing is withheld
func (r RetentionSet) IsZero() bool {
	return r.IncomeTax.IsZero() && r.VAT.IsZero()
}

func (r RetentionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ISR   string `json:"ret_isr"`
		IVA   string `json:"ret_iva"`
		Total string `json:"total_retention"`
	}{
		ISR:   FormatMoney(r.IncomeTax),
		IVA:   FormatMoney(r.VAT),
		Total: FormatMoney(r.Total()),
	})
}

// FiscalCalculationRequest represents a request for the ISAI and retention figures of an operation
type FiscalCalculationRequest struct {
	PrecioOperacion decimal.Decimal `json:"precio_operacion"`
	ValorCatastral  decimal.Decimal `json:"valor_catastral"`
	RFCReceptor     string          `json:"rfc_receptor" validate:"required"`
	SubtotalFactura decimal.Decimal `json:"subtotal_factura"`
}

// TransferTaxResult describes an ISAI computation
type TransferTaxResult struct {
	TaxableBase decimal.Decimal
	AppliedRate decimal.Decimal
	Total       decimal.Decimal
}

func (t TransferTaxResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Base  string `json:"base_gravable"`
		Rate  string `json:"tasa_aplicada"`
		Total string `json:"isai_total"`
	}{
		Base:  FormatMoney(t.TaxableBase),
		Rate:  t.AppliedRate.String(),
		Total: FormatMoney(t.Total),
	})
}

// FiscalCalculationResponse represents the response for a fiscal calculation
type FiscalCalculationResponse struct {
	ID         string
	Taxpayer   TaxpayerClass
	VAT        decimal.Decimal
	ISAI       TransferTaxResult
	Retentions RetentionSet
}

func (f FiscalCalculationResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string            `json:"id"`
		Taxpayer   TaxpayerClass     `json:"type"`
		VAT        string            `json:"iva_trasladado"`
		ISAI       TransferTaxResult `json:"isai_manzanillo"`
		Retentions RetentionSet      `json:"retenciones"`
	}{
		ID:         f.ID,
		Taxpayer:   f.Taxpayer,
		VAT:        FormatMoney(f.VAT),
		ISAI:       f.ISAI,
		Retentions: f.Retentions,
	})
}
