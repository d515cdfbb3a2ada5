package service

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/notaria4/notaria4/internal/domain"
)

// FiscalService applies the tax formulas for notarial operations.
// All methods are pure over the rules captured at construction; a single
// instance is shared by every request.
type FiscalService struct {
	rules          domain.FiscalRules
	strictTaxpayer bool
	logger         *slog.Logger
}

// FiscalOption configures a FiscalService
type FiscalOption func(*FiscalService)

// WithFiscalLogger sets the logger used to report suspicious taxpayer IDs
func WithFiscalLogger(logger *slog.Logger) FiscalOption {
	return func(s *FiscalService) {
		s.logger = logger
	}
}

// WithStrictTaxpayerID rejects RFCs whose length is neither 12 nor 13
// instead of silently treating them as natural persons
func WithStrictTaxpayerID(strict bool) FiscalOption {
	return func(s *FiscalService) {
		s.strictTaxpayer = strict
	}
}

// NewFiscalService creates a new fiscal service with the given rules
func NewFiscalService(rules domain.FiscalRules, opts ...FiscalOption) *FiscalService {
	s := &FiscalService{
		rules:  rules,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the fiscal rules in use
func (s *FiscalService) Rules() domain.FiscalRules {
	return s.rules
}

// NormalizeRFC trims and uppercases an RFC
func NormalizeRFC(rfc string) string {
	return strings.ToUpper(strings.TrimSpace(rfc))
}

// RFCLength counts the characters of an RFC. "Ñ" and "&" are valid RFC
// characters, so the byte length is not the RFC length.
func RFCLength(rfc string) int {
	return utf8.RuneCountInString(rfc)
}

// ClassifyTaxpayer classifies an RFC by its normalized length.
// Anything that is not 12 characters long is a natural person.
func ClassifyTaxpayer(rfc string) domain.TaxpayerClass {
	if RFCLength(NormalizeRFC(rfc)) == domain.LegalPersonRFCLength {
		return domain.LegalPerson
	}
	return domain.NaturalPerson
}

// Classify classifies an RFC, flagging lengths other than 12 or 13.
// In strict mode a malformed RFC is a validation error; otherwise it is
// logged and classified as a natural person.
func (s *FiscalService) Classify(field, rfc string) (domain.TaxpayerClass, error) {
	normalized := NormalizeRFC(rfc)
	switch RFCLength(normalized) {
	case domain.LegalPersonRFCLength:
		return domain.LegalPerson, nil
	case domain.NaturalPersonRFCLength:
		return domain.NaturalPerson, nil
	}

	if s.strictTaxpayer {
		return domain.NaturalPerson, domain.NewValidationError(field, "RFC must be 12 or 13 characters").WithValue(normalized)
	}
	s.logger.Warn("malformed RFC classified as natural person",
		"field", field,
		"length", RFCLength(normalized),
	)
	return domain.NaturalPerson, nil
}

// ComputeVAT returns base × VAT rate rounded half-up to money places
func (s *FiscalService) ComputeVAT(base decimal.Decimal) (decimal.Decimal, error) {
	return s.ComputeVATAtRate(base, s.rules.VATRate)
}

// ComputeVATAtRate returns base × rate rounded half-up to money places
func (s *FiscalService) ComputeVATAtRate(base, rate decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("base", base); err != nil {
		return decimal.Zero, err
	}
	if err := requireNonNegative("rate", rate); err != nil {
		return decimal.Zero, err
	}
	return s.rules.Round(base.Mul(rate)), nil
}

// ComputeRetentions returns the withholdings for a counterparty class.
// Legal persons are withheld 10% income tax and two thirds of the
// transferred VAT; natural persons are withheld nothing.
func (s *FiscalService) ComputeRetentions(base decimal.Decimal, class domain.TaxpayerClass) (domain.RetentionSet, error) {
	if err := requireNonNegative("base", base); err != nil {
		return domain.ZeroRetentions(), err
	}
	if class != domain.LegalPerson {
		return domain.ZeroRetentions(), nil
	}

	incomeTax := s.rules.Round(base.Mul(s.rules.IncomeTaxRetentionRate))

	// Divide the unrounded transferred VAT so the result carries a single rounding.
	transferred := base.Mul(s.rules.VATRate).Mul(s.rules.VATRetentionNumerator)
	vat := transferred.
		DivRound(s.rules.VATRetentionDenominator, s.rules.DivisionPrecision).
		Round(s.rules.MoneyPlaces)

	return domain.RetentionSet{IncomeTax: incomeTax, VAT: vat}, nil
}

// ComputePropertyTransferTax returns the ISAI over the greater of price and cadastral value
func (s *FiscalService) ComputePropertyTransferTax(price, cadastralValue decimal.Decimal) (domain.TransferTaxResult, error) {
	return s.ComputePropertyTransferTaxAtRate(price, cadastralValue, s.rules.TransferTaxRate)
}

// ComputePropertyTransferTaxAtRate is ComputePropertyTransferTax with an explicit municipal rate
func (s *FiscalService) ComputePropertyTransferTaxAtRate(price, cadastralValue, rate decimal.Decimal) (domain.TransferTaxResult, error) {
	if err := requireNonNegative("precio_operacion", price); err != nil {
		return domain.TransferTaxResult{}, err
	}
	if err := requireNonNegative("valor_catastral", cadastralValue); err != nil {
		return domain.TransferTaxResult{}, err
	}
	if err := requireNonNegative("tasa", rate); err != nil {
		return domain.TransferTaxResult{}, err
	}

	base := decimal.Max(price, cadastralValue)
	return domain.TransferTaxResult{
		TaxableBase: base,
		AppliedRate: rate,
		Total:       s.rules.Round(base.Mul(rate)),
	}, nil
}

// Calculate computes the ISAI and the retentions of an operation in one call
func (s *FiscalService) Calculate(req *domain.FiscalCalculationRequest) (*domain.FiscalCalculationResponse, error) {
	class, err := s.Classify("rfc_receptor", req.RFCReceptor)
	if err != nil {
		return nil, err
	}

	isai, err := s.ComputePropertyTransferTax(req.PrecioOperacion, req.ValorCatastral)
	if err != nil {
		return nil, err
	}

	if err := requireNonNegative("subtotal_factura", req.SubtotalFactura); err != nil {
		return nil, err
	}
	vat, err := s.ComputeVAT(req.SubtotalFactura)
	if err != nil {
		return nil, err
	}
	retentions, err := s.ComputeRetentions(req.SubtotalFactura, class)
	if err != nil {
		return nil, err
	}

	return &domain.FiscalCalculationResponse{
		ID:         uuid.NewString(),
		Taxpayer:   class,
		VAT:        vat,
		ISAI:       isai,
		Retentions: retentions,
	}, nil
}

func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(field, "must not be negative").WithValue(d.String())
	}
	return nil
}
