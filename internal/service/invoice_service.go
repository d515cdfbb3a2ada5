package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/notaria4/notaria4/internal/domain"
)

// InvoiceService computes invoice taxes and attaches the notarial complement
type InvoiceService struct {
	fiscal      *FiscalService
	complements *ComplementService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(fiscal *FiscalService, complements *ComplementService) *InvoiceService {
	return &InvoiceService{
		fiscal:      fiscal,
		complements: complements,
	}
}

// InjectTaxes computes VAT and retentions per line item and the document totals.
// Each base is rounded to money places before it is taxed or summed, so the
// subtotal equals the sum of the rendered bases. Items not subject to tax
// count towards the subtotal only. The input is never
// modified, so repeated calls over the same items yield identical totals.
func (s *InvoiceService) InjectTaxes(items []domain.Concepto, receiver domain.TaxpayerClass) (domain.TaxBreakdown, error) {
	breakdown := domain.TaxBreakdown{
		Receiver:          receiver,
		Items:             make([]domain.ItemTaxes, 0, len(items)),
		Subtotal:          decimal.Zero,
		VATTotal:          decimal.Zero,
		IncomeTaxWithheld: decimal.Zero,
		VATWithheld:       decimal.Zero,
	}

	for i, item := range items {
		field := fmt.Sprintf("conceptos[%d]", i)
		if err := validateConcepto(field, item); err != nil {
			return domain.TaxBreakdown{}, err
		}

		base := s.fiscal.rules.Round(item.Importe)
		taxes := domain.ItemTaxes{
			Index:        i,
			Base:         base,
			SubjectToTax: item.SubjectToTax(),
			VAT:          decimal.Zero,
			Retentions:   domain.ZeroRetentions(),
		}

		if taxes.SubjectToTax {
			vat, err := s.fiscal.ComputeVAT(base)
			if err != nil {
				return domain.TaxBreakdown{}, err
			}
			retentions, err := s.fiscal.ComputeRetentions(base, receiver)
			if err != nil {
				return domain.TaxBreakdown{}, err
			}
			taxes.VAT = vat
			taxes.Retentions = retentions
		}

		breakdown.Subtotal = breakdown.Subtotal.Add(base)
		breakdown.VATTotal = breakdown.VATTotal.Add(taxes.VAT)
		breakdown.IncomeTaxWithheld = breakdown.IncomeTaxWithheld.Add(taxes.Retentions.IncomeTax)
		breakdown.VATWithheld = breakdown.VATWithheld.Add(taxes.Retentions.VAT)
		breakdown.Items = append(breakdown.Items, taxes)
	}

	breakdown.RetentionTotal = breakdown.IncomeTaxWithheld.Add(breakdown.VATWithheld)
	breakdown.Total = breakdown.Subtotal.Add(breakdown.VATTotal).Sub(breakdown.RetentionTotal)
	return breakdown, nil
}

// Compute classifies the receiver, injects taxes into every item and builds the
// complement when one is supplied
func (s *InvoiceService) Compute(req *domain.InvoiceRequest) (*domain.InvoiceResponse, error) {
	class, err := s.fiscal.Classify("receptor.rfc", req.Receptor.RFC)
	if err != nil {
		return nil, err
	}

	name := SanitizeEntityName(req.Receptor.Nombre)
	if name == "" {
		return nil, domain.NewValidationError("receptor.nombre", "is empty after sanitization").WithValue(req.Receptor.Nombre)
	}

	if !IsPostalCode(req.Receptor.DomicilioFiscal) {
		return nil, domain.NewValidationError("receptor.domicilio_fiscal", "postal code must be exactly 5 digits").WithValue(req.Receptor.DomicilioFiscal)
	}

	if len(req.Conceptos) == 0 {
		return nil, domain.NewValidationError("conceptos", "at least one item is required")
	}

	taxes, err := s.InjectTaxes(req.Conceptos, class)
	if err != nil {
		return nil, err
	}

	resp := &domain.InvoiceResponse{
		ID:          uuid.New(),
		ReceptorRFC: NormalizeRFC(req.Receptor.RFC),
		Receptor:    name,
		Taxes:       taxes,
	}

	if req.ComplementoNotarios != nil {
		complement, err := s.complements.Build(req.ComplementoNotarios)
		if err != nil {
			return nil, err
		}
		resp.Complemento = complement
	}

	return resp, nil
}

// validateConcepto rejects negative figures and an importe that disagrees with
// cantidad × valor_unitario at two decimal places
func validateConcepto(field string, item domain.Concepto) error {
	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{"cantidad", item.Cantidad},
		{"valor_unitario", item.ValorUnitario},
		{"importe", item.Importe},
	}
	for _, c := range checks {
		if err := requireNonNegative(field+"."+c.name, c.value); err != nil {
			return err
		}
	}

	if !item.Cantidad.IsPositive() {
		return domain.NewValidationError(field+".cantidad", "must be positive").WithValue(item.Cantidad.String())
	}

	expected := item.Cantidad.Mul(item.ValorUnitario).Round(2)
	if !expected.Equal(item.Importe.Round(2)) {
		return domain.NewValidationError(field+".importe", "must equal cantidad × valor_unitario").
			WithValue(fmt.Sprintf("%s, expected %s", domain.FormatMoney(item.Importe), domain.FormatMoney(expected)))
	}
	return nil
}
