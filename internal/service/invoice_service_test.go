package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notaria4/notaria4/internal/domain"
)

func newTestInvoiceService() *InvoiceService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fiscal := NewFiscalService(domain.DefaultFiscalRules(), WithFiscalLogger(logger))
	complements := NewComplementService(
		WithClock(func() time.Time { return fixedNow }),
		WithComplementLogger(logger),
	)
	return NewInvoiceService(fiscal, complements)
}

func feeItem(importe, objeto string) domain.Concepto {
	return domain.Concepto{
		ClaveProdServ: "80121603",
		Cantidad:      dec("1"),
		ClaveUnidad:   "E48",
		Descripcion:   "Honorarios notariales",
		ValorUnitario: dec(importe),
		Importe:       dec(importe),
		ObjetoImp:     objeto,
	}
}

func validInvoiceRequest() *domain.InvoiceRequest {
	return &domain.InvoiceRequest{
		Receptor: domain.Receptor{
			RFC:             "IPA010101AB1",
			Nombre:          "Inmobiliaria del Pacífico, S.A. de C.V.",
			UsoCFDI:         "G03",
			DomicilioFiscal: "28200",
			RegimenFiscal:   "601",
		},
		Conceptos: []domain.Concepto{
			feeItem("6083.91", domain.ObjetoImpSubject),
			feeItem("500.00", "01"),
		},
	}
}

func TestInjectTaxes(t *testing.T) {
	svc := newTestInvoiceService()
	items := validInvoiceRequest().Conceptos

	t.Run("legal person receiver", func(t *testing.T) {
		got, err := svc.InjectTaxes(items, domain.LegalPerson)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)

		assert.True(t, got.Items[0].SubjectToTax)
		assert.Equal(t, "973.43", domain.FormatMoney(got.Items[0].VAT))
		assert.Equal(t, "608.39", domain.FormatMoney(got.Items[0].Retentions.IncomeTax))
		assert.Equal(t, "648.95", domain.FormatMoney(got.Items[0].Retentions.VAT))

		assert.False(t, got.Items[1].SubjectToTax)
		assert.True(t, got.Items[1].VAT.IsZero())
		assert.True(t, got.Items[1].Retentions.IsZero())

		assert.Equal(t, "6583.91", domain.FormatMoney(got.Subtotal))
		assert.Equal(t, "973.43", domain.FormatMoney(got.VATTotal))
		assert.Equal(t, "1257.34", domain.FormatMoney(got.RetentionTotal))
		// 6583.91 + 973.43 - 1257.34
		assert.Equal(t, "6300.00", domain.FormatMoney(got.Total))
	})

	t.Run("natural person receiver has no retentions", func(t *testing.T) {
		got, err := svc.InjectTaxes(items, domain.NaturalPerson)
		require.NoError(t, err)
		assert.True(t, got.RetentionTotal.IsZero())
		assert.Equal(t, "7557.34", domain.FormatMoney(got.Total))
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		first, err := svc.InjectTaxes(items, domain.LegalPerson)
		require.NoError(t, err)
		second, err := svc.InjectTaxes(items, domain.LegalPerson)
		require.NoError(t, err)
		assert.True(t, first.Total.Equal(second.Total))
		assert.True(t, first.VATTotal.Equal(second.VATTotal))
		assert.True(t, dec("6083.91").Equal(items[0].Importe), "input was modified")
	})

	t.Run("importe must match cantidad times valor unitario", func(t *testing.T) {
		bad := feeItem("100", domain.ObjetoImpSubject)
		bad.Cantidad = dec("2")
		_, err := svc.InjectTaxes([]domain.Concepto{bad}, domain.LegalPerson)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "conceptos[0].importe", verr.Field)
		assert.Equal(t, "100.00, expected 200.00", verr.Value)
	})

	t.Run("subtotal sums the rounded bases", func(t *testing.T) {
		got, err := svc.InjectTaxes([]domain.Concepto{
			feeItem("1.005", domain.ObjetoImpSubject),
			feeItem("1.005", domain.ObjetoImpSubject),
		}, domain.NaturalPerson)
		require.NoError(t, err)
		assert.Equal(t, "1.01", domain.FormatMoney(got.Items[0].Base))
		assert.Equal(t, "2.02", domain.FormatMoney(got.Subtotal))
		assert.Equal(t, "0.32", domain.FormatMoney(got.VATTotal))
		assert.Equal(t, "2.34", domain.FormatMoney(got.Total))
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		bad := feeItem("0", domain.ObjetoImpSubject)
		bad.Cantidad = dec("0")
		_, err := svc.InjectTaxes([]domain.Concepto{bad}, domain.LegalPerson)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "conceptos[0].cantidad", verr.Field)
	})
}

func TestInvoiceCompute(t *testing.T) {
	svc := newTestInvoiceService()

	t.Run("sanitizes the receiver and classifies it", func(t *testing.T) {
		resp, err := svc.Compute(validInvoiceRequest())
		require.NoError(t, err)
		assert.Equal(t, "INMOBILIARIA DEL PACIFICO", resp.Receptor)
		assert.Equal(t, "IPA010101AB1", resp.ReceptorRFC)
		assert.Equal(t, domain.LegalPerson, resp.Taxes.Receiver)
		assert.Nil(t, resp.Complemento)
	})

	t.Run("attaches the complement", func(t *testing.T) {
		req := validInvoiceRequest()
		req.ComplementoNotarios = validComplementInput()
		resp, err := svc.Compute(req)
		require.NoError(t, err)
		require.NotNil(t, resp.Complemento)
		assert.Equal(t, 1234, resp.Complemento.Operation.InstrumentNumber)
	})

	t.Run("complement errors abort the invoice", func(t *testing.T) {
		req := validInvoiceRequest()
		req.ComplementoNotarios = validComplementInput()
		req.ComplementoNotarios.DatosNotario.CURP = ""
		resp, err := svc.Compute(req)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("receiver name that sanitizes to nothing", func(t *testing.T) {
		req := validInvoiceRequest()
		req.Receptor.Nombre = " ., "
		_, err := svc.Compute(req)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "receptor.nombre", verr.Field)
	})

	t.Run("receiver postal code", func(t *testing.T) {
		req := validInvoiceRequest()
		req.Receptor.DomicilioFiscal = "2820"
		_, err := svc.Compute(req)
		verr, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "receptor.domicilio_fiscal", verr.Field)
	})
}
