package service

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/notaria4/notaria4/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type FiscalServiceSuite struct {
	suite.Suite
	svc    *FiscalService
	logBuf *bytes.Buffer
}

func TestFiscalServiceSuite(t *testing.T) {
	suite.Run(t, new(FiscalServiceSuite))
}

func (s *FiscalServiceSuite) SetupTest() {
	s.logBuf = &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(s.logBuf, nil))
	s.svc = NewFiscalService(domain.DefaultFiscalRules(), WithFiscalLogger(logger))
}

func (s *FiscalServiceSuite) TestClassifyTaxpayer() {
	s.Run("twelve characters is a legal person", func() {
		s.Equal(domain.LegalPerson, ClassifyTaxpayer("IPA010101AB1"))
	})
	s.Run("thirteen characters is a natural person", func() {
		s.Equal(domain.NaturalPerson, ClassifyTaxpayer("PEGJ800101AB1"))
	})
	s.Run("surrounding whitespace is ignored", func() {
		s.Equal(domain.LegalPerson, ClassifyTaxpayer("  ipa010101ab1 "))
	})
	s.Run("other lengths fall back to natural person", func() {
		s.Equal(domain.NaturalPerson, ClassifyTaxpayer("XAXX"))
		s.Equal(domain.NaturalPerson, ClassifyTaxpayer(""))
	})
	s.Run("Ñ and & count as one character each", func() {
		tests := []struct {
			rfc  string
			want domain.TaxpayerClass
		}{
			{"AÑO010101AB1", domain.LegalPerson},
			{"año010101ab1", domain.LegalPerson},
			{"A&B010101AB1", domain.LegalPerson},
			{"PEÑA800101AB1", domain.NaturalPerson},
			{"MU&A800101AB1", domain.NaturalPerson},
		}
		for _, tt := range tests {
			s.Equal(tt.want, ClassifyTaxpayer(tt.rfc), tt.rfc)
		}
	})
}

func (s *FiscalServiceSuite) TestClassifyStrictAcceptsMultibyteRFC() {
	strict := NewFiscalService(domain.DefaultFiscalRules(), WithStrictTaxpayerID(true))

	class, err := strict.Classify("rfc_receptor", "AÑO010101AB1")
	s.Require().NoError(err)
	s.Equal(domain.LegalPerson, class)

	class, err = strict.Classify("rfc_receptor", "PEÑA800101AB1")
	s.Require().NoError(err)
	s.Equal(domain.NaturalPerson, class)

	_, err = strict.Classify("rfc_receptor", "AÑO010101AB12X")
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *FiscalServiceSuite) TestClassifyMalformed() {
	s.Run("lenient mode logs and classifies as natural person", func() {
		class, err := s.svc.Classify("rfc_receptor", "ABC123")
		s.Require().NoError(err)
		s.Equal(domain.NaturalPerson, class)
		s.Contains(s.logBuf.String(), "malformed RFC")
	})

	s.Run("strict mode rejects", func() {
		strict := NewFiscalService(domain.DefaultFiscalRules(), WithStrictTaxpayerID(true))
		_, err := strict.Classify("rfc_receptor", "ABC123")
		s.Require().ErrorIs(err, domain.ErrValidation)

		verr, ok := domain.AsValidationError(err)
		s.Require().True(ok)
		s.Equal("rfc_receptor", verr.Field)
		s.Equal("ABC123", verr.Value)
	})
}

func (s *FiscalServiceSuite) TestComputeVAT() {
	tests := []struct {
		base string
		want string
	}{
		{"1000", "160"},
		{"6083.91", "973.43"},
		{"0.03", "0"},
		{"0.04", "0.01"},
		{"0", "0"},
	}
	for _, tt := range tests {
		s.Run(tt.base, func() {
			got, err := s.svc.ComputeVAT(dec(tt.base))
			s.Require().NoError(err)
			s.True(dec(tt.want).Equal(got), "got %s", got)
		})
	}

	s.Run("negative base is rejected", func() {
		_, err := s.svc.ComputeVAT(dec("-1"))
		s.ErrorIs(err, domain.ErrValidation)
	})
}

func (s *FiscalServiceSuite) TestComputeRetentions() {
	s.Run("legal person end to end", func() {
		got, err := s.svc.ComputeRetentions(dec("6083.91"), domain.LegalPerson)
		s.Require().NoError(err)
		s.Equal("608.39", domain.FormatMoney(got.IncomeTax))
		s.Equal("648.95", domain.FormatMoney(got.VAT))
		s.Equal("1257.34", domain.FormatMoney(got.Total()))
	})

	s.Run("vat retention is two thirds of transferred vat", func() {
		got, err := s.svc.ComputeRetentions(dec("1000"), domain.LegalPerson)
		s.Require().NoError(err)
		s.Equal("100.00", domain.FormatMoney(got.IncomeTax))
		s.Equal("106.67", domain.FormatMoney(got.VAT))
	})

	s.Run("natural person has no retentions", func() {
		got, err := s.svc.ComputeRetentions(dec("6083.91"), domain.NaturalPerson)
		s.Require().NoError(err)
		s.True(got.IsZero())
	})

	s.Run("formula holds across bases", func() {
		for _, b := range []string{"0.01", "1", "99.99", "12345.67", "250000", "999999.99"} {
			base := dec(b)
			got, err := s.svc.ComputeRetentions(base, domain.LegalPerson)
			s.Require().NoError(err)

			wantISR := base.Mul(dec("0.10")).Round(2)
			wantIVA := base.Mul(dec("0.16")).Mul(decimal.NewFromInt(2)).DivRound(decimal.NewFromInt(3), 16).Round(2)
			s.True(wantISR.Equal(got.IncomeTax), "isr for %s", b)
			s.True(wantIVA.Equal(got.VAT), "iva for %s", b)
		}
	})
}

func (s *FiscalServiceSuite) TestComputePropertyTransferTax() {
	s.Run("price above cadastral value", func() {
		got, err := s.svc.ComputePropertyTransferTax(dec("1000000.00"), dec("800000.00"))
		s.Require().NoError(err)
		s.Equal("30000.00", domain.FormatMoney(got.Total))
		s.Equal("1000000.00", domain.FormatMoney(got.TaxableBase))
	})

	s.Run("cadastral value above price", func() {
		got, err := s.svc.ComputePropertyTransferTax(dec("500000.00"), dec("800000.00"))
		s.Require().NoError(err)
		s.Equal("24000.00", domain.FormatMoney(got.Total))
		s.Equal("800000.00", domain.FormatMoney(got.TaxableBase))
	})

	s.Run("explicit rate", func() {
		got, err := s.svc.ComputePropertyTransferTaxAtRate(dec("100000"), dec("0"), dec("0.02"))
		s.Require().NoError(err)
		s.Equal("2000.00", domain.FormatMoney(got.Total))
		s.True(dec("0.02").Equal(got.AppliedRate))
	})

	s.Run("negative cadastral value is rejected", func() {
		_, err := s.svc.ComputePropertyTransferTax(dec("1"), dec("-1"))
		verr, ok := domain.AsValidationError(err)
		s.Require().True(ok)
		s.Equal("valor_catastral", verr.Field)
	})
}

func (s *FiscalServiceSuite) TestCalculate() {
	resp, err := s.svc.Calculate(&domain.FiscalCalculationRequest{
		PrecioOperacion: dec("1000000"),
		ValorCatastral:  dec("800000"),
		RFCReceptor:     "IPA010101AB1",
		SubtotalFactura: dec("6083.91"),
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal(domain.LegalPerson, resp.Taxpayer)
	s.Equal("30000.00", domain.FormatMoney(resp.ISAI.Total))
	s.Equal("973.43", domain.FormatMoney(resp.VAT))
	s.Equal("608.39", domain.FormatMoney(resp.Retentions.IncomeTax))
	s.Equal("648.95", domain.FormatMoney(resp.Retentions.VAT))
}

func TestFiscalRulesAreNotShared(t *testing.T) {
	before := decimal.DivisionPrecision

	rules := domain.DefaultFiscalRules()
	rules.DivisionPrecision = 4
	svc := NewFiscalService(rules)
	_, err := svc.ComputeRetentions(dec("1000"), domain.LegalPerson)
	require.NoError(t, err)

	assert.Equal(t, before, decimal.DivisionPrecision)
	assert.Equal(t, int32(16), domain.DefaultFiscalRules().DivisionPrecision)
}
