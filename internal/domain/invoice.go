package domain

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObjetoImpSubject is the c_ObjetoImp key for items subject to tax
const ObjetoImpSubject = "02"

// Receptor represents the invoice receiver
type Receptor struct {
	RFC             string `json:"rfc" validate:"required"`
	Nombre          string `json:"nombre" validate:"required"`
	UsoCFDI         string `json:"uso_cfdi" validate:"required"`
	DomicilioFiscal string `json:"domicilio_fiscal" validate:"required,len=5,numeric"`
	RegimenFiscal   string `json:"regimen_fiscal" validate:"required,len=3,numeric"`
}

// Concepto represents an invoice line item
type Concepto struct {
	ClaveProdServ string          `json:"clave_prod_serv" validate:"required"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	ClaveUnidad   string          `json:"clave_unidad" validate:"required"`
	Descripcion   string          `json:"descripcion" validate:"required"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Importe       decimal.Decimal `json:"importe"`
	ObjetoImp     string          `json:"objeto_imp" validate:"required"`
}

// SubjectToTax reports whether VAT and retentions apply to the item
func (c Concepto) SubjectToTax() bool {
	return c.ObjetoImp == ObjetoImpSubject
}

// InvoiceRequest represents a request to compute the taxes of an invoice
type InvoiceRequest struct {
	Receptor            Receptor         `json:"receptor"`
	Conceptos           []Concepto       `json:"conceptos" validate:"required,min=1,dive"`
	ComplementoNotarios *ComplementInput `json:"complemento_notarios,omitempty"`
}

// ItemTaxes is the tax breakdown of a single line item
type ItemTaxes struct {
	Index        int
	Base         decimal.Decimal
	SubjectToTax bool
	VAT          decimal.Decimal
	Retentions   RetentionSet
}

func (i ItemTaxes) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index        int          `json:"index"`
		Base         string       `json:"base"`
		SubjectToTax bool         `json:"objeto_impuesto"`
		VAT          string       `json:"iva_trasladado"`
		Retentions   RetentionSet `json:"retenciones"`
	}{
		Index:        i.Index,
		Base:         FormatMoney(i.Base),
		SubjectToTax: i.SubjectToTax,
		VAT:          FormatMoney(i.VAT),
		Retentions:   i.Retentions,
	})
}

// TaxBreakdown aggregates the per-item taxes of an invoice
type TaxBreakdown struct {
	Receiver          TaxpayerClass
	Items             []ItemTaxes
	Subtotal          decimal.Decimal
	VATTotal          decimal.Decimal
	IncomeTaxWithheld decimal.Decimal
	VATWithheld       decimal.Decimal
	RetentionTotal    decimal.Decimal
	Total             decimal.Decimal
}

func (t TaxBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Receiver          TaxpayerClass `json:"tipo_receptor"`
		Items             []ItemTaxes   `json:"conceptos"`
		Subtotal          string        `json:"subtotal"`
		VATTotal          string        `json:"total_impuestos_trasladados"`
		IncomeTaxWithheld string        `json:"total_ret_isr"`
		VATWithheld       string        `json:"total_ret_iva"`
		RetentionTotal    string        `json:"total_impuestos_retenidos"`
		Total             string        `json:"total"`
	}{
		Receiver:          t.Receiver,
		Items:             t.Items,
		Subtotal:          FormatMoney(t.Subtotal),
		VATTotal:          FormatMoney(t.VATTotal),
		IncomeTaxWithheld: FormatMoney(t.IncomeTaxWithheld),
		VATWithheld:       FormatMoney(t.VATWithheld),
		RetentionTotal:    FormatMoney(t.RetentionTotal),
		Total:             FormatMoney(t.Total),
	})
}

// InvoiceResponse represents the computed invoice handed to the serializer
type InvoiceResponse struct {
	ID          uuid.UUID         `json:"id"`
	ReceptorRFC string            `json:"receptor_rfc"`
	Receptor    string            `json:"receptor_nombre"`
	Taxes       TaxBreakdown      `json:"impuestos"`
	Complemento *NotaryComplement `json:"complemento_notarios,omitempty"`
}
