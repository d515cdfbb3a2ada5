package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Schema constants for the Notarios Públicos 1.0 complement
const (
	ComplementVersion  = "1.0"
	CURPLength         = 18
	PostalCodeLength   = 5
	DefaultCountryCode = "MEX"
	CoproprietyYes     = "Si"
	CoproprietyNo      = "No"
)

// ComplementInput is the notarial complement payload as received from the caller
type ComplementInput struct {
	DatosNotario     NotaryInput     `json:"datos_notario"`
	DatosOperacion   OperationInput  `json:"datos_operacion"`
	DescInmuebles    []PropertyInput `json:"desc_inmuebles"`
	DatosEnajenante  OwnershipInput  `json:"datos_enajenante"`
	DatosAdquiriente OwnershipInput  `json:"datos_adquiriente"`
}

// NotaryInput identifies the issuing notary
type NotaryInput struct {
	CURP              string `json:"curp"`
	NumNotaria        int    `json:"num_notaria,omitempty"`
	EntidadFederativa string `json:"entidad_federativa,omitempty"`
	Adscripcion       string `json:"adscripcion,omitempty"`
}

// OperationInput describes the notarial instrument
type OperationInput struct {
	NumInstrumentoNotarial int             `json:"num_instrumento_notarial"`
	FechaInstNotarial      Date            `json:"fecha_inst_notarial"`
	MontoOperacion         decimal.Decimal `json:"monto_operacion"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	IVA                    decimal.Decimal `json:"iva"`
}

// PropertyInput describes one property of the operation
type PropertyInput struct {
	TipoInmueble string `json:"tipo_inmueble"`
	Calle        string `json:"calle"`
	NoExterior   string `json:"no_exterior,omitempty"`
	NoInterior   string `json:"no_interior,omitempty"`
	Colonia      string `json:"colonia,omitempty"`
	Localidad    string `json:"localidad,omitempty"`
	Referencia   string `json:"referencia,omitempty"`
	Municipio    string `json:"municipio"`
	Estado       string `json:"estado"`
	Pais         string `json:"pais,omitempty"`
	CodigoPostal string `json:"codigo_postal"`
}

// PersonInput is a seller or buyer as supplied by the caller
type PersonInput struct {
	Nombre          string           `json:"nombre"`
	ApellidoPaterno string           `json:"apellido_paterno,omitempty"`
	ApellidoMaterno string           `json:"apellido_materno,omitempty"`
	RFC             string           `json:"rfc"`
	CURP            string           `json:"curp,omitempty"`
	Porcentaje      *decimal.Decimal `json:"porcentaje,omitempty"`
}

// OwnershipInput is one side (sellers or buyers) of the operation
type OwnershipInput struct {
	CoproSocConyugalE string        `json:"copro_soc_conyugal_e"`
	Personas          []PersonInput `json:"personas"`
}

// IsCoproperty reports whether the side declares coproperty or conjugal partnership
func (o OwnershipInput) IsCoproperty() bool {
	return o.CoproSocConyugalE == CoproprietyYes
}

// NotaryIdentity is the validated notary node
type NotaryIdentity struct {
	CURP        string
	Number      int
	State       string
	Adscription string
}

// OperationRecord is the validated operation node
type OperationRecord struct {
	InstrumentNumber int
	InstrumentDate   Date
	OperationAmount  decimal.Decimal
	Subtotal         decimal.Decimal
	VAT              decimal.Decimal
}

// PropertyDescription is the validated property node
type PropertyDescription struct {
	TypeCode       string
	Street         string
	ExteriorNumber string
	InteriorNumber string
	Colonia        string
	Locality       string
	Reference      string
	Municipality   string
	State          string
	Country        string
	PostalCode     string
}

// NameSource records whether name parts came from the caller or from the split fallback
type NameSource string

const (
	NameSupplied NameSource = "supplied"
	NameDerived  NameSource = "derived"
)

// PersonRecord is a normalized seller or buyer
type PersonRecord struct {
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	RFC             string
	CURP            string
	// OwnershipPercent is set only for coproperty members.
	OwnershipPercent *decimal.Decimal
	NameSource       NameSource
}

// OwnershipGroup is either a SingleOwner or a CoOwnership. The variant is
// decided once when the complement is built.
type OwnershipGroup interface {
	Coproperty() bool
	Members() []PersonRecord
	ownershipGroup()
}

// SingleOwner is a side held by exactly one person
type SingleOwner struct {
	Owner PersonRecord
}

func (SingleOwner) Coproperty() bool { return false }

func (s SingleOwner) Members() []PersonRecord { return []PersonRecord{s.Owner} }

func (SingleOwner) ownershipGroup() {}

// CoOwnership is a side held jointly; percentages sum to exactly 100.00
type CoOwnership struct {
	Owners []PersonRecord
}

func (CoOwnership) Coproperty() bool { return true }

func (c CoOwnership) Members() []PersonRecord {
	out := make([]PersonRecord, len(c.Owners))
	copy(out, c.Owners)
	return out
}

func (CoOwnership) ownershipGroup() {}

// NotaryComplement is the assembled complement handed to the serializer
type NotaryComplement struct {
	Notary     NotaryIdentity
	Operation  OperationRecord
	Properties []PropertyDescription
	Sellers    OwnershipGroup
	Buyers     OwnershipGroup
}

// JSON views mirroring the complement schema node names

type personView struct {
	Nombre          string `json:"Nombre"`
	ApellidoPaterno string `json:"ApellidoPaterno"`
	ApellidoMaterno string `json:"ApellidoMaterno,omitempty"`
	RFC             string `json:"RFC"`
	CURP            string `json:"CURP,omitempty"`
	Porcentaje      string `json:"Porcentaje,omitempty"`
}

func newPersonView(p PersonRecord) personView {
	v := personView{
		Nombre:          p.GivenName,
		ApellidoPaterno: p.PaternalSurname,
		ApellidoMaterno: p.MaternalSurname,
		RFC:             p.RFC,
		CURP:            p.CURP,
	}
	if p.OwnershipPercent != nil {
		v.Porcentaje = FormatMoney(*p.OwnershipPercent)
	}
	return v
}

func ownershipView(group OwnershipGroup, singleKey, coKey string) map[string]any {
	view := map[string]any{}
	switch g := group.(type) {
	case SingleOwner:
		view["CoproSocConyugalE"] = CoproprietyNo
		view[singleKey] = newPersonView(g.Owner)
	case CoOwnership:
		view["CoproSocConyugalE"] = CoproprietyYes
		owners := make([]personView, 0, len(g.Owners))
		for _, o := range g.Owners {
			owners = append(owners, newPersonView(o))
		}
		view[coKey] = owners
	}
	return view
}

func (c NotaryComplement) MarshalJSON() ([]byte, error) {
	type propertyView struct {
		TipoInmueble string `json:"TipoInmueble"`
		Calle        string `json:"Calle"`
		NoExterior   string `json:"NoExterior,omitempty"`
		NoInterior   string `json:"NoInterior,omitempty"`
		Colonia      string `json:"Colonia,omitempty"`
		Localidad    string `json:"Localidad,omitempty"`
		Referencia   string `json:"Referencia,omitempty"`
		Municipio    string `json:"Municipio"`
		Estado       string `json:"Estado"`
		Pais         string `json:"Pais"`
		CodigoPostal string `json:"CodigoPostal"`
	}
	type operationView struct {
		NumInstrumentoNotarial int    `json:"NumInstrumentoNotarial"`
		FechaInstNotarial      Date   `json:"FechaInstNotarial"`
		MontoOperacion         string `json:"MontoOperacion"`
		Subtotal               string `json:"Subtotal"`
		IVA                    string `json:"IVA"`
	}
	type notaryView struct {
		CURP              string `json:"CURP"`
		NumNotaria        int    `json:"NumNotaria"`
		EntidadFederativa string `json:"EntidadFederativa"`
		Adscripcion       string `json:"Adscripcion,omitempty"`
	}

	properties := make([]propertyView, 0, len(c.Properties))
	for _, p := range c.Properties {
		properties = append(properties, propertyView{
			TipoInmueble: p.TypeCode,
			Calle:        p.Street,
			NoExterior:   p.ExteriorNumber,
			NoInterior:   p.InteriorNumber,
			Colonia:      p.Colonia,
			Localidad:    p.Locality,
			Referencia:   p.Reference,
			Municipio:    p.Municipality,
			Estado:       p.State,
			Pais:         p.Country,
			CodigoPostal: p.PostalCode,
		})
	}

	return json.Marshal(struct {
		Version          string         `json:"Version"`
		DescInmuebles    []propertyView `json:"DescInmuebles"`
		DatosOperacion   operationView  `json:"DatosOperacion"`
		DatosNotario     notaryView     `json:"DatosNotario"`
		DatosEnajenante  map[string]any `json:"DatosEnajenante"`
		DatosAdquiriente map[string]any `json:"DatosAdquiriente"`
	}{
		Version:       ComplementVersion,
		DescInmuebles: properties,
		DatosOperacion: operationView{
			NumInstrumentoNotarial: c.Operation.InstrumentNumber,
			FechaInstNotarial:      c.Operation.InstrumentDate,
			MontoOperacion:         FormatMoney(c.Operation.OperationAmount),
			Subtotal:               FormatMoney(c.Operation.Subtotal),
			IVA:                    FormatMoney(c.Operation.VAT),
		},
		DatosNotario: notaryView{
			CURP:              c.Notary.CURP,
			NumNotaria:        c.Notary.Number,
			EntidadFederativa: c.Notary.State,
			Adscripcion:       c.Notary.Adscription,
		},
		DatosEnajenante:  ownershipView(c.Sellers, "DatosUnEnajenante", "DatosEnajenantesCopSC"),
		DatosAdquiriente: ownershipView(c.Buyers, "DatosUnAdquiriente", "DatosAdquirientesCopSC"),
	})
}
