package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/notaria4/notaria4/internal/domain"
)

// NotaryDefaults fill the notary node when the payload omits them
type NotaryDefaults struct {
	Number      int
	State       string
	Adscription string
}

// ComplementService builds Notarios Públicos complements.
// Build is pure apart from reading the clock; it never performs I/O.
type ComplementService struct {
	defaults         NotaryDefaults
	requireBuyerCURP bool
	now              func() time.Time
	logger           *slog.Logger
}

// ComplementOption configures a ComplementService
type ComplementOption func(*ComplementService)

// WithNotaryDefaults sets the values used for missing notary fields
func WithNotaryDefaults(defaults NotaryDefaults) ComplementOption {
	return func(s *ComplementService) {
		s.defaults = defaults
	}
}

// WithRequireBuyerCURP makes the CURP mandatory for a single buyer as it is for a single seller
func WithRequireBuyerCURP(required bool) ComplementOption {
	return func(s *ComplementService) {
		s.requireBuyerCURP = required
	}
}

// WithClock overrides the clock used to reject future instrument dates
func WithClock(now func() time.Time) ComplementOption {
	return func(s *ComplementService) {
		s.now = now
	}
}

// WithComplementLogger sets the logger
func WithComplementLogger(logger *slog.Logger) ComplementOption {
	return func(s *ComplementService) {
		s.logger = logger
	}
}

// NewComplementService creates a new complement service
func NewComplementService(opts ...ComplementOption) *ComplementService {
	s := &ComplementService{
		defaults: NotaryDefaults{Number: 4, State: "06", Adscription: "MANZANILLO COLIMA"},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ownershipSide names the two parties of a transfer
type ownershipSide int

const (
	sellerSide ownershipSide = iota
	buyerSide
)

// Build validates the payload and assembles the complement. The first
// invalid field aborts the build; no partial complement is ever returned.
func (s *ComplementService) Build(input *domain.ComplementInput) (*domain.NotaryComplement, error) {
	if input == nil {
		return nil, domain.NewValidationError("complemento_notarios", "is required")
	}

	notary, err := s.buildNotary(input.DatosNotario)
	if err != nil {
		return nil, err
	}

	operation, err := s.buildOperation(input.DatosOperacion)
	if err != nil {
		return nil, err
	}

	properties, err := buildProperties(input.DescInmuebles)
	if err != nil {
		return nil, err
	}

	sellers, err := s.buildOwnership("datos_enajenante", input.DatosEnajenante, sellerSide)
	if err != nil {
		return nil, err
	}

	buyers, err := s.buildOwnership("datos_adquiriente", input.DatosAdquiriente, buyerSide)
	if err != nil {
		return nil, err
	}

	return &domain.NotaryComplement{
		Notary:     notary,
		Operation:  operation,
		Properties: properties,
		Sellers:    sellers,
		Buyers:     buyers,
	}, nil
}

func (s *ComplementService) buildNotary(in domain.NotaryInput) (domain.NotaryIdentity, error) {
	curp := strings.ToUpper(strings.TrimSpace(in.CURP))
	if len(curp) != domain.CURPLength {
		return domain.NotaryIdentity{}, domain.NewValidationError("datos_notario.curp", "CURP must be exactly 18 characters").WithValue(curp)
	}

	identity := domain.NotaryIdentity{
		CURP:        curp,
		Number:      in.NumNotaria,
		State:       strings.TrimSpace(in.EntidadFederativa),
		Adscription: SanitizeEntityName(in.Adscripcion),
	}
	if identity.Number == 0 {
		identity.Number = s.defaults.Number
	}
	if identity.State == "" {
		identity.State = s.defaults.State
	}
	if identity.Adscription == "" {
		identity.Adscription = s.defaults.Adscription
	}

	if identity.Number <= 0 {
		return domain.NotaryIdentity{}, domain.NewValidationError("datos_notario.num_notaria", "must be positive").WithValue(fmt.Sprint(identity.Number))
	}
	if identity.State == "" {
		return domain.NotaryIdentity{}, domain.NewValidationError("datos_notario.entidad_federativa", "is required")
	}
	return identity, nil
}

func (s *ComplementService) buildOperation(in domain.OperationInput) (domain.OperationRecord, error) {
	if in.NumInstrumentoNotarial <= 0 {
		return domain.OperationRecord{}, domain.NewValidationError("datos_operacion.num_instrumento_notarial", "must be positive").WithValue(fmt.Sprint(in.NumInstrumentoNotarial))
	}
	if in.FechaInstNotarial.IsZero() {
		return domain.OperationRecord{}, domain.NewValidationError("datos_operacion.fecha_inst_notarial", "is required")
	}
	today := domain.DateOf(s.now())
	if in.FechaInstNotarial.After(today) {
		return domain.OperationRecord{}, domain.NewValidationError("datos_operacion.fecha_inst_notarial", "cannot be in the future").WithValue(in.FechaInstNotarial.String())
	}

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"datos_operacion.monto_operacion", in.MontoOperacion},
		{"datos_operacion.subtotal", in.Subtotal},
		{"datos_operacion.iva", in.IVA},
	}
	for _, a := range amounts {
		if err := requireNonNegative(a.field, a.value); err != nil {
			return domain.OperationRecord{}, err
		}
	}

	return domain.OperationRecord{
		InstrumentNumber: in.NumInstrumentoNotarial,
		InstrumentDate:   in.FechaInstNotarial,
		OperationAmount:  in.MontoOperacion.Round(2),
		Subtotal:         in.Subtotal.Round(2),
		VAT:              in.IVA.Round(2),
	}, nil
}

func buildProperties(in []domain.PropertyInput) ([]domain.PropertyDescription, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("desc_inmuebles", "at least one property is required")
	}

	properties := make([]domain.PropertyDescription, 0, len(in))
	for i, p := range in {
		field := fmt.Sprintf("desc_inmuebles[%d]", i)

		required := []struct {
			name  string
			value string
		}{
			{"tipo_inmueble", p.TipoInmueble},
			{"calle", p.Calle},
			{"municipio", p.Municipio},
			{"estado", p.Estado},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return nil, domain.NewValidationError(field+"."+r.name, "is required")
			}
		}

		postalCode := strings.TrimSpace(p.CodigoPostal)
		if !IsPostalCode(postalCode) {
			return nil, domain.NewValidationError(field+".codigo_postal", "postal code must be exactly 5 digits").WithValue(postalCode)
		}

		country := strings.ToUpper(strings.TrimSpace(p.Pais))
		if country == "" {
			country = domain.DefaultCountryCode
		}

		properties = append(properties, domain.PropertyDescription{
			TypeCode:       strings.TrimSpace(p.TipoInmueble),
			Street:         strings.TrimSpace(p.Calle),
			ExteriorNumber: strings.TrimSpace(p.NoExterior),
			InteriorNumber: strings.TrimSpace(p.NoInterior),
			Colonia:        strings.TrimSpace(p.Colonia),
			Locality:       strings.TrimSpace(p.Localidad),
			Reference:      strings.TrimSpace(p.Referencia),
			Municipality:   strings.TrimSpace(p.Municipio),
			State:          strings.TrimSpace(p.Estado),
			Country:        country,
			PostalCode:     postalCode,
		})
	}
	return properties, nil
}

// IsPostalCode reports whether s is exactly five ASCII digits
func IsPostalCode(s string) bool {
	if len(s) != domain.PostalCodeLength {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (s *ComplementService) buildOwnership(field string, in domain.OwnershipInput, side ownershipSide) (domain.OwnershipGroup, error) {
	switch in.CoproSocConyugalE {
	case "", domain.CoproprietyNo, domain.CoproprietyYes:
	default:
		return nil, domain.NewValidationError(field+".copro_soc_conyugal_e", "must be Si or No").WithValue(in.CoproSocConyugalE)
	}

	if len(in.Personas) == 0 {
		return nil, domain.NewValidationError(field+".personas", "at least one person is required")
	}

	if in.IsCoproperty() {
		return s.buildCoOwnership(field, in.Personas)
	}

	if len(in.Personas) > 1 {
		return nil, domain.NewValidationError(field+".personas", "multiple persons require copro_soc_conyugal_e = Si").WithValue(fmt.Sprint(len(in.Personas)))
	}

	person := in.Personas[0]
	person.Porcentaje = nil
	record := EnsurePersonFields(person)
	s.logDerived(field, record)

	requireCURP := side == sellerSide || s.requireBuyerCURP
	if err := validatePerson(field+".personas[0]", record, requireCURP); err != nil {
		return nil, err
	}
	return domain.SingleOwner{Owner: record}, nil
}

// buildCoOwnership keeps the CoOwnership variant even for a single person
// when the coproperty flag is set.
func (s *ComplementService) buildCoOwnership(field string, persons []domain.PersonInput) (domain.OwnershipGroup, error) {
	percentages := make([]decimal.Decimal, 0, len(persons))
	for i, p := range persons {
		pctField := fmt.Sprintf("%s.personas[%d].porcentaje", field, i)
		if p.Porcentaje == nil {
			return nil, domain.NewValidationError(pctField, "is required for coproperty")
		}
		if err := requireNonNegative(pctField, *p.Porcentaje); err != nil {
			return nil, err
		}
		percentages = append(percentages, *p.Porcentaje)
	}
	if err := ValidateCoproperty(field+".personas", percentages); err != nil {
		return nil, err
	}

	owners := make([]domain.PersonRecord, 0, len(persons))
	for i, p := range persons {
		record := EnsurePersonFields(p)
		s.logDerived(field, record)
		if err := validatePerson(fmt.Sprintf("%s.personas[%d]", field, i), record, false); err != nil {
			return nil, err
		}
		owners = append(owners, record)
	}
	return domain.CoOwnership{Owners: owners}, nil
}

func validatePerson(field string, p domain.PersonRecord, requireCURP bool) error {
	if p.GivenName == "" {
		return domain.NewValidationError(field+".nombre", "is required")
	}
	if p.PaternalSurname == "" {
		return domain.NewValidationError(field+".apellido_paterno", "is required and could not be derived from nombre").WithValue(p.GivenName)
	}
	if n := RFCLength(p.RFC); n != domain.LegalPersonRFCLength && n != domain.NaturalPersonRFCLength {
		return domain.NewValidationError(field+".rfc", "RFC must be 12 or 13 characters").WithValue(p.RFC)
	}
	if p.CURP == "" {
		if requireCURP {
			return domain.NewValidationError(field+".curp", "is required")
		}
		return nil
	}
	if len(p.CURP) != domain.CURPLength {
		return domain.NewValidationError(field+".curp", "CURP must be exactly 18 characters").WithValue(p.CURP)
	}
	return nil
}

func (s *ComplementService) logDerived(field string, p domain.PersonRecord) {
	if p.NameSource == domain.NameDerived {
		s.logger.Info("surnames derived from full name", "field", field)
	}
}
