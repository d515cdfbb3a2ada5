package service

import (
	"strings"

	"github.com/notaria4/notaria4/internal/domain"
)

// NameParts is the result of splitting a full name
type NameParts struct {
	GivenName       string
	PaternalSurname string
	MaternalSurname string
}

// SplitName is the fallback used when a caller sends a full name with no
// surnames. It splits on whitespace:
//
//	1 token:   given name only
//	2 tokens:  given name, paternal surname
//	3+ tokens: all but the last two are the given name, then paternal, then maternal
//
// The result is a guess and is marked as derived wherever it is used.
func SplitName(fullName string) NameParts {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{GivenName: tokens[0]}
	case 2:
		return NameParts{GivenName: tokens[0], PaternalSurname: tokens[1]}
	default:
		n := len(tokens)
		return NameParts{
			GivenName:       strings.Join(tokens[:n-2], " "),
			PaternalSurname: tokens[n-2],
			MaternalSurname: tokens[n-1],
		}
	}
}

// EnsurePersonFields sanitizes every name part and identifier of a person.
// Corporate suffixes are stripped only for a legal-person RFC.
// When the paternal surname is missing the given name is split with SplitName
// and the derived parts fill only the fields the caller left empty.
func EnsurePersonFields(person domain.PersonInput) domain.PersonRecord {
	rfc := NormalizeRFC(person.RFC)
	sanitize := SanitizePersonName
	if ClassifyTaxpayer(rfc) == domain.LegalPerson {
		sanitize = SanitizeEntityName
	}

	record := domain.PersonRecord{
		GivenName:       sanitize(person.Nombre),
		PaternalSurname: sanitize(person.ApellidoPaterno),
		MaternalSurname: sanitize(person.ApellidoMaterno),
		RFC:             rfc,
		CURP:            strings.ToUpper(strings.TrimSpace(person.CURP)),
		NameSource:      domain.NameSupplied,
	}
	if person.Porcentaje != nil {
		pct := person.Porcentaje.Round(2)
		record.OwnershipPercent = &pct
	}

	if record.PaternalSurname != "" {
		return record
	}

	parts := SplitName(record.GivenName)
	if parts.PaternalSurname == "" {
		// Nothing to derive from a single token.
		return record
	}

	record.GivenName = parts.GivenName
	record.PaternalSurname = parts.PaternalSurname
	if record.MaternalSurname == "" {
		record.MaternalSurname = parts.MaternalSurname
	}
	record.NameSource = domain.NameDerived
	return record
}
