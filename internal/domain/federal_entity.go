package domain

import (
	"strconv"
	"strings"
)

// FederalEntity is one of the 32 Mexican federal entities. Key is the
// two-digit numeric key used in the complement; Code is the SAT c_Estado
// letter code.
type FederalEntity struct {
	Key  string
	Code string
	Name string
}

// FederalEntities lists the federal entities ordered by numeric key
var FederalEntities = []FederalEntity{
	{"01", "AGU", "AGUASCALIENTES"},
	{"02", "BCN", "BAJA CALIFORNIA"},
	{"03", "BCS", "BAJA CALIFORNIA SUR"},
	{"04", "CAM", "CAMPECHE"},
	{"05", "COA", "COAHUILA"},
	{"06", "COL", "COLIMA"},
	{"07", "CHP", "CHIAPAS"},
	{"08", "CHH", "CHIHUAHUA"},
	{"09", "CMX", "CIUDAD DE MEXICO"},
	{"10", "DUR", "DURANGO"},
	{"11", "GUA", "GUANAJUATO"},
	{"12", "GRO", "GUERRERO"},
	{"13", "HID", "HIDALGO"},
	{"14", "JAL", "JALISCO"},
	{"15", "MEX", "MEXICO"},
	{"16", "MIC", "MICHOACAN"},
	{"17", "MOR", "MORELOS"},
	{"18", "NAY", "NAYARIT"},
	{"19", "NLE", "NUEVO LEON"},
	{"20", "OAX", "OAXACA"},
	{"21", "PUE", "PUEBLA"},
	{"22", "QUE", "QUERETARO"},
	{"23", "ROO", "QUINTANA ROO"},
	{"24", "SLP", "SAN LUIS POTOSI"},
	{"25", "SIN", "SINALOA"},
	{"26", "SON", "SONORA"},
	{"27", "TAB", "TABASCO"},
	{"28", "TAM", "TAMAULIPAS"},
	{"29", "TLA", "TLAXCALA"},
	{"30", "VER", "VERACRUZ"},
	{"31", "YUC", "YUCATAN"},
	{"32", "ZAC", "ZACATECAS"},
}

// FederalEntityKey resolves a numeric key ("6" or "06"), a c_Estado letter
// code ("COL") or an unaccented uppercase name ("COLIMA") to the two-digit
// numeric key. It reports false for anything else.
func FederalEntityKey(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(FederalEntities) {
			return "", false
		}
		return FederalEntities[n-1].Key, true
	}
	for _, e := range FederalEntities {
		if s == e.Code || s == e.Name {
			return e.Key, true
		}
	}
	return "", false
}
