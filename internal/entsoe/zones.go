package entsoe

import "strings"

// Zone describes one bidding zone of the Transparency Platform.
type Zone struct {
	Code     string `json:"code"`     // EIC area code, e.g. "10YBE----------2"
	Name     string `json:"name"`     // human-readable zone name
	Short    string `json:"short"`    // shorthand accepted on the CLI, e.g. "BE"
	Timezone string `json:"timezone"` // IANA zone the market's local day runs in
}

// zones lists the bidding zones known by shorthand. EIC codes are stable
// identifiers maintained by ENTSO-E; extend the table as zones are needed.
var zones = []Zone{
	{Code: "10YBE----------2", Name: "Belgium (Elia)", Short: "BE", Timezone: "Europe/Brussels"},
	{Code: "10YNL----------L", Name: "Netherlands (TenneT)", Short: "NL", Timezone: "Europe/Amsterdam"},
	{Code: "10YFR-RTE------C", Name: "France (RTE)", Short: "FR", Timezone: "Europe/Paris"},
	{Code: "10Y1001A1001A82H", Name: "Germany/Luxembourg (DE-LU)", Short: "DE-LU", Timezone: "Europe/Berlin"},
	{Code: "10YAT-APG------L", Name: "Austria (APG)", Short: "AT", Timezone: "Europe/Vienna"},
	{Code: "10YES-REE------0", Name: "Spain (REE)", Short: "ES", Timezone: "Europe/Madrid"},
	{Code: "10YPT-REN------W", Name: "Portugal (REN)", Short: "PT", Timezone: "Europe/Lisbon"},
	{Code: "10YCH-SWISSGRIDZ", Name: "Switzerland (Swissgrid)", Short: "CH", Timezone: "Europe/Zurich"},
}

// Zones returns all known bidding zones.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// LookupZone resolves a zone by EIC code or shorthand (shorthand matching is
// case-insensitive). Unknown EIC codes remain usable for fetching; the
// registry only powers shorthands, listings and the default timezone.
func LookupZone(codeOrShort string) (Zone, bool) {
	for _, z := range zones {
		if z.Code == codeOrShort || strings.EqualFold(z.Short, codeOrShort) {
			return z, true
		}
	}
	return Zone{}, false
}

// DefaultZone is the zone assumed when none is configured.
func DefaultZone() Zone {
	return zones[0]
}
