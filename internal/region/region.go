// Package region picks a default video frame rate from the system
// timezone. Broadcast regions split along the old mains-frequency
// lines: 50Hz countries shoot 25fps (PAL/EBU), 60Hz countries 30fps
// (NTSC/SMPTE non-drop).
package region

import (
	"strings"

	tz "github.com/medama-io/go-timezone-country"
	"github.com/thlib/go-timezone-local/tzlocal"
)

// Frame rates by broadcast region.
const (
	FrameRatePAL  = 25
	FrameRateNTSC = 30
)

// DefaultFrameRate returns the frame rate for the local timezone.
// Returns 25 if detection fails or the timezone is ambiguous.
func DefaultFrameRate() int {
	timezone, err := tzlocal.RuntimeTZ()
	if err != nil {
		return FrameRatePAL
	}
	return FrameRateForTimezone(timezone)
}

// FrameRateForTimezone returns the frame rate for a given IANA timezone.
// Exported for testing with specific timezones.
func FrameRateForTimezone(timezone string) int {
	// UTC/GMT carry no country association, default to 25fps
	if timezone == "UTC" || timezone == "GMT" || strings.HasPrefix(timezone, "Etc/") {
		return FrameRatePAL
	}

	tzMap, err := tz.NewTimezoneCountryMap()
	if err != nil {
		return FrameRatePAL
	}

	country, err := tzMap.GetCountry(timezone)
	if err != nil {
		return FrameRatePAL
	}

	return frameRateForCountry(country)
}

// frameRateForCountry returns the frame rate for a country name.
// Returns 25fps for unknown countries (more common globally).
func frameRateForCountry(country string) int {
	// Japan is 50/60Hz split by region but its broadcast standard is
	// NTSC everywhere.
	if country == "Japan" {
		return FrameRateNTSC
	}

	if ntscCountries[country] {
		return FrameRateNTSC
	}
	return FrameRatePAL
}

// ntscCountries lists countries broadcasting at 30fps (NTSC regions).
// All other countries use 25fps.
// Source: https://en.wikipedia.org/wiki/Mains_electricity_by_country
var ntscCountries = map[string]bool{
	// North America
	"United States": true,
	"Canada":        true,
	"Mexico":        true,

	// Central America
	"Belize":      true,
	"Costa Rica":  true,
	"El Salvador": true,
	"Guatemala":   true,
	"Honduras":    true,
	"Nicaragua":   true,
	"Panama":      true,

	// Caribbean
	"Bahamas":             true,
	"Barbados":            true,
	"Cayman Islands":      true,
	"Cuba":                true,
	"Dominican Republic":  true,
	"Haiti":               true,
	"Jamaica":             true,
	"Puerto Rico":         true,
	"Trinidad and Tobago": true,
	"U.S. Virgin Islands": true,

	// South America (partial, most use 25fps)
	"Bolivia":   true,
	"Brazil":    true,
	"Chile":     true,
	"Colombia":  true,
	"Ecuador":   true,
	"Peru":      true,
	"Suriname":  true,
	"Venezuela": true,

	// Asia (partial)
	"Japan":       true,
	"South Korea": true,
	"Taiwan":      true,
	"Philippines": true,
	"Myanmar":     true,

	// Pacific
	"Guam":             true,
	"American Samoa":   true,
	"Marshall Islands": true,
	"Micronesia":       true,
	"Palau":            true,
}
