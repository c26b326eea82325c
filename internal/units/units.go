// Package units provides shared constants and conversion for length units.
package units

// Unit constants
const (
	Metres     = "m"
	Kilometres = "km"
	Feet       = "ft"
	Miles      = "mi"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Metres, Kilometres, Feet, Miles}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, km, ft, mi"
}

// ConvertLength converts a length in metres to the target units.
// Paths and arc lengths are always stored in metres.
func ConvertLength(metres float64, targetUnits string) float64 {
	switch targetUnits {
	case Kilometres:
		return metres / 1000
	case Feet:
		return metres / 0.3048
	case Miles:
		return metres / 1609.344
	default:
		return metres
	}
}

// ConvertLengths converts every element of a slice of metres in place and
// returns it.
func ConvertLengths(metres []float64, targetUnits string) []float64 {
	for i, v := range metres {
		metres[i] = ConvertLength(v, targetUnits)
	}
	return metres
}
