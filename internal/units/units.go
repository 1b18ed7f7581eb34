// Package units holds the temperature and distance display preferences.
package units

import (
	"fmt"
	"slices"
	"strings"

	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

// TemperatureUnit is a temperature display unit
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// TemperatureUnits lists every temperature unit
var TemperatureUnits = []TemperatureUnit{Celsius, Fahrenheit}

// DistanceUnit is a distance display unit
type DistanceUnit string

const (
	Kilometers DistanceUnit = "kilometers"
	Miles      DistanceUnit = "miles"
)

// DistanceUnits lists every distance unit
var DistanceUnits = []DistanceUnit{Kilometers, Miles}

const (
	DefaultTemperature = Celsius
	DefaultDistance    = Kilometers
)

const kilometersPerMile = 1.609344

// Valid reports whether u is a known unit
func (u TemperatureUnit) Valid() bool { return slices.Contains(TemperatureUnits, u) }

// Valid reports whether u is a known unit
func (u DistanceUnit) Valid() bool { return slices.Contains(DistanceUnits, u) }

// Symbol returns the short display suffix
func (u TemperatureUnit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Symbol returns the short display suffix
func (u DistanceUnit) Symbol() string {
	if u == Miles {
		return "mi"
	}
	return "km"
}

// ParseTemperature accepts a unit name, case-insensitively
func ParseTemperature(s string) (TemperatureUnit, error) {
	u := TemperatureUnit(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", unknownUnit("temperature", s)
	}
	return u, nil
}

// ParseDistance accepts a unit name, case-insensitively
func ParseDistance(s string) (DistanceUnit, error) {
	u := DistanceUnit(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", unknownUnit("distance", s)
	}
	return u, nil
}

func unknownUnit(kind, value string) error {
	return errors.Newf("unknown %s unit %q", kind, value).
		Component("units").
		Category(errors.CategoryValidation).
		Context("kind", kind).
		Build()
}

func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

func KilometersToMiles(km float64) float64 { return km / kilometersPerMile }

func MilesToKilometers(mi float64) float64 { return mi * kilometersPerMile }

// FormatTemperature renders a Celsius reading in unit u, e.g. "21.5°C"
func FormatTemperature(celsius float64, u TemperatureUnit) string {
	v := celsius
	if u == Fahrenheit {
		v = CelsiusToFahrenheit(celsius)
	}
	return fmt.Sprintf("%.1f%s", v, u.Symbol())
}

// FormatDistance renders a kilometre distance in unit u, e.g. "3.2 mi"
func FormatDistance(km float64, u DistanceUnit) string {
	v := km
	if u == Miles {
		v = KilometersToMiles(km)
	}
	return fmt.Sprintf("%.1f %s", v, u.Symbol())
}
