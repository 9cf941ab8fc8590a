package form

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/oshokin/brie-blaster/internal/domain/panel"
)

// Field names of the control form.
const (
	FieldX                  = "coordinates.x"
	FieldY                  = "coordinates.y"
	FieldZ                  = "coordinates.z"
	FieldCoreHeat           = "coreHeat"
	FieldDetonationPressure = "detonationPressure"
)

// Messages shown next to invalid fields.
const (
	MsgInvalidCoordinate  = "INVALID COORDINATE"
	MsgInvalidTemperature = "INVALID TEMPERATURE"
	MsgTooLow             = "TOO LOW"
	MsgCriticalTemp       = "CRITICAL TEMPERATURE"
	MsgInvalidPressure    = "INVALID PRESSURE"
	MsgPressureTooHigh    = "DANGER: PRESSURE TOO HIGH"
)

// ErrInvalidRange is returned by Range.Validate for an empty or non-finite range.
var ErrInvalidRange = errors.New("invalid range")

// Input is the flat record of raw field values.
type Input map[string]string

// FromParameters renders a ParameterSet back into raw form input.
func FromParameters(p panel.ParameterSet) Input {
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return Input{
		FieldX:                  format(p.Coordinates.X),
		FieldY:                  format(p.Coordinates.Y),
		FieldZ:                  format(p.Coordinates.Z),
		FieldCoreHeat:           format(p.CoreHeat),
		FieldDetonationPressure: format(p.DetonationPressure),
	}
}

// FieldErrors maps a field name to its error message.
type FieldErrors map[string]string

// Fields returns the names of the invalid fields in a stable order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	return fields
}

// Error renders the errors as "field: message" pairs.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, field+": "+e[field])
	}

	return strings.Join(parts, "; ")
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Validate checks that the range is finite and non-empty.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("%w: non-finite bound", ErrInvalidRange)
	}

	if r.Min > r.Max {
		return fmt.Errorf("%w: min %v is above max %v", ErrInvalidRange, r.Min, r.Max)
	}

	return nil
}

// Rules are the static limits of the control form.
type Rules struct {
	// CoreHeat is the temperature slider range.
	CoreHeat Range
	// DetonationPressure is the pressure slider range.
	DetonationPressure Range
}

// Validator checks raw form input against Rules.
type Validator struct {
	rules Rules
}

// NewValidator creates a validator for rules.
func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Rules returns the limits the validator enforces.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate returns the parsed parameters, or the field errors when any field is invalid.
// The returned ParameterSet is only meaningful when errs is empty.
func (v *Validator) Validate(in Input) (panel.ParameterSet, FieldErrors) {
	var (
		params panel.ParameterSet
		errs   = make(FieldErrors)
	)

	coordinate := func(field string) float64 {
		value, ok := ParseNumber(in[field])
		if !ok {
			errs[field] = MsgInvalidCoordinate
		}

		return value
	}

	params.Coordinates = panel.Coordinates{
		X: coordinate(FieldX),
		Y: coordinate(FieldY),
		Z: coordinate(FieldZ),
	}

	heat, ok := ParseNumber(in[FieldCoreHeat])

	switch {
	case !ok:
		errs[FieldCoreHeat] = MsgInvalidTemperature
	case heat < v.rules.CoreHeat.Min:
		errs[FieldCoreHeat] = MsgTooLow
	case heat > v.rules.CoreHeat.Max:
		errs[FieldCoreHeat] = MsgCriticalTemp
	default:
		params.CoreHeat = heat
	}

	pressure, ok := ParseNumber(in[FieldDetonationPressure])

	switch {
	case !ok, pressure < v.rules.DetonationPressure.Min:
		errs[FieldDetonationPressure] = MsgInvalidPressure
	case pressure > v.rules.DetonationPressure.Max:
		errs[FieldDetonationPressure] = MsgPressureTooHigh
	default:
		params.DetonationPressure = pressure
	}

	if len(errs) > 0 {
		return panel.ParameterSet{}, errs
	}

	return params, nil
}

// ParseNumber parses a finite decimal number, tolerating surrounding spaces.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}
