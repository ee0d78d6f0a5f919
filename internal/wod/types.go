package wod

import "fmt"

// Type is the scoring format of a WOD. It is fixed when the WOD is created.
type Type string

const (
	ForTime Type = "FOR_TIME"
	AMRAP   Type = "AMRAP"
	EMOM    Type = "EMOM"
	OneRM   Type = "ONE_RM"
	Tabata  Type = "TABATA"
	Other   Type = "OTHER"
)

// Types lists every workout type in display order.
var Types = []Type{ForTime, AMRAP, EMOM, OneRM, Tabata, Other}

// ParseType maps a stored or submitted type string to a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case ForTime, AMRAP, EMOM, OneRM, Tabata, Other:
		return t, nil
	}
	return "", fmt.Errorf("unknown wod type %q", s)
}

// Label returns the display name shown next to scores and in forms.
func (t Type) Label() string {
	switch t {
	case ForTime:
		return "For Time"
	case AMRAP:
		return "AMRAP"
	case EMOM:
		return "EMOM"
	case OneRM:
		return "1RM"
	case Tabata:
		return "Tabata"
	case Other:
		return "기타"
	}
	return string(t)
}

// Direction is the ranking order of raw score magnitudes.
type Direction int

const (
	// Ascending ranks the smallest magnitude first.
	Ascending Direction = iota
	// Descending ranks the largest magnitude first.
	Descending
)

// Direction reports how magnitudes of this type rank. Only FOR_TIME is ascending.
func (t Type) Direction() Direction {
	switch t {
	case ForTime:
		return Ascending
	case AMRAP, EMOM, OneRM, Tabata, Other:
		return Descending
	}
	return Descending
}
