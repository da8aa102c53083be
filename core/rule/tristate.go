package rule

// Tristate is the three-valued outcome of a rule.
type Tristate uint8

const (
	// Indeterminate means the rule could not decide.
	Indeterminate Tristate = iota
	// Available means the rule enables the feature.
	Available
	// Unavailable means the rule disables the feature.
	Unavailable
)

// Resolve collapses the tristate into a boolean; Indeterminate counts as unavailable.
func (t Tristate) Resolve() bool {
	return t == Available
}

func (t Tristate) String() string {
	switch t {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "indeterminate"
	}
}

// FromBool maps true to Available and false to Unavailable.
func FromBool(b bool) Tristate {
	if b {
		return Available
	}
	return Unavailable
}
