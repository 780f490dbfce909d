package format

import "strings"

// Presence tells whether a field may be absent without abandoning its sequence.
type Presence int

const (
	Required Presence = iota
	Optional
)

func (p Presence) String() string {
	if p == Optional {
		return "optional"
	}
	return "required"
}

// Capture tells whether a matched field is stored under its name or only consumed.
type Capture int

const (
	Named Capture = iota
	Anonymous
)

func (c Capture) String() string {
	if c == Anonymous {
		return "anonymous"
	}
	return "named"
}

// Markers recognised anywhere in a field spec key.
const (
	OptionalMarker  = "?"
	AnonymousMarker = "^"
)

// FieldSpec is a parsed field key such as "Naam", "Kenmerk?" or "^rest".
type FieldSpec struct {
	Name     string
	Presence Presence
	Capture  Capture
}

// ParseFieldSpec strips the modifier markers from a configured key.
func ParseFieldSpec(key string) FieldSpec {
	spec := FieldSpec{Presence: Required, Capture: Named}
	if strings.Contains(key, OptionalMarker) {
		spec.Presence = Optional
	}
	if strings.Contains(key, AnonymousMarker) {
		spec.Capture = Anonymous
	}
	name := strings.ReplaceAll(key, OptionalMarker, "")
	spec.Name = strings.ReplaceAll(name, AnonymousMarker, "")
	return spec
}

// String renders the spec the way it is written in a format file.
func (s FieldSpec) String() string {
	var b strings.Builder
	if s.Capture == Anonymous {
		b.WriteString(AnonymousMarker)
	}
	b.WriteString(s.Name)
	if s.Presence == Optional {
		b.WriteString(OptionalMarker)
	}
	return b.String()
}

// FieldDefinition is one configured element of a candidate sequence.
type FieldDefinition struct {
	Spec    FieldSpec
	Pattern string
	Line    int // line in the format file, 0 when built in code
}

// String renders the definition as "key: pattern".
func (d FieldDefinition) String() string {
	return d.Spec.String() + ": " + d.Pattern
}
