// Package properties splits free-text bank descriptions into labelled attributes.
//
// Descriptions are runs of "Label: value" pairs, optionally preceded by narrative
// text. Extract finds the labels without any configuration. Merge combines that
// heuristic result with the fields a format.DescriptionParser captured.
package properties

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Reserved attribute keys.
const (
	Description = "Omschrijving"
	Name        = "Naam"
	Tag         = "Tag"
	Contract    = "Machtiging ID"
)

// namePrefix is prepended to relation names by card terminals.
const namePrefix = "CCV"

var label = regexp.MustCompile(`[a-zA-Z][^\s]+( ID)?:\s*`)

// ignored labels are dropped during extraction; their values are available
// elsewhere on the statement row.
var ignored = []string{"IBAN", "Valutadatum", "Incassant ID", "Check"}

// Properties maps attribute labels to values.
type Properties map[string]string

// Extract splits text on "Label: " boundaries. Each value runs up to the next
// label and is trimmed at the end; empty values are dropped. Text in front of the
// first label becomes the Description, ahead of any labelled Description. Text
// without labels becomes the Description as a whole.
func Extract(text string) Properties {
	props := make(Properties)

	bounds := label.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		if intro := strings.TrimSpace(text); intro != "" {
			props.DefineDescription(intro)
		}
		return props
	}

	end := len(text)
	for i := len(bounds) - 1; i >= 0; i-- {
		start, mid := bounds[i][0], bounds[i][1]
		valueEnd := end
		end = start

		name, _, _ := strings.Cut(text[start:mid], ":")
		if isIgnored(name) {
			continue
		}

		value := strings.TrimRightFunc(text[mid:valueEnd], unicode.IsSpace)
		if value == "" {
			continue
		}
		// Walking backwards, so the leftmost occurrence of a label wins.
		props[name] = value
	}

	if intro := strings.TrimSpace(text[:bounds[0][0]]); intro != "" {
		props.prependDescription(intro)
	}
	return props
}

// Merge extracts text and overlays the structured fields on the result. A
// structured Description still follows the narrative prefix of text.
func Merge(text string, structured map[string]string) Properties {
	props := Extract(text)

	var intro string
	if bounds := label.FindStringIndex(text); bounds != nil {
		intro = strings.TrimSpace(text[:bounds[0]])
	}

	for key, value := range structured {
		if key == Description {
			props.DefineDescription(value)
			if intro != "" {
				props.prependDescription(intro)
			}
			continue
		}
		props[key] = value
	}
	return props
}

func isIgnored(name string) bool {
	return slices.ContainsFunc(ignored, func(ignore string) bool {
		return strings.EqualFold(ignore, name)
	})
}

// prependDescription puts intro in front of the Description.
func (p Properties) prependDescription(intro string) {
	if existing, ok := p[Description]; ok {
		p[Description] = intro + " " + existing
		return
	}
	p[Description] = intro
}

// DefineName stores the relation name without the terminal prefix.
func (p Properties) DefineName(value string) {
	p[Name] = strings.TrimPrefix(value, namePrefix)
}

// DefineTag stores a tag without its leading '#'.
func (p Properties) DefineTag(value string) {
	p[Tag] = strings.TrimPrefix(value, "#")
}

// DefineDescription replaces the Description.
func (p Properties) DefineDescription(value string) {
	p[Description] = value
}

// Description returns the Description, if any.
func (p Properties) Description() (string, bool) {
	value, ok := p[Description]
	return value, ok
}

// Take removes key and returns its value.
func (p Properties) Take(key string) (string, bool) {
	value, ok := p[key]
	delete(p, key)
	return value, ok
}

// Clone returns a copy of p.
func (p Properties) Clone() Properties {
	return maps.Clone(p)
}

// Keys returns the attribute labels other than Description, sorted.
func (p Properties) Keys() []string {
	keys := maps.Keys(p)
	keys = slices.DeleteFunc(keys, func(key string) bool {
		return strings.EqualFold(key, Description)
	})
	slices.Sort(keys)
	return keys
}

// String renders the Description followed by the other attributes:
//
//	Factuur 2022-001, Kenmerk: 123456, Naam: ACME Corp
func (p Properties) String() string {
	parts := make([]string, 0, len(p))
	if description, ok := p.Description(); ok {
		parts = append(parts, description)
	}
	for _, key := range p.Keys() {
		parts = append(parts, key+": "+p[key])
	}
	return strings.Join(parts, ", ")
}
