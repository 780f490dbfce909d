package format

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Definitions is the decoded format file: reusable aliases plus, per mutation kind,
// the candidate sequences in priority order.
type Definitions struct {
	Aliases map[string]string               `yaml:"aliases"`
	Kinds   map[string][]SequenceDefinition `yaml:"definitionsPerMutationKind"`
}

// SequenceDefinition is one candidate shape of a description. Order is significant:
// fields are listed left to right as they appear in the text.
type SequenceDefinition []FieldDefinition

// UnmarshalYAML decodes a mapping node while keeping the key order.
func (s *SequenceDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: candidate sequence must be a mapping of field to pattern", node.Line)
	}

	seq := make(SequenceDefinition, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var pattern string
		if err := value.Decode(&pattern); err != nil {
			return fmt.Errorf("line %d: pattern for %q: %w", value.Line, key.Value, err)
		}

		seq = append(seq, FieldDefinition{
			Spec:    ParseFieldSpec(key.Value),
			Pattern: pattern,
			Line:    key.Line,
		})
	}

	*s = seq
	return nil
}

// Load decodes format definitions from YAML.
func Load(r io.Reader) (*Definitions, error) {
	defs := &Definitions{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(defs); err != nil && !errors.Is(err, io.EOF) {
		return nil, &DefinitionError{Err: err}
	}

	if defs.Aliases == nil {
		defs.Aliases = make(map[string]string)
	}
	if defs.Kinds == nil {
		defs.Kinds = make(map[string][]SequenceDefinition)
	}
	return defs, nil
}
