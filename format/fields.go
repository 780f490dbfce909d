package format

// Field is a named value extracted from a description.
type Field struct {
	Name  string
	Value string
}

// Fields is a match result in match order.
type Fields []Field

// Get returns the value stored under name.
func (f Fields) Get(name string) (string, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Map returns the fields as a map. When a name occurs twice the earliest match wins.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, field := range f {
		if _, ok := m[field.Name]; !ok {
			m[field.Name] = field.Value
		}
	}
	return m
}

// Len returns the number of captured fields.
func (f Fields) Len() int {
	return len(f)
}
