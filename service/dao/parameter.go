package dao

// Parameter narrows a List call. Implementations ignore names they do not know.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter holding one value or a list of values
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns the parameter value as a string list
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
