package pagination

// QuerySpec is the identity of one paginated collection: the endpoint path
// plus the flat filter parameters. Two specs are equivalent iff the
// endpoint and every key/value pair match; equivalence decides whether
// loaded pages can be reused or must be reset.
type QuerySpec struct {
	Endpoint string
	Params   map[string]string
}

// NewQuerySpec creates a QuerySpec with a defensive copy of params.
func NewQuerySpec(endpoint string, params map[string]string) QuerySpec {
	spec := QuerySpec{
		Endpoint: endpoint,
		Params:   make(map[string]string, len(params)),
	}
	for key, value := range params {
		spec.Params[key] = value
	}
	return spec
}

// Equal reports whether two specs identify the same collection.
func (s QuerySpec) Equal(other QuerySpec) bool {
	if s.Endpoint != other.Endpoint {
		return false
	}
	if len(s.Params) != len(other.Params) {
		return false
	}
	for key, value := range s.Params {
		if otherValue, ok := other.Params[key]; !ok || otherValue != value {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the spec.
func (s QuerySpec) Clone() QuerySpec {
	return NewQuerySpec(s.Endpoint, s.Params)
}

// WithParams returns a copy of the spec with patch merged into its
// parameters. An empty patch value still overwrites; removing a key is not
// supported by the backend contract.
func (s QuerySpec) WithParams(patch map[string]string) QuerySpec {
	merged := s.Clone()
	for key, value := range patch {
		merged.Params[key] = value
	}
	return merged
}
