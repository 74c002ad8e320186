package domain

// LookupStatus is the outcome of a selector index lookup
type LookupStatus int

const (
	LookupUnknown LookupStatus = iota
	LookupUnique
	LookupAmbiguous
)

func (s LookupStatus) String() string {
	switch s {
	case LookupUnique:
		return "unique"
	case LookupAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Lookup is what the selector index returns for one (selector, kind) pair
type Lookup struct {
	Status     LookupStatus
	Kind       Kind
	Selector   Selector
	Definition *Definition   // set when Status == LookupUnique
	Candidates []*Definition // set when Status == LookupAmbiguous
}

// Arg is a single decoded parameter in declaration order
type Arg struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
	// Hashed marks an indexed dynamic value; Value then holds the topic hash
	Hashed bool `json:"hashed,omitempty"`
	Value  any  `json:"value"`
}

// Result is a fully decoded payload
type Result struct {
	Definition *Definition    `json:"definition"`
	Namespace  string         `json:"namespace,omitempty"`
	Args       []Arg          `json:"args"`
	Values     map[string]any `json:"-"`
	// Hashed lists indexed parameters that could only be recovered as a hash
	Hashed []string `json:"hashed,omitempty"`
	// Message is the rendered notice, empty until described
	Message string `json:"message,omitempty"`
}

// NewResult builds a result and its name lookup table from ordered args
func NewResult(def *Definition, args []Arg) *Result {
	r := &Result{
		Definition: def,
		Args:       args,
		Values:     make(map[string]any, len(args)),
	}
	for _, a := range args {
		r.Values[a.Name] = a.Value
		if a.Hashed {
			r.Hashed = append(r.Hashed, a.Name)
		}
	}
	return r
}
