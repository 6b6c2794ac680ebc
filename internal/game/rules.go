package game

// Rules holds the configurable parts of the ruleset.
type Rules struct {
	// MaxRecycles bounds how many times the waste may be turned back into the
	// stock. Nil means unlimited; zero forbids recycling.
	MaxRecycles *int `json:"maxRecycles,omitempty" yaml:"max_recycles,omitempty"`
}

// DefaultRules returns the classic ruleset with unlimited recycling
func DefaultRules() Rules {
	return Rules{}
}

// Limited returns rules allowing at most n recycles
func Limited(n int) Rules {
	return Rules{MaxRecycles: &n}
}

func (r Rules) canRecycle(done int) bool {
	return r.MaxRecycles == nil || done < *r.MaxRecycles
}
