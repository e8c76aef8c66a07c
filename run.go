package jsonschema

// ValidationRun carries the state of a single Validate call. It is allocated
// fresh every time CompiledSchema.Validate is invoked and passed explicitly
// through every Step.apply and Sequence.Evaluate call, so a CompiledSchema
// can be shared and validated concurrently by many goroutines without
// synchronization: all mutable state for one validation lives on its own
// ValidationRun, never on the compiled tree.
type ValidationRun struct {
	scopes []*Sequence     // dynamic scope stack, used to resolve $dynamicRef
	owner  *CompiledSchema // compiled tree this run is validating against
}

// NewValidationRun creates a new, empty run owned by the given compiled
// schema. owner may be nil for standalone Sequence evaluation (e.g. in
// tests), in which case child lookups fall back to ad hoc compilation.
func NewValidationRun(owner *CompiledSchema) *ValidationRun {
	return &ValidationRun{scopes: make([]*Sequence, 0, 8), owner: owner}
}

// Push records that evaluation has entered seq's dynamic scope.
func (r *ValidationRun) Push(seq *Sequence) {
	r.scopes = append(r.scopes, seq)
}

// Pop leaves the most recently entered dynamic scope.
func (r *ValidationRun) Pop() *Sequence {
	if len(r.scopes) == 0 {
		return nil
	}
	last := len(r.scopes) - 1
	seq := r.scopes[last]
	r.scopes = r.scopes[:last]
	return seq
}

// Peek returns the innermost scope without leaving it.
func (r *ValidationRun) Peek() *Sequence {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// IsEmpty reports whether the scope stack is empty.
func (r *ValidationRun) IsEmpty() bool {
	return len(r.scopes) == 0
}

// Size returns the number of scopes currently entered.
func (r *ValidationRun) Size() int {
	return len(r.scopes)
}

// LookupDynamicAnchor resolves a $dynamicAnchor name against the live dynamic
// scope, outermost entry first. The outermost schema resource that defines a
// matching $dynamicAnchor wins, per the 2020-12 core "recursive schema
// extension" resolution rule — this is deliberately NOT an innermost-first
// scan.
func (r *ValidationRun) LookupDynamicAnchor(anchor string) *Schema {
	for i := 0; i < len(r.scopes); i++ {
		schema := r.scopes[i].schema
		if schema.dynamicAnchors != nil && schema.dynamicAnchors[anchor] != nil {
			return schema.dynamicAnchors[anchor]
		}
	}
	return nil
}
