package jsonschema

import "reflect"

// Validate lazily compiles s into a CompiledSchema (once, memoized on s) and
// evaluates instance against it. Prefer calling Initialize/CompileSchema
// once and reusing the returned CompiledSchema.Validate across many
// instances and goroutines; this method exists so a *Schema obtained
// directly from Compiler.Compile can still be validated against without an
// extra step. It delegates to the type-specific Validate* method matching
// instance's shape, so callers that already know their input's shape can
// call that method directly instead.
func (s *Schema) Validate(instance interface{}) *EvaluationResult {
	if data, ok := convertToByteSlice(instance); ok {
		return s.ValidateJSON(data)
	}
	if v, ok := instance.(map[string]interface{}); ok {
		return s.ValidateMap(v)
	}

	if instance != nil {
		rv := reflect.ValueOf(instance)
		for rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Struct || rv.Kind() == reflect.Map {
			return s.ValidateStruct(instance)
		}
	}

	return s.compiledOnce().Validate(instance)
}

// isByteSlice reports whether v is a []byte or a named type whose underlying
// type is []byte (e.g. json.RawMessage).
func isByteSlice(v interface{}) bool {
	_, ok := convertToByteSlice(v)
	return ok
}

// convertToByteSlice extracts the raw bytes from v when its underlying type
// is []byte.
func convertToByteSlice(v interface{}) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes(), true
	}
	return nil, false
}

// ValidateJSON decodes raw JSON bytes and validates the resulting value.
func (s *Schema) ValidateJSON(data []byte) *EvaluationResult {
	parsed, _, err := s.convertBytesSource(data)
	if err != nil {
		result := NewEvaluationResult(s)
		result.SetInvalid()
		result.AddError(NewEvaluationError("json", "invalid_json", "Invalid JSON: {error}", map[string]interface{}{"error": err.Error()}))
		return result
	}
	return s.compiledOnce().Validate(parsed)
}

// ValidateMap validates a map[string]interface{} instance directly, without
// any JSON round-trip.
func (s *Schema) ValidateMap(data map[string]interface{}) *EvaluationResult {
	return s.compiledOnce().Validate(data)
}

// ValidateStruct converts a struct (or any other Go value) to its JSON
// representation and validates that representation.
func (s *Schema) ValidateStruct(data interface{}) *EvaluationResult {
	parsed, _, err := s.convertGenericSource(data)
	if err != nil {
		result := NewEvaluationResult(s)
		result.SetInvalid()
		result.AddError(NewEvaluationError("struct", "invalid_struct", "Unable to convert value for validation: {error}", map[string]interface{}{"error": err.Error()}))
		return result
	}
	return s.compiledOnce().Validate(parsed)
}

func (s *Schema) compiledOnce() *CompiledSchema {
	s.compileOnce.Do(func() {
		s.compiled = CompileSchema(s)
	})
	return s.compiled
}

// evalCtx accumulates one Sequence.Evaluate call's result and evaluation
// marks as its Steps run in order.
type evalCtx struct {
	result *EvaluationResult
	props  map[string]bool
	items  map[int]bool
}

// Evaluate walks this node's compiled Steps against instance, in the fixed
// order required for deterministic error reporting: reference resolution
// first (so unevaluatedProperties/unevaluatedItems can see what a
// $ref/$dynamicRef target evaluated), then any-instance-type keywords, the
// logical and conditional applicators, the per-type keyword groups,
// dependentSchemas, the two "unevaluated" keywords (which must run strictly
// last, after every sibling applicator has recorded its evaluation marks),
// and finally the content vocabulary. That order was fixed once, at compile
// time, when buildSteps assembled seq.steps; Evaluate itself does not
// inspect the schema to decide what runs.
func (seq *Sequence) Evaluate(run *ValidationRun, instance interface{}) (*EvaluationResult, map[string]bool, map[int]bool) {
	run.Push(seq)
	result := NewEvaluationResult(seq.schema)
	ctx := &evalCtx{result: result, props: make(map[string]bool), items: make(map[int]bool)}

	if seq.schema.Boolean != nil {
		if err := seq.schema.evaluateBoolean(instance, ctx.props, ctx.items); err != nil {
			result.AddError(err)
		}
	} else {
		for _, step := range seq.steps {
			step.apply(run, instance, ctx)
		}
	}

	run.Pop()

	return result, ctx.props, ctx.items
}

func (s *Schema) evaluateBoolean(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool) *EvaluationError {
	if s.Boolean == nil {
		return nil
	}

	if *s.Boolean {
		switch v := instance.(type) {
		case map[string]interface{}:
			for key := range v {
				evaluatedProps[key] = true
			}
		case []interface{}:
			for index := range v {
				evaluatedItems[index] = true
			}
		}
		return nil // No error, validation passes as the schema is true
	}
	return NewEvaluationError("schema", "false_schema_mismatch", "No values are allowed because the schema is set to 'false'")
}
