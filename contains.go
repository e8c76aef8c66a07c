package jsonschema

import "fmt"

// containsStep is "contains"/"minContains"/"maxContains", with the contains
// subschema bound to a compiled Sequence and the bounds resolved to ints at
// compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-contains
type containsStep struct {
	schema      *Schema
	child       *Sequence
	minContains int
	maxContains *int
}

func (cs *compileSet) compileContains(schema *Schema) Step {
	if schema.Contains == nil {
		return nil
	}

	minContains := 1
	if schema.MinContains != nil {
		minContains = int(*schema.MinContains)
	}

	var maxContains *int
	if schema.MaxContains != nil {
		max := int(*schema.MaxContains)
		maxContains = &max
	}

	return &containsStep{
		schema:      schema,
		child:       cs.compile(schema.Contains),
		minContains: minContains,
		maxContains: maxContains,
	}
}

func (st *containsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	array, ok := instance.([]interface{})
	if !ok {
		return
	}

	var validCount int
	for i, item := range array {
		result, _, _ := st.child.Evaluate(run, item)
		if result == nil {
			continue
		}

		result.SetEvaluationPath("/contains").
			SetSchemaLocation(st.schema.GetSchemaLocation("/contains")).
			SetInstanceLocation(fmt.Sprintf("/%d", i))

		if result.IsValid() {
			validCount++
			ctx.items[i] = true
			// The count only grows, so once the upper bound is exceeded the
			// outcome is fixed; stop to keep error volume bounded.
			if st.maxContains != nil && validCount > *st.maxContains {
				break
			}
		}
	}

	if st.minContains == 0 && validCount == 0 {
		// Valid: minContains 0 allows zero matches.
	} else if validCount < st.minContains {
		ctx.result.AddError(NewEvaluationError("minContains", "contains_too_few_items", "Value should contain at least {min_contains} matching items", map[string]interface{}{
			"min_contains": st.minContains,
			"count":        validCount,
		}))
		return
	}

	if st.maxContains != nil && validCount > *st.maxContains {
		ctx.result.AddError(NewEvaluationError("maxContains", "contains_too_many_items", "Value should contain no more than {max_contains} matching items", map[string]interface{}{
			"max_contains": *st.maxContains,
			"count":        validCount,
		}))
	}
}
