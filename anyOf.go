package jsonschema

import (
	"fmt"
)

// anyOfStep is "anyOf", with its children bound to compiled Sequences at
// compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-anyof
type anyOfStep struct {
	schema   *Schema
	children []*Sequence
}

func (cs *compileSet) compileAnyOf(schema *Schema) Step {
	if len(schema.AnyOf) == 0 {
		return nil
	}
	children := make([]*Sequence, len(schema.AnyOf))
	for i, sub := range schema.AnyOf {
		children[i] = cs.compile(sub)
	}
	return &anyOfStep{schema: schema, children: children}
}

func (st *anyOfStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	var valid bool

	for i, child := range st.children {
		if child == nil {
			continue
		}
		skipEval := child.schema.Boolean != nil && *child.schema.Boolean

		result, evaluatedProps, evaluatedItems := child.Evaluate(run, instance)
		if result != nil {
			ctx.result.AddDetail(result.SetEvaluationPath(fmt.Sprintf("/anyOf/%d", i)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/anyOf/%d", i))).
				SetInstanceLocation(""),
			)

			if result.IsValid() {
				valid = true
				if !skipEval {
					mergeStringMaps(ctx.props, evaluatedProps)
					mergeIntMaps(ctx.items, evaluatedItems)
				}
			}
		}
	}

	if !valid {
		ctx.result.AddError(NewEvaluationError("anyOf", "any_of_item_mismatch", "Value does not match anyOf schema"))
	}
}
