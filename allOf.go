package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// allOfStep is "allOf": its child schemas are resolved to their compiled
// Sequences once, at compile time, so apply() only ever walks bound
// Sequences instead of re-deriving them from schema.AllOf.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-allof
type allOfStep struct {
	schema   *Schema
	children []*Sequence
}

func (cs *compileSet) compileAllOf(schema *Schema) Step {
	if len(schema.AllOf) == 0 {
		return nil
	}
	children := make([]*Sequence, len(schema.AllOf))
	for i, sub := range schema.AllOf {
		children[i] = cs.compile(sub)
	}
	return &allOfStep{schema: schema, children: children}
}

func (st *allOfStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	invalidIndexes := []string{}

	for i, child := range st.children {
		if child == nil {
			continue
		}
		skipEval := child.schema.Boolean != nil && *child.schema.Boolean

		result, evaluatedProps, evaluatedItems := child.Evaluate(run, instance)
		if !skipEval {
			mergeStringMaps(ctx.props, evaluatedProps)
			mergeIntMaps(ctx.items, evaluatedItems)
		}

		if result != nil {
			ctx.result.AddDetail(result.SetEvaluationPath(fmt.Sprintf("/allOf/%d", i)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/allOf/%d", i))).
				SetInstanceLocation(""),
			)

			if !result.IsValid() {
				invalidIndexes = append(invalidIndexes, strconv.Itoa(i))
			}
		}
	}

	if len(invalidIndexes) > 0 {
		ctx.result.AddError(NewEvaluationError("allOf", "all_of_item_mismatch", "Value does not match the allOf schema at index {indexs}", map[string]interface{}{
			"indexs": strings.Join(invalidIndexes, ", "),
		}))
	}
}
