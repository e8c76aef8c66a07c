package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// oneOfStep is "oneOf", with its children bound to compiled Sequences at
// compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-oneof
type oneOfStep struct {
	schema   *Schema
	children []*Sequence
}

func (cs *compileSet) compileOneOf(schema *Schema) Step {
	if len(schema.OneOf) == 0 {
		return nil
	}
	children := make([]*Sequence, len(schema.OneOf))
	for i, sub := range schema.OneOf {
		children[i] = cs.compile(sub)
	}
	return &oneOfStep{schema: schema, children: children}
}

func (st *oneOfStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	validIndexes := []string{}
	var matchedProps map[string]bool
	var matchedItems map[int]bool

	for i, child := range st.children {
		if child == nil {
			continue
		}
		result, evaluatedProps, evaluatedItems := child.Evaluate(run, instance)
		if result != nil {
			ctx.result.AddDetail(result.SetEvaluationPath(fmt.Sprintf("/oneOf/%d", i)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/oneOf/%d", i))).
				SetInstanceLocation(""),
			)

			if result.IsValid() {
				validIndexes = append(validIndexes, strconv.Itoa(i))
				matchedProps = evaluatedProps
				matchedItems = evaluatedItems
			}
		}
	}

	switch {
	case len(validIndexes) == 1:
		mergeStringMaps(ctx.props, matchedProps)
		mergeIntMaps(ctx.items, matchedItems)
	case len(validIndexes) > 1:
		ctx.result.AddError(NewEvaluationError("oneOf", "one_of_multiple_matches", "Value should match exactly one schema but matches multiple at indexes {matches}", map[string]interface{}{
			"matches": strings.Join(validIndexes, ", "),
		}))
	default:
		ctx.result.AddError(NewEvaluationError("oneOf", "one_of_item_mismatch", "Value does not match the oneOf schema"))
	}
}
