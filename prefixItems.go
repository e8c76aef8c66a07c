package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// prefixItemsStep is "prefixItems", with each positional subschema bound to
// a compiled Sequence at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-prefixitems
type prefixItemsStep struct {
	schema   *Schema
	children []*Sequence
}

func (cs *compileSet) compilePrefixItems(schema *Schema) Step {
	if len(schema.PrefixItems) == 0 {
		return nil
	}
	children := make([]*Sequence, len(schema.PrefixItems))
	for i, sub := range schema.PrefixItems {
		children[i] = cs.compile(sub)
	}
	return &prefixItemsStep{schema: schema, children: children}
}

func (st *prefixItemsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	array, ok := instance.([]interface{})
	if !ok {
		return
	}

	invalidIndexes := []string{}

	for i, child := range st.children {
		if i >= len(array) {
			break
		}

		result, _, _ := child.Evaluate(run, array[i])
		if result == nil {
			continue
		}

		result.SetEvaluationPath(fmt.Sprintf("/prefixItems/%d", i)).
			SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/prefixItems/%d", i))).
			SetInstanceLocation(fmt.Sprintf("/%d", i))

		if result.IsValid() {
			ctx.items[i] = true
		} else {
			ctx.result.AddDetail(result)
			invalidIndexes = append(invalidIndexes, strconv.Itoa(i))
			// Stop at the first failing position to keep error volume bounded.
			break
		}
	}

	if len(invalidIndexes) == 1 {
		ctx.result.AddError(NewEvaluationError("prefixItems", "prefix_item_mismatch", "Item at index {index} does not match the prefixItems schema", map[string]interface{}{
			"index": invalidIndexes[0],
		}))
	} else if len(invalidIndexes) > 1 {
		ctx.result.AddError(NewEvaluationError("prefixItems", "prefix_items_mismatch", "Items at index {indexs} do not match the prefixItems schemas", map[string]interface{}{
			"indexs": strings.Join(invalidIndexes, ", "),
		}))
	}
}
