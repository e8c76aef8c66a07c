package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// unevaluatedItemsStep is "unevaluatedItems", with its subschema bound to a
// compiled Sequence at compile time (when it is not a boolean schema). It
// must run after every other applicator so ctx.items reflects everything
// else has already claimed.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-unevaluateditems
type unevaluatedItemsStep struct {
	schema  *Schema
	boolean *bool
	child   *Sequence
}

func (cs *compileSet) compileUnevaluatedItems(schema *Schema) Step {
	if schema.UnevaluatedItems == nil {
		return nil
	}
	if schema.UnevaluatedItems.Boolean != nil {
		return &unevaluatedItemsStep{schema: schema, boolean: schema.UnevaluatedItems.Boolean}
	}
	return &unevaluatedItemsStep{schema: schema, child: cs.compile(schema.UnevaluatedItems)}
}

func (st *unevaluatedItemsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	items, ok := instance.([]interface{})
	if !ok {
		return
	}

	if st.boolean != nil {
		if *st.boolean {
			for i := range items {
				ctx.items[i] = true
			}
			return
		}
		var unevaluatedIndexes []string
		for i := range items {
			if !ctx.items[i] {
				unevaluatedIndexes = append(unevaluatedIndexes, strconv.Itoa(i))
			}
		}
		if len(unevaluatedIndexes) > 0 {
			ctx.result.AddError(NewEvaluationError("unevaluatedItems", "unevaluated_items_not_allowed", "Unevaluated items are not allowed at indexes: {indexes}", map[string]interface{}{
				"indexes": strings.Join(unevaluatedIndexes, ", "),
			}))
		}
		return
	}

	invalidIndexes := []string{}

	for i, item := range items {
		if ctx.items[i] {
			continue
		}

		result, _, itemMarks := st.child.Evaluate(run, item)
		if result != nil {
			result.SetEvaluationPath(fmt.Sprintf("/unevaluatedItems/%d", i)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/unevaluatedItems/%d", i))).
				SetInstanceLocation(fmt.Sprintf("/%d", i))
			ctx.result.AddDetail(result)

			if result.IsValid() {
				ctx.items[i] = true
			} else {
				invalidIndexes = append(invalidIndexes, strconv.Itoa(i))
			}
		}
		mergeIntMaps(ctx.items, itemMarks)
	}

	if len(invalidIndexes) == 1 {
		ctx.result.AddError(NewEvaluationError("unevaluatedItems", "unevaluated_item_mismatch", "Item at index {index} does not match the unevaluatedItems schema", map[string]interface{}{
			"index": invalidIndexes[0],
		}))
	} else if len(invalidIndexes) > 1 {
		ctx.result.AddError(NewEvaluationError("unevaluatedItems", "unevaluated_items_mismatch", "Items at indexes {indexes} do not match the unevaluatedItems schema", map[string]interface{}{
			"indexes": strings.Join(invalidIndexes, ", "),
		}))
	}
}
