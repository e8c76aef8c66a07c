package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// itemsStep is "items": its subschema is bound to a compiled Sequence and
// the number of leading prefixItems positions to skip is fixed at compile
// time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-items
type itemsStep struct {
	schema     *Schema
	child      *Sequence
	startIndex int
}

func (cs *compileSet) compileItems(schema *Schema) Step {
	if schema.Items == nil {
		return nil
	}
	return &itemsStep{schema: schema, child: cs.compile(schema.Items), startIndex: len(schema.PrefixItems)}
}

func (st *itemsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	array, ok := instance.([]interface{})
	if !ok {
		return
	}

	invalidIndexes := []string{}

	for i := st.startIndex; i < len(array); i++ {
		item := array[i]
		result, _, _ := st.child.Evaluate(run, item)
		if result == nil {
			continue
		}

		result.SetEvaluationPath(fmt.Sprintf("/items/%d", i)).
			SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/items/%d", i))).
			SetInstanceLocation(fmt.Sprintf("/%d", i))

		if result.IsValid() {
			ctx.items[i] = true
		} else {
			ctx.result.AddDetail(result)
			invalidIndexes = append(invalidIndexes, strconv.Itoa(i))
			// Stop at the first failing item to keep error volume bounded.
			break
		}
	}

	if len(invalidIndexes) == 1 {
		ctx.result.AddError(NewEvaluationError("items", "item_mismatch", "Item at index {index} does not match the schema", map[string]interface{}{
			"index": invalidIndexes[0],
		}))
	} else if len(invalidIndexes) > 1 {
		ctx.result.AddError(NewEvaluationError("items", "items_mismatch", "Items at index {indexs} do not match the schema", map[string]interface{}{
			"indexs": strings.Join(invalidIndexes, ", "),
		}))
	}
}
