package jsonschema

import "fmt"

// maxItemsStep is "maxItems", with the bound resolved at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maxitems
type maxItemsStep struct {
	max float64
}

func compileMaxItems(schema *Schema) Step {
	if schema.MaxItems == nil {
		return nil
	}
	return &maxItemsStep{max: *schema.MaxItems}
}

func (st *maxItemsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	array, ok := instance.([]interface{})
	if !ok {
		return
	}
	if float64(len(array)) > st.max {
		ctx.result.AddError(NewEvaluationError("maxItems", "items_too_long", "Value should have at most {max_items} items", map[string]interface{}{
			"max_items": fmt.Sprintf("%.0f", st.max),
			"count":     len(array),
		}))
	}
}
