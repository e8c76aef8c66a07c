package jsonschema

// minItemsStep is "minItems", with the bound resolved at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minitems
type minItemsStep struct {
	min float64
}

func compileMinItems(schema *Schema) Step {
	if schema.MinItems == nil {
		return nil
	}
	return &minItemsStep{min: *schema.MinItems}
}

func (st *minItemsStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	array, ok := instance.([]interface{})
	if !ok {
		return
	}
	if float64(len(array)) < st.min {
		ctx.result.AddError(NewEvaluationError("minItems", "items_too_short", "Value should have at least {min_items} items", map[string]interface{}{
			"min_items": st.min,
			"count":     len(array),
		}))
	}
}
