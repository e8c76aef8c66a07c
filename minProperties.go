package jsonschema

// minPropertiesStep is "minProperties", with the bound resolved at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-minProperties
type minPropertiesStep struct {
	min float64
}

func compileMinProperties(schema *Schema) Step {
	if schema.MinProperties == nil {
		return nil
	}
	return &minPropertiesStep{min: *schema.MinProperties}
}

func (st *minPropertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]interface{})
	if !ok {
		return
	}
	if float64(len(object)) < st.min {
		ctx.result.AddError(NewEvaluationError("minProperties", "too_few_properties", "Value should have at least {min_properties} properties", map[string]interface{}{
			"min_properties": st.min,
		}))
	}
}
