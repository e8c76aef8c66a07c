package jsonschema

// maxPropertiesStep is "maxProperties", with the bound resolved at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-maxProperties
type maxPropertiesStep struct {
	max float64
}

func compileMaxProperties(schema *Schema) Step {
	if schema.MaxProperties == nil {
		return nil
	}
	return &maxPropertiesStep{max: *schema.MaxProperties}
}

func (st *maxPropertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]interface{})
	if !ok {
		return
	}
	if float64(len(object)) > st.max {
		ctx.result.AddError(NewEvaluationError("maxProperties", "too_many_properties", "Value should have at most {max_properties} properties", map[string]interface{}{
			"max_properties": st.max,
		}))
	}
}
