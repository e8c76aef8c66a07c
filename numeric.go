package jsonschema

// numericStep runs every numeric keyword ("minimum", "maximum",
// "exclusiveMinimum", "exclusiveMaximum", "multipleOf") as a single compiled
// step. The keywords themselves are already fully resolved *Rat values on
// schema at parse time, so there is nothing further to precompute here
// beyond deciding once that at least one of them is present.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-validation-keywords-for-num
type numericStep struct {
	schema *Schema
}

func compileNumeric(schema *Schema) Step {
	if schema.Minimum == nil && schema.Maximum == nil && schema.ExclusiveMinimum == nil &&
		schema.ExclusiveMaximum == nil && schema.MultipleOf == nil {
		return nil
	}
	return &numericStep{schema: schema}
}

func (st *numericStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	dataType := getDataType(instance)
	if dataType != "number" && dataType != "integer" {
		return
	}

	value := NewRat(instance)
	if value == nil {
		ctx.result.AddError(NewEvaluationError("type", "invalid_numberic", "Value is {received} but should be numeric", map[string]interface{}{
			"received": dataType,
		}))
		return
	}

	if err := evaluateMinimum(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluateMaximum(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluateExclusiveMinimum(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluateExclusiveMaximum(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluateMultipleOf(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
}
