package jsonschema

import "reflect"

// constStep is "const", resolved once from schema.Const at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-const
type constStep struct {
	value *ConstValue
}

func compileConst(schema *Schema) Step {
	if schema.Const == nil {
		return nil
	}
	return &constStep{value: schema.Const}
}

func (st *constStep) apply(_ *ValidationRun, instance any, ctx *evalCtx) {
	if st.value.Value == nil {
		if instance != nil {
			ctx.result.AddError(NewEvaluationError("const", "const_mismatch_null", "Value does not match constant null value"))
		}
		return
	}

	if !reflect.DeepEqual(instance, st.value.Value) {
		ctx.result.AddError(NewEvaluationError("const", "const_mismatch", "Value does not match the constant value"))
	}
}
