package jsonschema

import "reflect"

// enumStep is "enum": the allowed value set, carried unchanged from
// schema.Enum since no further compilation is possible beyond deciding once
// that the keyword is present.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-enum
type enumStep struct {
	values []any
}

func compileEnum(schema *Schema) Step {
	if len(schema.Enum) == 0 {
		return nil
	}
	return &enumStep{values: schema.Enum}
}

func (st *enumStep) apply(_ *ValidationRun, instance any, ctx *evalCtx) {
	for _, enumValue := range st.values {
		if reflect.DeepEqual(instance, enumValue) {
			return
		}
	}
	ctx.result.AddError(NewEvaluationError("enum", "value_not_in_enum", "Value should match one of the values specified by the enum"))
}
