package jsonschema

import (
	"strings"
)

// typeStep is "type": the set of accepted type names, decided once at
// compile time from schema.Type.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-type
type typeStep struct {
	types []string
}

func compileType(schema *Schema) Step {
	if len(schema.Type) == 0 {
		return nil
	}
	return &typeStep{types: schema.Type}
}

func (st *typeStep) apply(_ *ValidationRun, instance any, ctx *evalCtx) {
	instanceType := getDataType(instance)

	for _, schemaType := range st.types {
		if schemaType == "number" && instanceType == "integer" {
			// Special case: integers are valid numbers per JSON Schema specification
			return
		}
		if instanceType == schemaType {
			return
		}
	}

	ctx.result.AddError(NewEvaluationError("type", "type_mismatch", "Value is {received} but should be {expected}", map[string]interface{}{
		"expected": strings.Join(st.types, ", "),
		"received": instanceType,
	}))
}
