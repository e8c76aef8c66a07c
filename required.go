package jsonschema

import (
	"fmt"
	"strings"
)

// requiredStep is "required", with the property name list fixed at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-required
type requiredStep struct {
	names []string
}

func compileRequired(schema *Schema) Step {
	if schema.Required == nil {
		return nil
	}
	return &requiredStep{names: schema.Required}
}

func (st *requiredStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]interface{})
	if !ok {
		return
	}
	if err := evaluateRequired(st.names, object); err != nil {
		ctx.result.AddError(err)
	}
}

func evaluateRequired(names []string, object map[string]interface{}) *EvaluationError {
	// Proceed with checking for required properties only if it is indeed an object.
	var missingProps []string
	for _, propName := range names {
		if _, exists := object[propName]; !exists {
			missingProps = append(missingProps, propName)
		}
	}

	if len(missingProps) > 0 {
		if len(missingProps) == 1 {
			return NewEvaluationError("required", "missing_required_property", "Required property {property} is missing", map[string]interface{}{
				"property": fmt.Sprintf("'%s'", missingProps[0]),
			})
		} else {
			quotedProperties := make([]string, len(missingProps))
			for i, prop := range missingProps {
				quotedProperties[i] = fmt.Sprintf("'%s'", prop)
			}
			return NewEvaluationError("required", "missing_required_properties", "Required properties {properties} are missing", map[string]interface{}{
				"properties": strings.Join(quotedProperties, ", "),
			})
		}
	}

	return nil
}
