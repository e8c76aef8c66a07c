package jsonschema

import (
	"github.com/goccy/go-json"
)

// dependentRequiredStep is "dependentRequired", with the dependency map fixed
// at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-dependentrequired
type dependentRequiredStep struct {
	deps map[string][]string
}

func compileDependentRequired(schema *Schema) Step {
	if schema.DependentRequired == nil {
		return nil
	}
	return &dependentRequiredStep{deps: schema.DependentRequired}
}

func (st *dependentRequiredStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]interface{})
	if !ok {
		return
	}
	if err := evaluateDependentRequired(st.deps, object); err != nil {
		ctx.result.AddError(err)
	}
}

func evaluateDependentRequired(deps map[string][]string, object map[string]interface{}) *EvaluationError {
	dependentMissingProps := make(map[string][]string)

	for key, requiredProps := range deps {
		if _, keyExists := object[key]; keyExists {
			var missingProps []string
			for _, reqProp := range requiredProps {
				if _, propExists := object[reqProp]; !propExists {
					missingProps = append(missingProps, reqProp)
				}
			}

			if len(missingProps) > 0 {
				dependentMissingProps[key] = missingProps
			}
		}
	}

	if len(dependentMissingProps) > 0 {
		missingPropsJSON, _ := json.Marshal(dependentMissingProps)
		return NewEvaluationError("dependentRequired", "dependent_property_required", "Some required property dependencies are missing: {missing_properties}", map[string]interface{}{
			"missing_properties": string(missingPropsJSON),
		})
	}

	return nil
}
