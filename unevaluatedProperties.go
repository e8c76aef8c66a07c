package jsonschema

import (
	"fmt"
	"slices"
	"strings"
)

// unevaluatedPropertiesStep is "unevaluatedProperties", with its subschema
// bound to a compiled Sequence at compile time. It must run after every
// other applicator in the step list so ctx.props reflects everything else
// has already claimed.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-unevaluatedproperties
type unevaluatedPropertiesStep struct {
	schema *Schema
	child  *Sequence
}

func (cs *compileSet) compileUnevaluatedProperties(schema *Schema) Step {
	if schema.UnevaluatedProperties == nil {
		return nil
	}
	return &unevaluatedPropertiesStep{schema: schema, child: cs.compile(schema.UnevaluatedProperties)}
}

func (st *unevaluatedPropertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]any)
	if !ok {
		return
	}

	names := make([]string, 0, len(object))
	for propName := range object {
		names = append(names, propName)
	}
	slices.Sort(names)

	invalidProperties := []string{}

	for _, propName := range names {
		if ctx.props[propName] {
			continue
		}

		result, _, _ := st.child.Evaluate(run, object[propName])
		if result != nil {
			result.SetEvaluationPath("/unevaluatedProperties").
				SetSchemaLocation(st.schema.GetSchemaLocation("/unevaluatedProperties")).
				SetInstanceLocation(fmt.Sprintf("/%s", propName))
			ctx.result.AddDetail(result)

			if !result.IsValid() {
				invalidProperties = append(invalidProperties, propName)
			}
		}
		ctx.props[propName] = true
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("properties", "unevaluated_property_mismatch", "Property {property} does not match the unevaluatedProperties schema", map[string]any{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("properties", "unevaluated_properties_mismatch", "Properties {properties} do not match the unevaluatedProperties schema", map[string]any{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}
