package jsonschema

import (
	"fmt"
	"slices"
	"strings"
)

// propertiesStep is "properties", with each named subschema bound to a
// compiled Sequence and the required/has-default facts precomputed once at
// compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-properties
type propertiesStep struct {
	schema     *Schema
	names      []string
	children   map[string]*Sequence
	required   map[string]bool
	hasDefault map[string]bool
}

func (cs *compileSet) compileProperties(schema *Schema) Step {
	if schema.Properties == nil {
		return nil
	}

	st := &propertiesStep{
		schema:     schema,
		children:   make(map[string]*Sequence),
		required:   make(map[string]bool),
		hasDefault: make(map[string]bool),
	}
	for _, name := range schema.Required {
		st.required[name] = true
	}
	for propName, propSchema := range *schema.Properties {
		st.names = append(st.names, propName)
		st.children[propName] = cs.compile(propSchema)
		st.hasDefault[propName] = defaultIsSpecified(propSchema)
	}
	slices.Sort(st.names)

	return st
}

func (st *propertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]any)
	if !ok {
		return
	}

	invalidProperties := []string{}

	for _, propName := range st.names {
		ctx.props[propName] = true
		child := st.children[propName]

		propValue, exists := object[propName]
		if !exists && (!st.required[propName] || st.hasDefault[propName]) {
			continue
		}

		result, _, _ := child.Evaluate(run, propValue)
		if result == nil {
			continue
		}

		result.SetEvaluationPath(fmt.Sprintf("/properties/%s", propName)).
			SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/properties/%s", propName))).
			SetInstanceLocation(fmt.Sprintf("/%s", propName))
		ctx.result.AddDetail(result)

		if !result.IsValid() {
			invalidProperties = append(invalidProperties, propName)
		}
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("properties", "property_mismatch", "Property {property} does not match the schema", map[string]any{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		slices.Sort(invalidProperties)
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("properties", "properties_mismatch", "Properties {properties} do not match their schemas", map[string]any{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}

// defaultIsSpecified checks if a default value is specified for a property schema.
func defaultIsSpecified(propSchema *Schema) bool {
	return propSchema != nil && propSchema.Default != nil
}
