package jsonschema

import (
	"fmt"
	"slices"
	"strings"
)

// propertyNamesStep is "propertyNames", with its subschema bound to a
// compiled Sequence at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-propertynames
type propertyNamesStep struct {
	schema *Schema
	child  *Sequence
}

func (cs *compileSet) compilePropertyNames(schema *Schema) Step {
	if schema.PropertyNames == nil {
		return nil
	}
	return &propertyNamesStep{schema: schema, child: cs.compile(schema.PropertyNames)}
}

func (st *propertyNamesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
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
		// Every key checked here counts as evaluated, whether or not its
		// name passes and whether or not it is a declared property.
		ctx.props[propName] = true

		result, _, _ := st.child.Evaluate(run, propName)
		if result == nil {
			continue
		}

		result.SetEvaluationPath(fmt.Sprintf("/propertyNames/%s", propName)).
			SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/propertyNames/%s", propName))).
			SetInstanceLocation(fmt.Sprintf("/%s", propName))
		ctx.result.AddDetail(result)

		if !result.IsValid() {
			invalidProperties = append(invalidProperties, propName)
		}
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("propertyNames", "property_name_mismatch", "Property name {property} does not match the schema", map[string]any{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("propertyNames", "property_names_mismatch", "Property names {properties} do not match the schema", map[string]any{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}
