package jsonschema

import (
	"fmt"
	"slices"
	"strings"
)

// dependentSchemasStep is "dependentSchemas", with each property's subschema
// bound to a compiled Sequence at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-dependentschemas
type dependentSchemasStep struct {
	schema   *Schema
	names    []string
	children map[string]*Sequence
}

func (cs *compileSet) compileDependentSchemas(schema *Schema) Step {
	if len(schema.DependentSchemas) == 0 {
		return nil
	}

	st := &dependentSchemasStep{schema: schema, children: make(map[string]*Sequence)}
	for propName, depSchema := range schema.DependentSchemas {
		if depSchema == nil {
			continue
		}
		st.names = append(st.names, propName)
		st.children[propName] = cs.compile(depSchema)
	}
	slices.Sort(st.names)

	return st
}

func (st *dependentSchemasStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	objData, ok := instance.(map[string]interface{})
	if !ok {
		return
	}

	invalidProperties := []string{}

	for _, propName := range st.names {
		if _, exists := objData[propName]; !exists {
			continue
		}

		child := st.children[propName]
		result, props, items := child.Evaluate(run, objData)
		if result != nil {
			result.SetEvaluationPath(fmt.Sprintf("/dependentSchemas/%s", propName)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/dependentSchemas/%s", propName))).
				SetInstanceLocation(fmt.Sprintf("/%s", propName))
		}

		if result.IsValid() {
			mergeStringMaps(ctx.props, props)
			mergeIntMaps(ctx.items, items)
		} else {
			invalidProperties = append(invalidProperties, propName)
		}
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("dependentSchemas", "dependent_schema_mismatch", "Property {property} does not meet the schema requirements dependent on it", map[string]interface{}{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("dependentSchemas", "dependent_schemas_mismatch", "Properties {properties} do not meet the schema requirements dependent on them", map[string]interface{}{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}
