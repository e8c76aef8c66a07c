package jsonschema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// additionalPropertiesStep is "additionalProperties". The set of sibling
// "properties" names and "patternProperties" regexes it must exclude is
// precomputed once at compile time, alongside the bound child Sequence.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-additionalproperties
type additionalPropertiesStep struct {
	schema      *Schema
	siblingName map[string]bool
	siblingRE   []*regexp.Regexp
	child       *Sequence
}

func (cs *compileSet) compileAdditionalProperties(schema *Schema) Step {
	if schema.AdditionalProperties == nil {
		return nil
	}

	st := &additionalPropertiesStep{
		schema:      schema,
		siblingName: make(map[string]bool),
		child:       cs.compile(schema.AdditionalProperties),
	}
	if schema.Properties != nil {
		for propName := range *schema.Properties {
			st.siblingName[propName] = true
		}
	}
	if schema.PatternProperties != nil {
		for patternKey := range *schema.PatternProperties {
			if re, err := regexp.Compile(patternKey); err == nil {
				st.siblingRE = append(st.siblingRE, re)
			}
		}
	}

	return st
}

func (st *additionalPropertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
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
		if st.siblingName[propName] {
			continue
		}
		matched := false
		for _, re := range st.siblingRE {
			if re.MatchString(propName) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		ctx.props[propName] = true

		result, _, _ := st.child.Evaluate(run, object[propName])
		if result == nil {
			continue
		}

		result.SetEvaluationPath(fmt.Sprintf("/additionalProperties/%s", propName)).
			SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/additionalProperties/%s", propName))).
			SetInstanceLocation(fmt.Sprintf("/%s", propName))
		ctx.result.AddDetail(result)

		if !result.IsValid() {
			invalidProperties = append(invalidProperties, propName)
		}
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("additionalProperties", "additional_property_mismatch", "Additional property {property} does not match the schema", map[string]interface{}{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("additionalProperties", "additional_properties_mismatch", "Additional properties {properties} do not match the schema", map[string]interface{}{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}
