package jsonschema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// patternPropertyEntry is one "patternProperties" regex/subschema pair, with
// the regex compiled and the subschema bound to a Sequence once at compile
// time.
type patternPropertyEntry struct {
	pattern string
	re      *regexp.Regexp
	child   *Sequence
}

// patternPropertiesStep is "patternProperties".
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-patternproperties
type patternPropertiesStep struct {
	schema         *Schema
	entries        []patternPropertyEntry
	invalidPattern []string
}

func (cs *compileSet) compilePatternProperties(schema *Schema) Step {
	if schema.PatternProperties == nil {
		return nil
	}

	st := &patternPropertiesStep{schema: schema}
	for patternKey, patternSchema := range *schema.PatternProperties {
		re, err := regexp.Compile(patternKey)
		if err != nil {
			st.invalidPattern = append(st.invalidPattern, patternKey)
			continue
		}
		st.entries = append(st.entries, patternPropertyEntry{
			pattern: patternKey,
			re:      re,
			child:   cs.compile(patternSchema),
		})
	}
	slices.SortFunc(st.entries, func(a, b patternPropertyEntry) int {
		return strings.Compare(a.pattern, b.pattern)
	})
	slices.Sort(st.invalidPattern)

	return st
}

func (st *patternPropertiesStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	object, ok := instance.(map[string]any)
	if !ok {
		return
	}

	invalidProperties := []string{}

	for _, entry := range st.entries {
		names := make([]string, 0, len(object))
		for propName := range object {
			if entry.re.MatchString(propName) {
				names = append(names, propName)
			}
		}
		slices.Sort(names)

		for _, propName := range names {
			ctx.props[propName] = true

			result, _, _ := entry.child.Evaluate(run, object[propName])
			if result == nil {
				continue
			}

			result.SetEvaluationPath(fmt.Sprintf("/patternProperties/%s", propName)).
				SetSchemaLocation(st.schema.GetSchemaLocation(fmt.Sprintf("/patternProperties/%s", propName))).
				SetInstanceLocation(fmt.Sprintf("/%s", propName))
			ctx.result.AddDetail(result)

			if !result.IsValid() && !slices.Contains(invalidProperties, propName) {
				invalidProperties = append(invalidProperties, propName)
			}
		}
	}

	if len(st.invalidPattern) > 0 {
		quoted := make([]string, len(st.invalidPattern))
		for i, pattern := range st.invalidPattern {
			quoted[i] = fmt.Sprintf("'%s'", pattern)
		}
		ctx.result.AddError(NewEvaluationError("patternProperties", "invalid_pattern", "Invalid regular expression pattern {pattern}", map[string]any{
			"pattern": strings.Join(quoted, ", "),
		}))
	}

	if len(invalidProperties) == 1 {
		ctx.result.AddError(NewEvaluationError("properties", "pattern_property_mismatch", "Property {property} does not match the pattern schema", map[string]any{
			"property": fmt.Sprintf("'%s'", invalidProperties[0]),
		}))
	} else if len(invalidProperties) > 1 {
		quotedProperties := make([]string, len(invalidProperties))
		for i, prop := range invalidProperties {
			quotedProperties[i] = fmt.Sprintf("'%s'", prop)
		}
		ctx.result.AddError(NewEvaluationError("properties", "pattern_properties_mismatch", "Properties {properties} do not match their pattern schemas", map[string]any{
			"properties": strings.Join(quotedProperties, ", "),
		}))
	}
}
