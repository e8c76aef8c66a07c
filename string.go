package jsonschema

import "regexp"

// compiledPattern holds the result of compiling a "pattern" regular
// expression once, at schema-compile time, instead of lazily on first use.
type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// stringStep runs "minLength", "maxLength" and "pattern" as a single
// compiled step. The pattern's regexp is compiled once here; apply never
// calls regexp.Compile.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-validation-keywords-for-str
type stringStep struct {
	schema  *Schema
	pattern *compiledPattern
}

func compileStringKeywords(schema *Schema) Step {
	if schema.MinLength == nil && schema.MaxLength == nil && schema.Pattern == nil {
		return nil
	}

	st := &stringStep{schema: schema}
	if schema.Pattern != nil {
		re, err := regexp.Compile(toRE2Pattern(*schema.Pattern))
		st.pattern = &compiledPattern{re: re, err: err}
	}
	return st
}

func (st *stringStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	value, ok := instance.(string)
	if !ok {
		return
	}

	if err := evaluateMinLength(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluateMaxLength(st.schema, value); err != nil {
		ctx.result.AddError(err)
	}
	if err := evaluatePattern(st.schema, st.pattern, value); err != nil {
		ctx.result.AddError(err)
	}
}
