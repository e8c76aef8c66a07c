package jsonschema

// notStep is "not", with its child bound to a compiled Sequence at compile
// time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-not
type notStep struct {
	schema *Schema
	child  *Sequence
}

func (cs *compileSet) compileNot(schema *Schema) Step {
	if schema.Not == nil {
		return nil
	}
	return &notStep{schema: schema, child: cs.compile(schema.Not)}
}

func (st *notStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	result, _, _ := st.child.Evaluate(run, instance)
	if result == nil {
		return
	}

	result.SetEvaluationPath("/not").
		SetSchemaLocation(st.schema.GetSchemaLocation("/not")).
		SetInstanceLocation("")
	ctx.result.AddDetail(result)

	if result.IsValid() {
		ctx.result.AddError(NewEvaluationError("not", "not_schema_mismatch", "Value should not match the not schema"))
	}
}
