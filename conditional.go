package jsonschema

// conditionalStep is "if"/"then"/"else", with each branch bound to a
// compiled Sequence at compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-core#name-if
type conditionalStep struct {
	schema  *Schema
	ifSeq   *Sequence
	thenSeq *Sequence
	elseSeq *Sequence
}

func (cs *compileSet) compileConditional(schema *Schema) Step {
	if schema.If == nil {
		return nil
	}
	return &conditionalStep{
		schema:  schema,
		ifSeq:   cs.compile(schema.If),
		thenSeq: cs.compile(schema.Then),
		elseSeq: cs.compile(schema.Else),
	}
}

func (st *conditionalStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	ifResult, ifProps, ifItems := st.ifSeq.Evaluate(run, instance)
	if ifResult == nil {
		return
	}

	ifResult.SetEvaluationPath("/if").
		SetSchemaLocation(st.schema.GetSchemaLocation("/if")).
		SetInstanceLocation("")
	ctx.result.AddDetail(ifResult)

	// The if branch's evaluation marks propagate regardless of its outcome.
	mergeStringMaps(ctx.props, ifProps)
	mergeIntMaps(ctx.items, ifItems)

	if ifResult.IsValid() {
		if st.thenSeq != nil {
			thenResult, thenProps, thenItems := st.thenSeq.Evaluate(run, instance)
			if thenResult != nil {
				thenResult.SetEvaluationPath("/then").
					SetSchemaLocation(st.schema.GetSchemaLocation("/then")).
					SetInstanceLocation("")
				ctx.result.AddDetail(thenResult)

				if !thenResult.IsValid() {
					ctx.result.AddError(NewEvaluationError("then", "if_then_mismatch",
						"Value meets the 'if' condition but does not match the 'then' schema"))
					return
				}
				mergeStringMaps(ctx.props, thenProps)
				mergeIntMaps(ctx.items, thenItems)
			}
		}
	} else if st.elseSeq != nil {
		elseResult, elseProps, elseItems := st.elseSeq.Evaluate(run, instance)
		if elseResult != nil {
			ctx.result.AddDetail(elseResult)

			if !elseResult.IsValid() {
				ctx.result.AddError(NewEvaluationError("else", "if_else_mismatch",
					"Value fails the 'if' condition and does not match the 'else' schema"))
				return
			}
			mergeStringMaps(ctx.props, elseProps)
			mergeIntMaps(ctx.items, elseItems)
		}
	}
}
