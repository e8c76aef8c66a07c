package jsonschema

// contentStep is "contentEncoding"/"contentMediaType"/"contentSchema". The
// contentSchema subschema is bound to a compiled Sequence at compile time;
// the encoding/media-type decoder lookups stay live against the owning
// Compiler's registries.
//
// References:
//   - https://json-schema.org/draft/2020-12/json-schema-validation#name-contentencoding
//   - https://json-schema.org/draft/2020-12/json-schema-validation#name-contentmediatype
//   - https://json-schema.org/draft/2020-12/json-schema-validation#name-contentschema
type contentStep struct {
	schema *Schema
	child  *Sequence
}

func (cs *compileSet) compileContent(schema *Schema) Step {
	if schema.ContentEncoding == nil && schema.ContentMediaType == nil && schema.ContentSchema == nil {
		return nil
	}
	return &contentStep{schema: schema, child: cs.compile(schema.ContentSchema)}
}

func (st *contentStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	dataStr, isString := instance.(string)
	if !isString {
		return
	}

	schema := st.schema

	var content []byte
	var parsedData interface{}
	var err error

	if schema.ContentEncoding != nil {
		decoder, exists := schema.compiler.Decoders[*schema.ContentEncoding]
		if !exists {
			ctx.result.AddError(NewEvaluationError("contentEncoding", "unsupported_encoding", "Unsupported encoding '{encoding}' specified.", map[string]interface{}{"encoding": *schema.ContentEncoding}))
			return
		}
		content, err = decoder(dataStr)
		if err != nil {
			ctx.result.AddError(NewEvaluationError("contentEncoding", "invalid_encoding", "Error decoding data with '{encoding}'", map[string]interface{}{"error": err.Error(), "encoding": *schema.ContentEncoding}))
			return
		}
	} else {
		content = []byte(dataStr)
	}

	if schema.ContentMediaType != nil {
		unmarshal, exists := schema.compiler.MediaTypes[*schema.ContentMediaType]
		if !exists {
			ctx.result.AddError(NewEvaluationError("contentMediaType", "unsupported_media_type", "Unsupported media type '{mediaType}' specified.", map[string]interface{}{"mediaType": *schema.ContentMediaType}))
			return
		}
		parsedData, err = unmarshal(content)
		if err != nil {
			ctx.result.AddError(NewEvaluationError("contentMediaType", "invalid_media_type", "Error unmarshalling data with media type '{mediaType}'", map[string]interface{}{"error": err.Error(), "mediaType": *schema.ContentMediaType}))
			return
		}
	} else {
		parsedData = content
	}

	if st.child != nil {
		result, _, _ := st.child.Evaluate(run, parsedData)
		if result != nil {
			result.SetEvaluationPath("/contentSchema").
				SetSchemaLocation(schema.GetSchemaLocation("/contentSchema")).
				SetInstanceLocation("")
			ctx.result.AddDetail(result)

			if !result.IsValid() {
				ctx.result.AddError(NewEvaluationError("contentSchema", "content_schema_mismatch", "Content does not match the schema"))
			}
		}
	}
}
