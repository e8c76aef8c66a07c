package jsonschema

import "sync"

// Step is one compiled, executable unit of a schema node's evaluation plan.
// Unlike a raw *Schema field, a Step has already done whatever work can be
// done once: it knows which keyword it represents, holds that keyword's
// already-parsed configuration (a compiled regexp, a resolved type set, a
// bound child *Sequence), and never re-reads the *Schema it was built from
// to make that decision again. Compiling a schema node means building its
// list of Steps; evaluating it means walking that list.
type Step interface {
	apply(run *ValidationRun, instance any, ctx *evalCtx)
}

// Sequence is the compiled form of a single *Schema node: the schema for
// error-location bookkeeping, plus the ordered Steps built from its
// keywords. It is built once, memoized by the schema pointer it was
// compiled from, and reused for every subsequent Validate call.
type Sequence struct {
	schema *Schema
	steps  []Step
}

// compileSet memoizes *Schema -> *Sequence for one Compile invocation. A
// placeholder Sequence is inserted before a node's Steps are built, so a
// schema that (directly or through $ref/$dynamicRef) refers back to itself
// compiles in finite time: the second visit finds the placeholder already
// in the map and reuses it instead of recursing again. Its Steps are filled
// in once the recursive descent that reached it unwinds.
type compileSet struct {
	memo map[*Schema]*Sequence
}

func newCompileSet() *compileSet {
	return &compileSet{memo: make(map[*Schema]*Sequence)}
}

// compile returns the memoized Sequence for schema, building its Steps (and,
// transitively, every Sequence it binds to) if this is the first visit.
func (cs *compileSet) compile(schema *Schema) *Sequence {
	if schema == nil {
		return nil
	}
	if seq, ok := cs.memo[schema]; ok {
		return seq
	}

	seq := &Sequence{schema: schema}
	cs.memo[schema] = seq // placeholder: breaks reference cycles

	if schema.Boolean == nil {
		seq.steps = cs.buildSteps(schema)
	}

	return seq
}

// buildSteps inspects schema once and translates every keyword it carries
// into a compiled Step, in a fixed order so error reporting stays
// deterministic. This is the actual schema -> instruction
// translation: each compileX call below resolves its keyword's child
// schemas to their compiled Sequences and precomputes whatever the keyword
// allows (a regexp, a numeric bound, a property map) so apply() never has
// to re-derive them from the raw *Schema.
func (cs *compileSet) buildSteps(schema *Schema) []Step {
	var steps []Step
	add := func(step Step) {
		if step != nil {
			steps = append(steps, step)
		}
	}

	add(cs.compileRef(schema))
	add(cs.compileDynamicRef(schema))
	add(compileType(schema))
	add(compileEnum(schema))
	add(compileConst(schema))
	add(cs.compileAllOf(schema))
	add(cs.compileAnyOf(schema))
	add(cs.compileOneOf(schema))
	add(cs.compileNot(schema))
	add(cs.compileConditional(schema))
	add(cs.compilePrefixItems(schema))
	add(cs.compileItems(schema))
	add(cs.compileContains(schema))
	add(compileMaxItems(schema))
	add(compileMinItems(schema))
	add(compileUniqueItems(schema))
	add(compileNumeric(schema))
	add(compileStringKeywords(schema))
	add(compileFormat(schema))
	add(cs.compileProperties(schema))
	add(cs.compilePatternProperties(schema))
	add(cs.compileAdditionalProperties(schema))
	add(cs.compilePropertyNames(schema))
	add(compileMaxProperties(schema))
	add(compileMinProperties(schema))
	add(compileRequired(schema))
	add(compileDependentRequired(schema))
	add(cs.compileDependentSchemas(schema))
	add(cs.compileUnevaluatedProperties(schema))
	add(cs.compileUnevaluatedItems(schema))
	add(cs.compileContent(schema))

	return steps
}

// CompiledSchema is the immutable, concurrency-safe result of compiling a
// schema document. Many goroutines may call Validate on the same
// CompiledSchema at once: the compiled Sequence/Step tree is never mutated
// after CompileSchema returns, and each call gets its own ValidationRun.
type CompiledSchema struct {
	root      *Sequence
	schema    *Schema
	memoMu    sync.RWMutex
	memoTable map[*Schema]*Sequence
}

// CompileSchema turns an already-resolved *Schema (the output of
// Compiler.Compile) into a compiled instruction tree.
func CompileSchema(schema *Schema) *CompiledSchema {
	cs := newCompileSet()
	root := cs.compile(schema)
	return &CompiledSchema{root: root, schema: schema, memoTable: cs.memo}
}

// Validate checks instance against the compiled schema and returns the full
// evaluation tree (annotations, nested results, and any errors).
func (c *CompiledSchema) Validate(instance any) *EvaluationResult {
	run := NewValidationRun(c)
	result, _, _ := c.root.Evaluate(run, instance)
	return result
}

// Check validates instance and returns the normative external result shape
// ({"ok": true} or {"ok": false, "errors": [...]}) rather than the full
// annotation/detail tree Validate returns.
func (c *CompiledSchema) Check(instance any) *Outcome {
	return c.Validate(instance).ToOutcome()
}

func (c *CompiledSchema) memoGet(schema *Schema) (*Sequence, bool) {
	c.memoMu.RLock()
	defer c.memoMu.RUnlock()
	seq, ok := c.memoTable[schema]
	return seq, ok
}

func (c *CompiledSchema) memoSet(schema *Schema, seq *Sequence) {
	c.memoMu.Lock()
	c.memoTable[schema] = seq
	c.memoMu.Unlock()
}

// Schema exposes the resolved schema a CompiledSchema was built from, for
// callers that need schema-level metadata (e.g. $id) rather than a
// validation result.
func (c *CompiledSchema) Schema() *Schema {
	return c.schema
}

// Initialize parses and compiles raw schema JSON in one step, mirroring the
// external initialize/validate contract: Initialize builds the
// CompiledSchema once, and the returned value's Validate method can then be
// called repeatedly (and concurrently) without recompiling.
func Initialize(schemaJSON []byte) (*CompiledSchema, error) {
	schema, err := NewCompiler().Compile(schemaJSON)
	if err != nil {
		return nil, err
	}
	return CompileSchema(schema), nil
}

// sequenceFor resolves schema to its compiled Sequence. Used only where a
// target cannot be bound at compile time (a $dynamicRef's live override),
// so the owning CompiledSchema's memo is consulted instead of recompiling.
func (r *ValidationRun) sequenceFor(schema *Schema) *Sequence {
	if r.owner == nil {
		// Defensive fallback: compile a standalone node. Only reached if a
		// Sequence is evaluated outside of CompiledSchema.Validate (e.g. in
		// a test), so it still resolves correctly, just without memo
		// sharing.
		cs := newCompileSet()
		return cs.compile(schema)
	}
	return r.owner.sequenceFor(schema)
}

func (c *CompiledSchema) sequenceFor(schema *Schema) *Sequence {
	if schema == nil {
		return nil
	}
	if seq, ok := c.memoGet(schema); ok {
		return seq
	}
	// Schema reachable only through a path the eager compile walk didn't
	// anticipate (e.g. a schema mutated after compilation). Compile it now
	// and remember it so later lookups stay O(1).
	cs := &compileSet{memo: map[*Schema]*Sequence{}}
	seq := cs.compile(schema)
	c.memoSet(schema, seq)
	return seq
}

// refStep is $ref bound to its already-compiled target Sequence: the target
// never needs to be looked up or recompiled at validation time.
type refStep struct {
	schema *Schema
	target *Sequence
}

func (cs *compileSet) compileRef(schema *Schema) Step {
	if schema.ResolvedRef == nil {
		return nil
	}
	return &refStep{schema: schema, target: cs.compile(schema.ResolvedRef)}
}

func (st *refStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	refResult, props, items := st.target.Evaluate(run, instance)
	if refResult != nil {
		ctx.result.AddDetail(refResult)
		if !refResult.IsValid() {
			ctx.result.AddError(
				NewEvaluationError("$ref", "ref_mismatch", "Value does not match the reference schema"),
			)
		}
	}
	mergeStringMaps(ctx.props, props)
	mergeIntMaps(ctx.items, items)
}

// dynamicRefStep is $dynamicRef. Its static fallback target is bound at
// compile time like refStep's; which Sequence actually runs can only be
// decided once the live dynamic scope exists, so the anchor name and
// pointer-vs-name distinction are precomputed here and the scope lookup
// itself stays in apply.
type dynamicRefStep struct {
	schema        *Schema
	staticTarget  *Sequence
	anchorName    string
	isPointerOnly bool
}

func (cs *compileSet) compileDynamicRef(schema *Schema) Step {
	if schema.ResolvedDynamicRef == nil {
		return nil
	}
	_, anchor := splitRef(schema.DynamicRef)
	return &dynamicRefStep{
		schema:        schema,
		staticTarget:  cs.compile(schema.ResolvedDynamicRef),
		anchorName:    schema.ResolvedDynamicRef.DynamicAnchor,
		isPointerOnly: isJSONPointer(anchor),
	}
}

func (st *dynamicRefStep) apply(run *ValidationRun, instance any, ctx *evalCtx) {
	target := st.staticTarget
	if !st.isPointerOnly && st.anchorName != "" {
		if schema := run.LookupDynamicAnchor(st.anchorName); schema != nil {
			target = run.sequenceFor(schema)
		}
	}

	dynamicRefResult, props, items := target.Evaluate(run, instance)
	if dynamicRefResult != nil {
		ctx.result.AddDetail(dynamicRefResult)
		if !dynamicRefResult.IsValid() {
			ctx.result.AddError(
				NewEvaluationError("$dynamicRef", "dynamic_ref_mismatch", "Value does not match the dynamic reference schema"),
			)
		}
	}
	mergeStringMaps(ctx.props, props)
	mergeIntMaps(ctx.items, items)
}
