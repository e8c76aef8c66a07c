package jsonschema

import "strings"

// evaluatePattern checks instance against a regular expression already
// compiled at schema-compile time.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-pattern
func evaluatePattern(schema *Schema, re *compiledPattern, instance string) *EvaluationError {
	if re == nil {
		return nil
	}
	if re.err != nil {
		return NewEvaluationError("pattern", "invalid_pattern", "Invalid regular expression pattern {pattern}", map[string]interface{}{
			"pattern": *schema.Pattern,
		})
	}
	if !re.re.MatchString(instance) {
		return NewEvaluationError("pattern", "pattern_mismatch", "Value does not match the required pattern {pattern}", map[string]interface{}{
			"pattern": *schema.Pattern,
			"value":   instance,
		})
	}
	return nil
}

// ecmaToRE2Classes maps the ECMA-262 Unicode property names that "pattern"
// schemas are written against onto the property names Go's RE2 engine
// (package regexp) actually recognizes. Schema authors write patterns
// assuming an ECMA-262 regex engine; without this translation, otherwise
// valid patterns fail to compile under RE2.
var ecmaToRE2Classes = map[string]string{
	`\p{Letter}`:      `\p{L}`,
	`\P{Letter}`:      `\P{L}`,
	`\p{digit}`:       `\p{N}`,
	`\P{digit}`:       `\P{N}`,
	`\p{Uppercase}`:   `\p{Lu}`,
	`\P{Uppercase}`:   `\P{Lu}`,
	`\p{Lowercase}`:   `\p{Ll}`,
	`\P{Lowercase}`:   `\P{Ll}`,
	`\p{White_Space}`: `\s`,
	`\P{White_Space}`: `\S`,
}

// toRE2Pattern rewrites the handful of ECMA-262 Unicode property aliases
// that commonly appear in schema patterns into their RE2 equivalents, then
// leaves everything else untouched. This is a pragmatic, not exhaustive,
// compatibility shim: it does not attempt to translate lookaround, named
// groups, or other ECMA-262 constructs RE2 cannot express at all.
func toRE2Pattern(pattern string) string {
	for ecma, re2 := range ecmaToRE2Classes {
		pattern = strings.ReplaceAll(pattern, ecma, re2)
	}
	return pattern
}
