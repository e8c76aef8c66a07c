package jsonschema

import (
	"strconv"
	"strings"
	"time"
)

// functionCall is a parsed dynamic-default expression of the form
// "name(arg, ...)". Literal default values never reach this type.
type functionCall struct {
	Name string
	Args []any
}

// parseFunctionCall recognizes the "name(...)" form in a string default.
// A string that does not look like a call is returned as (nil, nil) so the
// caller falls back to the literal value.
func parseFunctionCall(input string) (*functionCall, error) {
	if len(input) < 3 || !strings.HasSuffix(input, ")") {
		return nil, nil
	}

	parenIndex := strings.IndexByte(input, '(')
	if parenIndex <= 0 {
		return nil, nil
	}

	name := strings.TrimSpace(input[:parenIndex])
	argsStr := strings.TrimSpace(input[parenIndex+1 : len(input)-1])

	var args []any
	if argsStr != "" {
		args = parseFunctionArgs(argsStr)
	}

	return &functionCall{Name: name, Args: args}, nil
}

// parseFunctionArgs splits a comma-separated argument list, converting each
// entry to int64, float64, or string, in that order of preference.
func parseFunctionArgs(argsStr string) []any {
	parts := strings.Split(argsStr, ",")
	args := make([]any, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if i, err := strconv.ParseInt(part, 10, 64); err == nil {
			args = append(args, i)
			continue
		}

		if f, err := strconv.ParseFloat(part, 64); err == nil {
			args = append(args, f)
			continue
		}

		args = append(args, part)
	}

	return args
}

// DefaultNowFunc formats the current time, using the first argument as the
// layout when given (time.RFC3339 otherwise). Register it under a name of
// your choosing with Compiler.RegisterDefaultFunc; it is not wired in by
// default.
func DefaultNowFunc(args ...any) (any, error) {
	format := time.RFC3339

	if len(args) > 0 {
		if f, ok := args[0].(string); ok {
			format = f
		}
	}

	return time.Now().Format(format), nil
}
