package tool

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

// StringArg extracts a required string argument. Invalid input is a
// tool-input error that the agent loop feeds back to the model.
func StringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", goerr.New(key+" is required", goerr.T(types.ErrTagToolInput))
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", goerr.New(key+" must be a non-empty string", goerr.T(types.ErrTagToolInput))
	}
	return s, nil
}

// IntArg extracts a required integer argument. JSON numbers arrive as
// float64, so numeric types are coerced.
func IntArg(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, goerr.New(key+" is required", goerr.T(types.ErrTagToolInput))
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, goerr.New(key+" must be an integer", goerr.T(types.ErrTagToolInput), goerr.V("value", v))
	}
}

// OptionalLimit extracts an optional positive limit, falling back to def.
func OptionalLimit(args map[string]any, def int) int {
	if v, err := IntArg(args, "limit"); err == nil && v > 0 {
		return int(v)
	}
	return def
}
