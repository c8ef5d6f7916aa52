package utils

import "context"

// GetString reads a string value from the request context, tolerating
// missing keys.
func GetString(ctx context.Context, key any) (string, bool) {
	v := ctx.Value(key)
	s, ok := v.(string)
	return s, ok
}
