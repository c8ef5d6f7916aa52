package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter, falling back to def when the
// value is missing or not a number.
func QueryInt(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}

// QueryCSV splits a comma-separated query parameter into trimmed, non-empty
// tokens. Returns nil when the parameter is absent.
func QueryCSV(q url.Values, key string) []string {
	var out []string
	for _, tok := range strings.Split(q.Get(key), ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
