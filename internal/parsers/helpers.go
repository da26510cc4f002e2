// Package parsers holds small lenient decoders for the loosely typed values
// quota APIs hand back: header numbers, JWT claims, boolean-ish strings.
// Everything here degrades to nil instead of returning an error; a value
// that fails to parse is simply absent.
package parsers

import (
	"net/http"
	"strconv"
	"strings"
)

// Float parses s as a float64, tolerating surrounding whitespace.
func Float(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Int parses s as an int64. Fractional strings are rejected.
func Int(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Bool recognizes "true"/"1" (any case); everything else is false.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true
	}
	return false
}

// HeaderFloat reads key from h and parses it as a float.
func HeaderFloat(h http.Header, key string) *float64 {
	return Float(h.Get(key))
}

// HeaderInt reads key from h and parses it as an integer.
func HeaderInt(h http.Header, key string) *int64 {
	return Int(h.Get(key))
}
