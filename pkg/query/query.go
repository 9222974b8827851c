// Package query builds URL query strings whose parameter order is fixed by the caller.
//
// [net/url.Values] sorts keys on Encode; list endpoints here document a fixed
// parameter order, so the builder keeps insertion order instead. Absent values
// (zero ints, empty strings) are skipped entirely, never sent as "key=".
package query

import (
	"net/url"
	"strconv"
	"strings"
)

type param struct {
	key   string
	value string
}

// Builder accumulates query parameters in insertion order.
type Builder struct {
	params []param
}

// New returns an empty [Builder].
func New() *Builder {
	return &Builder{}
}

// Int appends key when value is positive.
func (b *Builder) Int(key string, value int) *Builder {
	if value > 0 {
		b.params = append(b.params, param{key: key, value: strconv.Itoa(value)})
	}
	return b
}

// String appends key when value is non-empty.
func (b *Builder) String(key, value string) *Builder {
	if value != "" {
		b.params = append(b.params, param{key: key, value: value})
	}
	return b
}

// Encode renders the parameters form-encoded, in insertion order.
func (b *Builder) Encode() string {
	var sb strings.Builder
	for i, p := range b.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

// Path appends the encoded query to base, or returns base unchanged when empty.
func (b *Builder) Path(base string) string {
	encoded := b.Encode()
	if encoded == "" {
		return base
	}
	return base + "?" + encoded
}
