// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrNoValidFields = errors.New("no valid fields to update")
	ErrInvalidValue  = errors.New("invalid field value")
	ErrNotObject     = errors.New("body must be a JSON object")
)

// Field is one proposed attribute change
type Field struct {
	Name  string
	Value interface{}
}

// Attrs is a JSON object's members in the order the caller sent them
type Attrs []Field

// Get returns the value for name and whether it was present
func (a Attrs) Get(name string) (interface{}, bool) {
	for _, f := range a {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// DecodeAttrs reads a single JSON object keeping member order. Numbers are
// kept as json.Number. A repeated member keeps its first position and its
// last value.
func DecodeAttrs(r io.Reader) (Attrs, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var attrs Attrs
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		if i, seen := index[name]; seen {
			attrs[i].Value = value
			continue
		}
		index[name] = len(attrs)
		attrs = append(attrs, Field{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}
	return attrs, nil
}

// DecodeAttrsBytes is DecodeAttrs over a byte slice
func DecodeAttrsBytes(b []byte) (Attrs, error) {
	return DecodeAttrs(bytes.NewReader(b))
}

// Converter turns a decoded JSON value into the value stored in the column
type Converter func(v interface{}) (interface{}, error)

// Column maps an API field name to a table column
type Column struct {
	Field   string
	Column  string
	Convert Converter
}

// Allowlist is the fixed set of mutable fields for one table
type Allowlist struct {
	table   string
	key     string
	columns map[string]Column
}

// NewAllowlist builds the allow-list for table, keyed by the key column.
// Column names are trusted identifiers and are interpolated into SQL.
func NewAllowlist(table, key string, columns ...Column) *Allowlist {
	a := &Allowlist{table: table, key: key, columns: make(map[string]Column, len(columns))}
	for _, c := range columns {
		if c.Convert == nil {
			c.Convert = String
		}
		a.columns[c.Field] = c
	}
	return a
}

// Allows reports whether field may be patched
func (a *Allowlist) Allows(field string) bool {
	_, ok := a.columns[field]
	return ok
}

// Update is a resolved partial update
type Update struct {
	Table   string
	Key     string
	Fields  []string
	Columns []string
	Values  []interface{}
}

// Resolve keeps the allowed fields of attrs in caller order and converts
// their values. Fields outside the allow-list are dropped without error.
// An empty intersection returns ErrNoValidFields before any conversion.
func (a *Allowlist) Resolve(attrs Attrs) (Update, error) {
	u := Update{Table: a.table, Key: a.key}

	var allowed []Column
	var raw []interface{}
	for _, f := range attrs {
		c, ok := a.columns[f.Name]
		if !ok {
			continue
		}
		allowed = append(allowed, c)
		raw = append(raw, f.Value)
	}
	if len(allowed) == 0 {
		return Update{}, ErrNoValidFields
	}

	for i, c := range allowed {
		v, err := c.Convert(raw[i])
		if err != nil {
			return Update{}, fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Field, err)
		}
		u.Fields = append(u.Fields, c.Field)
		u.Columns = append(u.Columns, c.Column)
		u.Values = append(u.Values, v)
	}
	return u, nil
}

// Statement renders the UPDATE with $N placeholders. The key value is the
// last argument.
func (u Update) Statement(key interface{}) (string, []interface{}) {
	sets := make([]string, len(u.Columns))
	for i, c := range u.Columns {
		sets[i] = c + " = $" + strconv.Itoa(i+1)
	}

	query := "UPDATE " + u.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + u.Key + " = $" + strconv.Itoa(len(u.Columns)+1)

	args := make([]interface{}, 0, len(u.Values)+1)
	args = append(args, u.Values...)
	args = append(args, key)
	return query, args
}
