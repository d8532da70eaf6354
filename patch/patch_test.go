// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package patch

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func abcAllowlist() *Allowlist {
	return NewAllowlist("things", "id",
		Column{Field: "a", Column: "col_a", Convert: Int},
		Column{Field: "b", Column: "col_b"},
		Column{Field: "c", Column: "col_c", Convert: Bool},
	)
}

func TestDecodeAttrs_PreservesOrder(t *testing.T) {
	attrs, err := DecodeAttrs(strings.NewReader(`{"z": 1, "a": "x", "m": true, "b": null}`))
	if err != nil {
		t.Fatalf("DecodeAttrs() error = %v", err)
	}

	var names []string
	for _, f := range attrs {
		names = append(names, f.Name)
	}
	if want := []string{"z", "a", "m", "b"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if v, _ := attrs.Get("z"); v != json.Number("1") {
		t.Errorf("z = %#v, want json.Number(1)", v)
	}
	if v, ok := attrs.Get("b"); !ok || v != nil {
		t.Errorf("b = %#v, %v; want nil, true", v, ok)
	}
	if _, ok := attrs.Get("missing"); ok {
		t.Error("Get() reported a missing field as present")
	}
}

func TestDecodeAttrs_DuplicateKeys(t *testing.T) {
	attrs, err := DecodeAttrs(strings.NewReader(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(attrs) != 2 {
		t.Fatalf("len = %d, want 2", len(attrs))
	}
	if attrs[0].Name != "a" || attrs[0].Value != json.Number("3") {
		t.Errorf("first field = %+v, want a=3", attrs[0])
	}
}

func TestDecodeAttrs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"array", `[1, 2]`},
		{"string", `"a"`},
		{"truncated", `{"a": 1`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"bad value", `{"a": tru}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAttrsBytes([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolve_DropsUnknownFields(t *testing.T) {
	attrs, _ := DecodeAttrsBytes([]byte(`{"a": 1, "x": 2}`))

	u, err := abcAllowlist().Resolve(attrs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if !reflect.DeepEqual(u.Fields, []string{"a"}) {
		t.Errorf("fields = %v, want [a]", u.Fields)
	}
	if !reflect.DeepEqual(u.Columns, []string{"col_a"}) {
		t.Errorf("columns = %v, want [col_a]", u.Columns)
	}
	if !reflect.DeepEqual(u.Values, []interface{}{int64(1)}) {
		t.Errorf("values = %#v, want [1]", u.Values)
	}
}

func TestResolve_NoValidFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"only unknown", `{"x": 2, "y": 3}`},
		{"empty object", `{}`},
		{"unknown with bad type", `{"x": [1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, err := DecodeAttrsBytes([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			_, err = abcAllowlist().Resolve(attrs)
			if !errors.Is(err, ErrNoValidFields) {
				t.Errorf("Resolve() error = %v, want %v", err, ErrNoValidFields)
			}
		})
	}
}

func TestResolve_CallerOrder(t *testing.T) {
	attrs, _ := DecodeAttrsBytes([]byte(`{"c": true, "evil": 1, "b": "hi", "a": 7}`))

	u, err := abcAllowlist().Resolve(attrs)
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"col_c", "col_b", "col_a"}; !reflect.DeepEqual(u.Columns, want) {
		t.Errorf("columns = %v, want %v", u.Columns, want)
	}
	if want := []interface{}{1, "hi", int64(7)}; !reflect.DeepEqual(u.Values, want) {
		t.Errorf("values = %#v, want %#v", u.Values, want)
	}
}

func TestResolve_InvalidValue(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null string", `{"b": null}`},
		{"number for string", `{"b": 5}`},
		{"fraction for int", `{"a": 1.5}`},
		{"string for int", `{"a": "1"}`},
		{"string for bool", `{"c": "yes"}`},
		{"two for bool", `{"c": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, _ := DecodeAttrsBytes([]byte(tt.body))
			_, err := abcAllowlist().Resolve(attrs)
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Resolve() error = %v, want %v", err, ErrInvalidValue)
			}
		})
	}
}

func TestUpdate_Statement(t *testing.T) {
	attrs, _ := DecodeAttrsBytes([]byte(`{"b": "x", "a": 2}`))
	u, err := abcAllowlist().Resolve(attrs)
	if err != nil {
		t.Fatal(err)
	}

	query, args := u.Statement("row-1")

	want := "UPDATE things SET col_b = $1, col_a = $2 WHERE id = $3"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if !reflect.DeepEqual(args, []interface{}{"x", int64(2), "row-1"}) {
		t.Errorf("args = %#v", args)
	}
}

func TestAllowlist_Allows(t *testing.T) {
	a := abcAllowlist()
	if !a.Allows("a") || a.Allows("col_a") || a.Allows("id") {
		t.Error("Allows() should match API field names only")
	}
}

func TestConverters_PlainMessages(t *testing.T) {
	tests := []struct {
		conv Converter
		in   interface{}
		want string
	}{
		{Int, json.Number("1.0"), "must be an integer"},
		{Int, json.Number("99999999999999999999"), "must be an integer"},
		{Float, json.Number("1e999"), "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.in.(json.Number).String(), func(t *testing.T) {
			_, err := tt.conv(tt.in)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestConverters(t *testing.T) {
	tests := []struct {
		name    string
		conv    Converter
		in      interface{}
		want    interface{}
		wantErr bool
	}{
		{"string", String, "s", "s", false},
		{"float from number", Float, json.Number("1.25"), 1.25, false},
		{"float from float64", Float, 2.5, 2.5, false},
		{"float rejects string", Float, "1", nil, true},
		{"int from number", Int, json.Number("42"), int64(42), false},
		{"int from whole float64", Int, float64(3), int64(3), false},
		{"int rejects fraction", Int, json.Number("4.2"), nil, true},
		{"bool true", Bool, true, 1, false},
		{"bool false", Bool, false, 0, false},
		{"bool one", Bool, json.Number("1"), 1, false},
		{"bool zero", Bool, json.Number("0"), 0, false},
		{"bool null", Bool, nil, nil, true},
		{"string object", String, map[string]interface{}{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.conv(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
