package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/capnpc-js/internal/parser"
)

func TestValidate_Fixtures(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	for _, path := range []string{
		"../parser/testdata/shapes.json",
		"../parser/testdata/shapes.yaml",
		"../../example/addressbook.yaml",
	} {
		t.Run(path, func(t *testing.T) {
			doc, err := parser.ReadFile(path, parser.FormatAuto)
			require.NoError(t, err)
			assert.NoError(t, v.Validate(doc))
		})
	}
}

func TestValidateJSON_Contract(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty request", `{"nodes": [], "requestedFiles": []}`, false},
		{"null lists", `{"nodes": null, "requestedFiles": null}`, false},
		{"file node", `{"nodes": [{"id": 1, "kind": "file", "displayName": "a.capnp", "encoded": "AQAAAAAAAAA="}], "requestedFiles": [{"id": 1, "filename": "a.capnp"}]}`, false},
		{"large id", `{"nodes": [{"id": 18446744073709551615, "kind": "file", "displayName": "a.capnp"}], "requestedFiles": []}`, false},
		{"unknown node kind", `{"nodes": [{"id": 1, "kind": "module", "displayName": "a"}], "requestedFiles": []}`, true},
		{"negative id", `{"nodes": [{"id": -1, "kind": "file", "displayName": "a"}], "requestedFiles": []}`, true},
		{"id overflow", `{"nodes": [{"id": 18446744073709551616, "kind": "file", "displayName": "a"}], "requestedFiles": []}`, true},
		{"empty display name", `{"nodes": [{"id": 1, "kind": "file", "displayName": ""}], "requestedFiles": []}`, true},
		{"bad base64", `{"nodes": [{"id": 1, "kind": "file", "displayName": "a", "encoded": "!!"}], "requestedFiles": []}`, true},
		{"unknown top-level field", `{"nodes": [], "requestedFiles": [], "parameters": "x"}`, true},
		{"unknown node field", `{"nodes": [{"id": 1, "kind": "file", "displayName": "a", "package": "x"}], "requestedFiles": []}`, true},
		{
			"bad list encoding",
			`{"nodes": [{"id": 1, "kind": "struct", "displayName": "a:S", "struct": {"dataWordCount": 1, "pointerCount": 0, "preferredListEncoding": 9}}], "requestedFiles": []}`,
			true,
		},
		{
			"discriminant overflow",
			`{"nodes": [{"id": 1, "kind": "struct", "displayName": "a:S", "struct": {"dataWordCount": 1, "pointerCount": 0, "preferredListEncoding": 7,
			  "fields": [{"name": "f", "codeOrder": 0, "discriminantValue": 70000, "slot": {"offset": 0, "type": {"kind": "void"}}}]}}], "requestedFiles": []}`,
			true,
		},
		{
			"unknown type kind",
			`{"nodes": [{"id": 1, "kind": "const", "displayName": "a:c", "const": {"type": {"kind": "uint128"}, "value": {}}}], "requestedFiles": []}`,
			true,
		},
		{
			"value field typo",
			`{"nodes": [{"id": 1, "kind": "const", "displayName": "a:c", "const": {"type": {"kind": "bool"}, "value": {"boolean": true}}}], "requestedFiles": []}`,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateJSON([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrContract)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateJSON_Details(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateJSON([]byte(`{"nodes": [{"id": 1, "kind": "module", "displayName": "a"}], "requestedFiles": []}`))
	require.ErrorIs(t, err, ErrContract)
	assert.Contains(t, err.Error(), "module")
}

func TestValidateJSON_Malformed(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	err = v.ValidateJSON([]byte(`{"nodes": [`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrContract)
}

func TestViolation_WrapsSentinel(t *testing.T) {
	err := violation(ErrContract)
	require.ErrorIs(t, err, ErrContract)
	assert.True(t, strings.HasPrefix(err.Error(), "request document violates schema contract:\n  "), err.Error())
}
