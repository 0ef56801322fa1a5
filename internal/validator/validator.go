// Package validator checks request documents against the embedded CUE contract
// before they are converted into a schema graph.
package validator

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	json "github.com/goccy/go-json"

	"github.com/alexhholmes/capnpc-js/internal/parser"
)

//go:embed request.cue
var requestSchema []byte

// ErrContract is returned when a document does not satisfy #Request
var ErrContract = stderrors.New("request document violates schema contract")

type Validator struct {
	ctx     *cue.Context
	request cue.Value
}

// New compiles the embedded schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(requestSchema, cue.Filename("request.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	request := schema.LookupPath(cue.ParsePath("#Request"))
	if request.Err() != nil {
		return nil, fmt.Errorf("looking up #Request definition: %w", request.Err())
	}

	return &Validator{ctx: ctx, request: request}, nil
}

// Validate checks a decoded document
func (v *Validator) Validate(doc *parser.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document to JSON: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks a JSON-encoded document
func (v *Validator) ValidateJSON(data []byte) error {
	value := v.ctx.CompileBytes(data, cue.Filename("request.json"))
	if value.Err() != nil {
		return fmt.Errorf("compiling JSON as CUE: %w", value.Err())
	}

	unified := v.request.Unify(value)
	if err := unified.Validate(); err != nil {
		return violation(err)
	}
	return nil
}

// violation flattens every CUE error into one line each
func violation(err error) error {
	var lines []string
	for _, e := range errors.Errors(err) {
		lines = append(lines, e.Error())
	}
	if len(lines) == 0 {
		lines = append(lines, err.Error())
	}
	return fmt.Errorf("%w:\n  %s", ErrContract, strings.Join(lines, "\n  "))
}
