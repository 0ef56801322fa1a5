package codegen

import (
	"fmt"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

const unionReadError = "Must check which() before get()ing a union member."

// unionGuard holds the statements that protect a union member's accessors.
// All members are empty for fields outside a union.
type unionGuard struct {
	// has makes a presence test answer false for an inactive member
	has string

	// check makes a read fail for an inactive member
	check string

	// set activates the member before a write
	set string

	inUnion bool
}

// guardFor builds the guard for a field of st. Every accessor family of every
// field kind takes its guard from here.
func guardFor(st *schema.StructInfo, f *schema.Field) unionGuard {
	if !f.InUnion() {
		return unionGuard{}
	}
	v := f.DiscriminantValue
	return unionGuard{
		has:     fmt.Sprintf("if (this.which() !== %d) return false; ", v),
		check:   fmt.Sprintf("if (this.which() !== %d) throw new Error(%q); ", v, unionReadError),
		set:     fmt.Sprintf("_builder.setDataField_uint16(%d, %d); ", st.DiscriminantOffset, v),
		inUnion: true,
	}
}

// predicate emits the is<Name> accessor shared by reader and builder views.
// scope is the qualified name of the struct declaring the union.
func (u unionGuard) predicate(scope, fieldName string, depth int) string {
	if !u.inUnion {
		return ""
	}
	return fmt.Sprintf("%sthis.is%s = function() { return this.which() === %s.%s; };\n",
		indent(depth), toTitleCase(fieldName), scope, toUpperCase(fieldName))
}
