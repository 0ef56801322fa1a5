package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexhholmes/capnpc-js/internal/analyzer"
	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// fieldKind selects the accessor surface generated for a field
type fieldKind int

const (
	voidField fieldKind = iota
	primitiveField
	blobField
	structField
	listField
	interfaceField
	objectField
	groupField
)

func kindOf(f *schema.Field) fieldKind {
	if f.Kind == schema.GroupField {
		return groupField
	}
	switch f.Slot.Type.Kind {
	case schema.Void:
		return voidField
	case schema.Text, schema.Data:
		return blobField
	case schema.Struct:
		return structField
	case schema.List:
		return listField
	case schema.Interface:
		return interfaceField
	case schema.AnyPointer:
		return objectField
	default:
		return primitiveField
	}
}

// fieldCtx carries context for emitting one field's accessors
type fieldCtx struct {
	scope string       // qualified name of the declaring struct
	node  *schema.Node // declaring struct; its encoded form holds pointer defaults
	field *schema.Field
	guard unionGuard
	depth int
}

// bindings is the accessor text of one field for each view
type bindings struct {
	reader  string
	builder string
}

// fieldEmitter generates one field kind's accessors
type fieldEmitter func(c *fileContext, fc fieldCtx) (bindings, error)

var fieldEmitters = map[fieldKind]fieldEmitter{
	voidField:      (*fileContext).voidBindings,
	primitiveField: (*fileContext).primitiveBindings,
	blobField:      (*fileContext).blobBindings,
	structField:    (*fileContext).structBindings,
	listField:      (*fileContext).listBindings,
	interfaceField: (*fileContext).interfaceBindings,
	objectField:    (*fileContext).objectBindings,
	groupField:     (*fileContext).groupBindings,
}

// fieldBindings generates the reader and builder accessors of a field
func (c *fileContext) fieldBindings(scope string, node *schema.Node, f *schema.Field, depth int) (bindings, error) {
	fc := fieldCtx{
		scope: scope,
		node:  node,
		field: f,
		guard: guardFor(node.Struct, f),
		depth: depth,
	}
	b, err := fieldEmitters[kindOf(f)](c, fc)
	if err != nil {
		return bindings{}, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return b, nil
}

// accessor emits "this.<name> = function(<params>) { <body>};". Body statements end in "; ".
func (fc fieldCtx) accessor(prefix, params, body string) string {
	return fmt.Sprintf("%sthis.%s%s = function(%s) { %s};\n",
		indent(fc.depth), prefix, toTitleCase(fc.field.Name), params, body)
}

// views emits the union predicate ahead of each view's accessors
func (fc fieldCtx) views(reader, builder []string) bindings {
	pred := fc.guard.predicate(fc.scope, fc.field.Name, fc.depth)
	return bindings{
		reader:  pred + strings.Join(reader, ""),
		builder: pred + strings.Join(builder, ""),
	}
}

// pointerDefault is the trailing default argument for a pointer field's getter,
// sliced from the declaring node's encoded form
func (fc fieldCtx) pointerDefault(withSize bool) string {
	d := fc.field.Slot.Default
	if d.IsZero() {
		return ""
	}
	arg := fmt.Sprintf(", %s.slice(%d)", schemaRef(fc.node.ID), uint64(fc.field.Slot.DefaultOffset)*8)
	if withSize && d.Size() > 0 {
		arg += ", " + strconv.Itoa(d.Size())
	}
	return arg
}

func (c *fileContext) voidBindings(fc fieldCtx) (bindings, error) {
	g := fc.guard
	return fc.views(
		[]string{
			fc.accessor("has", "", g.has+"return false; "),
			fc.accessor("get", "", g.check+"return undefined; "),
		},
		[]string{
			fc.accessor("has", "", g.has+"return false; "),
			fc.accessor("get", "", g.check+"return undefined; "),
			fc.accessor("set", "value", g.set),
		},
	), nil
}

func (c *fileContext) primitiveBindings(fc fieldCtx) (bindings, error) {
	slot := fc.field.Slot
	short := analyzer.ShortName(slot.Type.Kind)
	if short == "" {
		return bindings{}, fmt.Errorf("no data accessor for %s", slot.Type.Kind)
	}

	getArgs := strconv.FormatUint(uint64(slot.Offset), 10)
	setArgs := getArgs + ", value"
	suffix := ""
	if mask, ok := defaultMask(slot.Default); ok {
		suffix = "_masked"
		getArgs += ", " + mask
		setArgs += ", " + mask
	}

	off := slot.Offset
	g := fc.guard
	has := func(view string) string {
		return fc.accessor("has", "", fmt.Sprintf("%sreturn %s.hasDataField_%s(%d); ", g.has, view, short, off))
	}
	get := func(view string) string {
		return fc.accessor("get", "", fmt.Sprintf("%sreturn %s.getDataField_%s%s(%s); ", g.check, view, short, suffix, getArgs))
	}

	return fc.views(
		[]string{has("_reader"), get("_reader")},
		[]string{
			has("_builder"),
			get("_builder"),
			fc.accessor("set", "value", fmt.Sprintf("%s_builder.setDataField_%s%s(%s); ", g.set, short, suffix, setArgs)),
		},
	), nil
}

func pointerHas(fc fieldCtx, view string) string {
	return fc.accessor("has", "", fmt.Sprintf("%sreturn !%s.isPointerFieldNull(%d); ", fc.guard.has, view, fc.field.Slot.Offset))
}

func (c *fileContext) blobBindings(fc fieldCtx) (bindings, error) {
	typ, err := c.typeName(fc.field.Slot.Type)
	if err != nil {
		return bindings{}, err
	}
	helper := "textBlob"
	if fc.field.Slot.Type.Kind == schema.Data {
		helper = "dataBlob"
	}

	ptr := fc.field.Slot.Offset
	def := fc.pointerDefault(true)
	g := fc.guard
	return fc.views(
		[]string{
			pointerHas(fc, "_reader"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn %s.getReader(_reader, %d%s); ", g.check, typ, ptr, def)),
		},
		[]string{
			pointerHas(fc, "_builder"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn %s.getBuilder(_builder, %d%s); ", g.check, typ, ptr, def)),
			fc.accessor("set", "value", fmt.Sprintf("%scapnp.genhelper.%sSet(_builder, %d, value); ", g.set, helper, ptr)),
			fc.accessor("init", "size", fmt.Sprintf("%sreturn %s.initBuilder(_builder, %d, size); ", g.set, typ, ptr)),
			fc.accessor("adopt", "value", fmt.Sprintf("%scapnp.genhelper.structAdopt(%s, _builder, %d, value); ", g.set, typ, ptr)),
			fc.accessor("disown", "", fmt.Sprintf("%sreturn capnp.genhelper.%sDisown(_builder, %d); ", g.check, helper, ptr)),
		},
	), nil
}

func (c *fileContext) structBindings(fc fieldCtx) (bindings, error) {
	typ, err := c.typeName(fc.field.Slot.Type)
	if err != nil {
		return bindings{}, err
	}

	ptr := fc.field.Slot.Offset
	def := fc.pointerDefault(false)
	g := fc.guard
	return fc.views(
		[]string{
			pointerHas(fc, "_reader"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn new %s.Reader(_reader.getStructField(%d%s)); ", g.check, typ, ptr, def)),
		},
		[]string{
			pointerHas(fc, "_builder"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn new %s.Builder(_builder.getStructField(%d, %s.STRUCT_SIZE%s)); ", g.check, typ, ptr, typ, def)),
			fc.accessor("set", "value", fmt.Sprintf("%scapnp.genhelper.structSet(%s, _builder, %d, value); ", g.set, typ, ptr)),
			fc.accessor("init", "", fmt.Sprintf("%sreturn new %s.Builder(_builder.initStructField(%d, %s.STRUCT_SIZE)); ", g.set, typ, ptr, typ)),
			fc.accessor("adopt", "value", fmt.Sprintf("%scapnp.genhelper.structAdopt(%s, _builder, %d, value); ", g.set, typ, ptr)),
			fc.accessor("disown", "", fmt.Sprintf("%sreturn capnp.genhelper.structDisown(%s, _builder, %d); ", g.check, typ, ptr)),
		},
	), nil
}

func (c *fileContext) listBindings(fc fieldCtx) (bindings, error) {
	typ, err := c.typeName(fc.field.Slot.Type)
	if err != nil {
		return bindings{}, err
	}

	ptr := fc.field.Slot.Offset
	def := fc.pointerDefault(false)
	g := fc.guard
	return fc.views(
		[]string{
			pointerHas(fc, "_reader"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn %s.getReader(_reader, %d%s); ", g.check, typ, ptr, def)),
		},
		[]string{
			pointerHas(fc, "_builder"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn %s.getBuilder(_builder, %d%s); ", g.check, typ, ptr, def)),
			fc.accessor("set", "value", fmt.Sprintf("%scapnp.genhelper.listSet(%s, _builder, %d, value); ", g.set, typ, ptr)),
			fc.accessor("init", "size", fmt.Sprintf("%sreturn capnp.genhelper.listInit(%s, _builder, %d, size); ", g.set, typ, ptr)),
			fc.accessor("adopt", "value", fmt.Sprintf("%scapnp.genhelper.structAdopt(%s, _builder, %d, value); ", g.set, typ, ptr)),
			fc.accessor("disown", "", fmt.Sprintf("%sreturn capnp.genhelper.listDisown(%s, _builder, %d); ", g.check, typ, ptr)),
		},
	), nil
}

// interfaceBindings emits nothing: capabilities have no accessors in this runtime
func (c *fileContext) interfaceBindings(fc fieldCtx) (bindings, error) {
	return bindings{}, nil
}

func (c *fileContext) objectBindings(fc fieldCtx) (bindings, error) {
	ptr := fc.field.Slot.Offset
	def := fc.pointerDefault(false)
	g := fc.guard
	return fc.views(
		[]string{
			pointerHas(fc, "_reader"),
			fc.accessor("get", "type", fmt.Sprintf("%sreturn capnp.genhelper.objectGetFromReader(type, _reader, %d%s); ", g.check, ptr, def)),
		},
		[]string{
			pointerHas(fc, "_builder"),
			fc.accessor("get", "type", fmt.Sprintf("%sreturn capnp.genhelper.objectGetFromBuilder(type, _builder, %d%s); ", g.check, ptr, def)),
			fc.accessor("set", "type, value", fmt.Sprintf("%scapnp.genhelper.objectSet(type, _builder, %d, value); ", g.set, ptr)),
			fc.accessor("init", "type", fmt.Sprintf("%sreturn capnp.genhelper.objectInit(_builder, %d, arguments); ", g.set, ptr)),
			fc.accessor("adopt", "type, value", fmt.Sprintf("%scapnp.genhelper.objectAdopt(type, _builder, %d, value); ", g.set, ptr)),
			fc.accessor("disown", "type", fmt.Sprintf("%sreturn capnp.genhelper.objectDisown(type, _builder, %d); ", g.check, ptr)),
		},
	), nil
}

func (c *fileContext) groupBindings(fc fieldCtx) (bindings, error) {
	group, err := c.graph.Node(fc.field.GroupID)
	if err != nil {
		return bindings{}, err
	}
	slots, err := analyzer.SortedSlots(c.graph, group)
	if err != nil {
		return bindings{}, err
	}

	typ := fc.scope + "." + toTitleCase(fc.field.Name)
	g := fc.guard
	ind := indent(fc.depth + 1)

	has := func(view string) string {
		var tests []string
		for _, s := range slots {
			tests = append(tests, slotPresence(s, view))
		}
		cond := "false"
		if len(tests) > 0 {
			cond = strings.Join(tests, "\n"+ind+"    || ")
		}
		return fmt.Sprintf("%sthis.has%s = function() {\n%s%sreturn %s;\n%s};\n",
			indent(fc.depth), toTitleCase(fc.field.Name), ind, g.has, cond, indent(fc.depth))
	}

	var init strings.Builder
	fmt.Fprintf(&init, "%sthis.init%s = function() {\n", indent(fc.depth), toTitleCase(fc.field.Name))
	if g.set != "" {
		init.WriteString(ind + strings.TrimSuffix(g.set, " ") + "\n")
	}
	for _, s := range slots {
		init.WriteString(ind + slotClear(s) + "\n")
	}
	fmt.Fprintf(&init, "%sreturn new %s.Builder(_builder);\n%s};\n", ind, typ, indent(fc.depth))

	return fc.views(
		[]string{
			has("_reader"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn new %s.Reader(_reader); ", g.check, typ)),
		},
		[]string{
			has("_builder"),
			fc.accessor("get", "", fmt.Sprintf("%sreturn new %s.Builder(_builder); ", g.check, typ)),
			init.String(),
		},
	), nil
}

// slotPresence is the presence test for one resolved slot
func slotPresence(s analyzer.Slot, view string) string {
	if s.Section() == analyzer.PointerSection {
		return fmt.Sprintf("!%s.isPointerFieldNull(%d)", view, s.Offset)
	}
	return fmt.Sprintf("%s.hasDataField_%s(%d)", view, analyzer.ShortName(s.Kind), s.Offset)
}

// slotClear resets one resolved slot to zero
func slotClear(s analyzer.Slot) string {
	if s.Section() == analyzer.PointerSection {
		return fmt.Sprintf("_builder.clearPointerField(%d);", s.Offset)
	}
	return fmt.Sprintf("_builder.setDataField_%s(%d, %s);", analyzer.ShortName(s.Kind), s.Offset, zeroLiteral(s.Kind))
}
