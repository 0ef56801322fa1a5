package analyzer

import (
	"fmt"
	"sort"

	"github.com/alexhholmes/capnpc-js/internal/schema"
)

// Slot is a resolved physical location inside a struct.
// For the data section Offset is in units of Kind's width; for pointers it is the index.
type Slot struct {
	Kind   schema.TypeKind
	Offset uint32
}

func (s Slot) Section() Section {
	return SectionOf(s.Kind)
}

// Bits is the slot's width; zero for pointer slots
func (s Slot) Bits() int {
	return BitWidth(s.Kind)
}

// Start is the first bit of a data slot
func (s Slot) Start() uint64 {
	return uint64(s.Offset) * uint64(s.Bits())
}

// Contains reports whether s covers every bit (or the pointer) that o covers
func (s Slot) Contains(o Slot) bool {
	if s.Section() != o.Section() {
		return false
	}
	switch s.Section() {
	case DataSection:
		return s.Start() <= o.Start() && o.Start()+uint64(o.Bits()) <= s.Start()+uint64(s.Bits())
	case PointerSection:
		return s.Offset == o.Offset
	default:
		return true
	}
}

func (s Slot) String() string {
	switch s.Section() {
	case DataSection:
		return fmt.Sprintf("data[%d:%d]", s.Start(), s.Start()+uint64(s.Bits()))
	case PointerSection:
		return fmt.Sprintf("ptr[%d]", s.Offset)
	default:
		return "void"
	}
}

// less orders by section, then start bit, then descending width.
// Kind breaks remaining ties so the order never depends on declaration order.
func (s Slot) less(o Slot) bool {
	if s.Section() != o.Section() {
		return s.Section() < o.Section()
	}
	switch s.Section() {
	case DataSection:
		if s.Start() != o.Start() {
			return s.Start() < o.Start()
		}
		if s.Bits() != o.Bits() {
			return s.Bits() > o.Bits()
		}
	case PointerSection:
		if s.Offset != o.Offset {
			return s.Offset < o.Offset
		}
	}
	return s.Kind < o.Kind
}

// SortedSlots returns the duplicate-free slots occupied by a struct node's own
// fields, every nested group's fields, and the union discriminant if any.
// Clearing exactly these slots resets the struct (or group) to its defaults.
func SortedSlots(g *schema.Graph, n *schema.Node) ([]Slot, error) {
	var all []Slot
	if err := collectSlots(g, n, &all); err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].less(all[j])
	})

	// Widths are powers of two, so overlapping slots always nest. Sorting by start
	// with wider slots first means a redundant slot can only be covered by the
	// slot kept immediately before it.
	result := make([]Slot, 0, len(all))
	for _, s := range all {
		if len(result) > 0 && result[len(result)-1].Contains(s) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func collectSlots(g *schema.Graph, n *schema.Node, out *[]Slot) error {
	if n.Kind != schema.StructNode || n.Struct == nil {
		return fmt.Errorf("%s: slots requested for %s node", n.DisplayName, n.Kind)
	}

	st := n.Struct
	if st.DiscriminantCount > 0 {
		*out = append(*out, Slot{Kind: schema.Uint16, Offset: st.DiscriminantOffset})
	}

	for _, f := range st.Fields {
		switch f.Kind {
		case schema.SlotField:
			if SectionOf(f.Slot.Type.Kind) == NoSection {
				continue // void occupies nothing
			}
			*out = append(*out, Slot{Kind: f.Slot.Type.Kind, Offset: f.Slot.Offset})
		case schema.GroupField:
			group, err := g.Node(f.GroupID)
			if err != nil {
				return fmt.Errorf("group %s.%s: %w", n.DisplayName, f.Name, err)
			}
			if err := collectSlots(g, group, out); err != nil {
				return err
			}
		}
	}
	return nil
}
