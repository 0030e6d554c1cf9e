package heap

import "github.com/huskvm/husk/value"

// StructType is a nominal record type with single-parent inheritance and
// an ordered, named field list, the substrate the condition hierarchy is
// built from.
type StructType struct {
	header Header
	Name   *Symbol
	Parent *StructType // nil for a root type
	Fields []*Symbol   // this type's own fields, not including inherited ones

	total int64 // Parent's total + len(Fields)
}

// NewStructType allocates a struct-type. total is computed once so
// Allocate and the field-index walk don't re-derive it each call.
func NewStructType(g *GC, name *Symbol, parent *StructType, fields []*Symbol) *StructType {
	var inherited int64
	if parent != nil {
		inherited = parent.total
	}
	st := &StructType{
		header: newHeader("struct-type"),
		Name:   name,
		Parent: parent,
		Fields: fields,
		total:  inherited + int64(len(fields)),
	}
	g.track(&st.header, st, int64(32+8*len(fields)))
	return st
}

func (st *StructType) ObjectKind() string { return st.header.kind }
func (st *StructType) header() *Header    { return &st.header }

func (st *StructType) EachChild(fn func(value.Reference)) {
	fn(value.Pointer(st.Name))
	if st.Parent != nil {
		fn(value.Pointer(st.Parent))
	}
	for _, f := range st.Fields {
		fn(value.Pointer(f))
	}
}

// TotalFields is the sum of field counts along the parent chain.
func (st *StructType) TotalFields() int64 { return st.total }

// InheritedFieldCount is the parent's TotalFields, or 0 for a root type.
func (st *StructType) InheritedFieldCount() int64 {
	if st.Parent == nil {
		return 0
	}
	return st.Parent.total
}

// fieldIndex walks the parent chain to find name's linear slot index.
func (st *StructType) fieldIndex(name string) (int64, bool) {
	if st.Parent != nil {
		if i, ok := st.Parent.fieldIndex(name); ok {
			return i, true
		}
	}
	base := st.InheritedFieldCount()
	for i, f := range st.Fields {
		if f.Name() == name {
			return base + int64(i), true
		}
	}
	return 0, false
}

// Isa walks st's parent chain looking for target by identity.
func (st *StructType) Isa(target *StructType) bool {
	for t := st; t != nil; t = t.Parent {
		if t == target {
			return true
		}
	}
	return false
}

// StructInstance is a value of a StructType: a field vector whose length
// equals the type's TotalFields, all slots initialized to nil.
type StructInstance struct {
	header Header
	Type   *StructType
	fields []value.Reference
}

// Allocate returns a new instance of typ with every field set to nil.
func Allocate(g *GC, typ *StructType) *StructInstance {
	fields := make([]value.Reference, typ.TotalFields())
	for i := range fields {
		fields[i] = value.Nil
	}
	si := &StructInstance{header: newHeader("struct-instance"), Type: typ, fields: fields}
	g.track(&si.header, si, int64(24+8*len(fields)))
	return si
}

func (si *StructInstance) ObjectKind() string { return si.header.kind }
func (si *StructInstance) header() *Header    { return &si.header }

func (si *StructInstance) EachChild(fn func(value.Reference)) {
	fn(value.Pointer(si.Type))
	for _, f := range si.fields {
		fn(f)
	}
}

// Ref returns the named field's value, walking the parent chain for its index.
func (si *StructInstance) Ref(name string) (value.Reference, error) {
	i, ok := si.Type.fieldIndex(name)
	if !ok {
		return value.Nil, ErrWrongKind
	}
	return si.fields[i], nil
}

// Set assigns the named field's value.
func (si *StructInstance) Set(name string, v value.Reference) error {
	i, ok := si.Type.fieldIndex(name)
	if !ok {
		return ErrWrongKind
	}
	si.fields[i] = v
	return nil
}

// Isa reports whether si's type is, or inherits from, target.
func (si *StructInstance) Isa(target *StructType) bool {
	return si.Type.Isa(target)
}
