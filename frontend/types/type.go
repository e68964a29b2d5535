package types

import (
	"encoding/binary"
	"hash/fnv"
	"iter"
	"slices"
	"strconv"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/shapecheck/internal/log"
)

var logger = log.DefaultLogger.With("section", "types")

// Type is the closed sum of all type shapes. Traversals switch exhaustively
// over the implementations in this file.
type Type interface {
	String() string
	// Hash is structural, and insensitive to the order of union and
	// intersection members
	Hash() uint64
	isType()
}

var (
	_ Type = (*Var)(nil)
	_ Type = Primitive{}
	_ Type = Literal{}
	_ Type = (*Func)(nil)
	_ Type = (*Record)(nil)
	_ Type = (*Tuple)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Intersection)(nil)
	_ Type = (*Alias)(nil)
	_ Type = (*Recursive)(nil)
)

// Var is an unknown. Two Vars denote the same unknown if and only if
// their ID is the same, so Vars must only be created by a Fresher.
type Var struct {
	ID    int
	Level int
}

func (v *Var) String() string { return "t" + strconv.Itoa(v.ID) }
func (v *Var) Hash() uint64   { return hashOf("Var", uint64(v.ID)) }

// Primitive types are compared by name
type Primitive struct {
	Name string
}

var (
	Int    = Primitive{Name: "Int"}
	String = Primitive{Name: "String"}
	Bool   = Primitive{Name: "Bool"}
	Unit   = Primitive{Name: "Unit"}
)

// PrimitiveNamed returns the primitive type called name, if there is one
func PrimitiveNamed(name string) (Primitive, bool) {
	switch name {
	case Int.Name, String.Name, Bool.Name, Unit.Name:
		return Primitive{Name: name}, true
	default:
		return Primitive{}, false
	}
}

func (p Primitive) String() string { return p.Name }
func (p Primitive) Hash() uint64   { return hashOf("Primitive", hashString(p.Name)) }

// Literal is the singleton type of one string value, used for the tags
// of discriminated unions
type Literal struct {
	Value string
}

func (l Literal) String() string { return strconv.Quote(l.Value) }
func (l Literal) Hash() uint64   { return hashOf("Literal", hashString(l.Value)) }

type Func struct {
	Param  Type
	Result Type
}

func NewFunc(param, result Type) *Func {
	return &Func{Param: param, Result: result}
}

// Curried builds params[0] -> params[1] -> ... -> result, or
// Unit -> result when there are no params
func Curried(params []Type, result Type) Type {
	if len(params) == 0 {
		return NewFunc(Unit, result)
	}
	for _, param := range slices.Backward(params) {
		result = NewFunc(param, result)
	}
	return result
}

func (f *Func) Hash() uint64 { return hashOf("Func", f.Param.Hash(), f.Result.Hash()) }

// Record maps field names to types. When Row is nil the record is closed
// and has exactly Fields; otherwise Row stands for the remaining fields.
type Record struct {
	Fields *immutable.SortedMap[string, Type]
	Row    *Var
}

func emptyFields() *immutable.SortedMap[string, Type] {
	return immutable.NewSortedMap[string, Type](nil)
}

// NewRecord builds a record from fields, closed when row is nil
func NewRecord(fields map[string]Type, row *Var) *Record {
	b := immutable.NewSortedMapBuilder[string, Type](nil)
	for name, t := range fields {
		b.Set(name, t)
	}
	return &Record{Fields: b.Map(), Row: row}
}

// RecordOf builds a record from an existing field map
func RecordOf(fields *immutable.SortedMap[string, Type], row *Var) *Record {
	if fields == nil {
		fields = emptyFields()
	}
	return &Record{Fields: fields, Row: row}
}

func (r *Record) IsOpen() bool { return r.Row != nil }
func (r *Record) Len() int     { return r.Fields.Len() }

func (r *Record) Field(name string) (Type, bool) {
	return r.Fields.Get(name)
}

// All iterates over the fields in name order
func (r *Record) All() iter.Seq2[string, Type] {
	return func(yield func(string, Type) bool) {
		itr := r.Fields.Iterator()
		for !itr.Done() {
			name, t, _ := itr.Next()
			if !yield(name, t) {
				return
			}
		}
	}
}

// FieldNames returns the field names in sorted order
func (r *Record) FieldNames() []string {
	names := make([]string, 0, r.Len())
	for name := range r.All() {
		names = append(names, name)
	}
	return names
}

// With returns a copy of r where name has type t
func (r *Record) With(name string, t Type) *Record {
	return &Record{Fields: r.Fields.Set(name, t), Row: r.Row}
}

// WithRow returns a copy of r with a different row
func (r *Record) WithRow(row *Var) *Record {
	return &Record{Fields: r.Fields, Row: row}
}

func (r *Record) Hash() uint64 {
	parts := make([]uint64, 0, r.Len()*2+1)
	for name, t := range r.All() {
		parts = append(parts, hashString(name), t.Hash())
	}
	if r.Row != nil {
		parts = append(parts, r.Row.Hash())
	}
	return hashOf("Record", parts...)
}

type Tuple struct {
	Elems []Type
}

func NewTuple(elems ...Type) *Tuple { return &Tuple{Elems: elems} }

func (t *Tuple) Hash() uint64 { return hashOf("Tuple", hashAll(t.Elems)...) }

// Union has at least two structurally distinct alternatives, none of which
// is itself a Union. Build it with NewUnion.
type Union struct {
	Alts []Type
}

func (u *Union) Hash() uint64 { return hashOf("Union", sortedHashes(u.Alts)...) }

// Intersection has at least two structurally distinct members, none of
// which is itself an Intersection. Build it with NewIntersection.
type Intersection struct {
	Members []Type
}

func (i *Intersection) Hash() uint64 { return hashOf("Intersection", sortedHashes(i.Members)...) }

// Alias is a reference to a named type resolved through an alias registry
type Alias struct {
	Name string
	Args []Type
}

func NewAlias(name string, args ...Type) *Alias { return &Alias{Name: name, Args: args} }

func (a *Alias) Hash() uint64 {
	return hashOf("Alias", append([]uint64{hashString(a.Name)}, hashAll(a.Args)...)...)
}

// Recursive is μBinder.Body, where Binder stands for the whole type
// wherever it appears inside Body
type Recursive struct {
	Binder *Var
	Body   Type
}

func NewRecursive(binder *Var, body Type) *Recursive {
	return &Recursive{Binder: binder, Body: body}
}

// Unfold replaces the binder by the recursive type itself, one level deep
func (r *Recursive) Unfold() Type {
	unfolded := Singleton(r.Binder, r).Apply(r.Body)
	logger.Debug("unfolded recursive type", "type", r, "unfolded", unfolded)
	return unfolded
}

func (r *Recursive) Hash() uint64 { return hashOf("Recursive", r.Binder.Hash(), r.Body.Hash()) }

func (v *Var) isType()          {}
func (p Primitive) isType()     {}
func (l Literal) isType()       {}
func (f *Func) isType()         {}
func (r *Record) isType()       {}
func (t *Tuple) isType()        {}
func (u *Union) isType()        {}
func (i *Intersection) isType() {}
func (a *Alias) isType()        {}
func (r *Recursive) isType()    {}

func hashOf(tag string, parts ...uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tag))
	arr := make([]byte, 0, 8*len(parts))
	for _, part := range parts {
		arr = binary.LittleEndian.AppendUint64(arr, part)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashAll(ts []Type) []uint64 {
	hashes := make([]uint64, 0, len(ts))
	for _, t := range ts {
		hashes = append(hashes, t.Hash())
	}
	return hashes
}

func sortedHashes(ts []Type) []uint64 {
	hashes := hashAll(ts)
	slices.Sort(hashes)
	return hashes
}
