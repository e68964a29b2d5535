package constraint

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

type Kind int

const (
	KindEquality Kind = iota
	KindSubtyping
	KindInstance
	KindRecordShape
	KindMerge
	KindUnionCompat
	KindExhaustive
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindEquality:
		return "equality"
	case KindSubtyping:
		return "subtyping"
	case KindInstance:
		return "instance"
	case KindRecordShape:
		return "record-shape"
	case KindMerge:
		return "merge"
	case KindUnionCompat:
		return "union-compat"
	case KindExhaustive:
		return "exhaustive"
	case KindBranch:
		return "branch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Priority orders solving: higher priorities are solved first.
// It never affects whether a set is satisfiable.
func (k Kind) Priority() int {
	switch k {
	case KindEquality, KindRecordShape:
		return 3
	case KindSubtyping, KindMerge, KindUnionCompat, KindBranch:
		return 2
	case KindInstance:
		return 1
	default:
		return 0
	}
}

type Origin int

const (
	OriginUnification Origin = iota
	OriginInference
	OriginSubtyping
	OriginTypeClass
	OriginAnnotation
)

func (o Origin) String() string {
	switch o {
	case OriginUnification:
		return "unification"
	case OriginInference:
		return "inference"
	case OriginSubtyping:
		return "subtyping"
	case OriginTypeClass:
		return "type-class"
	case OriginAnnotation:
		return "user-annotation"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Constraint is a requirement on types, produced while walking an
// expression and discharged by a solver. Constraints are immutable.
type Constraint interface {
	ast.Positioner
	Kind() Kind
	Origin() Origin
	Priority() int
	Apply(types.Subst) Constraint
	Types() []types.Type
	FreeVars() *set.TreeSet[*types.Var]
	// Hash identifies a constraint up to its position, and is used to
	// suppress duplicates in a Set
	Hash() uint64
	String() string
}

var (
	_ Constraint = (*Equal)(nil)
	_ Constraint = (*Subtype)(nil)
	_ Constraint = (*Instance)(nil)
	_ Constraint = (*RecordShape)(nil)
	_ Constraint = (*Merge)(nil)
	_ Constraint = (*UnionCompat)(nil)
	_ Constraint = (*Exhaustive)(nil)
	_ Constraint = (*Branch)(nil)
)

// meta is shared by every constraint: where it comes from and why
type meta struct {
	ast.Range
	origin Origin
}

func metaOf(origin Origin, at ast.Positioner) meta {
	return meta{Range: ast.RangeOf(at), origin: origin}
}

func (m meta) Origin() Origin { return m.origin }

// Equal requires Left and Right to unify
type Equal struct {
	meta
	Left, Right types.Type
}

func NewEqual(left, right types.Type, origin Origin, at ast.Positioner) *Equal {
	return &Equal{meta: metaOf(origin, at), Left: left, Right: right}
}

func (c *Equal) Kind() Kind          { return KindEquality }
func (c *Equal) Priority() int       { return c.Kind().Priority() }
func (c *Equal) Types() []types.Type { return []types.Type{c.Left, c.Right} }
func (c *Equal) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Left, c.Right)
}
func (c *Equal) Apply(s types.Subst) Constraint {
	return &Equal{meta: c.meta, Left: s.Apply(c.Left), Right: s.Apply(c.Right)}
}

// Hash is symmetric: a ~ b and b ~ a are the same constraint
func (c *Equal) Hash() uint64 {
	hashes := []uint64{c.Left.Hash(), c.Right.Hash()}
	slices.Sort(hashes)
	return hashOf(KindEquality, hashes...)
}
func (c *Equal) String() string { return c.Left.String() + " ~ " + c.Right.String() }

// Subtype requires Sub to be usable wherever Super is expected
type Subtype struct {
	meta
	Sub, Super types.Type
}

func NewSubtype(sub, super types.Type, origin Origin, at ast.Positioner) *Subtype {
	return &Subtype{meta: metaOf(origin, at), Sub: sub, Super: super}
}

func (c *Subtype) Kind() Kind          { return KindSubtyping }
func (c *Subtype) Priority() int       { return c.Kind().Priority() }
func (c *Subtype) Types() []types.Type { return []types.Type{c.Sub, c.Super} }
func (c *Subtype) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Sub, c.Super)
}
func (c *Subtype) Apply(s types.Subst) Constraint {
	return &Subtype{meta: c.meta, Sub: s.Apply(c.Sub), Super: s.Apply(c.Super)}
}
func (c *Subtype) Hash() uint64   { return hashOf(KindSubtyping, c.Sub.Hash(), c.Super.Hash()) }
func (c *Subtype) String() string { return c.Sub.String() + " <: " + c.Super.String() }

// Well-known type classes
const (
	Printable  = "Printable"
	Comparable = "Comparable"
)

// Instance requires Type to be an instance of Class
type Instance struct {
	meta
	Type  types.Type
	Class string
}

func NewInstance(t types.Type, class string, at ast.Positioner) *Instance {
	return &Instance{meta: metaOf(OriginTypeClass, at), Type: t, Class: class}
}

func (c *Instance) Kind() Kind          { return KindInstance }
func (c *Instance) Priority() int       { return c.Kind().Priority() }
func (c *Instance) Types() []types.Type { return []types.Type{c.Type} }
func (c *Instance) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Type)
}
func (c *Instance) Apply(s types.Subst) Constraint {
	return &Instance{meta: c.meta, Type: s.Apply(c.Type), Class: c.Class}
}
func (c *Instance) Hash() uint64   { return hashOf(KindInstance, c.Type.Hash(), hashString(c.Class)) }
func (c *Instance) String() string { return c.Class + "[" + c.Type.String() + "]" }

// RecordShape requires Type to be a record, open unless it already is one
type RecordShape struct {
	meta
	Type types.Type
}

func NewRecordShape(t types.Type, origin Origin, at ast.Positioner) *RecordShape {
	return &RecordShape{meta: metaOf(origin, at), Type: t}
}

func (c *RecordShape) Kind() Kind          { return KindRecordShape }
func (c *RecordShape) Priority() int       { return c.Kind().Priority() }
func (c *RecordShape) Types() []types.Type { return []types.Type{c.Type} }
func (c *RecordShape) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Type)
}
func (c *RecordShape) Apply(s types.Subst) Constraint {
	return &RecordShape{meta: c.meta, Type: s.Apply(c.Type)}
}
func (c *RecordShape) Hash() uint64   { return hashOf(KindRecordShape, c.Type.Hash()) }
func (c *RecordShape) String() string { return "record[" + c.Type.String() + "]" }

// Merge requires Result to be the record made of Spreads, left to right,
// overlaid with the Explicit fields
type Merge struct {
	meta
	Result   types.Type
	Spreads  []types.Type
	Explicit *types.Record
}

func NewMerge(result types.Type, spreads []types.Type, explicit *types.Record, at ast.Positioner) *Merge {
	if explicit == nil {
		explicit = types.NewRecord(nil, nil)
	}
	return &Merge{meta: metaOf(OriginInference, at), Result: result, Spreads: spreads, Explicit: explicit}
}

func (c *Merge) Kind() Kind    { return KindMerge }
func (c *Merge) Priority() int { return c.Kind().Priority() }
func (c *Merge) Types() []types.Type {
	return append([]types.Type{c.Result, c.Explicit}, c.Spreads...)
}
func (c *Merge) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Types()...)
}
func (c *Merge) Apply(s types.Subst) Constraint {
	spreads := make([]types.Type, 0, len(c.Spreads))
	for _, spread := range c.Spreads {
		spreads = append(spreads, s.Apply(spread))
	}
	return &Merge{meta: c.meta, Result: s.Apply(c.Result), Spreads: spreads, Explicit: s.Apply(c.Explicit).(*types.Record)}
}
func (c *Merge) Hash() uint64 { return hashOf(KindMerge, hashTypes(c.Types())...) }
func (c *Merge) String() string {
	parts := make([]string, 0, len(c.Spreads)+1)
	for _, spread := range c.Spreads {
		parts = append(parts, "..."+spread.String())
	}
	parts = append(parts, c.Explicit.String())
	return c.Result.String() + " = merge(" + strings.Join(parts, ", ") + ")"
}

// UnionCompat relates the scrutinee of a match to the types of its
// patterns: the scrutinee must be able to hold a value of every pattern
type UnionCompat struct {
	meta
	Scrutinee types.Type
	Patterns  []types.Type
}

func NewUnionCompat(scrutinee types.Type, patterns []types.Type, at ast.Positioner) *UnionCompat {
	return &UnionCompat{meta: metaOf(OriginInference, at), Scrutinee: scrutinee, Patterns: patterns}
}

func (c *UnionCompat) Kind() Kind    { return KindUnionCompat }
func (c *UnionCompat) Priority() int { return c.Kind().Priority() }
func (c *UnionCompat) Types() []types.Type {
	return append([]types.Type{c.Scrutinee}, c.Patterns...)
}
func (c *UnionCompat) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Types()...)
}
func (c *UnionCompat) Apply(s types.Subst) Constraint {
	patterns := make([]types.Type, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		patterns = append(patterns, s.Apply(p))
	}
	return &UnionCompat{meta: c.meta, Scrutinee: s.Apply(c.Scrutinee), Patterns: patterns}
}
func (c *UnionCompat) Hash() uint64 { return hashOf(KindUnionCompat, hashTypes(c.Types())...) }
func (c *UnionCompat) String() string {
	parts := make([]string, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		parts = append(parts, p.String())
	}
	return c.Scrutinee.String() + " ⊇ " + strings.Join(parts, " | ")
}

// Branch requires Result to be the type of whichever of Branches is
// taken: if and match produce one. Branches that are told apart by a
// literal tag join into a union, everything else must agree.
type Branch struct {
	meta
	Result   types.Type
	Branches []types.Type
}

func NewBranch(result types.Type, branches []types.Type, at ast.Positioner) *Branch {
	return &Branch{meta: metaOf(OriginInference, at), Result: result, Branches: branches}
}

func (c *Branch) Kind() Kind    { return KindBranch }
func (c *Branch) Priority() int { return c.Kind().Priority() }
func (c *Branch) Types() []types.Type {
	return append([]types.Type{c.Result}, c.Branches...)
}
func (c *Branch) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Types()...)
}
func (c *Branch) Apply(s types.Subst) Constraint {
	branches := make([]types.Type, 0, len(c.Branches))
	for _, b := range c.Branches {
		branches = append(branches, s.Apply(b))
	}
	return &Branch{meta: c.meta, Result: s.Apply(c.Result), Branches: branches}
}

// Hash includes the position, as two matches may have the same branches
func (c *Branch) Hash() uint64 {
	return hashOf(KindBranch, append(hashTypes(c.Types()), c.meta.Range.Hash())...)
}
func (c *Branch) String() string {
	parts := make([]string, 0, len(c.Branches))
	for _, b := range c.Branches {
		parts = append(parts, b.String())
	}
	return c.Result.String() + " = branch(" + strings.Join(parts, ", ") + ")"
}

// Exhaustive requires Patterns to cover every value of Scrutinee
type Exhaustive struct {
	meta
	Scrutinee types.Type
	Patterns  []ast.Pattern
}

func NewExhaustive(scrutinee types.Type, patterns []ast.Pattern, at ast.Positioner) *Exhaustive {
	return &Exhaustive{meta: metaOf(OriginInference, at), Scrutinee: scrutinee, Patterns: patterns}
}

func (c *Exhaustive) Kind() Kind          { return KindExhaustive }
func (c *Exhaustive) Priority() int       { return c.Kind().Priority() }
func (c *Exhaustive) Types() []types.Type { return []types.Type{c.Scrutinee} }
func (c *Exhaustive) FreeVars() *set.TreeSet[*types.Var] {
	return types.FreeVars(c.Scrutinee)
}
func (c *Exhaustive) Apply(s types.Subst) Constraint {
	return &Exhaustive{meta: c.meta, Scrutinee: s.Apply(c.Scrutinee), Patterns: c.Patterns}
}
func (c *Exhaustive) Hash() uint64 {
	parts := []uint64{c.Scrutinee.Hash()}
	for _, p := range c.Patterns {
		parts = append(parts, p.Hash())
	}
	// the same patterns at two different sites are two different matches
	parts = append(parts, c.meta.Range.Hash())
	return hashOf(KindExhaustive, parts...)
}
func (c *Exhaustive) String() string {
	parts := make([]string, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		parts = append(parts, ast.PatternString(p))
	}
	return "exhaustive[" + c.Scrutinee.String() + "](" + strings.Join(parts, "; ") + ")"
}

func hashOf(kind Kind, parts ...uint64) uint64 {
	h := fnv.New64a()
	arr := binary.LittleEndian.AppendUint64(nil, uint64(kind))
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

func hashTypes(ts []types.Type) []uint64 {
	hashes := make([]uint64, 0, len(ts))
	for _, t := range ts {
		hashes = append(hashes, t.Hash())
	}
	return hashes
}
