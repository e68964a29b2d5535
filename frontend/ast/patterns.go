package ast

var (
	_ Pattern = (*LiteralPattern)(nil)
	_ Pattern = (*VarPattern)(nil)
	_ Pattern = (*WildcardPattern)(nil)
	_ Pattern = (*TuplePattern)(nil)
	_ Pattern = (*RecordPattern)(nil)
)

// LiteralPattern matches exactly one constant, encoded like Literal
type LiteralPattern struct {
	Range
	Kind  LiteralKind
	Value string
}

func (p *LiteralPattern) Hash() uint64 {
	return hashOf("LiteralPattern", uint64(p.Kind), hashString(p.Value))
}

// CanonicalSyntax renders the pattern the way it would appear in source
func (p *LiteralPattern) CanonicalSyntax() string {
	return (&Literal{Kind: p.Kind, Value: p.Value}).CanonicalSyntax()
}

// VarPattern matches anything and binds it to Name
type VarPattern struct {
	Range
	Name string
}

func (p *VarPattern) Hash() uint64 { return hashOf("VarPattern", hashString(p.Name)) }

// WildcardPattern matches anything: _
type WildcardPattern struct {
	Range
}

func (p *WildcardPattern) Hash() uint64 { return hashOf("WildcardPattern") }

type TuplePattern struct {
	Range
	Elems []Pattern
}

func (p *TuplePattern) Hash() uint64 { return hashOf("TuplePattern", hashAll(p.Elems)) }

type FieldPattern struct {
	Name    string
	Pattern Pattern
}

// RecordPattern matches records that have at least Fields
type RecordPattern struct {
	Range
	Fields []FieldPattern
}

func (p *RecordPattern) Hash() uint64 {
	parts := make([]uint64, 0, len(p.Fields)*2)
	for _, f := range p.Fields {
		parts = append(parts, hashString(f.Name), f.Pattern.Hash())
	}
	return hashOf("RecordPattern", parts...)
}

// Field returns the sub-pattern for name, if present
func (p *RecordPattern) Field(name string) (Pattern, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Pattern, true
		}
	}
	return nil, false
}

// IsIrrefutable reports whether p is a bare variable or a wildcard
func IsIrrefutable(p Pattern) bool {
	switch p.(type) {
	case *VarPattern, *WildcardPattern:
		return true
	default:
		return false
	}
}

// PatternVars returns the names bound by p, in order of appearance,
// including repeated names
func PatternVars(p Pattern) []string {
	var names []string
	var walk func(p Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *VarPattern:
			names = append(names, p.Name)
		case *TuplePattern:
			for _, elem := range p.Elems {
				walk(elem)
			}
		case *RecordPattern:
			for _, f := range p.Fields {
				walk(f.Pattern)
			}
		}
	}
	walk(p)
	return names
}

func (p *LiteralPattern) patternNode()  {}
func (p *VarPattern) patternNode()      {}
func (p *WildcardPattern) patternNode() {}
func (p *TuplePattern) patternNode()    {}
func (p *RecordPattern) patternNode()   {}
