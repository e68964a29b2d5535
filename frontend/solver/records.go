package solver

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/util"
)

// unifyRecords unifies the shared fields of a and b, then their rows:
// an open record absorbs the fields only the other side has, and two
// closed records must have exactly the same fields
func (u *unifier) unifyRecords(a, b *types.Record) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	namesA, namesB := a.FieldNames(), b.FieldNames()
	onlyA, onlyB := util.SortedDiff(namesA, namesB), util.SortedDiff(namesB, namesA)
	for _, name := range util.SortedInter(namesA, namesB) {
		fieldA, _ := a.Field(name)
		fieldB, _ := b.Field(name)
		next, err := u.unify(subst.Apply(fieldA), subst.Apply(fieldB))
		if err != nil {
			return types.Subst{}, err
		}
		subst = next.Compose(subst)
	}
	if u.rowGrew(subst, a) || u.rowGrew(subst, b) {
		// a field unification extended one of the rows, so the field sets
		// above are stale
		next, err := u.unify(subst.Apply(a), subst.Apply(b))
		if err != nil {
			return types.Subst{}, err
		}
		return next.Compose(subst), nil
	}

	// a is the record found and b the one expected of it. Fields one side
	// lacks are only reported if that side is closed.
	onlyIfClosed := func(r *types.Record, names []string) []string {
		if u.row(subst, r) != nil {
			return nil
		}
		return names
	}
	fieldMismatch := func() ilerr.IleError {
		missing, extra := onlyIfClosed(a, onlyB), onlyIfClosed(b, onlyA)
		if len(missing) == 0 && len(extra) == 0 {
			// both open over the same row
			missing, extra = onlyB, onlyA
		}
		return ilerr.New(ilerr.NewRecordFieldMismatch{
			Positioner: u.at,
			Expected:   b.String(),
			Found:      a.String(),
			Missing:    missing,
			Extra:      extra,
		})
	}
	rowA, rowB := u.row(subst, a), u.row(subst, b)

	switch {
	case rowA == nil && rowB == nil:
		if len(onlyA) > 0 || len(onlyB) > 0 {
			return types.Subst{}, fieldMismatch()
		}
		return subst, nil
	case rowA != nil && rowB == nil:
		if len(onlyA) > 0 {
			return types.Subst{}, fieldMismatch()
		}
		return u.extendRow(subst, rowA, u.pick(subst, b, onlyB), nil)
	case rowA == nil && rowB != nil:
		if len(onlyB) > 0 {
			return types.Subst{}, fieldMismatch()
		}
		return u.extendRow(subst, rowB, u.pick(subst, a, onlyA), nil)
	default:
		if rowA.ID == rowB.ID {
			if len(onlyA) > 0 || len(onlyB) > 0 {
				return types.Subst{}, fieldMismatch()
			}
			return subst, nil
		}
		rest := u.solver.fresher.Fresh(min(rowA.Level, rowB.Level))
		extended, err := u.extendRow(subst, rowA, u.pick(subst, b, onlyB), rest)
		if err != nil {
			return types.Subst{}, err
		}
		return u.extendRow(extended, rowB, u.pick(extended, a, onlyA), rest)
	}
}

// row is the row variable of r once subst is applied, or nil if r is closed
func (u *unifier) row(subst types.Subst, r *types.Record) *types.Var {
	if r.Row == nil {
		return nil
	}
	switch bound := subst.Apply(r.Row).(type) {
	case *types.Var:
		return bound
	case *types.Record:
		return bound.Row
	default:
		return r.Row
	}
}

func (u *unifier) rowGrew(subst types.Subst, r *types.Record) bool {
	if r.Row == nil {
		return false
	}
	_, grew := subst.Apply(r.Row).(*types.Record)
	return grew
}

func (u *unifier) pick(subst types.Subst, r *types.Record, names []string) map[string]types.Type {
	picked := make(map[string]types.Type, len(names))
	for _, name := range names {
		field, _ := r.Field(name)
		picked[name] = subst.Apply(field)
	}
	return picked
}

// extendRow binds row to the record of fields, itself open on rest
func (u *unifier) extendRow(subst types.Subst, row *types.Var, fields map[string]types.Type, rest *types.Var) (types.Subst, ilerr.IleError) {
	bound, err := u.bindVar(row, types.NewRecord(fields, rest))
	if err != nil {
		return types.Subst{}, err
	}
	return bound.Compose(subst), nil
}

// subtypeRecords is width subtyping: every field of super must be in sub
// with a unifiable type, and sub may have more. An open sub grows the
// fields it is missing through its row.
func (u *unifier) subtypeRecords(sub, super *types.Record) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	var missing []string
	for name, superField := range super.All() {
		subField, ok := sub.Field(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		next, err := u.unify(subst.Apply(subField), subst.Apply(superField))
		if err != nil {
			return types.Subst{}, ilerr.New(ilerr.NewSubtypeFailure{
				Positioner: u.at,
				Sub:        sub.String(),
				Super:      super.String(),
				Reason:     "field '" + name + "': " + err.Error(),
			})
		}
		subst = next.Compose(subst)
	}
	if len(missing) == 0 {
		return subst, nil
	}
	row := u.row(subst, sub)
	if row == nil {
		return types.Subst{}, ilerr.New(ilerr.NewSubtypeFailure{
			Positioner: u.at,
			Sub:        sub.String(),
			Super:      super.String(),
			Reason:     "missing fields " + quote(missing),
		})
	}
	return u.extendRow(subst, row, u.pick(subst, super, missing), u.solver.fresher.Fresh(row.Level))
}

// recordShape makes t an open record when it is still a variable
func (u *unifier) recordShape(t types.Type) (types.Subst, ilerr.IleError) {
	switch t := t.(type) {
	case *types.Record:
		return types.EmptySubst(), nil
	case *types.Var:
		return u.bindVar(t, types.NewRecord(nil, u.solver.fresher.Fresh(t.Level)))
	case *types.Alias:
		expanded, err := u.expand(t)
		if err != nil {
			return types.Subst{}, err
		}
		return u.recordShape(expanded)
	case *types.Recursive:
		return u.recordShape(t.Unfold())
	default:
		return types.Subst{}, ilerr.New(ilerr.NewTypeMismatch{
			Positioner: u.at,
			Expected:   "record",
			Found:      t.String(),
			Reason:     "only records can be spread",
		})
	}
}

// merge folds the spreads left to right, then lays the explicit fields
// over them. Fields present more than once must unify, and the result
// is an open record.
func (u *unifier) merge(c *constraint.Merge) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	fields := immutable.NewSortedMap[string, types.Type](nil)

	overlay := func(name string, t types.Type, replace bool) ilerr.IleError {
		t = subst.Apply(t)
		if existing, ok := fields.Get(name); ok {
			existing = subst.Apply(existing)
			next, err := u.unify(existing, t)
			if err != nil {
				return ilerr.New(ilerr.NewMergeConflict{
					Positioner: u.at,
					Field:      name,
					First:      existing.String(),
					Second:     t.String(),
				})
			}
			subst = next.Compose(subst)
			if !replace {
				return nil
			}
		}
		fields = fields.Set(name, t)
		return nil
	}

	for _, spread := range c.Spreads {
		record, err := u.spreadRecord(subst.Apply(spread))
		if err != nil {
			return types.Subst{}, err
		}
		for name, t := range record.All() {
			if err := overlay(name, t, false); err != nil {
				return types.Subst{}, err
			}
		}
	}
	for name, t := range c.Explicit.All() {
		if err := overlay(name, t, true); err != nil {
			return types.Subst{}, err
		}
	}

	result := subst.Apply(types.RecordOf(fields, u.solver.fresher.Fresh(0)))
	logger.Debug("merged records", "result", result, "spreads", len(c.Spreads))
	next, err := u.unify(subst.Apply(c.Result), result)
	if err != nil {
		return types.Subst{}, err
	}
	return next.Compose(subst), nil
}

func (u *unifier) spreadRecord(t types.Type) (*types.Record, ilerr.IleError) {
	switch t := t.(type) {
	case *types.Record:
		return t, nil
	case *types.Var:
		return types.NewRecord(nil, t), nil
	case *types.Alias:
		expanded, err := u.expand(t)
		if err != nil {
			return nil, err
		}
		return u.spreadRecord(expanded)
	case *types.Recursive:
		return u.spreadRecord(t.Unfold())
	default:
		return nil, ilerr.New(ilerr.NewTypeMismatch{
			Positioner: u.at,
			Expected:   "record",
			Found:      t.String(),
			Reason:     "only records can be spread",
		})
	}
}

func quote(names []string) string {
	quoted := ""
	for i, n := range names {
		if i > 0 {
			quoted += ", "
		}
		quoted += "'" + n + "'"
	}
	return quoted
}
