package ast

import (
	"context"
	"log/slog"
)

// Lazy wraps a node so that it is only rendered as source text when a
// record carrying it is actually emitted. It returns nil for nodes that
// have no source rendering.
func Lazy(n Node) slog.LogValuer {
	switch n := n.(type) {
	case Expr:
		return lazyNode{render: func() string { return ExprString(n) }}
	case Pattern:
		return lazyNode{render: func() string { return PatternString(n) }}
	case TypeExpr:
		return lazyNode{render: func() string { return TypeString(n) }}
	default:
		return nil
	}
}

type lazyNode struct{ render func() string }

func (l lazyNode) LogValue() slog.Value { return slog.StringValue(l.render()) }

// ExprLogger returns a logger which renders expressions, patterns and
// type annotations passed as attributes in source syntax
func ExprLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(&nodeHandler{underlying: underlying.Handler()})
}

type nodeHandler struct {
	underlying slog.Handler
}

func lazyAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if n, ok := attr.Value.Any().(Node); ok {
		if lazy := Lazy(n); lazy != nil {
			return slog.Any(attr.Key, lazy)
		}
	}
	return attr
}

func (h *nodeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.underlying.Enabled(ctx, level)
}

func (h *nodeHandler) Handle(ctx context.Context, record slog.Record) error {
	rewritten := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		rewritten.AddAttrs(lazyAttr(attr))
		return true
	})
	return h.underlying.Handle(ctx, rewritten)
}

func (h *nodeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		wrapped = append(wrapped, lazyAttr(attr))
	}
	return &nodeHandler{underlying: h.underlying.WithAttrs(wrapped)}
}

func (h *nodeHandler) WithGroup(name string) slog.Handler {
	return &nodeHandler{underlying: h.underlying.WithGroup(name)}
}
