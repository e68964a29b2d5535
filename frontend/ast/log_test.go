package ast

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprLogger(t *testing.T) {
	var out bytes.Buffer
	logger := ExprLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})))

	logger.With("pattern", &WildcardPattern{}).Info("checked",
		"expr", &Var{Name: "x"},
		"type", &TypeName{Name: "Int"},
		"n", 3)
	assert.Equal(t, "msg=checked pattern=_ expr=x type=Int n=3\n", out.String())
}

func TestLazyIgnoresDeclarations(t *testing.T) {
	assert.Nil(t, Lazy(&ExprDecl{Expr: &Var{Name: "x"}}))
	assert.NotNil(t, Lazy(&Var{Name: "x"}))
}
