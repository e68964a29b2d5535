package ilerr

import (
	"fmt"
	"log/slog"
	"strings"
)

type Errors struct {
	errs []IleError
}

func (r *Errors) With(err ...IleError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []IleError {
	if r == nil {
		return nil
	}
	return r.errs
}

// Len counts errors of every severity
func (r *Errors) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errs)
}

// HasError reports whether any error with SeverityError was collected
func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	for _, err := range r.errs {
		if err.Code().Severity() == SeverityError {
			return true
		}
	}
	return false
}

// BySeverity returns the collected errors of severity s, in order
func (r *Errors) BySeverity(s Severity) []IleError {
	var filtered []IleError
	for _, err := range r.Errors() {
		if err.Code().Severity() == s {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

func (r *Errors) Error() string {
	msgs := make([]string, 0, r.Len())
	for _, err := range r.Errors() {
		msgs = append(msgs, FormatWithCode(err))
	}
	return strings.Join(msgs, "\n")
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.String("msg", FormatWithCode(v)),
				slog.String("kind", v.Code().String()),
				slog.String("severity", v.Code().Severity().String()),
				slog.String("at", Location(v).String()),
			),
		})
	}
	return slog.GroupValue(vals...)
}
