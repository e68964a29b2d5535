package log

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/exp/slices"
)

// SectionsEnv lists the sections for which debug and info records are emitted,
// as a comma-separated list. The special value "all" enables every section.
const SectionsEnv = "SHAPECHECK_LOG"

var enabledSections = sectionsFrom(os.Getenv(SectionsEnv))

func sectionsFrom(env string) []string {
	var sections []string
	for _, s := range strings.Split(env, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

var LoggerOpts = &slog.HandlerOptions{
	AddSource: true,
	Level:     slog.LevelDebug,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

var DefaultLogger = slog.New(NewFilteringHandler(slog.NewTextHandler(os.Stderr, LoggerOpts), enabledSections...))

// NewFilteringHandler wraps underlying so that records below slog.LevelWarn are
// only emitted when they carry a "section" attribute prefixed by one of sections.
func NewFilteringHandler(underlying slog.Handler, sections ...string) slog.Handler {
	return &filteringHandler{underlying: underlying, enabled: sections}
}

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	underlying slog.Handler
	enabled    []string
	// section is the section attribute captured by WithAttrs, if any
	section string
}

func (f *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f *filteringHandler) wants(section string) bool {
	return slices.ContainsFunc(f.enabled, func(enabled string) bool {
		return enabled == "all" || strings.HasPrefix(section, enabled)
	})
}

func (f *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	wantSection := f.section != "" && f.wants(f.section)
	record.Attrs(func(attr slog.Attr) bool {
		wantSection = wantSection || attr.Key == "section" && f.wants(attr.Value.String())
		// iterate as long as we have not found our section
		return !wantSection
	})
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	section := f.section
	for _, attr := range attrs {
		if attr.Key == "section" {
			section = attr.Value.String()
		}
	}
	return &filteringHandler{
		underlying: f.underlying.WithAttrs(attrs),
		enabled:    f.enabled,
		section:    section,
	}
}

func (f *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		underlying: f.underlying.WithGroup(name),
		enabled:    f.enabled,
		section:    f.section,
	}
}
