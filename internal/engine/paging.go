package engine

import (
	"fmt"
	"net/url"
	"time"
)

// Window is a cursor-pagination window over creation time. Min and Max bound
// the records the caller has already seen: a record qualifies when it is
// strictly older than Min or strictly newer than Max, so one window extends a
// list backward and picks up newly-created records at the same time.
type Window struct {
	Min   *time.Time
	Max   *time.Time
	Limit int
}

// PageMeta carries the next-window cursors returned beside every page.
type PageMeta struct {
	Min *time.Time `json:"min"`
	Max *time.Time `json:"max"`
}

// ParseWindow reads the optional min/max cursor parameters. The limit is the
// entity's declared page size; zero means unbounded.
func ParseWindow(params url.Values, limit int) (Window, error) {
	w := Window{Limit: limit}

	if raw := params.Get("min"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Window{}, fmt.Errorf("invalid min cursor %q", raw)
		}
		w.Min = &t
	}
	if raw := params.Get("max"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Window{}, fmt.Errorf("invalid max cursor %q", raw)
		}
		w.Max = &t
	}
	return w, nil
}

// Clause renders the window predicate. No cursors means no constraint.
func (w Window) Clause(prefix string) (string, []any) {
	col := prefix + "created_at"
	switch {
	case w.Min != nil && w.Max != nil:
		return "(" + col + " < ? OR " + col + " > ?)", []any{*w.Min, *w.Max}
	case w.Min != nil:
		return col + " < ?", []any{*w.Min}
	case w.Max != nil:
		return col + " > ?", []any{*w.Max}
	default:
		return "", nil
	}
}

// Advance derives the next cursor pair from the creation times actually
// present in the returned page. An empty page keeps the previous bounds, so
// repeated polling with an unchanged window is idempotent.
func (w Window) Advance(times []time.Time) PageMeta {
	meta := PageMeta{Min: w.Min, Max: w.Max}
	for _, t := range times {
		t := t
		if meta.Min == nil || meta.Min.After(t) {
			meta.Min = &t
		}
		if meta.Max == nil || meta.Max.Before(t) {
			meta.Max = &t
		}
	}
	return meta
}
