package engine

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Run("no cursors", func(t *testing.T) {
		w, err := ParseWindow(url.Values{}, 10)
		require.NoError(t, err)
		assert.Nil(t, w.Min)
		assert.Nil(t, w.Max)
		assert.Equal(t, 10, w.Limit)
	})

	t.Run("both cursors", func(t *testing.T) {
		min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		max := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

		params := url.Values{}
		params.Set("min", min.Format(time.RFC3339Nano))
		params.Set("max", max.Format(time.RFC3339Nano))

		w, err := ParseWindow(params, 10)
		require.NoError(t, err)
		require.NotNil(t, w.Min)
		require.NotNil(t, w.Max)
		assert.True(t, w.Min.Equal(min))
		assert.True(t, w.Max.Equal(max))
	})

	t.Run("malformed cursor", func(t *testing.T) {
		params := url.Values{}
		params.Set("min", "yesterday")

		_, err := ParseWindow(params, 10)
		assert.Error(t, err)
	})
}

func TestWindowClause(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("both bounds exclude the seen range", func(t *testing.T) {
		w := Window{Min: &min, Max: &max}
		expr, args := w.Clause("")
		assert.Equal(t, "(created_at < ? OR created_at > ?)", expr)
		assert.Equal(t, []any{min, max}, args)
	})

	t.Run("min only", func(t *testing.T) {
		w := Window{Min: &min}
		expr, args := w.Clause("")
		assert.Equal(t, "created_at < ?", expr)
		assert.Equal(t, []any{min}, args)
	})

	t.Run("max only", func(t *testing.T) {
		w := Window{Max: &max}
		expr, args := w.Clause("")
		assert.Equal(t, "created_at > ?", expr)
		assert.Equal(t, []any{max}, args)
	})

	t.Run("no bounds", func(t *testing.T) {
		expr, args := Window{}.Clause("")
		assert.Empty(t, expr)
		assert.Nil(t, args)
	})

	t.Run("prefix qualifies the column", func(t *testing.T) {
		w := Window{Min: &min}
		expr, _ := w.Clause("posts.")
		assert.Equal(t, "posts.created_at < ?", expr)
	})
}

func TestWindowAdvance(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	t.Run("first page sets both cursors", func(t *testing.T) {
		meta := Window{}.Advance([]time.Time{t3, t2, t1})
		require.NotNil(t, meta.Min)
		require.NotNil(t, meta.Max)
		assert.True(t, meta.Min.Equal(t1))
		assert.True(t, meta.Max.Equal(t3))
	})

	t.Run("cursors widen monotonically", func(t *testing.T) {
		w := Window{Min: &t2, Max: &t2}
		meta := w.Advance([]time.Time{t1, t3})
		assert.True(t, meta.Min.Equal(t1))
		assert.True(t, meta.Max.Equal(t3))
	})

	t.Run("page inside the bounds leaves them unchanged", func(t *testing.T) {
		w := Window{Min: &t1, Max: &t3}
		meta := w.Advance([]time.Time{t2})
		assert.True(t, meta.Min.Equal(t1))
		assert.True(t, meta.Max.Equal(t3))
	})

	t.Run("empty page keeps previous bounds", func(t *testing.T) {
		w := Window{Min: &t1, Max: &t3}
		meta := w.Advance(nil)
		require.NotNil(t, meta.Min)
		require.NotNil(t, meta.Max)
		assert.True(t, meta.Min.Equal(t1))
		assert.True(t, meta.Max.Equal(t3))
	})

	t.Run("empty page with no previous bounds", func(t *testing.T) {
		meta := Window{}.Advance(nil)
		assert.Nil(t, meta.Min)
		assert.Nil(t, meta.Max)
	})
}
