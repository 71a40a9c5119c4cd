package engine

import "strings"

// BuildSearch turns the free-text `like` parameter into a case-insensitive
// substring predicate over the declared columns: a row matches when any
// column contains the text. Returns an empty expression when no search was
// requested or the entity declares no searchable columns. The prefix
// qualifies column names when the query joins other tables.
func BuildSearch(columns []string, like, prefix string) (string, []any) {
	if like == "" || len(columns) == 0 {
		return "", nil
	}

	needle := "%" + strings.ToLower(like) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + prefix + col + ") LIKE ?"
		args[i] = needle
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
