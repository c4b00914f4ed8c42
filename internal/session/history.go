package session

import "strings"

// MaxHistory is the number of calculations kept in the history.
const MaxHistory = 10

// HistoryEntry is one successful calculation.
type HistoryEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// String renders the entry as "<expression> = <result>".
func (e HistoryEntry) String() string {
	return e.Expression + " = " + e.Result
}

// appendBounded appends to list and drops the oldest items beyond max.
func appendBounded[T any](list []T, item T, max int) []T {
	list = append(list, item)
	if len(list) > max {
		list = append([]T(nil), list[len(list)-max:]...)
	}
	return list
}

// ExportHistory renders history one entry per line, oldest first.
func ExportHistory(history []HistoryEntry) string {
	lines := make([]string, len(history))
	for i, e := range history {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
