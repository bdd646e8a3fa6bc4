package gradebook

import "strings"

// Filter hides every row whose data cells do not contain query, case-insensitively.
// The leading id cell is not searched. Hidden rows are kept so clearing the query restores them.
func Filter(rows []Row, query string) []Row {
	q := strings.ToLower(query)
	for i := range rows {
		rows[i].Hidden = q != "" && !strings.Contains(searchText(rows[i]), q)
	}
	return rows
}

func searchText(r Row) string {
	var b strings.Builder
	for i := 1; i < len(r.Cells); i++ {
		b.WriteString(strings.ToLower(r.Cells[i]))
		b.WriteByte(' ')
	}
	return b.String()
}
