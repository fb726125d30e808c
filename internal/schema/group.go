package schema

// TableNames returns the distinct table names of rows in the order they
// first appear.
func TableNames(rows []Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.TableName]; ok {
			continue
		}
		seen[r.TableName] = struct{}{}
		names = append(names, r.TableName)
	}
	return names
}

// Group splits rows into tables. Tables come out in first-seen order and
// each table keeps its rows in input order; nothing is sorted.
func Group(rows []Row) []Table {
	names := TableNames(rows)
	index := make(map[string]int, len(names))
	tables := make([]Table, len(names))
	for i, name := range names {
		index[name] = i
		tables[i].Name = name
	}

	for _, r := range rows {
		i := index[r.TableName]
		tables[i].Columns = append(tables[i].Columns, r)
	}
	return tables
}
