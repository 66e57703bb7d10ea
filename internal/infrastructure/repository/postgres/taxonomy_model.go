package postgres

type taxonomyTermTableModel struct {
	ID   int64  `db:"id"`
	Kind string `db:"kind"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type taxonomyTermInsertModel struct {
	Kind string `db:"kind"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}
