package types

// Standard table names for Grid.GetTable.
const (
	TableFields = "fields"
	TableRows   = "rows"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableFields,
	TableRows,
}
