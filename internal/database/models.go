package database

// Result is the outcome of one executed statement.
type Result struct {
	Columns      []string `json:"columns" description:"Column names, empty for statements without a result set"`
	Rows         [][]any  `json:"rows" description:"Returned rows in column order"`
	RowsAffected int64    `json:"rows_affected" description:"Rows affected or returned"`
	CommandTag   string   `json:"command_tag" description:"Server command tag, e.g. INSERT 0 1"`
}
