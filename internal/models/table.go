package models

// TableType classifies what kind of tabular data a table holds.
type TableType string

const (
	TableTypeGeneric TableType = "generic"
	TableTypeDice    TableType = "dice_table"
	TableTypeCombat  TableType = "combat_table"
	TableTypeLevel   TableType = "level_table"
)

// Table is a normalized tabular region extracted from a page. Rows are always
// rectangular: rows shorter than the header are padded with empty cells rather
// than dropped, so RowCount == len(Rows) and every row has ColumnCount cells.
type Table struct {
	TableID          string     `json:"table_id"`
	Headers          []string   `json:"headers"`
	Rows             [][]string `json:"rows"`
	RowCount         int        `json:"row_count"`
	ColumnCount      int        `json:"column_count"`
	Type             TableType  `json:"type"`
	ExtractionMethod string     `json:"extraction_method"`
	Confidence       float64    `json:"confidence"` // 0-100
}

// NewTable builds a Table from cleaned grid rows (header first), padding any
// ragged data rows out to the header width.
func NewTable(id string, grid [][]string, tableType TableType, method string, confidence float64) Table {
	headers := grid[0]
	cols := len(headers)

	rows := make([][]string, 0, len(grid)-1)
	for _, raw := range grid[1:] {
		row := make([]string, cols)
		copy(row, raw)
		rows = append(rows, row)
	}

	return Table{
		TableID:          id,
		Headers:          headers,
		Rows:             rows,
		RowCount:         len(rows),
		ColumnCount:      cols,
		Type:             tableType,
		ExtractionMethod: method,
		Confidence:       confidence,
	}
}
