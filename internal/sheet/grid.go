package sheet

// CellType tags how a value was stored in the source workbook
type CellType int

const (
	CellString CellType = iota
	CellNumber
	CellBool
	// CellDate marks a date-formatted cell; its value is the display text, not the serial number
	CellDate
)

func (t CellType) String() string {
	switch t {
	case CellNumber:
		return "number"
	case CellBool:
		return "boolean"
	case CellDate:
		return "date"
	default:
		return "string"
	}
}

// Cell is a single occupied position in a Grid
type Cell struct {
	Type  CellType
	Value any    // string, float64 or bool depending on Type
	Text  string // text as the spreadsheet displays it
}

// Range is the occupied bounding box of a Grid, zero-based and inclusive
type Range struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

type coord struct {
	row, col int
}

// Grid is a sparse rectangular view of the first sheet of a workbook
type Grid struct {
	Sheet string
	Range Range
	cells map[coord]Cell
}

// NewGrid creates an empty Grid for the named sheet
func NewGrid(sheetName string) *Grid {
	return &Grid{
		Sheet: sheetName,
		cells: make(map[coord]Cell),
	}
}

// Set stores a cell and grows the occupied range to include it
func (g *Grid) Set(row, col int, cell Cell) {
	if len(g.cells) == 0 {
		g.Range = Range{MinRow: row, MinCol: col, MaxRow: row, MaxCol: col}
	} else {
		g.Range.MinRow = min(g.Range.MinRow, row)
		g.Range.MinCol = min(g.Range.MinCol, col)
		g.Range.MaxRow = max(g.Range.MaxRow, row)
		g.Range.MaxCol = max(g.Range.MaxCol, col)
	}
	g.cells[coord{row, col}] = cell
}

// Cell returns the cell at (row, col) and whether it is occupied
func (g *Grid) Cell(row, col int) (Cell, bool) {
	c, ok := g.cells[coord{row, col}]
	return c, ok
}

// Len returns the number of occupied cells
func (g *Grid) Len() int {
	return len(g.cells)
}

// Empty reports whether the grid has no occupied cells
func (g *Grid) Empty() bool {
	return len(g.cells) == 0
}
