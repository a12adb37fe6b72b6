package excel

// RawRowData is one data row keyed by header
type RawRowData map[string]string

// ExcelData is a parsed sheet: the header row and the rows under it
type ExcelData struct {
	Headers []string
	Rows    []RawRowData
}
