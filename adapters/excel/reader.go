package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"statkit/internal"
	"statkit/internal/dataset"
	"statkit/internal/errors"
)

// DataReader reads a header row plus data rows from an .xlsx or .csv file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader picks the format from the file extension; anything other
// than .csv is opened as a workbook
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger}
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReadData loads the file into memory
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] reading %s file %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.FileError(r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	if r.fileType == "csv" {
		rows, err = r.readCSV()
	} else {
		rows, err = r.readWorkbook()
	}
	if err != nil {
		return nil, errors.FileError(r.filePath, err)
	}
	r.logger.Debug("[DataReader] %d rows read in %.2fms", len(rows), float64(time.Since(start).Nanoseconds())/1e6)

	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must have a header row and at least one data row", r.filePath))
	}
	return r.processRows(rows), nil
}

// readWorkbook reads the first sheet of the workbook
func (r *DataReader) readWorkbook() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func (r *DataReader) processRows(rows [][]string) *ExcelData {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := &ExcelData{Headers: headers}
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		data.Rows = append(data.Rows, rowData)
	}
	return data
}

// NumericColumn extracts a column as numbers. Blank cells are skipped;
// any other non-numeric cell fails the whole column.
func (d *ExcelData) NumericColumn(name string) ([]float64, error) {
	found := false
	for _, h := range d.Headers {
		if h == name {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NotFound(fmt.Sprintf("column %q", name))
	}

	var values []float64
	for i, row := range d.Rows {
		cell := row[name]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q row %d: %q is not a number", name, i+2, cell))
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q has no values", name))
	}
	return values, nil
}

// NumericColumn reads the file and extracts one column
func (r *DataReader) NumericColumn(name string) ([]float64, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return data.NumericColumn(name)
}

// LoadInto registers every fully numeric column as a dataset named after
// its header and returns the names added. Text columns and names already
// in the store are skipped.
func (r *DataReader) LoadInto(store *dataset.Store) ([]string, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	var added []string
	for _, h := range data.Headers {
		if h == "" {
			continue
		}
		values, err := data.NumericColumn(h)
		if err != nil {
			r.logger.Debug("[DataReader] skipping column %q: %v", h, err)
			continue
		}
		if !store.Add(h, values) {
			r.logger.Warn("[DataReader] dataset %q already exists, column skipped", h)
			continue
		}
		added = append(added, h)
	}
	r.logger.Info("[DataReader] loaded %d numeric columns from %s", len(added), r.filePath)
	return added, nil
}
