package importer

import (
	"encoding/csv"
	"fmt"

	"aptfee/internal/fileutils"

	"github.com/gocarina/gocsv"
)

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TRow any](filePath string, delimiter rune) ([]TRow, error) {
	file, err := fileutils.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	var rows []TRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", filePath, err)
	}
	return rows, nil
}
