package linescan

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExportResult describes what Export did.
type ExportResult struct {
	Path    string // file written, empty when nothing was saved
	Records int    // number of records written
	Saved   bool
}

// OutputPath replaces the extension of imagePath with suffix + ".csv".
func OutputPath(imagePath, suffix string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + suffix + ".csv"
}

// Export writes the records to destination as a table with one column per record.
// The first two rows hold x0 and x1 of each band, the following rows hold one trace value per line.
//
// With no records nothing is written and the result has Saved == false; that is not an error.
func Export(records []Record, destination string) (res ExportResult, err error) {
	if len(records) == 0 {
		return ExportResult{}, nil
	}

	// The table goes to a temporary file in the same directory and is renamed into place.
	tmp, err := os.CreateTemp(filepath.Dir(destination), "."+filepath.Base(destination)+".*")
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create %s: %w", destination, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteTable(tmp, records); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err = tmp.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", destination, err)
	}
	if err = os.Rename(tmp.Name(), destination); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", destination, err)
	}

	return ExportResult{Path: destination, Records: len(records), Saved: true}, nil
}

// WriteTable writes the records in the CSV layout used by Export.
func WriteTable(out io.Writer, records []Record) error {
	nLines := 0
	if len(records) > 0 {
		nLines = len(records[0].Signal)
	}
	for i, rec := range records {
		if len(rec.Signal) != nLines {
			return fmt.Errorf("%w: record %d has %d values, record 0 has %d",
				ErrRaggedRecords, i, len(rec.Signal), nLines)
		}
	}

	w := csv.NewWriter(out)

	header := make([]string, len(records)+1)
	for i := range records {
		header[i+1] = strconv.Itoa(i)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(records)+1)
	row[0] = "x0"
	for i, rec := range records {
		row[i+1] = strconv.Itoa(rec.Band.X0)
	}
	if err := w.Write(row); err != nil {
		return err
	}
	row[0] = "x1"
	for i, rec := range records {
		row[i+1] = strconv.Itoa(rec.Band.X1)
	}
	if err := w.Write(row); err != nil {
		return err
	}

	for line := 0; line < nLines; line++ {
		row[0] = strconv.Itoa(line)
		for i, rec := range records {
			row[i+1] = formatValue(rec.Signal[line])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatValue writes NaN as an empty cell and infinities as inf / -inf.
func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
