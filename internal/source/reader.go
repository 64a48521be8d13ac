package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/spesa/internal/model"
)

// ReadFile decodes the catalog file at path into rows.
func ReadFile(path string, opts ReadOptions) ([]model.Row, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := Decode(f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rows, nil
}

// Decode reads a catalog in the given format from r.
func Decode(r io.Reader, format Format, opts ReadOptions) ([]model.Row, error) {
	switch format {
	case FormatXLSX:
		return decodeXLSX(r, opts)
	case FormatCSV:
		return decodeCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeXLSX reads one worksheet. Numeric cells become float64, cells with a
// date number format or ISO date type become time.Time, blanks become nil and
// everything else is kept as text.
func decodeXLSX(r io.Reader, opts ReadOptions) ([]model.Row, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	it, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var rows []model.Row
	for rowNum := 1; it.Next(); rowNum++ {
		cols, err := it.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		row := make(model.Row, len(cols))
		for i, raw := range cols {
			row[i] = xlsxCell(wb, sheet, i+1, rowNum, raw)
		}
		rows = append(rows, row)
	}
	return rows, it.Error()
}

func xlsxCell(wb *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}

	typ, _ := wb.GetCellType(sheet, axis)
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		if isDateStyle(wb, sheet, axis) {
			if t, err := excelize.ExcelDateToTime(n, false); err == nil {
				return t
			}
		}
		return n
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
		return raw
	default:
		return raw
	}
}

// isDateStyle reports whether the cell uses one of the built-in date or
// time number formats.
func isDateStyle(wb *excelize.File, sheet, axis string) bool {
	id, err := wb.GetCellStyle(sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	st, err := wb.GetStyle(id)
	if err != nil || st == nil {
		return false
	}
	switch {
	case st.NumFmt >= 14 && st.NumFmt <= 22:
		return true
	case st.NumFmt >= 45 && st.NumFmt <= 47:
		return true
	}
	return false
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeCSV reads a delimited export. The separator is ';' when the first
// line has more semicolons than commas, ',' otherwise.
func decodeCSV(r io.Reader) ([]model.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffSeparator(first)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []model.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(model.Row, len(rec))
		for i, v := range rec {
			if v == "" {
				continue
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func sniffSeparator(sample []byte) rune {
	line := string(sample)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
