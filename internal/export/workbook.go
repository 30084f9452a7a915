package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// SheetSpec is one worksheet: a header row followed by data rows. Cells may
// be strings or numbers; numbers stay numeric in the workbook.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook lays out sheets in order. The first sheet takes over the
// default sheet.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}

		for c, h := range s.Header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		for r, row := range s.Rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		if len(s.Header) == 0 {
			continue
		}

		last, _ := excelize.ColumnNumberToName(len(s.Header))
		_ = f.SetCellStyle(name, "A1", last+"1", bold)
		_ = f.AutoFilter(name, "A1:"+last+"1", nil)
		for c := 1; c <= len(s.Header); c++ {
			col, _ := excelize.ColumnNumberToName(c)
			_ = f.SetColWidth(name, col, col, columnWidth(s, c-1))
		}
	}
	f.SetActiveSheet(0)
	return &Workbook{File: f}, nil
}

// columnWidth sizes a column from its header and the first 50 rows, clamped
// to [12, 40].
func columnWidth(s SheetSpec, c int) float64 {
	longest := utf8.RuneCountInString(s.Header[c])
	for r := 0; r < len(s.Rows) && r < 50; r++ {
		if c >= len(s.Rows[r]) {
			continue
		}
		if l := utf8.RuneCountInString(fmt.Sprint(s.Rows[r][c])); l > longest {
			longest = l
		}
	}
	w := float64(longest) * 1.1
	if w < 12 {
		w = 12
	}
	if w > 40 {
		w = 40
	}
	return w
}

func (w *Workbook) Write(out io.Writer) error {
	defer w.File.Close()
	return w.File.Write(out)
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

// Filename joins parts into a safe .xlsx name.
func Filename(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	base := strings.Join(strings.Fields(strings.Join(kept, " ")), "_")
	return invalidFileRe.ReplaceAllString(base, "-") + ".xlsx"
}
