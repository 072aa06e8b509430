package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook собирает книгу из листов: жирный заголовок, автофильтр, ширина по содержимому.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook without sheets")
	}
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		name := sheetName(s.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %q: %w", name, err)
		}

		for col, h := range s.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		if len(s.Header) > 0 {
			end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
			_ = f.SetCellStyle(name, "A1", end, bold)
			_ = f.AutoFilter(name, "A1:"+end, nil)
			_ = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
		}

		for r, row := range s.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("set row %d: %w", r+2, err)
			}
		}
		setWidths(f, name, s)
	}
	f.SetActiveSheet(0)
	return &Workbook{File: f}, nil
}

// эвристическая ширина: заголовок и первые 50 строк
func setWidths(f *excelize.File, sheet string, s SheetSpec) {
	for c := range s.Header {
		maxim := visualLen(s.Header[c]) + 2
		for r := 0; r < min(50, len(s.Rows)); r++ {
			if c < len(s.Rows[r]) {
				if l := visualLen(fmt.Sprint(s.Rows[r][c])); l > maxim {
					maxim = l
				}
			}
		}
		w := float64(maxim) * 1.1
		if w < 10 {
			w = 10
		}
		if w > 50 {
			w = 50
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
}

func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.File.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Save пишет книгу в dir (по умолчанию во временный каталог) и возвращает путь.
func (w *Workbook) Save(dir, name string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	return path, w.File.SaveAs(path)
}

func (w *Workbook) Close() error { return w.File.Close() }

// Excel ограничивает имя листа 31 символом и запрещает []:*?/\.
func sheetName(s string) string {
	s = invalidSheetRe.ReplaceAllString(s, " ")
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	if len(r) == 0 {
		return "Sheet"
	}
	return string(r)
}

func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}
