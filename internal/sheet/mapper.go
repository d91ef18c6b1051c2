// Package sheet maps a completed survey response onto the fixed-layout
// FUCOM spreadsheet.
package sheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ayberkarici/fucom/internal/fucom"
)

// Mapper builds the spreadsheet. Now stamps the document properties; cell
// content depends only on the response.
type Mapper struct {
	Now func() time.Time
}

// Render builds the document with the wall clock and serializes it.
func Render(resp *fucom.Response) ([]byte, error) {
	return Mapper{}.Render(resp)
}

func (m Mapper) Render(resp *fucom.Response) ([]byte, error) {
	f, err := m.Build(resp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Build places every field of resp at its fixed coordinate. It does not
// validate resp; missing values produce empty cells.
func (m Mapper) Build(resp *fucom.Response) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := m.setup(f); err != nil {
		f.Close()
		return nil, err
	}
	styles := newStyleCache(f)
	for _, p := range placements(resp) {
		if err := place(f, styles, resp, p); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (m Mapper) setup(f *excelize.File) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: Creator,
		Created: now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}
	showGrid := true
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{ShowGridLines: &showGrid}); err != nil {
		return fmt.Errorf("sheet view: %w", err)
	}
	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}
	for row, h := range rowHeights {
		if err := f.SetRowHeight(SheetName, row, h); err != nil {
			return fmt.Errorf("row %d height: %w", row, err)
		}
	}
	return nil
}

// placements expands the layout table for resp: fixed cells, the scale
// legend, then the ranking and comparison blocks of every group.
func placements(resp *fucom.Response) []placement {
	out := make([]placement, 0, 128)
	out = append(out, fixedLayout...)
	out = append(out, rankingPlacements(resp)...)
	out = append(out, scalePlacements()...)
	out = append(out, comparisonPlacements(resp)...)
	return out
}

func rankingPlacements(resp *fucom.Response) []placement {
	var out []placement
	for _, b := range rankingBlocks {
		order := resp.Ordering(b.group)
		n := min(len(order), fucom.GroupSizes[b.group])
		for i := 0; i < n; i++ {
			row := b.firstRow + i
			out = append(out,
				placement{cell: cellName(b.code, row), text: order[i].Code, style: dataCell},
				placement{cell: cellName(b.name, row), text: order[i].Name, style: bordered},
				placement{cell: cellName(b.rank, row), field: rankValue(i + 1), style: dataCell},
			)
		}
	}
	return out
}

func rankValue(rank int) func(*fucom.Response) any {
	return func(*fucom.Response) any { return rank }
}

func scalePlacements() []placement {
	out := make([]placement, 0, 2*len(fucom.Scale))
	for i, lvl := range fucom.Scale {
		row := scaleLegend.firstRow + i
		out = append(out,
			placement{cell: cellName(scaleLegend.label, row), text: lvl.Label, style: bordered},
			placement{cell: cellName(scaleLegend.code, row), text: string(lvl.Code), style: bordered},
		)
	}
	return out
}

// comparisonPlacements writes at most as many rows as the block reserves.
// A shorter sequence leaves the remaining rows blank.
func comparisonPlacements(resp *fucom.Response) []placement {
	var out []placement
	for _, b := range comparisonBlocks {
		cmps := resp.Comparisons(b.group)
		n := min(len(cmps), fucom.GroupSizes[b.group]-1)
		for i := 0; i < n; i++ {
			row := b.firstRow + i
			out = append(out,
				placement{cell: cellName(b.first, row), text: cmps[i].First, style: dataCell},
				placement{cell: cellName(b.second, row), text: cmps[i].Second, style: dataCell},
				placement{cell: cellName(b.value, row), text: string(cmps[i].Value), style: dataCell},
			)
		}
	}
	return out
}

func place(f *excelize.File, styles *styleCache, resp *fucom.Response, p placement) error {
	var v any = p.text
	if p.field != nil {
		v = p.field(resp)
	}
	if err := f.SetCellValue(SheetName, p.cell, v); err != nil {
		return fmt.Errorf("set %s: %w", p.cell, err)
	}
	if !p.style.isPlain() {
		id, err := styles.id(p.style)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, p.cell, p.cell, id); err != nil {
			return fmt.Errorf("style %s: %w", p.cell, err)
		}
	}
	if p.merge != "" {
		if err := f.MergeCell(SheetName, p.cell, p.merge); err != nil {
			return fmt.Errorf("merge %s:%s: %w", p.cell, p.merge, err)
		}
	}
	return nil
}

func cellName(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
