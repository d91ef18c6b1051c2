package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// treatment is the visual treatment of a cell. It is comparable so styles can
// be registered once per distinct treatment.
type treatment struct {
	bold       bool
	size       float64
	color      string
	horizontal string
	vertical   string
	wrap       bool
	border     bool
	fill       string
}

func (t treatment) isPlain() bool {
	return t == treatment{}
}

func (t treatment) excelStyle() *excelize.Style {
	st := &excelize.Style{}
	if t.bold || t.size > 0 || t.color != "" {
		st.Font = &excelize.Font{Bold: t.bold, Size: t.size, Color: t.color}
	}
	if t.horizontal != "" || t.vertical != "" || t.wrap {
		st.Alignment = &excelize.Alignment{
			Horizontal: t.horizontal,
			Vertical:   t.vertical,
			WrapText:   t.wrap,
		}
	}
	if t.border {
		st.Border = []excelize.Border{
			{Type: "top", Color: "000000", Style: 1},
			{Type: "left", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		}
	}
	if t.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{t.fill}}
	}
	return st
}

type styleCache struct {
	f   *excelize.File
	ids map[treatment]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: map[treatment]int{}}
}

func (c *styleCache) id(t treatment) (int, error) {
	if id, ok := c.ids[t]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(t.excelStyle())
	if err != nil {
		return 0, fmt.Errorf("new style: %w", err)
	}
	c.ids[t] = id
	return id, nil
}
