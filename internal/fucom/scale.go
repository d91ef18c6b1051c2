package fucom

import "fmt"

// ImportanceCode is a value of the 5-point ordinal importance scale.
type ImportanceCode string

const (
	ImportanceWeak     ImportanceCode = "WI"
	ImportanceFair     ImportanceCode = "FI"
	ImportanceEqual    ImportanceCode = "EI"
	ImportanceVery     ImportanceCode = "VI"
	ImportanceAbsolute ImportanceCode = "AI"
)

type ScaleLevel struct {
	Code  ImportanceCode `json:"code"`
	Label string         `json:"label"`
}

// Scale is ordered from slightly to absolutely more important.
var Scale = []ScaleLevel{
	{Code: ImportanceWeak, Label: "Çok Az Önemli"},
	{Code: ImportanceFair, Label: "Orta Seviye Önemli"},
	{Code: ImportanceEqual, Label: "Eşit Önemde"},
	{Code: ImportanceVery, Label: "Çok Önemli"},
	{Code: ImportanceAbsolute, Label: "Kesinlikle Çok Önemli"},
}

// ParseImportance accepts only codes of Scale. The empty string is rejected;
// callers that allow unanswered comparisons check for it first.
func ParseImportance(s string) (ImportanceCode, error) {
	for _, lvl := range Scale {
		if string(lvl.Code) == s {
			return lvl.Code, nil
		}
	}
	return "", fmt.Errorf("unknown importance code %q", s)
}

func (c ImportanceCode) Label() string {
	for _, lvl := range Scale {
		if lvl.Code == c {
			return lvl.Label
		}
	}
	return ""
}
