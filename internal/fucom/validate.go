package fucom

import (
	"fmt"
	"strings"
)

// ValidationError names the first field that made a response unacceptable.
// Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const MsgFullNameRequired = "Ad-Soyad alanı zorunludur."

// CheckFullName is the single required-field check of the submission boundary.
func CheckFullName(d Demographics) error {
	if strings.TrimSpace(d.FullName) == "" {
		return &ValidationError{Field: "demographics.nameSurname", Message: MsgFullNameRequired}
	}
	return nil
}

func ValidateDemographics(d Demographics) error {
	if err := CheckFullName(d); err != nil {
		return err
	}
	fields := []struct {
		name, value, msg string
	}{
		{"demographics.age", d.Age, "Yaş alanı zorunludur."},
		{"demographics.profession", d.Profession, "Meslek alanı zorunludur."},
		{"demographics.gender", d.Gender, "Cinsiyet alanı zorunludur."},
		{"demographics.education", d.EducationLevel, "Eğitim durumu alanı zorunludur."},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: f.msg}
		}
	}
	return nil
}

// ValidateOrdering checks that order is a permutation of the catalog group.
func ValidateOrdering(c Catalog, g Group, order []Criterion) error {
	field := "orderings." + string(g)
	want := c.Group(g)
	if len(order) != len(want) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%d kriter bekleniyordu, %d alındı.", len(want), len(order))}
	}
	known := make(map[string]bool, len(want))
	for _, it := range want {
		known[it.ID] = true
	}
	seen := make(map[string]bool, len(order))
	for _, it := range order {
		if !known[it.ID] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("Bilinmeyen kriter: %s", it.ID)}
		}
		if seen[it.ID] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("Tekrarlanan kriter: %s", it.ID)}
		}
		seen[it.ID] = true
	}
	return nil
}

// ValidateComparisons checks the generator invariant for g and that every
// comparison carries a scale value.
func ValidateComparisons(g Group, order []Criterion, cmps []PairwiseComparison) error {
	field := "comparisons." + string(g)
	if !comparisonsMatch(order, cmps) {
		return &ValidationError{Field: field, Message: "İkili karşılaştırmalar sıralama ile uyuşmuyor."}
	}
	for i, c := range cmps {
		if !c.Complete() {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: "Lütfen tüm ikili önem değerlendirmelerini tamamlayınız."}
		}
		if _, err := ParseImportance(string(c.Value)); err != nil {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: fmt.Sprintf("Geçersiz önem derecesi: %s", c.Value)}
		}
	}
	return nil
}

// Validate runs every check a complete response must pass.
func Validate(c Catalog, r *Response) error {
	if err := ValidateDemographics(r.Demographics); err != nil {
		return err
	}
	for _, g := range Groups {
		if err := ValidateOrdering(c, g, r.Ordering(g)); err != nil {
			return err
		}
	}
	for _, g := range Groups {
		if err := ValidateComparisons(g, r.Ordering(g), r.Comparisons(g)); err != nil {
			return err
		}
	}
	return nil
}
