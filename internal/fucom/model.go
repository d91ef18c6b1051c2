// Package fucom holds the survey data model shared by the comparison generator,
// the spreadsheet mapper and the HTTP surface.
package fucom

import "fmt"

// Criterion is an immutable catalog entry. Only its position within a group
// varies between responses.
type Criterion struct {
	ID            string `json:"id" yaml:"id"`
	Code          string `json:"code" yaml:"code"`
	Name          string `json:"name" yaml:"name"`
	LocalizedName string `json:"nameTR,omitempty" yaml:"name_tr,omitempty"`
}

type Demographics struct {
	FullName       string `json:"nameSurname"`
	Age            string `json:"age"`
	Profession     string `json:"profession"`
	Gender         string `json:"gender"`
	EducationLevel string `json:"education"`
}

// PairwiseComparison is one adjacent-rank judgment. Value is empty until answered.
type PairwiseComparison struct {
	First  string         `json:"first"`
	Second string         `json:"second"`
	Value  ImportanceCode `json:"value"`
}

// Complete reports whether the comparison has been scored.
func (c PairwiseComparison) Complete() bool {
	return c.Value != ""
}

type Group string

const (
	GroupMain          Group = "main"
	GroupEconomic      Group = "economic"
	GroupSocial        Group = "social"
	GroupEnvironmental Group = "environmental"
)

// Groups lists the criteria groups in the order the survey presents them.
var Groups = []Group{GroupMain, GroupEconomic, GroupSocial, GroupEnvironmental}

func ParseGroup(s string) (Group, error) {
	switch g := Group(s); g {
	case GroupMain, GroupEconomic, GroupSocial, GroupEnvironmental:
		return g, nil
	default:
		return "", fmt.Errorf("unknown criteria group %q", s)
	}
}

// Response is the complete answered form handed to the document mapper.
// JSON field names follow the survey UI wire format.
type Response struct {
	Demographics Demographics `json:"demographics"`

	MainOrder          []Criterion `json:"mainCriteriaOrder"`
	EconomicOrder      []Criterion `json:"economicalSubOrder"`
	SocialOrder        []Criterion `json:"socialSubOrder"`
	EnvironmentalOrder []Criterion `json:"environmentalSubOrder"`

	MainComparisons          []PairwiseComparison `json:"mainComparisons"`
	EconomicComparisons      []PairwiseComparison `json:"economicalComparisons"`
	SocialComparisons        []PairwiseComparison `json:"socialComparisons"`
	EnvironmentalComparisons []PairwiseComparison `json:"environmentalComparisons"`
}

// Ordering returns the ranked criteria of a group. Position i is rank i+1.
func (r *Response) Ordering(g Group) []Criterion {
	switch g {
	case GroupMain:
		return r.MainOrder
	case GroupEconomic:
		return r.EconomicOrder
	case GroupSocial:
		return r.SocialOrder
	case GroupEnvironmental:
		return r.EnvironmentalOrder
	}
	return nil
}

func (r *Response) SetOrdering(g Group, order []Criterion) {
	switch g {
	case GroupMain:
		r.MainOrder = order
	case GroupEconomic:
		r.EconomicOrder = order
	case GroupSocial:
		r.SocialOrder = order
	case GroupEnvironmental:
		r.EnvironmentalOrder = order
	}
}

func (r *Response) Comparisons(g Group) []PairwiseComparison {
	switch g {
	case GroupMain:
		return r.MainComparisons
	case GroupEconomic:
		return r.EconomicComparisons
	case GroupSocial:
		return r.SocialComparisons
	case GroupEnvironmental:
		return r.EnvironmentalComparisons
	}
	return nil
}

func (r *Response) SetComparisons(g Group, cmps []PairwiseComparison) {
	switch g {
	case GroupMain:
		r.MainComparisons = cmps
	case GroupEconomic:
		r.EconomicComparisons = cmps
	case GroupSocial:
		r.SocialComparisons = cmps
	case GroupEnvironmental:
		r.EnvironmentalComparisons = cmps
	}
}
