package fucom

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// GroupSizes are fixed: the spreadsheet layout reserves exactly this many
// ranking rows per group.
var GroupSizes = map[Group]int{
	GroupMain:          3,
	GroupEconomic:      3,
	GroupSocial:        3,
	GroupEnvironmental: 4,
}

// Catalog holds the canonical default ordering of every group.
type Catalog struct {
	Main          []Criterion `json:"main" yaml:"main"`
	Economic      []Criterion `json:"economic" yaml:"economic"`
	Social        []Criterion `json:"social" yaml:"social"`
	Environmental []Criterion `json:"environmental" yaml:"environmental"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Main: []Criterion{
			{ID: "main-1", Code: "C1", Name: "Economical", LocalizedName: "Ekonomik"},
			{ID: "main-2", Code: "C2", Name: "Social", LocalizedName: "Sosyal"},
			{ID: "main-3", Code: "C3", Name: "Environmental", LocalizedName: "Çevresel"},
		},
		Economic: []Criterion{
			{ID: "eco-1", Code: "C11", Name: "Worklife", LocalizedName: "İş Yaşamı"},
			{ID: "eco-2", Code: "C12", Name: "Income & Wealth", LocalizedName: "Gelir ve Servet"},
			{ID: "eco-3", Code: "C13", Name: "Housing", LocalizedName: "Konut"},
		},
		Social: []Criterion{
			{ID: "soc-1", Code: "C21", Name: "Health", LocalizedName: "Sağlık"},
			{ID: "soc-2", Code: "C22", Name: "Education", LocalizedName: "Eğitim"},
			{ID: "soc-3", Code: "C23", Name: "Civic Engagement", LocalizedName: "Sivil Katılım"},
		},
		Environmental: []Criterion{
			{ID: "env-1", Code: "C31", Name: "Infrastructure", LocalizedName: "Altyapı"},
			{ID: "env-2", Code: "C32", Name: "Safety", LocalizedName: "Güvenlik"},
			{ID: "env-3", Code: "C33", Name: "Environment/Green Space", LocalizedName: "Çevre/Yeşil Alan"},
			{ID: "env-4", Code: "C34", Name: "Life Satisfaction", LocalizedName: "Yaşam Memnuniyeti"},
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path returns DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(blob, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Group returns a copy of the default ordering of g.
func (c Catalog) Group(g Group) []Criterion {
	var src []Criterion
	switch g {
	case GroupMain:
		src = c.Main
	case GroupEconomic:
		src = c.Economic
	case GroupSocial:
		src = c.Social
	case GroupEnvironmental:
		src = c.Environmental
	}
	return slices.Clone(src)
}

func (c Catalog) Validate() error {
	ids := map[string]bool{}
	codes := map[string]bool{}
	for _, g := range Groups {
		items := c.Group(g)
		if len(items) != GroupSizes[g] {
			return fmt.Errorf("group %s: expected %d criteria, got %d", g, GroupSizes[g], len(items))
		}
		for _, it := range items {
			if it.ID == "" || it.Code == "" {
				return fmt.Errorf("group %s: criterion id and code are required", g)
			}
			if ids[it.ID] {
				return fmt.Errorf("duplicate criterion id %q", it.ID)
			}
			if codes[it.Code] {
				return fmt.Errorf("duplicate criterion code %q", it.Code)
			}
			ids[it.ID] = true
			codes[it.Code] = true
		}
	}
	return nil
}

// NewResponse returns a response whose orderings are the canonical defaults
// and whose comparison sequences are empty.
func (c Catalog) NewResponse() Response {
	var r Response
	for _, g := range Groups {
		r.SetOrdering(g, c.Group(g))
		r.SetComparisons(g, []PairwiseComparison{})
	}
	return r
}
