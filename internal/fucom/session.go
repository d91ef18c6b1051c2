package fucom

import (
	"errors"
	"fmt"
	"slices"
)

type Step int

const (
	StepDemographics Step = iota + 1
	StepRanking
	StepScoring
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepDemographics:
		return "demographics"
	case StepRanking:
		return "ranking"
	case StepScoring:
		return "scoring"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// RegeneratePolicy decides what happens to scored comparisons when the
// respondent re-enters the scoring step.
type RegeneratePolicy int

const (
	// RegeneratePreserve re-derives only the groups whose ordering changed
	// since the last derivation. Unchanged groups keep their answers.
	RegeneratePreserve RegeneratePolicy = iota
	// RegenerateAlways re-derives every group and discards all answers.
	RegenerateAlways
)

func ParseRegeneratePolicy(s string) (RegeneratePolicy, error) {
	switch s {
	case "", "preserve":
		return RegeneratePreserve, nil
	case "always", "discard":
		return RegenerateAlways, nil
	}
	return 0, fmt.Errorf("unknown regenerate policy %q", s)
}

var (
	ErrStepLocked   = errors.New("session already submitted")
	ErrStale        = errors.New("comparisons do not match ordering")
	ErrInvalidStep  = errors.New("invalid step")
	ErrWrongStep    = errors.New("operation not allowed in current step")
	ErrIncomplete   = errors.New("comparisons incomplete")
	ErrOutOfRange   = errors.New("index out of range")
	ErrUnknownGroup = errors.New("unknown group")
)

// Session walks one respondent through demographics, ranking and scoring.
// It is not safe for concurrent use.
type Session struct {
	catalog Catalog
	policy  RegeneratePolicy
	step    Step
	resp    Response
	// derivedFrom records the ordering codes each comparison sequence was
	// generated from; nil until the group is first derived.
	derivedFrom map[Group][]string
}

func NewSession(c Catalog, policy RegeneratePolicy) *Session {
	return &Session{
		catalog:     c,
		policy:      policy,
		step:        StepDemographics,
		resp:        c.NewResponse(),
		derivedFrom: map[Group][]string{},
	}
}

func (s *Session) Step() Step { return s.step }

// Response returns a deep copy of the current form state.
func (s *Session) Response() Response {
	out := Response{Demographics: s.resp.Demographics}
	for _, g := range Groups {
		out.SetOrdering(g, slices.Clone(s.resp.Ordering(g)))
		out.SetComparisons(g, slices.Clone(s.resp.Comparisons(g)))
	}
	return out
}

func (s *Session) SetDemographics(d Demographics) error {
	if s.step == StepSubmitted {
		return ErrStepLocked
	}
	s.resp.Demographics = d
	return nil
}

// canReorder allows ordering changes only before scoring starts. Going back
// to the ranking step re-opens them.
func (s *Session) canReorder() error {
	switch s.step {
	case StepSubmitted:
		return ErrStepLocked
	case StepScoring:
		return ErrWrongStep
	}
	return nil
}

// Reorder sets the ordering of g from criterion IDs, most important first.
func (s *Session) Reorder(g Group, ids []string) error {
	if err := s.canReorder(); err != nil {
		return err
	}
	if _, ok := GroupSizes[g]; !ok {
		return ErrUnknownGroup
	}
	byID := map[string]Criterion{}
	for _, it := range s.catalog.Group(g) {
		byID[it.ID] = it
	}
	order := make([]Criterion, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return &ValidationError{Field: "orderings." + string(g), Message: fmt.Sprintf("Bilinmeyen kriter: %s", id)}
		}
		order = append(order, it)
	}
	if err := ValidateOrdering(s.catalog, g, order); err != nil {
		return err
	}
	s.resp.SetOrdering(g, order)
	return nil
}

// Move relocates the criterion at position from to position to, shifting the
// items in between, the way a drag-and-drop list does.
func (s *Session) Move(g Group, from, to int) error {
	if err := s.canReorder(); err != nil {
		return err
	}
	if _, ok := GroupSizes[g]; !ok {
		return ErrUnknownGroup
	}
	order := slices.Clone(s.resp.Ordering(g))
	if from < 0 || from >= len(order) || to < 0 || to >= len(order) {
		return ErrOutOfRange
	}
	it := order[from]
	order = slices.Delete(order, from, from+1)
	order = slices.Insert(order, to, it)
	s.resp.SetOrdering(g, order)
	return nil
}

// GoTo moves to step. Leaving the demographics step requires complete
// demographics; entering the scoring step derives comparisons according to
// the session's RegeneratePolicy.
func (s *Session) GoTo(step Step) error {
	if s.step == StepSubmitted {
		return ErrStepLocked
	}
	if step < StepDemographics || step > StepScoring {
		return ErrInvalidStep
	}
	if step > StepDemographics {
		if err := ValidateDemographics(s.resp.Demographics); err != nil {
			return err
		}
	}
	if step == StepScoring {
		s.derive()
	}
	s.step = step
	return nil
}

func (s *Session) derive() {
	for _, g := range Groups {
		order := s.resp.Ordering(g)
		codes := orderingCodes(order)
		prev, derived := s.derivedFrom[g]
		if s.policy == RegeneratePreserve && derived && slices.Equal(prev, codes) {
			continue
		}
		s.resp.SetComparisons(g, GenerateComparisons(order))
		s.derivedFrom[g] = codes
	}
}

func orderingCodes(order []Criterion) []string {
	out := make([]string, len(order))
	for i, it := range order {
		out[i] = it.Code
	}
	return out
}

// Score records the answer for comparison index of g.
func (s *Session) Score(g Group, index int, value string) error {
	if s.step != StepScoring {
		return ErrWrongStep
	}
	if _, ok := GroupSizes[g]; !ok {
		return ErrUnknownGroup
	}
	code, err := ParseImportance(value)
	if err != nil {
		return &ValidationError{Field: fmt.Sprintf("comparisons.%s[%d]", g, index), Message: fmt.Sprintf("Geçersiz önem derecesi: %s", value)}
	}
	cmps := s.resp.Comparisons(g)
	if index < 0 || index >= len(cmps) {
		return ErrOutOfRange
	}
	cmps[index].Value = code
	return nil
}

// Complete reports whether every comparison of every group is scored.
func (s *Session) Complete() bool {
	if s.step != StepScoring {
		return false
	}
	for _, g := range Groups {
		for _, c := range s.resp.Comparisons(g) {
			if !c.Complete() {
				return false
			}
		}
	}
	return true
}

// Finalize returns the response to submit. Every comparison sequence must
// still pair adjacent positions of its ordering. The session stays in the
// scoring step until MarkSubmitted so a failed submission can be retried.
func (s *Session) Finalize() (Response, error) {
	if s.step != StepScoring {
		return Response{}, ErrWrongStep
	}
	for _, g := range Groups {
		if !comparisonsMatch(s.resp.Ordering(g), s.resp.Comparisons(g)) {
			return Response{}, fmt.Errorf("%w: %s", ErrStale, g)
		}
	}
	if !s.Complete() {
		return Response{}, ErrIncomplete
	}
	return s.Response(), nil
}

func (s *Session) MarkSubmitted() {
	s.step = StepSubmitted
}
