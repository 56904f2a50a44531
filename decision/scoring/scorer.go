package scoring

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"pcbuild/decision/compat"
	"pcbuild/decision/parts"
	bperrors "pcbuild/pkg/errors"
	"pcbuild/pkg/platform"
)

// Weights balance performance score against price when ranking candidates.
type Weights struct {
	Performance float64 `yaml:"performance" json:"performance"`
	Price       float64 `yaml:"price" json:"price"`
}

// DefaultWeights favours performance over price 70/30.
func DefaultWeights() Weights {
	return Weights{Performance: 0.7, Price: 0.3}
}

// Validate checks that both weights are non-negative and not both zero.
func (w Weights) Validate() error {
	if w.Performance < 0 || w.Price < 0 {
		return bperrors.NewInvalidPolicyError("weights must be >= 0", "scoring.weights")
	}
	if w.Performance == 0 && w.Price == 0 {
		return bperrors.NewInvalidPolicyError("at least one weight must be > 0", "scoring.weights")
	}
	return nil
}

// DefaultTopN is how many ranked candidates are probed per category.
const DefaultTopN = 3

// Catalog holds the candidate parts for each category.
type Catalog map[parts.Category][]parts.Part

// Evaluator is the compatibility check the scorer probes candidates with.
type Evaluator interface {
	Evaluate(sel parts.Selection) compat.Result
}

// Scorer fills a selection greedily from a catalog.
type Scorer struct {
	evaluator Evaluator
	weights   Weights
	topN      int
	logger    *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithTopN overrides how many candidates are probed per category.
func WithTopN(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithLogger sets the logger for debug output about probes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScorer creates a scorer that validates picks with evaluator.
func NewScorer(evaluator Evaluator, opts ...Option) *Scorer {
	s := &Scorer{
		evaluator: evaluator,
		weights:   DefaultWeights(),
		topN:      DefaultTopN,
		logger:    platform.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidate is a ranked catalog part.
type Candidate struct {
	Part  parts.Part `json:"-"`
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Score float64    `json:"score"`
	Rank  float64    `json:"rank"`
	// Errors is the number of error-severity issues the part introduced
	// when probed; -1 when it was not probed.
	Errors int `json:"errors"`
}

// Pick records the decision for one category.
type Pick struct {
	Category parts.Category `json:"category"`
	Weight   float64        `json:"weight"`
	// Chosen is nil when the category was left unset.
	Chosen *Candidate  `json:"chosen,omitempty"`
	Probed []Candidate `json:"probed"`
	Reason string      `json:"reason"`
}

// Report explains a Build run, one pick per template entry in the order
// they were processed.
type Report struct {
	Template string `json:"template"`
	Picks    []Pick `json:"picks"`
}

// Build completes start from catalog following template t.
//
// Categories are filled greedily in descending template weight, each pick
// conditioned on the ones before it. This is not globally optimal: an early
// high-weight pick can force a worse pick later. Categories already present
// in start are kept as is.
func (s *Scorer) Build(t Template, catalog Catalog, start parts.Selection) (parts.Selection, Report) {
	report := Report{Template: t.Name, Picks: make([]Pick, 0, len(t.Entries))}

	entries := append([]Entry(nil), t.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})

	sel := start
	for _, e := range entries {
		pick := Pick{Category: e.Category, Weight: e.Weight, Probed: make([]Candidate, 0)}

		if sel.Has(e.Category) {
			pick.Reason = "already selected"
			report.Picks = append(report.Picks, pick)
			continue
		}
		ranked := s.rank(e, catalog[e.Category])
		if len(ranked) == 0 {
			pick.Reason = "no candidates in catalog"
			report.Picks = append(report.Picks, pick)
			continue
		}

		probed := s.probe(sel, ranked)
		chosen, reason := choose(probed)
		pick.Probed = probed
		pick.Chosen = &probed[chosen]
		pick.Reason = reason
		sel = sel.With(probed[chosen].Part)

		s.logger.Debug("category picked",
			"template", t.Name,
			"category", e.Category,
			"part", probed[chosen].ID,
			"rank", probed[chosen].Rank,
			"errors", probed[chosen].Errors)
		report.Picks = append(report.Picks, pick)
	}
	return sel, report
}

// rank scores and orders the candidates for one entry, best first. Ties keep
// catalog order.
func (s *Scorer) rank(e Entry, candidates []parts.Part) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, p := range candidates {
		if p.Category != e.Category {
			continue
		}
		score := Score(p, e.PrioritySpecs)
		out = append(out, Candidate{
			Part:   p,
			ID:     p.ID,
			Name:   p.DisplayName(),
			Score:  score,
			Rank:   s.weights.Performance*score - s.weights.Price*p.Price.InexactFloat64(),
			Errors: -1,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out
}

// probe evaluates the top candidates against sel in parallel. The returned
// slice keeps rank order regardless of completion order.
func (s *Scorer) probe(sel parts.Selection, ranked []Candidate) []Candidate {
	top := append([]Candidate(nil), ranked[:min(s.topN, len(ranked))]...)

	var g errgroup.Group
	for i := range top {
		i := i
		g.Go(func() error {
			result := s.evaluator.Evaluate(sel.With(top[i].Part))
			top[i].Errors = result.Count(compat.SeverityError)
			return nil
		})
	}
	_ = g.Wait()
	return top
}

// choose returns the first probed candidate with no errors, else the one
// with the fewest errors, ties going to the better rank.
func choose(probed []Candidate) (int, string) {
	best := 0
	for i, c := range probed {
		if c.Errors == 0 {
			if i == 0 {
				return i, "top ranked and compatible"
			}
			return i, fmt.Sprintf("rank %d compatible; higher ranks introduced errors", i+1)
		}
		if c.Errors < probed[best].Errors {
			best = i
		}
	}
	return best, fmt.Sprintf("no compatible candidate in top %d; fewest errors (%d)", len(probed), probed[best].Errors)
}
