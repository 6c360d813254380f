// Package match scores a resume against a job description by fusing skill
// overlap, keyword coverage, and semantic similarity into a single score.
package match

import (
	"context"
	"math"
	"sort"
	"time"

	"resumebeaver/internal/errors"
	"resumebeaver/internal/types"
)

// SemanticProvider reports how similar two texts are on a [0, 1] scale.
// Implementations may be remote; a failure is never fatal to a match, the
// engine substitutes a neutral similarity instead.
type SemanticProvider interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

const (
	weightSkill    = 0.5
	weightKeyword  = 0.3
	weightSemantic = 0.2

	// neutralSimilarity stands in when no provider answer is available.
	neutralSimilarity = 0.5

	// DefaultTopKeywords is the number of job-description terms used for
	// keyword scoring.
	DefaultTopKeywords = 20

	// DefaultSemanticTimeout bounds a single similarity call.
	DefaultSemanticTimeout = 15 * time.Second
)

// Recommendation tiers by overall score.
const (
	tierExcellent = "Excellent match - minor tweaks recommended"
	tierGood      = "Good match - add missing skills and keywords"
	tierModerate  = "Moderate match - significant gaps to address"
	tierLow       = "Low match - consider a different role or major revisions"
)

// Matcher compares parsed resumes with parsed job descriptions. A nil
// provider is valid and yields neutral semantic scores.
type Matcher struct {
	provider SemanticProvider
	topK     int
	timeout  time.Duration
	logger   *errors.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithTopKeywords overrides the number of job keywords scored.
func WithTopKeywords(k int) Option {
	return func(m *Matcher) {
		if k > 0 {
			m.topK = k
		}
	}
}

// WithSemanticTimeout bounds each similarity call.
func WithSemanticTimeout(d time.Duration) Option {
	return func(m *Matcher) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewMatcher builds a Matcher around the given provider.
func NewMatcher(provider SemanticProvider, logger *errors.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		provider: provider,
		topK:     DefaultTopKeywords,
		timeout:  DefaultSemanticTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match scores resume against job. It never fails: when the semantic
// provider is unavailable the result carries a neutral semantic score and
// the SemanticFallback flag.
func (m *Matcher) Match(ctx context.Context, resume, job types.ParsedDocument) types.MatchResult {
	matching, missing := partitionSkills(resume.Skills.All, job.Skills.All)
	skillScore := scoreSkills(matching, job.Skills.All)

	keywords := topKeywords(job.RawText, m.topK, skillTokens(job.Skills.All))
	keywordScore, missingKeywords := scoreKeywords(keywords, resume.RawText)

	semanticScore, fallback := m.scoreSemantic(ctx, resume.RawText, job.RawText)

	skillScore = round1(skillScore)
	keywordScore = round1(keywordScore)
	semanticScore = round1(semanticScore)

	overall := weightSkill*skillScore + weightKeyword*keywordScore + weightSemantic*semanticScore
	overall = round1(clamp(overall, 0, 100))

	return types.MatchResult{
		OverallScore:     overall,
		SemanticScore:    semanticScore,
		SkillScore:       skillScore,
		KeywordScore:     keywordScore,
		MatchingSkills:   matching,
		MissingSkills:    missing,
		MissingKeywords:  missingKeywords,
		Recommendation:   recommend(overall),
		SemanticFallback: fallback,
	}
}

// partitionSkills splits the job's required skills into those the resume
// has and those it lacks. Both slices come back sorted.
func partitionSkills(resumeSkills, jobSkills []string) (matching, missing []string) {
	have := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		have[s] = true
	}

	matching = []string{}
	missing = []string{}
	for _, s := range jobSkills {
		if have[s] {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	sort.Strings(matching)
	sort.Strings(missing)
	return matching, missing
}

// scoreSkills is the fraction of required skills present, as a percentage.
// A job with no recognized skills is trivially satisfied.
func scoreSkills(matching, jobSkills []string) float64 {
	if len(jobSkills) == 0 {
		return 100
	}
	return 100 * float64(len(matching)) / float64(len(jobSkills))
}

// scoreKeywords is the fraction of job keywords the resume mentions, plus
// the keywords it does not, in descending-frequency order.
func scoreKeywords(keywords []string, resumeText string) (float64, []string) {
	missing := []string{}
	if len(keywords) == 0 {
		return 100, missing
	}

	present := tokenSet(resumeText)
	hits := 0
	for _, kw := range keywords {
		if present[kw] {
			hits++
		} else {
			missing = append(missing, kw)
		}
	}
	return 100 * float64(hits) / float64(len(keywords)), missing
}

func (m *Matcher) scoreSemantic(ctx context.Context, resumeText, jobText string) (score float64, fallback bool) {
	if m.provider == nil {
		return 100 * neutralSimilarity, true
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	sim, err := m.provider.Similarity(ctx, resumeText, jobText)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("semantic provider unavailable, using neutral similarity", "error", err)
		}
		return 100 * neutralSimilarity, true
	}
	return 100 * clamp(sim, 0, 1), false
}

func recommend(overall float64) string {
	switch {
	case overall >= 85:
		return tierExcellent
	case overall >= 70:
		return tierGood
	case overall >= 50:
		return tierModerate
	default:
		return tierLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
