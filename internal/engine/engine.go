// Package engine wires extraction, matching, ATS scoring, and generation
// into the operations the CLI and HTTP server expose.
package engine

import (
	"context"

	"resumebeaver/internal/ats"
	"resumebeaver/internal/config"
	"resumebeaver/internal/errors"
	"resumebeaver/internal/extract"
	"resumebeaver/internal/generate"
	"resumebeaver/internal/match"
	"resumebeaver/internal/semantic"
	"resumebeaver/internal/taxonomy"
	"resumebeaver/internal/types"
)

// Response caps keep result lists scannable.
const (
	maxMissingSkills   = 10
	maxMissingKeywords = 15
	maxAISuggestions   = 5
)

// Engine is the composition root for all resume operations.
type Engine struct {
	extractor *extract.Extractor
	matcher   *match.Matcher
	semantic  *semantic.Service
	logger    *errors.Logger
}

// New builds an engine from configuration. The taxonomy is embedded, so the
// only failure modes are a corrupt taxonomy or a misconfigured provider.
func New(cfg *config.Config, logger *errors.Logger) (*Engine, error) {
	tax, err := taxonomy.Load()
	if err != nil {
		return nil, err
	}

	svc, err := semantic.NewService(cfg, logger)
	if err != nil {
		return nil, err
	}

	// The matcher treats a nil provider as neutral mode and sets the
	// fallback flag on every result. Passing the neutral provider instead
	// would score identically but hide the degradation from callers.
	var provider match.SemanticProvider
	if !svc.Degraded() {
		provider = svc.Provider
	}

	simCfg := cfg.GetSimilarityConfig()
	matcher := match.NewMatcher(provider, logger,
		match.WithSemanticTimeout(*simCfg.Timeout))

	return &Engine{
		extractor: extract.NewExtractor(tax, logger),
		matcher:   matcher,
		semantic:  svc,
		logger:    logger,
	}, nil
}

// Semantic exposes the semantic service for health checks and stats.
func (e *Engine) Semantic() *semantic.Service {
	return e.semantic
}

// Close releases provider resources.
func (e *Engine) Close() error {
	return e.semantic.Close()
}

// AnalyzeResume parses resume text and scores its ATS compatibility.
func (e *Engine) AnalyzeResume(ctx context.Context, text string) (types.ResumeAnalysis, error) {
	doc, err := e.extractor.Extract(text, nil)
	if err != nil {
		return types.ResumeAnalysis{}, err
	}

	return types.ResumeAnalysis{
		ContactInfo:     doc.Contact,
		Skills:          doc.Skills,
		YearsExperience: doc.YearsExperience,
		EducationLevel:  doc.EducationLevel,
		WordCount:       doc.WordCount,
		ATSScore:        ats.Score(doc),
		AIPowered:       !e.semantic.Degraded(),
	}, nil
}

// AnalyzeJob parses job-description text into its requirements summary.
func (e *Engine) AnalyzeJob(ctx context.Context, text string) (types.JobAnalysis, error) {
	doc, err := e.extractor.Extract(text, nil)
	if err != nil {
		return types.JobAnalysis{}, err
	}

	return types.JobAnalysis{
		SkillsRequired:  doc.Skills,
		YearsExperience: doc.YearsExperience,
		WordCount:       doc.WordCount,
	}, nil
}

// Match scores a resume against a job description.
func (e *Engine) Match(ctx context.Context, resumeText, jobText string) (types.MatchResult, error) {
	resume, err := e.extractor.Extract(resumeText, nil)
	if err != nil {
		return types.MatchResult{}, err
	}
	job, err := e.extractor.Extract(jobText, nil)
	if err != nil {
		return types.MatchResult{}, err
	}

	result := e.matcher.Match(ctx, resume, job)
	capResult(&result)
	return result, nil
}

// Optimize produces the full optimization report: match scores, ATS
// analysis, rule-based suggestions, and AI suggestions when a suggester is
// available. A non-empty format additionally includes a generated resume.
func (e *Engine) Optimize(ctx context.Context, resumeText, jobText, format string) (types.OptimizationResult, error) {
	resume, err := e.extractor.Extract(resumeText, nil)
	if err != nil {
		return types.OptimizationResult{}, err
	}
	job, err := e.extractor.Extract(jobText, nil)
	if err != nil {
		return types.OptimizationResult{}, err
	}

	matchResult := e.matcher.Match(ctx, resume, job)
	capResult(&matchResult)

	result := types.OptimizationResult{
		MatchAnalysis:   matchResult,
		MissingSkills:   matchResult.MissingSkills,
		MissingKeywords: matchResult.MissingKeywords,
		Suggestions:     buildSuggestions(matchResult),
		ATSAnalysis:     ats.Score(resume),
		AIPowered:       !e.semantic.Degraded() && !matchResult.SemanticFallback,
	}

	if e.semantic.Suggester != nil {
		suggestions, err := e.semantic.Suggester.Suggest(ctx, semantic.SuggestInput{
			ResumeText:      resume.RawText,
			JobText:         job.RawText,
			MissingSkills:   matchResult.MissingSkills,
			MissingKeywords: matchResult.MissingKeywords,
		})
		if err != nil {
			e.logger.Warn("AI suggestions unavailable, continuing without them", "error", err)
			result.AIPowered = false
		} else {
			if len(suggestions) > maxAISuggestions {
				suggestions = suggestions[:maxAISuggestions]
			}
			result.AISuggestions = suggestions
		}
	}

	if format != "" {
		doc, err := generate.Generate(resume, matchResult, format)
		if err != nil {
			return types.OptimizationResult{}, err
		}
		result.GeneratedResume = &doc
	}

	return result, nil
}

// Generate renders an optimized resume in the requested format.
func (e *Engine) Generate(ctx context.Context, resumeText, jobText, format string) (types.GeneratedDocument, error) {
	resume, err := e.extractor.Extract(resumeText, nil)
	if err != nil {
		return types.GeneratedDocument{}, err
	}
	job, err := e.extractor.Extract(jobText, nil)
	if err != nil {
		return types.GeneratedDocument{}, err
	}

	matchResult := e.matcher.Match(ctx, resume, job)
	capResult(&matchResult)

	return generate.Generate(resume, matchResult, format)
}

func capResult(result *types.MatchResult) {
	if len(result.MissingSkills) > maxMissingSkills {
		result.MissingSkills = result.MissingSkills[:maxMissingSkills]
	}
	if len(result.MissingKeywords) > maxMissingKeywords {
		result.MissingKeywords = result.MissingKeywords[:maxMissingKeywords]
	}
}
