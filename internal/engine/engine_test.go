package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"resumebeaver/internal/config"
	apperrors "resumebeaver/internal/errors"
	"resumebeaver/internal/extract"
	"resumebeaver/internal/generate"
	"resumebeaver/internal/match"
	"resumebeaver/internal/semantic"
	"resumebeaver/internal/taxonomy"
	"resumebeaver/internal/types"
)

const testResume = `John Smith
john.smith@email.com | (555) 123-4567

Summary
Backend engineer with 5 years Python experience.

Technical Skills
Python, Django, PostgreSQL

Work Experience
Senior Engineer at Initech, building data pipelines.

Education
BS in Computer Science`

const testJob = `Senior Python Developer
We need React, AWS and Docker expertise. Kubernetes is a plus.`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	eng, err := New(&config.Config{}, logger)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestAnalyzeResume(t *testing.T) {
	eng := newTestEngine(t)

	analysis, err := eng.AnalyzeResume(context.Background(), testResume)
	if err != nil {
		t.Fatalf("AnalyzeResume() error: %v", err)
	}

	if analysis.ContactInfo.Email != "john.smith@email.com" {
		t.Errorf("email = %q", analysis.ContactInfo.Email)
	}
	if len(analysis.Skills.All) == 0 {
		t.Error("no skills extracted")
	}
	if analysis.YearsExperience == nil || *analysis.YearsExperience != 5 {
		t.Errorf("years experience = %v, want 5", analysis.YearsExperience)
	}
	if analysis.ATSScore.Score <= 0 || analysis.ATSScore.Score > 100 {
		t.Errorf("ats score = %v, want within (0, 100]", analysis.ATSScore.Score)
	}
	if analysis.AIPowered {
		t.Error("ai_powered should be false without a provider key")
	}
}

func TestAnalyzeJob(t *testing.T) {
	eng := newTestEngine(t)

	analysis, err := eng.AnalyzeJob(context.Background(), testJob)
	if err != nil {
		t.Fatalf("AnalyzeJob() error: %v", err)
	}

	want := []string{"AWS", "Docker", "Kubernetes", "Python", "React"}
	if !reflect.DeepEqual(analysis.SkillsRequired.All, want) {
		t.Errorf("skills required = %v, want %v", analysis.SkillsRequired.All, want)
	}
	if analysis.WordCount == 0 {
		t.Error("word count missing")
	}
}

func TestMatchScenario(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Match(context.Background(),
		"5 years Python experience, Django, PostgreSQL, contact: a@b.com",
		"Senior Python Developer, React, AWS, Docker required")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}

	if !reflect.DeepEqual(result.MatchingSkills, []string{"Python"}) {
		t.Errorf("matching skills = %v", result.MatchingSkills)
	}
	if !reflect.DeepEqual(result.MissingSkills, []string{"AWS", "Docker", "React"}) {
		t.Errorf("missing skills = %v", result.MissingSkills)
	}
	if result.SkillScore != 25.0 {
		t.Errorf("skill score = %v, want 25.0", result.SkillScore)
	}
	if result.SemanticScore != 50.0 {
		t.Errorf("semantic score = %v, want neutral 50.0", result.SemanticScore)
	}
	if !result.SemanticFallback {
		t.Error("semantic fallback flag should be set in neutral mode")
	}
}

func TestMatchEmptyInputFailsFast(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Match(context.Background(), "   \n  ", testJob)
	if err == nil {
		t.Fatal("expected error for empty resume text")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrCodeMalformedInput {
		t.Errorf("error = %v, want malformed input", err)
	}
}

func TestOptimize(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Optimize(context.Background(), testResume, testJob, "")
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}
	if result.GeneratedResume != nil {
		t.Error("no generated resume expected without a format")
	}

	if result.AIPowered {
		t.Error("ai_powered should be false in neutral mode")
	}
	if len(result.AISuggestions) != 0 {
		t.Errorf("unexpected AI suggestions: %v", result.AISuggestions)
	}
	if result.ATSAnalysis.Score <= 0 {
		t.Errorf("ats score = %v", result.ATSAnalysis.Score)
	}
	if !reflect.DeepEqual(result.MissingSkills, result.MatchAnalysis.MissingSkills) {
		t.Error("top-level missing skills should mirror match analysis")
	}

	var categories []string
	for _, s := range result.Suggestions {
		categories = append(categories, s.Category)
	}
	if len(categories) == 0 {
		t.Fatal("expected rule-based suggestions for a weak match")
	}
	if categories[0] != "skills" {
		t.Errorf("first suggestion category = %q, want skills", categories[0])
	}
}

func TestOptimizeWithFormat(t *testing.T) {
	eng := newTestEngine(t)

	result, err := eng.Optimize(context.Background(), testResume, testJob, generate.FormatATSPlainText)
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}

	if result.GeneratedResume == nil {
		t.Fatal("expected a generated resume")
	}
	if result.GeneratedResume.Format != generate.FormatATSPlainText {
		t.Errorf("format = %q", result.GeneratedResume.Format)
	}
	if !strings.Contains(result.GeneratedResume.Body, "John Smith") {
		t.Error("generated body should include the candidate name")
	}
}

// unavailableProvider stands in for a configured provider whose similarity
// calls fail at request time.
type unavailableProvider struct{}

func (unavailableProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	return 0, errors.New("embedding backend unreachable")
}

func (unavailableProvider) ModelInfo(ctx context.Context) *semantic.ModelInfo {
	return &semantic.ModelInfo{Name: "stub", Available: false}
}

func (unavailableProvider) Close() error { return nil }

func TestOptimizeNotAIPoweredOnSimilarityFallback(t *testing.T) {
	tax, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("failed to load taxonomy: %v", err)
	}
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	eng := &Engine{
		extractor: extract.NewExtractor(tax, logger),
		matcher:   match.NewMatcher(unavailableProvider{}, logger),
		semantic:  &semantic.Service{Provider: unavailableProvider{}},
		logger:    logger,
	}

	result, err := eng.Optimize(context.Background(), testResume, testJob, "")
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}

	if !result.MatchAnalysis.SemanticFallback {
		t.Fatal("expected semantic fallback with an unreachable provider")
	}
	if result.AIPowered {
		t.Error("ai_powered should be false when the semantic score fell back")
	}
}

func TestSuggestionThresholds(t *testing.T) {
	tests := []struct {
		name   string
		result types.MatchResult
		want   []string
	}{
		{
			name: "strong match needs nothing",
			result: types.MatchResult{
				OverallScore: 90, SkillScore: 100, KeywordScore: 80, SemanticScore: 75,
			},
			want: nil,
		},
		{
			name: "weak skills",
			result: types.MatchResult{
				OverallScore: 75, SkillScore: 50, KeywordScore: 80, SemanticScore: 90,
				MissingSkills: []string{"AWS"},
			},
			want: []string{"skills"},
		},
		{
			name: "weak keywords and content",
			result: types.MatchResult{
				OverallScore: 60, SkillScore: 80, KeywordScore: 40, SemanticScore: 50,
				MissingKeywords: []string{"pipelines"},
			},
			want: []string{"keywords", "content"},
		},
		{
			name: "everything weak",
			result: types.MatchResult{
				OverallScore: 30, SkillScore: 20, KeywordScore: 20, SemanticScore: 50,
				MissingSkills:   []string{"AWS"},
				MissingKeywords: []string{"pipelines"},
			},
			want: []string{"skills", "keywords", "content", "overall"},
		},
		{
			name: "no skill suggestion without missing skills",
			result: types.MatchResult{
				OverallScore: 75, SkillScore: 50, KeywordScore: 80, SemanticScore: 90,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range buildSuggestions(tt.result) {
				got = append(got, s.Category)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("suggestion categories = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	eng := newTestEngine(t)

	doc, err := eng.Generate(context.Background(), testResume, testJob, generate.FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(doc.Body, "Additional Relevant Skills") {
		t.Errorf("generated body missing additional skills:\n%s", doc.Body)
	}

	_, err = eng.Generate(context.Background(), testResume, testJob, "latex")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
