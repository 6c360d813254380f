package match

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"resumebeaver/internal/types"
)

type stubProvider struct {
	sim float64
	err error
}

func (s *stubProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	return s.sim, s.err
}

func doc(rawText string, skills ...string) types.ParsedDocument {
	return types.ParsedDocument{
		RawText: rawText,
		Skills:  types.SkillSet{All: skills},
	}
}

func TestMatchSkillPartition(t *testing.T) {
	m := NewMatcher(&stubProvider{sim: 0.5}, nil)

	resume := doc("5 years Python experience, Django, PostgreSQL, contact: a@b.com",
		"Django", "PostgreSQL", "Python")
	job := doc("Senior Python Developer, React, AWS, Docker required",
		"AWS", "Docker", "Python", "React")

	result := m.Match(context.Background(), resume, job)

	if got, want := result.MatchingSkills, []string{"Python"}; !reflect.DeepEqual(got, want) {
		t.Errorf("matching skills = %v, want %v", got, want)
	}
	if got, want := result.MissingSkills, []string{"AWS", "Docker", "React"}; !reflect.DeepEqual(got, want) {
		t.Errorf("missing skills = %v, want %v", got, want)
	}
	if result.SkillScore != 25.0 {
		t.Errorf("skill score = %v, want 25.0", result.SkillScore)
	}
}

func TestMatchJobWithoutSkills(t *testing.T) {
	m := NewMatcher(&stubProvider{sim: 0.5}, nil)

	result := m.Match(context.Background(),
		doc("Python developer", "Python"),
		doc("Looking for a motivated generalist"))

	if result.SkillScore != 100 {
		t.Errorf("skill score = %v, want 100 when the job requires no recognized skills", result.SkillScore)
	}
	if len(result.MissingSkills) != 0 {
		t.Errorf("missing skills = %v, want none", result.MissingSkills)
	}
}

func TestMatchOverallFormula(t *testing.T) {
	m := NewMatcher(&stubProvider{sim: 0.8}, nil)

	resume := doc("Python and Django daily", "Django", "Python")
	job := doc("Python Django", "Django", "Python")

	result := m.Match(context.Background(), resume, job)

	want := round1(weightSkill*result.SkillScore +
		weightKeyword*result.KeywordScore +
		weightSemantic*result.SemanticScore)
	if result.OverallScore != want {
		t.Errorf("overall = %v, want %v from component scores %v/%v/%v",
			result.OverallScore, want, result.SkillScore, result.KeywordScore, result.SemanticScore)
	}
	if result.SemanticScore != 80.0 {
		t.Errorf("semantic score = %v, want 80.0", result.SemanticScore)
	}
	if result.SemanticFallback {
		t.Error("semantic fallback flagged despite healthy provider")
	}
}

func TestMatchSemanticFallback(t *testing.T) {
	tests := []struct {
		name     string
		provider SemanticProvider
	}{
		{"provider error", &stubProvider{err: errors.New("upstream down")}},
		{"nil provider", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.provider, nil)
			result := m.Match(context.Background(), doc("text"), doc("text"))

			if !result.SemanticFallback {
				t.Error("expected semantic fallback flag")
			}
			if result.SemanticScore != 50.0 {
				t.Errorf("semantic score = %v, want neutral 50.0", result.SemanticScore)
			}
		})
	}
}

func TestMatchSimilarityClamped(t *testing.T) {
	tests := []struct {
		name string
		sim  float64
		want float64
	}{
		{"above range", 1.7, 100.0},
		{"below range", -0.3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(&stubProvider{sim: tt.sim}, nil)
			result := m.Match(context.Background(), doc("a"), doc("b"))
			if result.SemanticScore != tt.want {
				t.Errorf("semantic score = %v, want %v", result.SemanticScore, tt.want)
			}
		})
	}
}

func TestMatchRecommendationTiers(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{92, tierExcellent},
		{85, tierExcellent},
		{84.9, tierGood},
		{70, tierGood},
		{69.9, tierModerate},
		{50, tierModerate},
		{49.9, tierLow},
		{0, tierLow},
	}

	for _, tt := range tests {
		if got := recommend(tt.overall); got != tt.want {
			t.Errorf("recommend(%v) = %q, want %q", tt.overall, got, tt.want)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	m := NewMatcher(&stubProvider{sim: 0.42}, nil)
	resume := doc("Go microservices with Kubernetes and Terraform", "Go", "Kubernetes", "Terraform")
	job := doc("Go engineer, Kubernetes, AWS, strong distributed systems background",
		"AWS", "Go", "Kubernetes")

	first := m.Match(context.Background(), resume, job)
	for range 5 {
		if got := m.Match(context.Background(), resume, job); !reflect.DeepEqual(got, first) {
			t.Fatalf("match result varied between runs: %+v vs %+v", got, first)
		}
	}
}

func TestTopKeywords(t *testing.T) {
	text := "Build pipelines. Pipelines and dashboards, dashboards, dashboards. The team ships pipelines weekly."

	got := topKeywords(text, 3, nil)
	want := []string{"pipelines", "dashboards", "build"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsExcludesSkillTokens(t *testing.T) {
	text := "Looking for Python engineers to write Python services"
	exclude := skillTokens([]string{"Python"})

	for _, kw := range topKeywords(text, 10, exclude) {
		if kw == "python" {
			t.Fatal("taxonomy skill leaked into keyword list")
		}
	}
}

func TestTopKeywordsStopwordsAndShortTokens(t *testing.T) {
	got := topKeywords("the a an to of we is it in on go", 10, nil)
	if len(got) != 0 {
		t.Errorf("expected no keywords from stopwords and short tokens, got %v", got)
	}
}

func TestScoreKeywordsMissingOrder(t *testing.T) {
	keywords := []string{"kafka", "grafana", "terraform"}
	score, missing := scoreKeywords(keywords, "We run Grafana dashboards")

	if score != round1(100.0/3.0) && score != 100.0/3.0 {
		t.Errorf("keyword score = %v, want one third of 100", score)
	}
	if want := []string{"kafka", "terraform"}; !reflect.DeepEqual(missing, want) {
		t.Errorf("missing keywords = %v, want %v", missing, want)
	}
}

func BenchmarkMatch(b *testing.B) {
	m := NewMatcher(&stubProvider{sim: 0.5}, nil)
	resume := doc("Senior engineer with Python, Django, PostgreSQL, Docker and AWS across 8 years",
		"AWS", "Django", "Docker", "PostgreSQL", "Python")
	job := doc("Python developer with React, AWS, Docker and Kubernetes",
		"AWS", "Docker", "Kubernetes", "Python", "React")

	b.ReportAllocs()
	for b.Loop() {
		m.Match(context.Background(), resume, job)
	}
}
