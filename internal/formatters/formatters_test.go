package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumebeaver/internal/types"
)

func intPtr(n int) *int { return &n }

func sampleMatch() types.MatchResult {
	return types.MatchResult{
		OverallScore:    52.5,
		SkillScore:      25.0,
		KeywordScore:    60.0,
		SemanticScore:   75.0,
		MatchingSkills:  []string{"Python"},
		MissingSkills:   []string{"AWS", "Docker"},
		MissingKeywords: []string{"pipelines", "kubernetes"},
		Recommendation:  "Moderate match - significant gaps to address",
	}
}

func sampleAnalysis() types.ResumeAnalysis {
	return types.ResumeAnalysis{
		ContactInfo: types.ContactInfo{
			Name:  "John Smith",
			Email: "john@example.com",
		},
		Skills: types.SkillSet{
			Languages: []string{"Python"},
			All:       []string{"Python"},
		},
		YearsExperience: intPtr(5),
		EducationLevel:  types.EducationBachelor,
		WordCount:       320,
		ATSScore: types.ATSReport{
			Score:           85,
			Issues:          []string{"No phone number found"},
			Recommendations: []string{"Add a phone number"},
		},
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleMatch(), "json")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var decoded types.MatchResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.OverallScore != 52.5 {
		t.Errorf("overall_score = %v", decoded.OverallScore)
	}
}

func TestMatchTextFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleMatch(), "text")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{
		"Overall score: 52.5/100",
		"Matching skills: Python",
		"Missing skills: AWS, Docker",
		"Moderate match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMatchMarkdownFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleMatch(), "markdown")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.HasPrefix(out, "# Match Analysis") {
		t.Errorf("missing heading:\n%s", out)
	}
	if !strings.Contains(out, "**Overall score:** 52.5/100") {
		t.Errorf("missing bold score:\n%s", out)
	}
}

func TestResumeAnalysisFormatters(t *testing.T) {
	text, err := GlobalRegistry.Format(sampleAnalysis(), "text")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	for _, want := range []string{"John Smith", "Score: 85.0/100", "No phone number found"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q", want)
		}
	}

	md, err := GlobalRegistry.Format(sampleAnalysis(), "markdown")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(md, "## ATS Compatibility") {
		t.Errorf("markdown output missing ATS section:\n%s", md)
	}
}

func TestOptimizationFormatterIncludesGeneratedResume(t *testing.T) {
	result := types.OptimizationResult{
		MatchAnalysis: sampleMatch(),
		MissingSkills: []string{"AWS"},
		Suggestions: []types.Suggestion{
			{Category: "skills", Priority: "high", Suggestion: "Add AWS experience", Impact: "Raises the skill match score"},
		},
		ATSAnalysis: types.ATSReport{Score: 90},
		GeneratedResume: &types.GeneratedDocument{
			Format: "ats-plain-text",
			Body:   "JOHN SMITH RESUME BODY",
		},
	}

	out, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(out, "GENERATED RESUME") || !strings.Contains(out, "JOHN SMITH RESUME BODY") {
		t.Errorf("output missing generated resume:\n%s", out)
	}
	if !strings.Contains(out, "[skills/high]") {
		t.Errorf("output missing suggestion tag:\n%s", out)
	}
}

func TestGeneratedDocumentFormatterIsPassthrough(t *testing.T) {
	doc := types.GeneratedDocument{Format: "ats-plain-text", Body: "BODY TEXT"}

	for _, format := range []string{"text", "markdown"} {
		out, err := GlobalRegistry.Format(doc, format)
		if err != nil {
			t.Fatalf("Format(%s) error: %v", format, err)
		}
		if out != "BODY TEXT\n" {
			t.Errorf("Format(%s) = %q", format, out)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleMatch(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
