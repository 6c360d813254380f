package ats

import (
	"reflect"
	"strings"
	"testing"

	"resumebeaver/internal/types"
)

func cleanDoc() types.ParsedDocument {
	lines := make([]string, 0, 40)
	lines = append(lines,
		"Jane Doe",
		"jane@example.com (555) 123-4567",
		"",
		"Summary",
		"Engineer with a decade of backend work.",
		"",
		"Experience",
	)
	for range 30 {
		lines = append(lines, strings.Repeat("shipped reliable services on time ", 3))
	}
	lines = append(lines, "", "Education", "BS in Computer Science")

	text := strings.Join(lines, "\n")
	return types.ParsedDocument{
		Contact:        types.ContactInfo{Email: "jane@example.com", Phone: "(555) 123-4567"},
		Skills:         types.SkillSet{All: []string{"Go", "PostgreSQL"}},
		SectionHeaders: []string{"education", "experience", "summary"},
		WordCount:      len(strings.Fields(text)),
		RawText:        text,
	}
}

func TestScorePerfectResume(t *testing.T) {
	report := Score(cleanDoc())

	if report.Score != 100 {
		t.Errorf("score = %v, want 100, issues: %v", report.Score, report.Issues)
	}
	if len(report.Issues) != 0 {
		t.Errorf("unexpected issues: %v", report.Issues)
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("unexpected recommendations: %v", report.Recommendations)
	}
}

func TestScorePenalties(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ParsedDocument)
		want   float64
		issue  string
	}{
		{
			name:   "missing email",
			mutate: func(d *types.ParsedDocument) { d.Contact.Email = "" },
			want:   85,
			issue:  "No email address found",
		},
		{
			name:   "missing phone",
			mutate: func(d *types.ParsedDocument) { d.Contact.Phone = "" },
			want:   90,
			issue:  "No phone number found",
		},
		{
			name:   "too few sections",
			mutate: func(d *types.ParsedDocument) { d.SectionHeaders = []string{"summary"} },
			want:   85,
			issue:  "Too few recognizable section headers",
		},
		{
			name:   "too short",
			mutate: func(d *types.ParsedDocument) { d.WordCount = 80 },
			want:   90,
			issue:  "Resume is too short",
		},
		{
			name:   "too long",
			mutate: func(d *types.ParsedDocument) { d.WordCount = 2500 },
			want:   90,
			issue:  "Resume is too long",
		},
		{
			name:   "no skills",
			mutate: func(d *types.ParsedDocument) { d.Skills = types.SkillSet{} },
			want:   80,
			issue:  "No recognizable technical skills found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := cleanDoc()
			tt.mutate(&doc)
			report := Score(doc)

			if report.Score != tt.want {
				t.Errorf("score = %v, want %v", report.Score, tt.want)
			}
			if !contains(report.Issues, tt.issue) {
				t.Errorf("issues = %v, want to include %q", report.Issues, tt.issue)
			}
			if len(report.Recommendations) != len(report.Issues) {
				t.Errorf("each issue needs a recommendation: %d issues, %d recommendations",
					len(report.Issues), len(report.Recommendations))
			}
		})
	}
}

func TestScoreBoundaryWordCounts(t *testing.T) {
	for _, wc := range []int{150, 1200} {
		doc := cleanDoc()
		doc.WordCount = wc
		if report := Score(doc); report.Score != 100 {
			t.Errorf("word count %d penalized: score = %v, issues = %v", wc, report.Score, report.Issues)
		}
	}
}

func TestScoreSpecialCharacters(t *testing.T) {
	doc := cleanDoc()
	doc.RawText = doc.RawText + "\n" + strings.Repeat("•★|", len(doc.RawText)/10)

	report := Score(doc)
	if report.Score != 90 {
		t.Errorf("score = %v, want 90", report.Score)
	}
	if !contains(report.Issues, "Heavy use of special characters or decorative symbols") {
		t.Errorf("issues = %v", report.Issues)
	}
}

func TestScoreSparseLayout(t *testing.T) {
	doc := cleanDoc()
	doc.RawText = strings.Repeat("one long unbroken paragraph of resume text ", 20)

	report := Score(doc)
	if !contains(report.Issues, "Very few line breaks detected") {
		t.Errorf("issues = %v", report.Issues)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	report := Score(types.ParsedDocument{RawText: "x"})
	if report.Score < 0 {
		t.Errorf("score = %v, want floor at 0", report.Score)
	}
}

func TestScoreIssueOrderFixed(t *testing.T) {
	doc := types.ParsedDocument{WordCount: 10, RawText: "short"}
	first := Score(doc)
	second := Score(doc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("report varied between runs: %+v vs %+v", first, second)
	}

	want := []string{
		"No email address found",
		"No phone number found",
		"Too few recognizable section headers",
		"Resume is too short",
		"No recognizable technical skills found",
		"Very few line breaks detected",
	}
	if !reflect.DeepEqual(first.Issues, want) {
		t.Errorf("issue order = %v, want %v", first.Issues, want)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
