package generate

import (
	"strings"
	"testing"

	apperrors "resumebeaver/internal/errors"
	"resumebeaver/internal/types"
)

func sampleDoc() types.ParsedDocument {
	raw := strings.Join([]string{
		"John Smith",
		"john@example.com",
		"",
		"Summary",
		"Backend engineer focused on data-heavy services.",
		"",
		"Work Experience",
		"Senior Engineer at Initech (2019 - Present)",
		"Built ingestion pipelines handling 2M events per day.",
		"",
		"Education",
		"BS in Computer Science, State University",
	}, "\n")

	return types.ParsedDocument{
		Contact: types.ContactInfo{
			Name:  "John Smith",
			Email: "john@example.com",
			Phone: "(555) 123-4567",
		},
		Skills: types.SkillSet{
			Languages: []string{"Go", "Python"},
			Databases: []string{"PostgreSQL"},
			All:       []string{"Go", "PostgreSQL", "Python"},
		},
		RawText: raw,
	}
}

func sampleMatch() types.MatchResult {
	return types.MatchResult{
		MissingSkills:   []string{"AWS", "Docker"},
		MissingKeywords: []string{"microservices", "scalability"},
	}
}

func TestGeneratePlainText(t *testing.T) {
	doc, err := Generate(sampleDoc(), sampleMatch(), FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if doc.Format != FormatATSPlainText {
		t.Errorf("format = %q", doc.Format)
	}

	for _, want := range []string{
		"John Smith",
		"CONTACT",
		"Email: john@example.com",
		"Phone: (555) 123-4567",
		"SUMMARY",
		"Backend engineer focused on data-heavy services.",
		"Additional experience with microservices and scalability.",
		"SKILLS",
		"Languages: Go, Python",
		"Databases: PostgreSQL",
		"Additional Relevant Skills: AWS, Docker",
		"EXPERIENCE",
		"Built ingestion pipelines handling 2M events per day.",
		"EDUCATION",
		"BS in Computer Science, State University",
	} {
		if !strings.Contains(doc.Body, want) {
			t.Errorf("body missing %q:\n%s", want, doc.Body)
		}
	}
}

func TestGenerateSectionOrder(t *testing.T) {
	doc, err := Generate(sampleDoc(), sampleMatch(), FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	last := -1
	for _, header := range []string{"CONTACT", "SUMMARY", "SKILLS", "EXPERIENCE", "EDUCATION"} {
		idx := strings.Index(doc.Body, header)
		if idx < 0 {
			t.Fatalf("header %q not found", header)
		}
		if idx < last {
			t.Errorf("header %q out of order", header)
		}
		last = idx
	}
}

func TestGenerateOmitsEmptySections(t *testing.T) {
	doc := sampleDoc()
	doc.RawText = "John Smith\njohn@example.com"

	out, err := Generate(doc, types.MatchResult{}, FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	for _, header := range []string{"SUMMARY", "EXPERIENCE", "EDUCATION"} {
		if strings.Contains(out.Body, header) {
			t.Errorf("empty section %q should be omitted:\n%s", header, out.Body)
		}
	}
	if !strings.Contains(out.Body, "CONTACT") {
		t.Error("contact section missing")
	}
}

func TestGenerateKeywordSentence(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{"none", nil, ""},
		{"one", []string{"kafka"}, "Additional experience with kafka."},
		{"two", []string{"kafka", "grafana"}, "Additional experience with kafka and grafana."},
		{"three", []string{"kafka", "grafana", "airflow"}, "Additional experience with kafka, grafana and airflow."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keywordSentence(tt.keywords); got != tt.want {
				t.Errorf("keywordSentence(%v) = %q, want %q", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestGenerateNoMissingSkillsNoExtraLabel(t *testing.T) {
	match := sampleMatch()
	match.MissingSkills = nil
	match.MissingKeywords = nil

	out, err := Generate(sampleDoc(), match, FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.Contains(out.Body, "Additional Relevant Skills") {
		t.Error("additional skills label present without missing skills")
	}
	if strings.Contains(out.Body, "Additional experience with") {
		t.Error("keyword sentence present without missing keywords")
	}
}

func TestGenerateDocxStructured(t *testing.T) {
	out, err := Generate(sampleDoc(), sampleMatch(), FormatDocxStructured)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	for _, want := range []string{
		"# John Smith",
		"## Contact",
		"## Summary",
		"## Skills",
		"- Additional Relevant Skills: AWS, Docker",
		"## Experience",
		"## Education",
	} {
		if !strings.Contains(out.Body, want) {
			t.Errorf("body missing %q:\n%s", want, out.Body)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, format := range Formats() {
		first, err := Generate(sampleDoc(), sampleMatch(), format)
		if err != nil {
			t.Fatalf("Generate(%s) error: %v", format, err)
		}
		for range 3 {
			next, err := Generate(sampleDoc(), sampleMatch(), format)
			if err != nil {
				t.Fatalf("Generate(%s) error: %v", format, err)
			}
			if next.Body != first.Body {
				t.Fatalf("output for %s varied between runs", format)
			}
		}
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	_, err := Generate(sampleDoc(), sampleMatch(), "pdf")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeUnsupportedFormat {
		t.Errorf("code = %q, want %q", appErr.Code, apperrors.ErrCodeUnsupportedFormat)
	}
}

func TestGenerateUnknownNameOmitted(t *testing.T) {
	doc := sampleDoc()
	doc.Contact.Name = "unknown"

	out, err := Generate(doc, sampleMatch(), FormatATSPlainText)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.HasPrefix(out.Body, "unknown") {
		t.Error("placeholder name leaked into output")
	}
}
