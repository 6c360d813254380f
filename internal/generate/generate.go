// Package generate renders an optimized resume from a parsed document and a
// match result. Output is deterministic: the same inputs produce the same
// bytes in every run.
package generate

import (
	"fmt"
	"slices"
	"strings"

	"resumebeaver/internal/errors"
	"resumebeaver/internal/extract"
	"resumebeaver/internal/types"
)

// Supported output formats.
const (
	FormatATSPlainText   = "ats-plain-text"
	FormatDocxStructured = "docx-structured"
)

// Formats lists the supported output formats in presentation order.
func Formats() []string {
	return []string{FormatATSPlainText, FormatDocxStructured}
}

// ValidateFormat returns a validation error when format is not supported.
func ValidateFormat(format string) error {
	if slices.Contains(Formats(), format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("Unsupported output format: %s (supported: %s)", format, strings.Join(Formats(), ", ")), nil).
		WithContext("format", format)
}

// section is one rendered resume section. Empty sections are dropped before
// rendering, so every section in a generated document has content.
type section struct {
	title string
	lines []string
}

// Generate renders resume content optimized against match into the requested
// format. Unknown formats are an error; everything else degrades (a resume
// without an education section simply omits it).
func Generate(doc types.ParsedDocument, match types.MatchResult, format string) (types.GeneratedDocument, error) {
	sections := buildSections(doc, match)

	var body string
	switch format {
	case FormatATSPlainText:
		body = renderPlainText(doc, sections)
	case FormatDocxStructured:
		body = renderDocxStructured(doc, sections)
	default:
		return types.GeneratedDocument{}, errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported output format: %s (supported: %s)", format, strings.Join(Formats(), ", ")), nil).
			WithContext("format", format)
	}

	return types.GeneratedDocument{Format: format, Body: body}, nil
}

// buildSections assembles the canonical section order: Contact, Summary,
// Skills, Experience, Education. Sections with no content are omitted.
func buildSections(doc types.ParsedDocument, match types.MatchResult) []section {
	bodies := extract.Sections(doc.RawText)
	sections := make([]section, 0, 5)

	if s := contactSection(doc.Contact); len(s.lines) > 0 {
		sections = append(sections, s)
	}
	if s := summarySection(bodies["summary"], match.MissingKeywords); len(s.lines) > 0 {
		sections = append(sections, s)
	}
	if s := skillsSection(doc.Skills, match.MissingSkills); len(s.lines) > 0 {
		sections = append(sections, s)
	}
	if lines := bodies["experience"]; len(lines) > 0 {
		sections = append(sections, section{title: "Experience", lines: lines})
	}
	if lines := bodies["education"]; len(lines) > 0 {
		sections = append(sections, section{title: "Education", lines: lines})
	}

	return sections
}

func contactSection(c types.ContactInfo) section {
	lines := []string{}
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}
	if c.LinkedIn != "" {
		lines = append(lines, "LinkedIn: "+c.LinkedIn)
	}
	if c.GitHub != "" {
		lines = append(lines, "GitHub: "+c.GitHub)
	}
	return section{title: "Contact", lines: lines}
}

// summarySection carries the original summary forward and weaves the missing
// job keywords into it as a single closing sentence.
func summarySection(original []string, missingKeywords []string) section {
	lines := append([]string{}, original...)
	if s := keywordSentence(missingKeywords); s != "" {
		lines = append(lines, s)
	}
	return section{title: "Summary", lines: lines}
}

func keywordSentence(keywords []string) string {
	switch len(keywords) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Additional experience with %s.", keywords[0])
	default:
		return fmt.Sprintf("Additional experience with %s and %s.",
			strings.Join(keywords[:len(keywords)-1], ", "), keywords[len(keywords)-1])
	}
}

// skillsSection lists the resume's skills by category and appends the job's
// missing skills under an Additional Relevant Skills label.
func skillsSection(skills types.SkillSet, missingSkills []string) section {
	lines := []string{}
	for _, cat := range skills.Categories() {
		if names := skills.ByCategory(cat); len(names) > 0 {
			lines = append(lines, categoryLabel(cat)+": "+strings.Join(names, ", "))
		}
	}
	if len(missingSkills) > 0 {
		lines = append(lines, "Additional Relevant Skills: "+strings.Join(missingSkills, ", "))
	}
	return section{title: "Skills", lines: lines}
}

func categoryLabel(category string) string {
	switch category {
	case "languages":
		return "Languages"
	case "frameworks":
		return "Frameworks"
	case "databases":
		return "Databases"
	case "cloud":
		return "Cloud"
	case "tools":
		return "Tools"
	}
	return category
}

// renderPlainText produces a flat, ATS-friendly layout: candidate name,
// then each section as an uppercase header followed by its lines.
func renderPlainText(doc types.ParsedDocument, sections []section) string {
	var b strings.Builder

	if name := displayName(doc.Contact); name != "" {
		b.WriteString(name)
		b.WriteString("\n\n")
	}

	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.ToUpper(s.title))
		b.WriteString("\n")
		for _, line := range s.lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderDocxStructured produces a heading-marked layout suitable for
// conversion into a word-processor document: one top-level heading for the
// candidate, second-level headings per section, bulleted section bodies.
func renderDocxStructured(doc types.ParsedDocument, sections []section) string {
	var b strings.Builder

	if name := displayName(doc.Contact); name != "" {
		b.WriteString("# ")
		b.WriteString(name)
		b.WriteString("\n\n")
	}

	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## ")
		b.WriteString(s.title)
		b.WriteString("\n")
		for _, line := range s.lines {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func displayName(c types.ContactInfo) string {
	if c.Name == "" || c.Name == "unknown" {
		return ""
	}
	return c.Name
}
