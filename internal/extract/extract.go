// Package extract turns raw resume or job-description text into a structured
// ParsedDocument. Extraction degrades instead of failing: malformed input
// yields empty or unknown fields, and only entirely absent input is an error.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"resumebeaver/internal/errors"
	"resumebeaver/internal/taxonomy"
	"resumebeaver/internal/types"
)

// nameScanWindow is how many leading lines are considered for the
// candidate-name heuristic.
const nameScanWindow = 10

// Hints carries optional structural information from the document-decoding
// collaborator, e.g. section headers detected during PDF/DOCX extraction.
type Hints struct {
	SectionHeaders []string
}

// Extractor produces ParsedDocuments using a shared, read-only taxonomy.
type Extractor struct {
	taxonomy *taxonomy.Taxonomy
	logger   *errors.Logger
}

// NewExtractor creates an extractor around the given taxonomy.
func NewExtractor(tax *taxonomy.Taxonomy, logger *errors.Logger) *Extractor {
	return &Extractor{taxonomy: tax, logger: logger}
}

var (
	experienceRe = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?`)

	// Bare degree abbreviations are matched case-sensitively so that common
	// words ("ms", "ba") in prose don't register as degrees.
	degreeAbbrevs = []struct {
		re    *regexp.Regexp
		level types.EducationLevel
	}{
		{regexp.MustCompile(`\bPh\.?D\b`), types.EducationDoctorate},
		{regexp.MustCompile(`\bMBA\b`), types.EducationMaster},
		{regexp.MustCompile(`\bM\.?S(?:c)?\.?\b`), types.EducationMaster},
		{regexp.MustCompile(`\bB\.?S(?:c)?\.?\b`), types.EducationBachelor},
		{regexp.MustCompile(`\bB\.?A\.?\b`), types.EducationBachelor},
	}

	degreeWords = []struct {
		re    *regexp.Regexp
		level types.EducationLevel
	}{
		{regexp.MustCompile(`(?i)\bdoctorate\b`), types.EducationDoctorate},
		{regexp.MustCompile(`(?i)\bmaster(?:'s)?\b`), types.EducationMaster},
		{regexp.MustCompile(`(?i)\bbachelor(?:'s)?\b`), types.EducationBachelor},
		{regexp.MustCompile(`(?i)\bassociate(?:'s)?\s+(?:degree|of|in)\b`), types.EducationAssociate},
	}
)

// sectionSynonyms maps surface header names to canonical section names.
// Canonical names are the ones the ATS scorer and generator use.
var sectionSynonyms = map[string]string{
	"experience":              "experience",
	"work experience":         "experience",
	"professional experience": "experience",
	"employment":              "experience",
	"employment history":      "experience",
	"work history":            "experience",
	"education":               "education",
	"academic background":     "education",
	"skills":                  "skills",
	"technical skills":        "skills",
	"core competencies":       "skills",
	"summary":                 "summary",
	"professional summary":    "summary",
	"objective":               "summary",
	"profile":                 "summary",
	"projects":                "projects",
	"certifications":          "certifications",
	"certificates":            "certifications",
	"contact":                 "contact",
	"contact information":     "contact",
}

// Extract analyzes text and returns a ParsedDocument. It fails fast only when
// the input is entirely absent; every other extraction problem degrades to an
// empty or unknown field.
func (e *Extractor) Extract(text string, hints *Hints) (types.ParsedDocument, error) {
	if strings.TrimSpace(text) == "" {
		return types.ParsedDocument{}, errors.NewValidationError(errors.ErrCodeMalformedInput,
			"Input text is empty", nil)
	}

	text = normalizeLineEndings(text)

	doc := types.ParsedDocument{
		Contact:         e.extractContact(text),
		Skills:          e.extractSkills(text),
		YearsExperience: extractYearsExperience(text),
		EducationLevel:  extractEducation(text),
		WordCount:       len(strings.Fields(text)),
		RawText:         text,
		SectionHeaders:  extractSectionHeaders(text, hints),
	}

	if e.logger != nil {
		e.logger.Debug("Document extracted",
			"word_count", doc.WordCount,
			"skills_found", doc.Skills.Total(),
			"section_headers", len(doc.SectionHeaders))
	}

	return doc, nil
}

// extractSkills runs the taxonomy over the full text and groups matches into
// the fixed category slices, each sorted for stable output.
func (e *Extractor) extractSkills(text string) types.SkillSet {
	var set types.SkillSet
	for _, m := range e.taxonomy.Lookup(text) {
		switch m.Category {
		case "languages":
			set.Languages = append(set.Languages, m.Name)
		case "frameworks":
			set.Frameworks = append(set.Frameworks, m.Name)
		case "databases":
			set.Databases = append(set.Databases, m.Name)
		case "cloud":
			set.Cloud = append(set.Cloud, m.Name)
		case "tools":
			set.Tools = append(set.Tools, m.Name)
		}
		set.All = append(set.All, m.Name)
	}

	sort.Strings(set.Languages)
	sort.Strings(set.Frameworks)
	sort.Strings(set.Databases)
	sort.Strings(set.Cloud)
	sort.Strings(set.Tools)
	sort.Strings(set.All)

	return set
}

// extractYearsExperience returns the maximum "<n>+ years" figure mentioned in
// the text, or nil when no such pattern occurs.
func extractYearsExperience(text string) *int {
	matches := experienceRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	maxYears := -1
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			continue
		}
		if n > maxYears {
			maxYears = n
		}
	}
	if maxYears < 0 {
		return nil
	}
	return &maxYears
}

// extractEducation returns the highest degree level signaled in the text.
func extractEducation(text string) types.EducationLevel {
	highest := types.EducationNone

	for _, d := range degreeWords {
		if d.re.MatchString(text) && d.level.Rank() > highest.Rank() {
			highest = d.level
		}
	}
	for _, d := range degreeAbbrevs {
		if d.re.MatchString(text) && d.level.Rank() > highest.Rank() {
			highest = d.level
		}
	}

	return highest
}

// extractSectionHeaders collects canonical section names for lines that look
// like headers, merged with any decoder-supplied hints. The result is sorted.
func extractSectionHeaders(text string, hints *Hints) []string {
	found := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		if canonical, ok := canonicalHeader(line); ok {
			found[canonical] = true
		}
	}

	if hints != nil {
		for _, h := range hints.SectionHeaders {
			if canonical, ok := canonicalHeader(h); ok {
				found[canonical] = true
			}
		}
	}

	headers := make([]string, 0, len(found))
	for h := range found {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	if len(headers) == 0 {
		return nil
	}
	return headers
}

// canonicalHeader normalizes a candidate header line and resolves it through
// the synonym table.
func canonicalHeader(line string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(line))
	normalized = strings.TrimSuffix(normalized, ":")
	normalized = strings.Join(strings.Fields(normalized), " ")

	canonical, ok := sectionSynonyms[normalized]
	return canonical, ok
}

// Sections splits text into canonical sections keyed by the same names the
// header detection produces. Lines before the first recognized header are
// ignored. Body lines keep their document order; blank lines are dropped.
func Sections(text string) map[string][]string {
	sections := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(normalizeLineEndings(text), "\n") {
		if canonical, ok := canonicalHeader(line); ok {
			current = canonical
			continue
		}
		if current == "" {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sections[current] = append(sections[current], trimmed)
		}
	}

	return sections
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
