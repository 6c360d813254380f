package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumebeaver/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ResumeAnalysis", &ResumeAnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeAnalysis", &ResumeAnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobAnalysis", &JobAnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "JobAnalysis", &JobAnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchResult", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResult", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "OptimizationResult", &OptimizationTextFormatter{})
	registry.RegisterFormatter("markdown", "OptimizationResult", &OptimizationMarkdownFormatter{})
	registry.RegisterFormatter("text", "GeneratedDocument", &GeneratedDocumentFormatter{})
	registry.RegisterFormatter("markdown", "GeneratedDocument", &GeneratedDocumentFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeAnalysis:
		return "ResumeAnalysis"
	case types.JobAnalysis:
		return "JobAnalysis"
	case types.MatchResult:
		return "MatchResult"
	case types.OptimizationResult:
		return "OptimizationResult"
	case types.GeneratedDocument:
		return "GeneratedDocument"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func writeSkillSet(output *strings.Builder, skills types.SkillSet, markdown bool) {
	for _, category := range skills.Categories() {
		names := skills.ByCategory(category)
		if len(names) == 0 {
			continue
		}
		if markdown {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", category, strings.Join(names, ", ")))
		} else {
			output.WriteString(fmt.Sprintf("  %s: %s\n", category, strings.Join(names, ", ")))
		}
	}
}

func yearsLabel(years *int) string {
	if years == nil {
		return "not stated"
	}
	return fmt.Sprintf("%d", *years)
}

// ResumeAnalysisTextFormatter handles text formatting for resume analysis
type ResumeAnalysisTextFormatter struct{}

func (rtf *ResumeAnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeAnalysis)
	if !ok {
		return "", fmt.Errorf("expected ResumeAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	if result.ContactInfo.Name != "" {
		output.WriteString(fmt.Sprintf("Name: %s\n", result.ContactInfo.Name))
	}
	if result.ContactInfo.Email != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", result.ContactInfo.Email))
	}
	if result.ContactInfo.Phone != "" {
		output.WriteString(fmt.Sprintf("Phone: %s\n", result.ContactInfo.Phone))
	}
	output.WriteString(fmt.Sprintf("Years of experience: %s\n", yearsLabel(result.YearsExperience)))
	output.WriteString(fmt.Sprintf("Education level: %s\n", result.EducationLevel))
	output.WriteString(fmt.Sprintf("Word count: %d\n\n", result.WordCount))

	output.WriteString(fmt.Sprintf("Skills (%d):\n", result.Skills.Total()))
	writeSkillSet(&output, result.Skills, false)
	output.WriteString("\n")

	output.WriteString("=== ATS COMPATIBILITY ===\n")
	output.WriteString(fmt.Sprintf("Score: %.1f/100\n", result.ATSScore.Score))
	if len(result.ATSScore.Issues) > 0 {
		output.WriteString("\nIssues:\n")
		for _, issue := range result.ATSScore.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\nRecommendations:\n")
		for _, rec := range result.ATSScore.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	} else {
		output.WriteString("No issues found.\n")
	}

	return output.String(), nil
}

func (rtf *ResumeAnalysisTextFormatter) SupportedType() string {
	return "ResumeAnalysis"
}

// ResumeAnalysisMarkdownFormatter handles markdown formatting for resume analysis
type ResumeAnalysisMarkdownFormatter struct{}

func (rmf *ResumeAnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeAnalysis)
	if !ok {
		return "", fmt.Errorf("expected ResumeAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	if result.ContactInfo.Name != "" {
		output.WriteString(fmt.Sprintf("**Name:** %s\n\n", result.ContactInfo.Name))
	}
	if result.ContactInfo.Email != "" {
		output.WriteString(fmt.Sprintf("**Email:** %s\n\n", result.ContactInfo.Email))
	}
	output.WriteString(fmt.Sprintf("**Years of experience:** %s\n\n", yearsLabel(result.YearsExperience)))
	output.WriteString(fmt.Sprintf("**Education level:** %s\n\n", result.EducationLevel))
	output.WriteString(fmt.Sprintf("**Word count:** %d\n\n", result.WordCount))

	output.WriteString(fmt.Sprintf("## Skills (%d)\n\n", result.Skills.Total()))
	writeSkillSet(&output, result.Skills, true)
	output.WriteString("\n")

	output.WriteString("## ATS Compatibility\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.1f/100\n\n", result.ATSScore.Score))
	if len(result.ATSScore.Issues) > 0 {
		output.WriteString("### Issues\n")
		for _, issue := range result.ATSScore.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n### Recommendations\n")
		for _, rec := range result.ATSScore.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	} else {
		output.WriteString("No issues found.\n")
	}

	return output.String(), nil
}

func (rmf *ResumeAnalysisMarkdownFormatter) SupportedType() string {
	return "ResumeAnalysis"
}

// JobAnalysisTextFormatter handles text formatting for job-description analysis
type JobAnalysisTextFormatter struct{}

func (jtf *JobAnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected JobAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB DESCRIPTION ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Years of experience required: %s\n", yearsLabel(result.YearsExperience)))
	output.WriteString(fmt.Sprintf("Word count: %d\n\n", result.WordCount))

	output.WriteString(fmt.Sprintf("Skills required (%d):\n", result.SkillsRequired.Total()))
	writeSkillSet(&output, result.SkillsRequired, false)

	return output.String(), nil
}

func (jtf *JobAnalysisTextFormatter) SupportedType() string {
	return "JobAnalysis"
}

// JobAnalysisMarkdownFormatter handles markdown formatting for job-description analysis
type JobAnalysisMarkdownFormatter struct{}

func (jmf *JobAnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobAnalysis)
	if !ok {
		return "", fmt.Errorf("expected JobAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Description Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Years of experience required:** %s\n\n", yearsLabel(result.YearsExperience)))
	output.WriteString(fmt.Sprintf("**Word count:** %d\n\n", result.WordCount))

	output.WriteString(fmt.Sprintf("## Skills Required (%d)\n\n", result.SkillsRequired.Total()))
	writeSkillSet(&output, result.SkillsRequired, true)

	return output.String(), nil
}

func (jmf *JobAnalysisMarkdownFormatter) SupportedType() string {
	return "JobAnalysis"
}

func writeMatchScores(output *strings.Builder, result types.MatchResult, markdown bool) {
	if markdown {
		output.WriteString(fmt.Sprintf("**Overall score:** %.1f/100\n\n", result.OverallScore))
		output.WriteString(fmt.Sprintf("- Skill match: %.1f\n", result.SkillScore))
		output.WriteString(fmt.Sprintf("- Keyword match: %.1f\n", result.KeywordScore))
		output.WriteString(fmt.Sprintf("- Semantic match: %.1f\n\n", result.SemanticScore))
	} else {
		output.WriteString(fmt.Sprintf("Overall score: %.1f/100\n", result.OverallScore))
		output.WriteString(fmt.Sprintf("  Skill match:    %.1f\n", result.SkillScore))
		output.WriteString(fmt.Sprintf("  Keyword match:  %.1f\n", result.KeywordScore))
		output.WriteString(fmt.Sprintf("  Semantic match: %.1f\n\n", result.SemanticScore))
	}
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MATCH ANALYSIS ===\n\n")
	writeMatchScores(&output, result, false)

	if len(result.MatchingSkills) > 0 {
		output.WriteString(fmt.Sprintf("Matching skills: %s\n", strings.Join(result.MatchingSkills, ", ")))
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString(fmt.Sprintf("Missing skills: %s\n", strings.Join(result.MissingSkills, ", ")))
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing keywords: %s\n", strings.Join(result.MissingKeywords, ", ")))
	}

	output.WriteString(fmt.Sprintf("\nRecommendation: %s\n", result.Recommendation))
	if result.SemanticFallback {
		output.WriteString("Note: semantic scoring was unavailable; a neutral score was used.\n")
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Match Analysis\n\n")
	writeMatchScores(&output, result, true)

	if len(result.MatchingSkills) > 0 {
		output.WriteString(fmt.Sprintf("**Matching skills:** %s\n\n", strings.Join(result.MatchingSkills, ", ")))
	}
	if len(result.MissingSkills) > 0 {
		output.WriteString(fmt.Sprintf("**Missing skills:** %s\n\n", strings.Join(result.MissingSkills, ", ")))
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("**Missing keywords:** %s\n\n", strings.Join(result.MissingKeywords, ", ")))
	}

	output.WriteString(fmt.Sprintf("**Recommendation:** %s\n", result.Recommendation))
	if result.SemanticFallback {
		output.WriteString("\n> Semantic scoring was unavailable; a neutral score was used.\n")
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResult"
}

// OptimizationTextFormatter handles text formatting for optimization results
type OptimizationTextFormatter struct{}

func (otf *OptimizationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== OPTIMIZATION REPORT ===\n\n")
	writeMatchScores(&output, result.MatchAnalysis, false)

	if len(result.MissingSkills) > 0 {
		output.WriteString(fmt.Sprintf("Missing skills: %s\n", strings.Join(result.MissingSkills, ", ")))
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing keywords: %s\n", strings.Join(result.MissingKeywords, ", ")))
	}
	output.WriteString("\n")

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s/%s] %s\n", i+1, s.Category, s.Priority, s.Suggestion))
			output.WriteString(fmt.Sprintf("   Impact: %s\n\n", s.Impact))
		}
	}

	if len(result.AISuggestions) > 0 {
		output.WriteString("=== AI SUGGESTIONS ===\n\n")
		for i, s := range result.AISuggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== ATS ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Score: %.1f/100\n", result.ATSAnalysis.Score))
	for _, issue := range result.ATSAnalysis.Issues {
		output.WriteString(fmt.Sprintf("- %s\n", issue))
	}

	if result.GeneratedResume != nil {
		output.WriteString("\n=== GENERATED RESUME ===\n\n")
		output.WriteString(result.GeneratedResume.Body)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (otf *OptimizationTextFormatter) SupportedType() string {
	return "OptimizationResult"
}

// OptimizationMarkdownFormatter handles markdown formatting for optimization results
type OptimizationMarkdownFormatter struct{}

func (omf *OptimizationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizationResult)
	if !ok {
		return "", fmt.Errorf("expected OptimizationResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Optimization Report\n\n")
	writeMatchScores(&output, result.MatchAnalysis, true)

	if len(result.MissingSkills) > 0 {
		output.WriteString(fmt.Sprintf("**Missing skills:** %s\n\n", strings.Join(result.MissingSkills, ", ")))
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("**Missing keywords:** %s\n\n", strings.Join(result.MissingKeywords, ", ")))
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. **%s** (%s priority): %s\n", i+1, s.Category, s.Priority, s.Suggestion))
			output.WriteString(fmt.Sprintf("   - Impact: %s\n", s.Impact))
		}
		output.WriteString("\n")
	}

	if len(result.AISuggestions) > 0 {
		output.WriteString("## AI Suggestions\n\n")
		for i, s := range result.AISuggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		output.WriteString("\n")
	}

	output.WriteString("## ATS Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.1f/100\n\n", result.ATSAnalysis.Score))
	for _, issue := range result.ATSAnalysis.Issues {
		output.WriteString(fmt.Sprintf("- %s\n", issue))
	}

	if result.GeneratedResume != nil {
		output.WriteString("\n## Generated Resume\n\n```\n")
		output.WriteString(result.GeneratedResume.Body)
		output.WriteString("\n```\n")
	}

	return output.String(), nil
}

func (omf *OptimizationMarkdownFormatter) SupportedType() string {
	return "OptimizationResult"
}

// GeneratedDocumentFormatter emits the generated resume body as-is. The body
// already carries its own structure per the requested generation format.
type GeneratedDocumentFormatter struct{}

func (gdf *GeneratedDocumentFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GeneratedDocument)
	if !ok {
		return "", fmt.Errorf("expected GeneratedDocument, got %T", data)
	}
	return result.Body + "\n", nil
}

func (gdf *GeneratedDocumentFormatter) SupportedType() string {
	return "GeneratedDocument"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
