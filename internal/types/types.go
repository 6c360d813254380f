package types

// EducationLevel is the highest degree signal detected in a document.
type EducationLevel string

const (
	EducationNone      EducationLevel = "none-detected"
	EducationAssociate EducationLevel = "associate"
	EducationBachelor  EducationLevel = "bachelor"
	EducationMaster    EducationLevel = "master"
	EducationDoctorate EducationLevel = "doctorate"
)

// Rank orders education levels so the highest detected level wins.
func (e EducationLevel) Rank() int {
	switch e {
	case EducationAssociate:
		return 1
	case EducationBachelor:
		return 2
	case EducationMaster:
		return 3
	case EducationDoctorate:
		return 4
	default:
		return 0
	}
}

// ContactInfo holds contact details extracted from a resume.
// Absent fields are empty strings; extraction never fails on them.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SkillSet holds canonical skill names grouped by the five fixed taxonomy
// categories. All is the union across categories. Slices are kept sorted so
// identical input always renders identically.
type SkillSet struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Databases  []string `json:"databases"`
	Cloud      []string `json:"cloud"`
	Tools      []string `json:"tools"`
	All        []string `json:"all"`
}

// Categories returns the category names in their fixed order.
func (s *SkillSet) Categories() []string {
	return []string{"languages", "frameworks", "databases", "cloud", "tools"}
}

// ByCategory returns the skills for a named category.
func (s *SkillSet) ByCategory(category string) []string {
	switch category {
	case "languages":
		return s.Languages
	case "frameworks":
		return s.Frameworks
	case "databases":
		return s.Databases
	case "cloud":
		return s.Cloud
	case "tools":
		return s.Tools
	default:
		return nil
	}
}

// Total returns the number of distinct skills across all categories.
func (s *SkillSet) Total() int {
	return len(s.All)
}

// ParsedDocument is the structured result of analyzing one text blob
// (a resume or a job description).
type ParsedDocument struct {
	Contact         ContactInfo    `json:"contact_info"`
	Skills          SkillSet       `json:"skills"`
	YearsExperience *int           `json:"years_experience"`
	EducationLevel  EducationLevel `json:"education_level"`
	WordCount       int            `json:"word_count"`
	RawText         string         `json:"-"`
	SectionHeaders  []string       `json:"-"`
}

// MatchResult is the output of comparing a resume against a job description.
// All scores are percentages in [0,100] rounded to one decimal place.
// MatchingSkills and MissingSkills partition the job's required-skill set.
type MatchResult struct {
	OverallScore    float64  `json:"overall_score"`
	SemanticScore   float64  `json:"semantic_match"`
	SkillScore      float64  `json:"skill_match"`
	KeywordScore    float64  `json:"keyword_match"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
	MissingKeywords []string `json:"missing_keywords"`
	Recommendation  string   `json:"recommendation"`

	// SemanticFallback is true when the semantic provider was unavailable
	// and the neutral score was substituted.
	SemanticFallback bool `json:"semantic_fallback"`
}

// ATSReport is the result of ATS-compatibility scoring. Issues and
// Recommendations are parallel, in fixed rule order.
type ATSReport struct {
	Score           float64  `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ResumeAnalysis is the response shape for resume analysis.
type ResumeAnalysis struct {
	ContactInfo     ContactInfo    `json:"contact_info"`
	Skills          SkillSet       `json:"skills"`
	YearsExperience *int           `json:"years_experience"`
	EducationLevel  EducationLevel `json:"education_level"`
	WordCount       int            `json:"word_count"`
	ATSScore        ATSReport      `json:"ats_score"`
	AIPowered       bool           `json:"ai_powered"`
}

// JobAnalysis is the response shape for job-description analysis.
type JobAnalysis struct {
	SkillsRequired  SkillSet `json:"skills_required"`
	YearsExperience *int     `json:"years_experience"`
	WordCount       int      `json:"word_count"`
}

// Suggestion is one structured improvement suggestion derived from sub-scores.
type Suggestion struct {
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// OptimizationResult is the response shape for resume optimization.
// AIPowered reflects whether the semantic provider answered or the engine
// fell back to the neutral score.
type OptimizationResult struct {
	MatchAnalysis   MatchResult  `json:"match_score"`
	MissingKeywords []string     `json:"missing_keywords"`
	MissingSkills   []string     `json:"missing_skills"`
	Suggestions     []Suggestion `json:"suggestions"`
	ATSAnalysis     ATSReport    `json:"ats_analysis"`
	AISuggestions   []string     `json:"ai_suggestions,omitempty"`
	AIPowered       bool         `json:"ai_powered"`

	// GeneratedResume is present when a generation format was requested
	// alongside the optimization.
	GeneratedResume *GeneratedDocument `json:"generated_resume,omitempty"`
}

// GeneratedDocument is a regenerated resume body in one output format.
type GeneratedDocument struct {
	Format string `json:"format"`
	Body   string `json:"body"`
}
