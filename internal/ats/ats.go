// Package ats checks a parsed resume against common applicant tracking
// system screening rules and reports a compatibility score.
package ats

import (
	"strings"

	"resumebeaver/internal/types"
)

// Screening thresholds and penalties. Rules run in a fixed order and each
// subtracts a fixed amount from a perfect score, floored at zero, so two
// resumes with the same defects always receive the same score.
const (
	perfectScore = 100.0

	minSectionHeaders = 3
	minWordCount      = 150
	maxWordCount      = 1200
	maxSpecialRatio   = 0.05
	minLineCount      = 10

	penaltyMissingEmail = 15
	penaltyMissingPhone = 10
	penaltyFewSections  = 15
	penaltyWordCount    = 10
	penaltyNoSkills     = 20
	penaltySpecialChars = 10
	penaltySparseLayout = 5
)

// specialChars are glyphs that commonly survive from styled templates and
// trip up ATS text extraction.
const specialChars = "•◦▪●★☆✓✔→⇒|~{}[]<>"

// Score evaluates doc and returns the report. Scoring is pure: the same
// document always yields the same score, issues, and recommendations.
func Score(doc types.ParsedDocument) types.ATSReport {
	score := perfectScore
	issues := []string{}
	recommendations := []string{}

	if doc.Contact.Email == "" {
		score -= penaltyMissingEmail
		issues = append(issues, "No email address found")
		recommendations = append(recommendations, "Add a professional email address near the top of the resume")
	}
	if doc.Contact.Phone == "" {
		score -= penaltyMissingPhone
		issues = append(issues, "No phone number found")
		recommendations = append(recommendations, "Add a phone number so recruiters can reach you")
	}

	if len(doc.SectionHeaders) < minSectionHeaders {
		score -= penaltyFewSections
		issues = append(issues, "Too few recognizable section headers")
		recommendations = append(recommendations, "Organize content under standard headers such as Experience, Education, and Skills")
	}

	if doc.WordCount < minWordCount || doc.WordCount > maxWordCount {
		score -= penaltyWordCount
		if doc.WordCount < minWordCount {
			issues = append(issues, "Resume is too short")
			recommendations = append(recommendations, "Expand the resume with concrete accomplishments and relevant detail")
		} else {
			issues = append(issues, "Resume is too long")
			recommendations = append(recommendations, "Trim the resume to the most relevant one to two pages of content")
		}
	}

	if doc.Skills.Total() == 0 {
		score -= penaltyNoSkills
		issues = append(issues, "No recognizable technical skills found")
		recommendations = append(recommendations, "List specific technologies and tools by name in a skills section")
	}

	if specialCharRatio(doc.RawText) > maxSpecialRatio {
		score -= penaltySpecialChars
		issues = append(issues, "Heavy use of special characters or decorative symbols")
		recommendations = append(recommendations, "Replace decorative bullets and symbols with plain text")
	}

	if doc.RawText != "" && lineCount(doc.RawText) < minLineCount {
		score -= penaltySparseLayout
		issues = append(issues, "Very few line breaks detected")
		recommendations = append(recommendations, "Break content into lines and sections instead of dense paragraphs")
	}

	if score < 0 {
		score = 0
	}

	return types.ATSReport{
		Score:           score,
		Issues:          issues,
		Recommendations: recommendations,
	}
}

func specialCharRatio(text string) float64 {
	if text == "" {
		return 0
	}
	special := 0
	total := 0
	for _, r := range text {
		total++
		if strings.ContainsRune(specialChars, r) {
			special++
		}
	}
	return float64(special) / float64(total)
}

func lineCount(text string) int {
	return len(strings.Split(strings.TrimSpace(text), "\n"))
}
