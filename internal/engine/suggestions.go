package engine

import (
	"fmt"
	"strings"

	"resumebeaver/internal/types"
)

// Suggestion trigger thresholds on the component scores.
const (
	skillSuggestionBelow    = 70.0
	keywordSuggestionBelow  = 60.0
	semanticSuggestionBelow = 70.0
	overallSuggestionBelow  = 50.0
)

// buildSuggestions derives structured, rule-based suggestions from the match
// scores. Order is fixed: skills, keywords, content, overall.
func buildSuggestions(result types.MatchResult) []types.Suggestion {
	suggestions := []types.Suggestion{}

	if result.SkillScore < skillSuggestionBelow && len(result.MissingSkills) > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Category: "skills",
			Priority: "high",
			Suggestion: fmt.Sprintf("Add these skills the job requires: %s",
				strings.Join(result.MissingSkills, ", ")),
			Impact: "Directly raises the skill match score recruiters filter on",
		})
	}

	if result.KeywordScore < keywordSuggestionBelow && len(result.MissingKeywords) > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Category: "keywords",
			Priority: "medium",
			Suggestion: fmt.Sprintf("Work these job-description terms into your experience bullets: %s",
				strings.Join(result.MissingKeywords, ", ")),
			Impact: "Improves keyword coverage for automated screening",
		})
	}

	if result.SemanticScore < semanticSuggestionBelow {
		suggestions = append(suggestions, types.Suggestion{
			Category:   "content",
			Priority:   "medium",
			Suggestion: "Rewrite your summary and recent roles to mirror the responsibilities in the job description",
			Impact:     "Aligns the overall narrative of the resume with the role",
		})
	}

	if result.OverallScore < overallSuggestionBelow {
		suggestions = append(suggestions, types.Suggestion{
			Category:   "overall",
			Priority:   "high",
			Suggestion: "This role differs substantially from your background; consider targeting closer roles or a major rewrite",
			Impact:     "Avoids spending effort on a low-probability application",
		})
	}

	return suggestions
}
