package extract

import (
	"regexp"
	"strings"

	"resumebeaver/internal/types"
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_-]+)`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/([A-Za-z0-9-]+)`)
	digitRe    = regexp.MustCompile(`[0-9]`)
)

// extractContact pulls contact details out of the text. First match wins for
// each field; fields with no structurally plausible match stay empty.
func (e *Extractor) extractContact(text string) types.ContactInfo {
	contact := types.ContactInfo{
		Name: extractName(text),
	}

	if m := emailRe.FindString(text); m != "" {
		contact.Email = m
	}

	if m := phoneRe.FindString(text); m != "" {
		if normalized := normalizePhone(m); normalized != "" {
			contact.Phone = normalized
		}
	}

	if m := linkedinRe.FindStringSubmatch(text); m != nil {
		contact.LinkedIn = "https://linkedin.com/in/" + m[1]
	}

	if m := githubRe.FindStringSubmatch(text); m != nil {
		contact.GitHub = "https://github.com/" + m[1]
	}

	return contact
}

// normalizePhone reduces a tolerated phone format to (XXX) XXX-XXXX using the
// last ten digits. Fewer than ten digits is not plausible and is dropped.
func normalizePhone(raw string) string {
	var digits []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) < 10 {
		return ""
	}

	d := string(digits[len(digits)-10:])
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// extractName applies the candidate-name heuristic: the first line within the
// scan window that is short, contains no digits and is not a section header.
// Returns "unknown" when no line qualifies.
func extractName(text string) string {
	lines := strings.Split(text, "\n")
	scanned := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned++; scanned > nameScanWindow {
			break
		}

		if len(strings.Fields(line)) > 5 {
			continue
		}
		if digitRe.MatchString(line) {
			continue
		}
		if _, isHeader := canonicalHeader(line); isHeader {
			continue
		}
		// Lines carrying contact details are not names.
		if strings.ContainsAny(line, "@|") {
			continue
		}

		return line
	}

	return "unknown"
}
