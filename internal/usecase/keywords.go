package usecase

import (
	"skincare_service/internal/domain"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalizeText folds product text for comparison: NFC, Turkish lower case
// and single spaces. "İ" and "I" fold to "i" and "ı" as a Turkish reader
// expects.
func normalizeText(text string) string {
	lower := cases.Lower(language.Turkish).String(norm.NFC.String(text))
	return strings.Join(strings.Fields(lower), " ")
}

// MatchSkinIssue picks the issue whose catalog keywords occur most often in
// name. Ties go to the earlier label; no hit yields "".
func MatchSkinIssue(issues domain.SkinIssueRepository, name string) domain.SkinIssue {
	text := normalizeText(name)
	if text == "" {
		return ""
	}

	var best domain.SkinIssue
	bestHits := 0
	for _, issue := range domain.SkinIssues {
		hits := 0
		for _, kw := range issues.Keywords(issue) {
			if kw = normalizeText(kw); kw != "" && strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = issue, hits
		}
	}
	return best
}
