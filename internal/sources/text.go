package sources

import (
	"regexp"
	"strings"
)

var titlePrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Introduction to `),
	regexp.MustCompile(`(?i)^The `),
	regexp.MustCompile(`(?i)^An `),
	regexp.MustCompile(`(?i)^A `),
	regexp.MustCompile(`(?i)^Fundamentals of `),
	regexp.MustCompile(`(?i)^Basics of `),
	regexp.MustCompile(`(?i)^Advanced `),
	regexp.MustCompile(`(?i)^Concepts of `),
}

var fillerKeywords = map[string]bool{
	"etc": true, "and so on": true, "such as": true, "e.g.": true, "i.e.": true,
	"or": true, "introduction": true, "basics": true, "advanced": true,
}

var (
	keywordSplit   = regexp.MustCompile(`[;,]\s*|\s+and\s+`)
	trailingPunct  = regexp.MustCompile(`[).\s]+$`)
	leadingParen   = regexp.MustCompile(`^\s*\(`)
	singularExempt = []string{"ics", "esis", "us"}
)

// CleanTopicTitle quita prefijos comunes y un plural simple:
// "Introduction to HTML" -> "HTML", "Matrices" -> "Matrice".
func CleanTopicTitle(title string) string {
	cleaned := title
	for _, re := range titlePrefixes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	lower := strings.ToLower(cleaned)
	if strings.HasSuffix(lower, "s") && len(cleaned) > 2 && !strings.HasSuffix(lower, "ss") {
		exempt := false
		for _, suffix := range singularExempt {
			if strings.HasSuffix(lower, suffix) {
				exempt = true
				break
			}
		}
		if !exempt {
			cleaned = cleaned[:len(cleaned)-1]
		}
	}
	return cleaned
}

// ExtractKeywords saca sub-temas de una descripción separada por comas, punto y coma o "and".
// El resultado no tiene repetidos y conserva el orden de aparición.
func ExtractKeywords(description string) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(part string) {
		part = strings.TrimSpace(part)
		part = trailingPunct.ReplaceAllString(part, "")
		part = leadingParen.ReplaceAllString(part, "")
		part = strings.TrimSpace(part)
		if len(part) <= 3 || seen[part] {
			return
		}
		if fillerKeywords[strings.ToLower(part)] || len(strings.Fields(part)) > 5 {
			return
		}
		seen[part] = true
		keywords = append(keywords, part)
	}

	for _, part := range keywordSplit.Split(description, -1) {
		add(part)
	}

	if idx := strings.Index(description, ":"); idx >= 0 {
		postColon := strings.TrimSpace(description[idx+1:])
		for _, part := range keywordSplit.Split(postColon, -1) {
			add(part)
		}
	}
	return keywords
}
