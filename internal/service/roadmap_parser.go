package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/llm"
)

var errNoJSON = errors.New("no json value in llm response")

type llmTopic struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    string   `json:"difficulty"`
	Prerequisites []string `json:"prerequisites"`
}

// parseRoadmapTopics lee el arreglo de temas de la respuesta cruda del LLM.
// Acepta fences, texto alrededor y el arreglo envuelto en {"topics": [...]}.
func parseRoadmapTopics(raw string) ([]llmTopic, error) {
	candidate := llm.ExtractJSON(raw)
	if candidate == "" {
		return nil, errNoJSON
	}

	if strings.HasPrefix(candidate, "{") {
		var wrapped struct {
			Topics []llmTopic `json:"topics"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapped); err != nil {
			return nil, fmt.Errorf("unmarshal topics object: %w", err)
		}
		return wrapped.Topics, nil
	}

	var topics []llmTopic
	if err := json.Unmarshal([]byte(candidate), &topics); err != nil {
		return nil, fmt.Errorf("unmarshal topics array: %w", err)
	}
	return topics, nil
}

var difficultyAliases = map[string]string{
	"beginner":     domain.DifficultyBeginner,
	"basic":        domain.DifficultyBeginner,
	"easy":         domain.DifficultyBeginner,
	"novice":       domain.DifficultyBeginner,
	"intermediate": domain.DifficultyIntermediate,
	"medium":       domain.DifficultyIntermediate,
	"advanced":     domain.DifficultyAdvanced,
	"hard":         domain.DifficultyAdvanced,
	"expert":       domain.DifficultyAdvanced,
}

func normalizeDifficulty(d string) string {
	if v, ok := difficultyAliases[strings.ToLower(strings.TrimSpace(d))]; ok {
		return v
	}
	return domain.DifficultyIntermediate
}

// normalizeTopics deja el roadmap consistente: sin temas sin id o título, ids únicos
// (gana el primero) y prerequisitos que solo apuntan a temas anteriores.
func normalizeTopics(in []llmTopic) []domain.Topic {
	out := make([]domain.Topic, 0, len(in))
	seen := make(map[string]bool, len(in))

	for _, t := range in {
		id := strings.TrimSpace(t.ID)
		title := strings.TrimSpace(t.Title)
		if id == "" || title == "" || seen[id] {
			continue
		}

		prereqs := make([]string, 0, len(t.Prerequisites))
		seenPrereq := make(map[string]bool, len(t.Prerequisites))
		for _, p := range t.Prerequisites {
			p = strings.TrimSpace(p)
			if !seen[p] || seenPrereq[p] {
				continue
			}
			seenPrereq[p] = true
			prereqs = append(prereqs, p)
		}

		seen[id] = true
		out = append(out, domain.Topic{
			ID:            id,
			Title:         title,
			Description:   strings.TrimSpace(t.Description),
			Difficulty:    normalizeDifficulty(t.Difficulty),
			Prerequisites: prereqs,
		})
	}
	return out
}
