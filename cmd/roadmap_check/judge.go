package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/llm"
)

// Scenario es una meta de prueba con los conceptos que un buen roadmap debería cubrir.
type Scenario struct {
	Goal             string
	ExpectedConcepts []string
}

// judgeResponse es la evaluación estructurada que devuelve el juez.
type judgeResponse struct {
	Reasoning        string `json:"reasoning"`
	CoverageScore    int    `json:"coverage_score"`
	ProgressionScore int    `json:"progression_score"`
}

var difficultyRank = map[string]int{
	domain.DifficultyBeginner:     0,
	domain.DifficultyIntermediate: 1,
	domain.DifficultyAdvanced:     2,
}

func evaluateRoadmap(ctx context.Context, judge llm.LLMClient, sc Scenario, rm domain.Roadmap) (judgeResponse, error) {
	issues := structuralIssues(rm)
	found, total := conceptCoverage(rm, sc.ExpectedConcepts)

	heuristicLine := fmt.Sprintf(
		"Indicadores heuristicos: conceptos_esperados=%d/%d, problemas_estructurales=%q",
		found, total, issues,
	)

	raw, err := judge.Generate(ctx, buildJudgePrompt(sc.Goal, formatTopics(rm.Topics), heuristicLine))
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := llm.ExtractJSON(raw)
	if !strings.HasPrefix(jsonStr, "{") {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q)", err, jsonStr)
	}

	jr.CoverageScore = clamp1to5(jr.CoverageScore)
	jr.ProgressionScore = clamp1to5(jr.ProgressionScore)

	// Un roadmap con saltos de dificultad no puede tener buena progresión.
	if len(issues) > 0 && jr.ProgressionScore > 2 {
		jr.ProgressionScore = 2
	}
	if total > 0 && found == 0 && jr.CoverageScore > 2 {
		jr.CoverageScore = 2
	}

	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// structuralIssues detecta problemas que no dependen del juez.
func structuralIssues(rm domain.Roadmap) []string {
	var issues []string
	if len(rm.Topics) < 3 {
		issues = append(issues, fmt.Sprintf("solo %d temas", len(rm.Topics)))
	}
	if len(rm.Topics) > 0 && len(rm.Topics[0].Prerequisites) > 0 {
		issues = append(issues, "el primer tema tiene prerequisitos")
	}

	maxRank := 0
	for _, t := range rm.Topics {
		rank := difficultyRank[t.Difficulty]
		if maxRank-rank >= 2 {
			issues = append(issues, fmt.Sprintf("%q es %s despues de un tema advanced", t.ID, t.Difficulty))
		}
		if rank > maxRank {
			maxRank = rank
		}
		if strings.TrimSpace(t.Description) == "" {
			issues = append(issues, fmt.Sprintf("%q sin descripcion", t.ID))
		}
	}
	return issues
}

// conceptCoverage cuenta cuántos conceptos esperados aparecen en títulos o descripciones.
func conceptCoverage(rm domain.Roadmap, expected []string) (int, int) {
	var text strings.Builder
	for _, t := range rm.Topics {
		text.WriteString(strings.ToLower(t.Title))
		text.WriteString(" ")
		text.WriteString(strings.ToLower(t.Description))
		text.WriteString(" ")
	}
	haystack := text.String()

	found := 0
	for _, c := range expected {
		if strings.Contains(haystack, strings.ToLower(c)) {
			found++
		}
	}
	return found, len(expected)
}

func formatTopics(topics []domain.Topic) string {
	var b strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&b, "%d. [%s] %s (%s)", i+1, t.ID, t.Title, t.Difficulty)
		if len(t.Prerequisites) > 0 {
			fmt.Fprintf(&b, " requiere: %s", strings.Join(t.Prerequisites, ", "))
		}
		fmt.Fprintf(&b, "\n   %s\n", t.Description)
	}
	return b.String()
}

func buildJudgePrompt(goal, topics, heuristicLine string) string {
	return fmt.Sprintf(
		`Eres un juez experto en diseño curricular que evalua roadmaps de aprendizaje.

Meta del estudiante: %q

Roadmap generado:
%s
%s

Evalua (1-5):
1) Cobertura: ¿Los temas cubren lo necesario para alcanzar la meta, sin relleno?
2) Progresion: ¿El orden va de lo basico a lo avanzado y los prerequisitos tienen sentido?

Reglas extra:
- Si hay problemas_estructurales => Progresion maximo 2/5.
- Temas repetidos o genericos restan cobertura.

Responde SOLO JSON (sin markdown):
{
  "reasoning": "...",
  "coverage_score": 0,
  "progression_score": 0
}`,
		goal, topics, heuristicLine,
	)
}
