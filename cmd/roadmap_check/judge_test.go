package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/llm"
)

func sampleRoadmap() domain.Roadmap {
	return domain.Roadmap{
		Goal: "Calculus",
		Topics: []domain.Topic{
			{ID: "limits", Title: "Limits", Description: "epsilon-delta", Difficulty: domain.DifficultyBeginner, Prerequisites: []string{}},
			{ID: "derivatives", Title: "Derivatives", Description: "chain rule", Difficulty: domain.DifficultyIntermediate, Prerequisites: []string{"limits"}},
			{ID: "integrals", Title: "Integrals", Description: "riemann sums", Difficulty: domain.DifficultyAdvanced, Prerequisites: []string{"derivatives"}},
		},
	}
}

func TestStructuralIssues(t *testing.T) {
	assert.Empty(t, structuralIssues(sampleRoadmap()))

	rm := sampleRoadmap()
	rm.Topics = append(rm.Topics, domain.Topic{ID: "notation", Title: "Notation", Difficulty: domain.DifficultyBeginner})
	issues := structuralIssues(rm)
	require.Len(t, issues, 2, "regression and missing description")
	assert.Contains(t, issues[0], "notation")

	short := domain.Roadmap{Topics: []domain.Topic{{ID: "a", Description: "x", Prerequisites: []string{"b"}}}}
	assert.Len(t, structuralIssues(short), 2, "short roadmap and first-topic prerequisite")
}

func TestConceptCoverage(t *testing.T) {
	found, total := conceptCoverage(sampleRoadmap(), []string{"limit", "Derivative", "series"})
	assert.Equal(t, 2, found)
	assert.Equal(t, 3, total)
}

func TestClamp1to5(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 5: 5, 10: 5}
	for in, want := range cases {
		assert.Equal(t, want, clamp1to5(in), "clamp1to5(%d)", in)
	}
}

func TestEvaluateRoadmap(t *testing.T) {
	sc := Scenario{Goal: "Calculus", ExpectedConcepts: []string{"limit"}}

	t.Run("scores are clamped", func(t *testing.T) {
		judge := &llm.MockClient{Response: "```json\n{\"reasoning\":\"ok\",\"coverage_score\":9,\"progression_score\":0}\n```"}
		jr, err := evaluateRoadmap(context.Background(), judge, sc, sampleRoadmap())
		require.NoError(t, err)
		assert.Equal(t, 5, jr.CoverageScore)
		assert.Equal(t, 1, jr.ProgressionScore)
		require.Len(t, judge.Prompts, 1)
		assert.Contains(t, judge.Prompts[0], `"Calculus"`)
		assert.Contains(t, judge.Prompts[0], "conceptos_esperados=1/1")
	})

	t.Run("braces inside reasoning", func(t *testing.T) {
		judge := &llm.MockClient{Response: "Evaluación:\n{\"reasoning\":\"usa {limites} y } sueltos\",\"coverage_score\":4,\"progression_score\":4}\nfin"}
		jr, err := evaluateRoadmap(context.Background(), judge, sc, sampleRoadmap())
		require.NoError(t, err)
		assert.Equal(t, "usa {limites} y } sueltos", jr.Reasoning)
		assert.Equal(t, 4, jr.CoverageScore)
	})

	t.Run("structural issues cap progression", func(t *testing.T) {
		judge := &llm.MockClient{Response: `{"reasoning":"bien","coverage_score":4,"progression_score":5}`}
		rm := sampleRoadmap()
		rm.Topics = rm.Topics[:1]
		jr, err := evaluateRoadmap(context.Background(), judge, sc, rm)
		require.NoError(t, err)
		assert.Equal(t, 2, jr.ProgressionScore)
		assert.Equal(t, 4, jr.CoverageScore)
	})

	t.Run("missing concepts cap coverage", func(t *testing.T) {
		judge := &llm.MockClient{Response: `{"reasoning":"bien","coverage_score":5,"progression_score":5}`}
		jr, err := evaluateRoadmap(context.Background(), judge, Scenario{Goal: "Calculus", ExpectedConcepts: []string{"topology"}}, sampleRoadmap())
		require.NoError(t, err)
		assert.Equal(t, 2, jr.CoverageScore)
		assert.Equal(t, 5, jr.ProgressionScore)
	})

	t.Run("non json judge", func(t *testing.T) {
		judge := &llm.MockClient{Response: "no puedo evaluar"}
		_, err := evaluateRoadmap(context.Background(), judge, sc, sampleRoadmap())
		assert.Error(t, err)
	})

	t.Run("array instead of object", func(t *testing.T) {
		judge := &llm.MockClient{Response: `[{"coverage_score":5}]`}
		_, err := evaluateRoadmap(context.Background(), judge, sc, sampleRoadmap())
		assert.Error(t, err)
	})
}
