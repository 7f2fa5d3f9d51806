package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"goal-roadmap/internal/cache"
	"goal-roadmap/internal/llm"
	"goal-roadmap/internal/repository"
	"goal-roadmap/internal/service"
	"goal-roadmap/internal/sources"
)

const (
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// checkConfig es lo mínimo para correr la evaluación sin base de datos.
type checkConfig struct {
	LLMAPIKey       string        `env:"LLM_API_KEY,required"`
	LLMBaseURL      string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel        string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	JudgeModel      string        `env:"JUDGE_MODEL"`
	SourcesEnabled  bool          `env:"SOURCES_ENABLED" envDefault:"false"`
	WikipediaAPIURL string        `env:"WIKIPEDIA_API_URL" envDefault:"https://en.wikipedia.org/w/api.php"`
	WikipediaDelay  time.Duration `env:"WIKIPEDIA_DELAY" envDefault:"100ms"`
	SourcesTimeout  time.Duration `env:"SOURCES_TIMEOUT" envDefault:"20s"`
}

var scenarios = []Scenario{
	{Goal: "Learn Python", ExpectedConcepts: []string{"variable", "function", "loop", "class"}},
	{Goal: "Calculus", ExpectedConcepts: []string{"limit", "derivative", "integral"}},
	{Goal: "Aprender SQL", ExpectedConcepts: []string{"select", "join", "index"}},
	{Goal: "Quantum Mechanics", ExpectedConcepts: []string{"wave", "operator", "spin"}},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	var cfg checkConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger).
		WithSystemPrompt(service.RoadmapSystemPrompt)
	var judge llm.LLMClient = llmClient
	if cfg.JudgeModel != "" {
		judge = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.JudgeModel, logger)
	}

	var finder service.SourceFinder
	if cfg.SourcesEnabled {
		finder = sources.NewFinder(logger, sources.NewWikipediaClient(logger, cfg.WikipediaAPIURL, cfg.WikipediaDelay))
	}

	roadmapSvc := service.NewRoadmapService(
		logger,
		llmClient,
		repository.NewMemoryRoadmapRepository(),
		cache.NewMemoryTopicCache(time.Hour),
		finder,
	).WithSourceBudget(cfg.SourcesTimeout)

	var totalCov, totalProg, evaluated int
	for _, sc := range scenarios {
		fmt.Printf("%s[Meta]%s %s\n", colorCyan, colorReset, sc.Goal)

		rm, err := roadmapSvc.Generate(ctx, sc.Goal, "roadmap-check")
		if err != nil {
			fmt.Printf("%s[Error]%s %v\n\n", colorYellow, colorReset, err)
			continue
		}
		fmt.Printf("%s[Roadmap]%s\n%s", colorGreen, colorReset, formatTopics(rm.Topics))

		for _, issue := range structuralIssues(rm) {
			fmt.Printf("%s  ! %s%s\n", colorYellow, issue, colorReset)
		}

		jr, err := evaluateRoadmap(ctx, judge, sc, rm)
		if err != nil {
			log.Fatalf("judge failed: %v", err)
		}

		fmt.Printf("%sJuez%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Cobertura %d/5 | Progresion %d/5\n\n", jr.CoverageScore, jr.ProgressionScore)

		totalCov += jr.CoverageScore
		totalProg += jr.ProgressionScore
		evaluated++
	}

	if evaluated == 0 {
		log.Fatal("no roadmap could be evaluated")
	}
	fmt.Println("==== Promedios ====")
	fmt.Printf("Cobertura: %.2f/5 | Progresion: %.2f/5 (%d/%d metas)\n",
		float64(totalCov)/float64(evaluated), float64(totalProg)/float64(evaluated), evaluated, len(scenarios))
}
