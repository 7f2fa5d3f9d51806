package domain

import "time"

// Niveles de dificultad aceptados para un tema.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Roadmap es el plan de aprendizaje generado para una meta.
type Roadmap struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Goal      string    `json:"goal"`
	Topics    []Topic   `json:"topics"`
	CreatedAt time.Time `json:"created_at"`
}

// Topic es un paso del roadmap. Prerequisites referencia IDs de temas anteriores.
type Topic struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    string   `json:"difficulty"`
	Prerequisites []string `json:"prerequisites"`
	Sources       []Source `json:"sources,omitempty"`
}

// Source es material de lectura asociado a un tema.
type Source struct {
	URL             string  `json:"url"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	RelevanceScore  float64 `json:"relevance_score"`
	ContextForTopic string  `json:"context_for_topic"` // título o sub-tema que originó la búsqueda
}
