package service

import (
	"fmt"
	"strings"
)

// RoadmapSystemPrompt es el mensaje de sistema para el cliente LLM que genera roadmaps.
const RoadmapSystemPrompt = "Eres un asistente que solo responde con JSON valido."

const roadmapPromptTemplate = `Eres un experto disenador de curriculos educativos. Divide la meta de aprendizaje en un roadmap de temas paso a paso.
Los temas van del mas facil al mas dificil y dejan claros sus prerequisitos.

Devuelve SOLO un arreglo JSON valido, sin texto antes ni despues y sin fences de markdown. Empieza con [ y termina con ].

Cada objeto del arreglo DEBE tener estas claves:
- "id": identificador unico en snake_case (ej: "intro_python", "data_structures_1"). No repitas ids ni temas; agrupa temas casi iguales.
- "title": nombre del tema.
- "description": descripcion breve de lo que cubre, con sub-temas separados por comas.
- "difficulty": "beginner", "intermediate" o "advanced".
- "prerequisites": ids de temas que hay que aprender antes. Arreglo vacio [] si no hay. Todo prerequisito aparece antes en el arreglo.

Ejemplo (meta "Learn Web Development"):
[
  {"id": "html_basics", "title": "HTML Basics", "description": "Structure of web pages with HTML5, elements, forms", "difficulty": "beginner", "prerequisites": []},
  {"id": "css_fundamentals", "title": "CSS Fundamentals", "description": "Selectors, properties, box model and layout", "difficulty": "beginner", "prerequisites": ["html_basics"]},
  {"id": "js_intro", "title": "Introduction to JavaScript", "description": "Variables, functions, DOM manipulation", "difficulty": "intermediate", "prerequisites": ["html_basics", "css_fundamentals"]}
]

Meta de aprendizaje: %q`

// buildRoadmapPrompt arma el prompt que pide el arreglo de temas para goal.
func buildRoadmapPrompt(goal string) string {
	return fmt.Sprintf(roadmapPromptTemplate, strings.TrimSpace(goal))
}
