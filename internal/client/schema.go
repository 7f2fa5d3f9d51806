package client

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// roadmapSchema describe la respuesta que devuelve /generate-roadmap.
const roadmapSchema = `{
  "type": "object",
  "required": ["goal", "topics"],
  "properties": {
    "id": {"type": "string"},
    "user_id": {"type": "string"},
    "goal": {"type": "string"},
    "topics": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "difficulty", "prerequisites"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
          "prerequisites": {"type": "array", "items": {"type": "string"}},
          "sources": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["url"],
              "properties": {
                "url": {"type": "string"},
                "relevance_score": {"type": "number"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledRoadmapSchema = mustCompileSchema(roadmapSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile roadmap schema: %v", err))
	}
	return s
}

// validateRoadmapBody valida body contra el esquema de roadmap.
func validateRoadmapBody(body []byte) error {
	result, err := compiledRoadmapSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema violation: %s", strings.Join(errs, "; "))
	}
	return nil
}
