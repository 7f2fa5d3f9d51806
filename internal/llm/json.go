package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// ExtractJSON saca de la respuesta de un LLM el valor JSON que trae. Acepta tanto el
// arreglo de temas como un objeto que lo envuelve ({"topics": [...]}).
// Primero descarta BOM y fences ```json. Si lo que queda no es JSON válido, busca el
// primer [ o { y corta donde se cierra, sin contar corchetes ni llaves dentro de cadenas.
// Devuelve "" si no hay ningún valor completo.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF"))
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if text != "" && json.Valid([]byte(text)) {
		return text
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return ""
	}
	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
