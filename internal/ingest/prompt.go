package ingest

import (
	"fmt"
	"strings"

	"edukoder/internal/models"
)

const systemPrompt = "Eres el redactor técnico de EduKoder, un sitio educativo de programación en español. " +
	"Respondes únicamente con JSON válido, sin explicaciones ni texto fuera del JSON."

const tutorialSchema = `{"title": string, "excerpt": string (máximo 160 caracteres), ` +
	`"explain": string (explicación paso a paso), "content": string (fragmento de código ejecutable), ` +
	`"language": "javascript" | "python" | "html" | "css" | "ts" | "node", "tags": string[]}`

const articleSchema = `{"title": string, "excerpt": string (máximo 160 caracteres), ` +
	`"content": string (cuerpo en HTML usando <h2>, <p>, <ul> y <pre><code>), "tags": string[]}`

// buildPrompts returns the system and user prompts for a generative
// provider. An override replaces the topic instruction; the schema and the
// exact item count are always demanded.
func buildPrompts(kind models.ContentKind, limit int, override string) (string, string) {
	var topic, schema string
	switch kind {
	case models.KindArticles:
		topic = "Escribe artículos de blog originales en español sobre programación, " +
			"desarrollo web y buenas prácticas, pensados para principiantes e intermedios."
		schema = articleSchema
	default:
		topic = "Genera minitutoriales de programación en español, breves y prácticos, " +
			"variando lenguajes y niveles de dificultad."
		schema = tutorialSchema
	}
	if o := strings.TrimSpace(override); o != "" {
		topic = o
	}

	user := fmt.Sprintf("%s\n\nDevuelve un array JSON con exactamente %d objetos. "+
		"Cada objeto debe seguir este esquema:\n%s\n\nNo incluyas texto fuera del array JSON.",
		topic, limit, schema)
	return systemPrompt, user
}
