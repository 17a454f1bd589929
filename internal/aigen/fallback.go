package aigen

import (
	"strings"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

// aiStyle is the shared cosmetic identity for AI-generated node types.
var aiStyle = schemas.Style{Color: "#ec4899", Border: "dashed"}

const maxFallbackLabel = 40

// Fallback synthesizes a placeholder node type locally from the user's
// prompt. It is the degraded-but-functional answer used whenever the AI
// endpoint is unavailable, misbehaving, or not configured.
func Fallback(prompt string) schemas.NodeTypeDefinition {
	label := strings.TrimSpace(prompt)
	if label == "" {
		label = "Custom Security Node"
	}
	if runes := []rune(label); len(runes) > maxFallbackLabel {
		label = strings.TrimSpace(string(runes[:maxFallbackLabel])) + "..."
	}

	return schemas.NodeTypeDefinition{
		Label:       label,
		Description: "Custom security middleware generated from your description. The AI service was unavailable, so this is a locally synthesized placeholder.",
		CodeTemplate: `// ` + label + `
app.use((req, res, next) => {
  // TODO: implement the middleware described above.
  next();
});`,
		Style:  aiStyle,
		Origin: schemas.OriginAIGenerated,
	}
}
