package analyzer

import (
	"fmt"
	"strings"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

// The analyzer annotates every node and edge with template-based natural
// language derived from which detectors fired. The text is descriptive
// prose for humans and downstream AI consumption, never executed code.

func authDescription(d detection) string {
	var idioms []string
	if d.hits[DetectJWT] {
		idioms = append(idioms, "JWT tokens")
	}
	if d.hits[DetectOAuth] {
		idioms = append(idioms, "OAuth flows")
	}
	if d.hits[DetectPassHash] {
		idioms = append(idioms, "hashed credentials")
	}
	if len(idioms) == 0 {
		return "Verifies request identity before the API processes it."
	}
	return fmt.Sprintf("Verifies request identity using %s detected in the project.",
		strings.Join(idioms, ", "))
}

func apiDescription(d detection) string {
	if len(d.routes) == 0 {
		return "Server-side processing layer. No explicit route declarations were detected; requests are handled by application logic."
	}
	return fmt.Sprintf("Server-side processing layer exposing %d detected route(s).", len(d.routes))
}

func edgeLabel(from, to schemas.Node, encrypted bool) string {
	base := fmt.Sprintf("Data flowing from %s to %s", from.Label, to.Label)
	if encrypted {
		return base + " (encrypted)"
	}
	return base
}
