package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

// detectedIn tags every node inferred from the supplied corpus.
const detectedIn = "project files"

// Horizontal chain layout constants. Graph space, not screen space.
const (
	layoutStartX = 120.0
	layoutStepX  = 220.0
	layoutY      = 260.0
)

// Result is the fully-formed initial graph produced by one analysis pass.
type Result struct {
	Nodes     []schemas.Node
	Edges     []schemas.Edge
	Checklist schemas.SecurityChecklist
}

// Analyzer infers an application's data-flow topology from a bag of project
// source files using lexical pattern matching. It is a heuristic summarizer,
// not a verifier: false positives and negatives are expected.
type Analyzer struct {
	log *zap.Logger
}

// New creates an Analyzer.
func New(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{log: logger.Named("analyzer")}
}

// Analyze maps a path -> source map to an initial pipeline graph plus the
// five-flag security checklist. An empty input is a valid "awaiting data"
// state, answered with the fixed placeholder graph.
func (a *Analyzer) Analyze(files map[string]string) Result {
	if len(files) == 0 {
		a.log.Debug("Empty file map; returning placeholder graph")
		return placeholderResult()
	}

	corpus := buildCorpus(files)
	d := detect(corpus)

	a.log.Debug("Detection pass complete",
		zap.Int("files", len(files)),
		zap.String("database", d.dbKind),
		zap.Int("routes", len(d.routes)))

	return buildChain(d)
}

// buildCorpus concatenates file contents in deterministic path order so that
// repeated runs over the same map behave identically.
func buildCorpus(files map[string]string) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString(files[p])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// NormalizeFiles accepts the loosely-shaped input the surrounding file
// collaborator supplies: values may be plain strings or wrapper objects
// exposing content/code/source. Anything else is dropped.
func NormalizeFiles(raw map[string]any) map[string]string {
	files := make(map[string]string, len(raw))
	for path, v := range raw {
		switch val := v.(type) {
		case string:
			files[path] = val
		case map[string]any:
			for _, key := range []string{"content", "code", "source"} {
				if s, ok := val[key].(string); ok {
					files[path] = s
					break
				}
			}
		}
	}
	return files
}

// placeholderResult is the deliberate "awaiting data" graph: client, a
// loading API node, and a loading database node, with all checklist flags
// false.
func placeholderResult() Result {
	nodes := []schemas.Node{
		clientNode(0),
		{
			ID:          "api-layer",
			Kind:        schemas.KindLogic,
			Label:       "API Layer",
			Description: "Waiting for project files to analyze.",
			DataFlow:    "No data flow detected yet.",
			Position:    chainPosition(1),
			Style:       schemas.Style{Color: "#64748b", Border: "dashed"},
		},
		{
			ID:          "database",
			Kind:        schemas.KindDestination,
			Label:       "Database",
			Description: "Waiting for project files to analyze.",
			DataFlow:    "No data flow detected yet.",
			Position:    chainPosition(2),
			Style:       schemas.Style{Color: "#64748b", Border: "dashed"},
		},
	}
	edges := []schemas.Edge{
		newEdge(nodes[0], nodes[1], false),
		newEdge(nodes[1], nodes[2], false),
	}
	return Result{Nodes: nodes, Edges: edges}
}

// buildChain constructs the node chain in the fixed order
// client -> [rate-limiter] -> [auth] -> [sanitizer] -> [validator] ->
// api-layer -> [encryptor] -> database, skipping stages whose capability was
// not detected.
func buildChain(d detection) Result {
	var nodes []schemas.Node

	push := func(n schemas.Node) {
		n.Position = chainPosition(len(nodes))
		nodes = append(nodes, n)
	}

	push(clientNode(0))

	if d.hits[DetectRateLimit] {
		push(securityNode(schemas.TypeRateLimiter, "Rate Limiter",
			"Throttles repeated requests from a single origin before they reach the API.",
			"All inbound requests, counted per client window."))
	}
	if d.hits[DetectJWT] || d.hits[DetectOAuth] || d.hits[DetectPassHash] {
		push(securityNode(schemas.TypeAuth, "Authentication",
			authDescription(d),
			"Credentials and session tokens attached to each request."))
	}
	if d.hits[DetectSanitization] {
		push(securityNode(schemas.TypeSanitizer, "Input Sanitizer",
			"Strips markup and dangerous characters from user-supplied input.",
			"Raw user input fields before they reach business logic."))
	}
	if d.hits[DetectValidation] {
		push(securityNode(schemas.TypeValidator, "Schema Validator",
			"Validates request payloads against declared schemas and rejects malformed data.",
			"Structured request bodies and query parameters."))
	}

	push(apiNode(d))

	hasEncryptor := d.hits[DetectEncryption]
	if hasEncryptor {
		push(securityNode(schemas.TypeEncryptor, "Encryption Layer",
			"Encrypts sensitive fields before they are written to storage.",
			"Records flagged as sensitive on their way to the data store."))
	}

	if d.dbKind != "" {
		push(databaseNode(d.dbKind))
	}

	edges := make([]schemas.Edge, 0, len(nodes)-1)
	encrypted := false
	for i := 0; i < len(nodes)-1; i++ {
		// Data past the encryption stage is considered protected. Set at
		// creation time only; later edits do not recompute this.
		if nodes[i].SecurityTypeID == schemas.TypeEncryptor {
			encrypted = true
		}
		edges = append(edges, newEdge(nodes[i], nodes[i+1], encrypted))
	}

	return Result{
		Nodes: nodes,
		Edges: edges,
		Checklist: schemas.SecurityChecklist{
			SSLTLS:             d.hits[DetectHTTPS],
			DatabaseEncryption: d.hits[DetectEncryption],
			CSRFProtection:     d.hits[DetectCSRF],
			SecurityHeaders:    d.hits[DetectSecHeaders],
			CORSConfigured:     d.hits[DetectCORS],
		},
	}
}

func chainPosition(index int) schemas.Position {
	return schemas.Position{X: layoutStartX + float64(index)*layoutStepX, Y: layoutY}
}

func clientNode(index int) schemas.Node {
	return schemas.Node{
		ID:          "client",
		Kind:        schemas.KindSource,
		Label:       "Client",
		Description: "The browser or app where users interact with the product.",
		DataFlow:    "User actions, form submissions, and page requests.",
		Position:    chainPosition(index),
		Style:       schemas.Style{Color: "#3b82f6", Border: "solid"},
	}
}

func securityNode(typeID, label, description, dataFlow string) schemas.Node {
	return schemas.Node{
		ID:             typeID,
		Kind:           schemas.KindSecurity,
		Label:          label,
		Description:    description,
		DataFlow:       dataFlow,
		SecurityTypeID: typeID,
		Config:         schemas.DefaultConfig(typeID),
		Style:          schemas.Style{Color: "#10b981", Border: "solid"},
		DetectedIn:     detectedIn,
	}
}

func apiNode(d detection) schemas.Node {
	n := schemas.Node{
		ID:          "api-layer",
		Kind:        schemas.KindLogic,
		Label:       "API Layer",
		Description: apiDescription(d),
		DataFlow:    "Validated requests dispatched to route handlers.",
		Style:       schemas.Style{Color: "#8b5cf6", Border: "solid"},
		DetectedIn:  detectedIn,
	}
	for _, r := range d.routes {
		n.Routes = append(n.Routes, schemas.RouteInfo{Method: r.method, Path: r.path})
	}
	return n
}

func databaseNode(kind string) schemas.Node {
	return schemas.Node{
		ID:          "database",
		Kind:        schemas.KindDestination,
		Label:       fmt.Sprintf("%s Database", kind),
		Description: fmt.Sprintf("Persistent storage backed by a %s driver detected in the project.", kind),
		DataFlow:    "Application records read and written by the API layer.",
		Style:       schemas.Style{Color: "#f59e0b", Border: "solid"},
		DetectedIn:  detectedIn,
	}
}

func newEdge(from, to schemas.Node, encrypted bool) schemas.Edge {
	return schemas.Edge{
		ID:            fmt.Sprintf("edge-%s-%s", from.ID, to.ID),
		From:          from.ID,
		To:            to.ID,
		Encrypted:     encrypted,
		DataFlowLabel: edgeLabel(from, to, encrypted),
	}
}
