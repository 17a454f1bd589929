package schemas

// -- Canonical Pipeline Graph Data Model --

// NodeKind represents the structural role of a node in the pipeline graph.
type NodeKind string

const (
	KindSource      NodeKind = "source"      // The client entry point. Exactly one per graph; cannot be deleted.
	KindDestination NodeKind = "destination" // The terminal data store. At most one per graph; cannot be deleted.
	KindLogic       NodeKind = "logic"       // The detected API/processing layer.
	KindSecurity    NodeKind = "security"    // Security middleware (built-in, custom, or AI-generated).
)

// Position is a 2D coordinate in graph space. Screen space is derived from it
// via the viewport transform, never stored.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style carries the cosmetic rendering identity of a node. It has no
// behavioral semantics.
type Style struct {
	Color  string `json:"color"`
	Border string `json:"border"`
}

// RouteInfo is a single HTTP route detected by the analyzer and attached to
// the logic node.
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Node is a single stage in the pipeline graph.
type Node struct {
	ID             string         `json:"id"`
	Kind           NodeKind       `json:"kind"`
	Label          string         `json:"label"`
	Description    string         `json:"description"`
	DataFlow       string         `json:"data_flow"`
	Position       Position       `json:"position"`
	Style          Style          `json:"style"`
	SecurityTypeID string         `json:"security_type_id,omitempty"` // Reference into the node-type registry; empty for non-security nodes.
	Config         map[string]any `json:"config,omitempty"`
	Routes         []RouteInfo    `json:"routes,omitempty"`
	DetectedIn     string         `json:"detected_in,omitempty"`
}

// Edge is a directed data-flow connection between two node IDs.
type Edge struct {
	ID            string `json:"id"`
	From          string `json:"from"` // The ID of the source node.
	To            string `json:"to"`   // The ID of the target node.
	Encrypted     bool   `json:"encrypted"`
	DataFlowLabel string `json:"data_flow_label"`
}

// SecurityChecklist holds the five project-level security properties the
// analyzer infers independently of the node chain.
type SecurityChecklist struct {
	SSLTLS             bool `json:"ssl_tls"`
	DatabaseEncryption bool `json:"database_encryption"`
	CSRFProtection     bool `json:"csrf_protection"`
	SecurityHeaders    bool `json:"security_headers"`
	CORSConfigured     bool `json:"cors_configured"`
}

// Viewport is the pan offset and zoom factor mapping graph coordinates to
// screen coordinates. Purely a rendering transform, not part of the logical
// graph.
type Viewport struct {
	Pan  Position `json:"pan"`
	Zoom float64  `json:"zoom"`
}

// ToGraph converts a screen-space coordinate to graph space by inverting the
// pan/zoom transform.
func (v Viewport) ToGraph(screen Position) Position {
	return Position{
		X: (screen.X - v.Pan.X) / v.Zoom,
		Y: (screen.Y - v.Pan.Y) / v.Zoom,
	}
}

// ToScreen converts a graph-space coordinate to screen space.
func (v Viewport) ToScreen(graph Position) Position {
	return Position{
		X: graph.X*v.Zoom + v.Pan.X,
		Y: graph.Y*v.Zoom + v.Pan.Y,
	}
}
