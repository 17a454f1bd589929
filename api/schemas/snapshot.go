package schemas

// PipelineStage is one entry in the ordered pipeline snapshot, from source to
// terminus.
type PipelineStage struct {
	NodeID         string         `json:"node_id"`
	Kind           NodeKind       `json:"kind"`
	Label          string         `json:"label"`
	SecurityTypeID string         `json:"security_type_id,omitempty"`
	Config         map[string]any `json:"config,omitempty"`
	CodeTemplate   string         `json:"code_template,omitempty"`
}

// PipelineSummary flags which security capabilities are present anywhere in
// the serialized chain.
type PipelineSummary struct {
	HasAuth         bool `json:"has_auth"`
	HasSanitizer    bool `json:"has_sanitizer"`
	HasValidator    bool `json:"has_validator"`
	HasEncryption   bool `json:"has_encryption"`
	HasRateLimiting bool `json:"has_rate_limiting"`
}

// PipelineSnapshot is the derived, read-only serialization of the live graph.
// It is recomputed whenever the editor's version counter increments and has
// no independent lifecycle.
type PipelineSnapshot struct {
	Version   uint64            `json:"version"`
	Stages    []PipelineStage   `json:"stages"`
	Summary   PipelineSummary   `json:"summary"`
	Checklist SecurityChecklist `json:"checklist"`
}

// -- AI Node Generation Wire Schemas --

// GenerateRequest is the payload POSTed to the AI node-generation endpoint.
type GenerateRequest struct {
	Prompt        string   `json:"prompt"`
	ExistingNodes []string `json:"existing_nodes"`
	ProjectFiles  []string `json:"project_context_file_names"`
}

// GenerateResponse is the expected (untrusted) reply from the AI endpoint.
type GenerateResponse struct {
	Label        string `json:"label"`
	Description  string `json:"description"`
	CodeTemplate string `json:"code_template"`
}
