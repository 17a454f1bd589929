package schemas

import "context"

// NodeTypeGenerator produces a NodeTypeDefinition from a free-text prompt.
// Implementations must never dead-end the user flow: when generation cannot
// be completed, a locally synthesized definition is returned instead of an
// error.
type NodeTypeGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) NodeTypeDefinition
}

// PipelineChangedFunc receives the serialized pipeline snapshot every time
// the editor's version counter changes. Consumers treat the snapshot as
// read-only.
type PipelineChangedFunc func(snapshot *PipelineSnapshot)

// CodeInjectedFunc receives the illustrative code template and security type
// ID whenever a node is injected onto an edge, so an external preview panel
// can display the generated code.
type CodeInjectedFunc func(codeTemplate, securityTypeID string)
