package canvas

import "github.com/trishajanath/altx-canvas/api/schemas"

// serialize walks the chain from the unique source node and produces the
// ordered pipeline snapshot. Returns nil when the graph has no source node.
// Callers must hold the editor lock.
func serialize(g *Graph, reg *Registry, checklist schemas.SecurityChecklist, version uint64) *schemas.PipelineSnapshot {
	if _, ok := g.Source(); !ok {
		return nil
	}

	chain := g.walk()
	snapshot := &schemas.PipelineSnapshot{
		Version:   version,
		Stages:    make([]schemas.PipelineStage, 0, len(chain)),
		Checklist: checklist,
	}

	for _, n := range chain {
		stage := schemas.PipelineStage{
			NodeID:         n.ID,
			Kind:           n.Kind,
			Label:          n.Label,
			SecurityTypeID: n.SecurityTypeID,
		}
		if n.Config != nil {
			stage.Config = make(map[string]any, len(n.Config))
			for k, v := range n.Config {
				stage.Config[k] = v
			}
		}
		if n.SecurityTypeID != "" {
			if def, ok := reg.Get(n.SecurityTypeID); ok {
				stage.CodeTemplate = def.CodeTemplate
			}
			switch n.SecurityTypeID {
			case schemas.TypeAuth:
				snapshot.Summary.HasAuth = true
			case schemas.TypeSanitizer:
				snapshot.Summary.HasSanitizer = true
			case schemas.TypeValidator:
				snapshot.Summary.HasValidator = true
			case schemas.TypeEncryptor:
				snapshot.Summary.HasEncryption = true
			case schemas.TypeRateLimiter:
				snapshot.Summary.HasRateLimiting = true
			}
		}
		snapshot.Stages = append(snapshot.Stages, stage)
	}
	return snapshot
}
