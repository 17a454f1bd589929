package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

func testEditor(t *testing.T) *Editor {
	t.Helper()
	e := NewEditor(config.NewDefaultConfig().Editor, zap.NewNop())
	nodes, edges := testChain()
	e.SetGraph(nodes, edges, schemas.SecurityChecklist{CORSConfigured: true})
	return e
}

func TestEditorSerialize(t *testing.T) {
	t.Parallel()

	t.Run("nil when no source node exists", func(t *testing.T) {
		t.Parallel()
		e := NewEditor(config.NewDefaultConfig().Editor, zap.NewNop())
		assert.Nil(t, e.Serialize())
	})

	t.Run("n stages for a chain of length n, in order", func(t *testing.T) {
		t.Parallel()
		e := testEditor(t)
		snap := e.Serialize()
		require.NotNil(t, snap)
		require.Len(t, snap.Stages, 3)
		assert.Equal(t, "client", snap.Stages[0].NodeID)
		assert.Equal(t, "api", snap.Stages[1].NodeID)
		assert.Equal(t, "database", snap.Stages[2].NodeID)
		assert.True(t, snap.Checklist.CORSConfigured)
	})

	t.Run("summary flags reflect security types in the chain", func(t *testing.T) {
		t.Parallel()
		e := testEditor(t)
		edges := e.Edges()
		e.InjectNode(edges[0].ID, schemas.TypeSanitizer, schemas.Position{})
		e.InjectNode(e.Edges()[0].ID, schemas.TypeAuth, schemas.Position{})

		snap := e.Serialize()
		require.NotNil(t, snap)
		assert.True(t, snap.Summary.HasSanitizer)
		assert.True(t, snap.Summary.HasAuth)
		assert.False(t, snap.Summary.HasEncryption)
	})
}

func TestEditorVersionAndCallback(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	var snapshots []*schemas.PipelineSnapshot
	e.OnPipelineChanged(func(s *schemas.PipelineSnapshot) {
		snapshots = append(snapshots, s)
	})

	v0 := e.Version()

	edges := e.Edges()
	e.InjectNode(edges[0].ID, schemas.TypeValidator, schemas.Position{X: 10, Y: 10})
	require.Len(t, snapshots, 1, "inject must notify")
	assert.Equal(t, v0+1, snapshots[0].Version)

	var injectedID string
	for _, n := range e.Nodes() {
		if n.SecurityTypeID == schemas.TypeValidator {
			injectedID = n.ID
		}
	}
	require.NotEmpty(t, injectedID)

	e.UpdateNodeConfig(injectedID, "schema", "loose")
	require.Len(t, snapshots, 2, "config update must notify")

	e.RemoveNode(injectedID)
	require.Len(t, snapshots, 3, "remove must notify")
	assert.Equal(t, v0+3, e.Version())

	// Moves are cosmetic and must not notify.
	e.MoveNode("api", schemas.Position{X: 5, Y: 5})
	assert.Len(t, snapshots, 3)

	// Guarded no-ops must not notify either.
	e.RemoveNode("client")
	e.InjectNode("edge-ghost", schemas.TypeAuth, schemas.Position{})
	e.UpdateNodeConfig("ghost", "k", "v")
	assert.Len(t, snapshots, 3)
}

func TestEditorCodeInjectedCallback(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	var gotTemplate, gotType string
	e.OnCodeInjected(func(codeTemplate, typeID string) {
		gotTemplate, gotType = codeTemplate, typeID
	})

	e.InjectNode(e.Edges()[0].ID, schemas.TypeAuth, schemas.Position{})
	assert.Equal(t, schemas.TypeAuth, gotType)
	assert.Contains(t, gotTemplate, "jsonwebtoken")
}

func TestEditorInjectUnknownType(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	before := len(e.Nodes())
	e.InjectNode(e.Edges()[0].ID, "no-such-type", schemas.Position{})
	assert.Len(t, e.Nodes(), before, "unknown type must be a silent no-op")
}

func TestEditorViewport(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	t.Run("zoom is clamped to the configured range", func(t *testing.T) {
		e.SetViewport(schemas.Position{X: 10, Y: 20}, 9.0)
		assert.Equal(t, 2.0, e.Viewport().Zoom)

		e.SetViewport(schemas.Position{}, 0.01)
		assert.Equal(t, 0.5, e.Viewport().Zoom)
	})

	t.Run("drag applies the inverse transform", func(t *testing.T) {
		e.SetViewport(schemas.Position{X: 50, Y: 50}, 1.5)

		// The pointer is at the screen position of graph (120, 340); with a
		// zero grab offset the node must land exactly there regardless of
		// the screen-pixel values.
		screen := schemas.Position{X: 120*1.5 + 50, Y: 340*1.5 + 50}
		e.DragNode("api", screen, schemas.Position{})

		n, ok := e.Node("api")
		require.True(t, ok)
		assert.InDelta(t, 120, n.Position.X, 1e-9)
		assert.InDelta(t, 340, n.Position.Y, 1e-9)
	})

	t.Run("viewport changes never touch node positions", func(t *testing.T) {
		n1, _ := e.Node("client")
		e.SetViewport(schemas.Position{X: -400, Y: 300}, 0.75)
		n2, _ := e.Node("client")
		assert.Equal(t, n1.Position, n2.Position)
	})
}

func TestEditorRegisterNodeType(t *testing.T) {
	t.Parallel()
	e := testEditor(t)

	t.Run("rejects empty label", func(t *testing.T) {
		t.Parallel()
		_, err := e.RegisterNodeType(schemas.NodeTypeDefinition{Label: "   "})
		require.Error(t, err)
	})

	t.Run("registered type is immediately injectable", func(t *testing.T) {
		def, err := e.RegisterNodeType(schemas.NodeTypeDefinition{
			Label:        "Geo Fence",
			Description:  "Blocks requests from unexpected regions.",
			CodeTemplate: "app.use(geoFence());",
		})
		require.NoError(t, err)
		assert.Equal(t, "geo-fence", def.ID)
		assert.Equal(t, schemas.OriginUserDefined, def.Origin)

		e.InjectNode(e.Edges()[0].ID, def.ID, schemas.Position{})
		found := false
		for _, n := range e.Nodes() {
			if n.SecurityTypeID == def.ID {
				found = true
			}
		}
		assert.True(t, found)
	})
}
