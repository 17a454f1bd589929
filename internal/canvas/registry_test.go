package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

func TestRegistryBuiltins(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	for _, id := range []string{
		schemas.TypeRateLimiter,
		schemas.TypeAuth,
		schemas.TypeSanitizer,
		schemas.TypeValidator,
		schemas.TypeEncryptor,
	} {
		def, ok := r.Get(id)
		require.True(t, ok, "built-in %s must be seeded", id)
		assert.Equal(t, schemas.OriginBuiltIn, def.Origin)
		assert.NotEmpty(t, def.CodeTemplate)
	}
	assert.Len(t, r.List(), 5)
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty label", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		_, err := r.Register(schemas.NodeTypeDefinition{})
		require.Error(t, err)
	})

	t.Run("derives id and origin when missing", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		def, err := r.Register(schemas.NodeTypeDefinition{Label: "IP Allow List!"})
		require.NoError(t, err)
		assert.Equal(t, "ip-allow-list", def.ID)
		assert.Equal(t, schemas.OriginUserDefined, def.Origin)
	})

	t.Run("preserves explicit origin", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		def, err := r.Register(schemas.NodeTypeDefinition{
			ID:     "ai-waf",
			Label:  "AI WAF",
			Origin: schemas.OriginAIGenerated,
		})
		require.NoError(t, err)
		assert.Equal(t, schemas.OriginAIGenerated, def.Origin)
	})

	t.Run("keeps registration order in List", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		_, err := r.Register(schemas.NodeTypeDefinition{Label: "First Custom"})
		require.NoError(t, err)
		_, err = r.Register(schemas.NodeTypeDefinition{Label: "Second Custom"})
		require.NoError(t, err)

		list := r.List()
		require.Len(t, list, 7)
		assert.Equal(t, "first-custom", list[5].ID)
		assert.Equal(t, "second-custom", list[6].ID)
	})

	t.Run("re-registering an id overwrites without duplicating", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		_, err := r.Register(schemas.NodeTypeDefinition{ID: "waf", Label: "WAF v1"})
		require.NoError(t, err)
		_, err = r.Register(schemas.NodeTypeDefinition{ID: "waf", Label: "WAF v2"})
		require.NoError(t, err)

		def, ok := r.Get("waf")
		require.True(t, ok)
		assert.Equal(t, "WAF v2", def.Label)
		assert.Len(t, r.List(), 6)
	})
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Rate Limiter":    "rate-limiter",
		"  IP  Filter  ":  "ip-filter",
		"WAF 2.0 (beta)":  "waf-2-0-beta",
		"UPPER":           "upper",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}
