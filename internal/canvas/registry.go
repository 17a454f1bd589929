package canvas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/trishajanath/altx-canvas/api/schemas"
)

// builtinTypes are the process-wide constant node-type templates. The code
// templates are illustrative middleware text for the preview panel, not code
// the editor executes.
var builtinTypes = []schemas.NodeTypeDefinition{
	{
		ID:          schemas.TypeRateLimiter,
		Label:       "Rate Limiter",
		Description: "Caps how often a single client can hit the pipeline inside a rolling window.",
		Style:       schemas.Style{Color: "#f97316", Border: "solid"},
		Origin:      schemas.OriginBuiltIn,
		CodeTemplate: `const rateLimit = require('express-rate-limit');

app.use(rateLimit({
  windowMs: 60 * 1000,
  max: 100,
  standardHeaders: true,
}));`,
	},
	{
		ID:          schemas.TypeAuth,
		Label:       "Authentication",
		Description: "Verifies a JWT on every request before it reaches the API layer.",
		Style:       schemas.Style{Color: "#10b981", Border: "solid"},
		Origin:      schemas.OriginBuiltIn,
		CodeTemplate: `const jwt = require('jsonwebtoken');

app.use((req, res, next) => {
  const token = req.headers.authorization?.split(' ')[1];
  if (!token) return res.status(401).end();
  req.user = jwt.verify(token, process.env.JWT_SECRET);
  next();
});`,
	},
	{
		ID:          schemas.TypeSanitizer,
		Label:       "Input Sanitizer",
		Description: "Strips markup and dangerous characters from user-supplied fields.",
		Style:       schemas.Style{Color: "#22c55e", Border: "solid"},
		Origin:      schemas.OriginBuiltIn,
		CodeTemplate: `const sanitizeHtml = require('sanitize-html');

app.use((req, res, next) => {
  for (const key of Object.keys(req.body ?? {})) {
    if (typeof req.body[key] === 'string') {
      req.body[key] = sanitizeHtml(req.body[key]);
    }
  }
  next();
});`,
	},
	{
		ID:          schemas.TypeValidator,
		Label:       "Schema Validator",
		Description: "Rejects request payloads that do not match the declared schema.",
		Style:       schemas.Style{Color: "#06b6d4", Border: "solid"},
		Origin:      schemas.OriginBuiltIn,
		CodeTemplate: `const { z } = require('zod');

const schema = z.object({ email: z.string().email() });

app.use((req, res, next) => {
  const result = schema.safeParse(req.body);
  if (!result.success) return res.status(400).json(result.error);
  next();
});`,
	},
	{
		ID:          schemas.TypeEncryptor,
		Label:       "Encryption Layer",
		Description: "Encrypts sensitive fields before they reach the data store.",
		Style:       schemas.Style{Color: "#a855f7", Border: "solid"},
		Origin:      schemas.OriginBuiltIn,
		CodeTemplate: `const crypto = require('crypto');

function encryptField(plain) {
  const iv = crypto.randomBytes(12);
  const cipher = crypto.createCipheriv('aes-256-gcm', key, iv);
  return Buffer.concat([iv, cipher.update(plain), cipher.final()]);
}`,
	},
}

// Registry is the session-scoped catalog of node-type templates. Built-in
// entries are seeded at construction; user-defined and AI-generated entries
// are appended for the duration of the session and vanish on restart.
type Registry struct {
	mu    sync.RWMutex
	types map[string]schemas.NodeTypeDefinition
	order []string
}

// NewRegistry creates a registry seeded with the built-in node types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]schemas.NodeTypeDefinition, len(builtinTypes))}
	for _, def := range builtinTypes {
		r.types[def.ID] = def
		r.order = append(r.order, def.ID)
	}
	return r
}

// Get returns the definition for a type ID.
func (r *Registry) Get(id string) (schemas.NodeTypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[id]
	return def, ok
}

// List returns all definitions in registration order.
func (r *Registry) List() []schemas.NodeTypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schemas.NodeTypeDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

// Register appends a user-authored or AI-authored definition. A non-empty
// label is required; a missing ID is derived from the label. Registering an
// existing ID overwrites it.
func (r *Registry) Register(def schemas.NodeTypeDefinition) (schemas.NodeTypeDefinition, error) {
	if strings.TrimSpace(def.Label) == "" {
		return schemas.NodeTypeDefinition{}, fmt.Errorf("node type label must not be empty")
	}
	if def.ID == "" {
		def.ID = slugify(def.Label)
	}
	if def.Origin == "" {
		def.Origin = schemas.OriginUserDefined
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.types[def.ID] = def
	return def, nil
}

// slugify turns a label into a lowercase, hyphenated type ID.
func slugify(label string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
