package analyzer

import "regexp"

// DetectorID names a single heuristic rule. Detection is lexical only; a
// rule firing means the corpus contains a known idiom, not that the idiom is
// live code.
type DetectorID string

const (
	DetectRoutes       DetectorID = "routes"
	DetectAPICalls     DetectorID = "api_calls"
	DetectState        DetectorID = "state_management"
	DetectForms        DetectorID = "form_handling"
	DetectJWT          DetectorID = "auth_jwt"
	DetectOAuth        DetectorID = "auth_oauth"
	DetectPassHash     DetectorID = "auth_password_hashing"
	DetectCORS         DetectorID = "sec_cors"
	DetectSecHeaders   DetectorID = "sec_headers"
	DetectCSRF         DetectorID = "sec_csrf"
	DetectRateLimit    DetectorID = "sec_rate_limit"
	DetectSanitization DetectorID = "sec_sanitization"
	DetectHTTPS        DetectorID = "sec_https"
	DetectEncryption   DetectorID = "sec_encryption"
	DetectValidation   DetectorID = "sec_validation"
)

// rule is a named, pure detector: one regular expression evaluated once per
// analysis pass against the concatenated corpus.
type rule struct {
	id DetectorID
	re *regexp.Regexp
}

// boolRules is the fixed battery of presence/absence detectors. Order is
// stable so analysis output is deterministic.
var boolRules = []rule{
	{DetectAPICalls, regexp.MustCompile(`(?i)\bfetch\s*\(|axios\.?\w*\s*\(|axios\.(get|post|put|delete)`)},
	{DetectState, regexp.MustCompile(`useState\s*\(|useReducer\s*\(|createStore\s*\(|configureStore\s*\(|\bzustand\b|\bpinia\b`)},
	{DetectForms, regexp.MustCompile(`useForm\s*\(|onSubmit\s*[=:]|FormData\s*\(|react-hook-form|\bformik\b`)},
	{DetectJWT, regexp.MustCompile(`jsonwebtoken|\bjwt\.(sign|verify|decode)\b|\bjose\b|Bearer\s`)},
	{DetectOAuth, regexp.MustCompile(`(?i)\boauth2?\b|passport\.(authenticate|use)|next-auth|clerk`)},
	{DetectPassHash, regexp.MustCompile(`\bbcrypt\b|\bargon2\b|\bscrypt\b|pbkdf2`)},
	{DetectCORS, regexp.MustCompile(`(?i)\bcors\s*\(|Access-Control-Allow-Origin|CORSMiddleware|allow_origins`)},
	{DetectSecHeaders, regexp.MustCompile(`\bhelmet\s*\(|Content-Security-Policy|X-Frame-Options|Strict-Transport-Security`)},
	{DetectCSRF, regexp.MustCompile(`(?i)\bcsurf\b|csrf[_-]?token|xsrf|CSRFProtect`)},
	{DetectRateLimit, regexp.MustCompile(`(?i)express-rate-limit|rate[_-]?limit|\bslowapi\b|\blimiter\b|\bthrottle\b`)},
	{DetectSanitization, regexp.MustCompile(`(?i)\bsanitize\w*\s*\(|DOMPurify|xss-clean|escape-?html|bleach\.clean`)},
	{DetectHTTPS, regexp.MustCompile(`https://|secure:\s*true|httpOnly:\s*true|sameSite`)},
	{DetectEncryption, regexp.MustCompile(`createCipheriv|createDecipheriv|crypto\.subtle|CryptoJS|\bFernet\b|AES[-_.]?(GCM|CBC|256)|encrypt\s*\(`)},
	{DetectValidation, regexp.MustCompile(`\bzod\b|z\.object\s*\(|\bjoi\b(?:\.\w+)?|\byup\b|pydantic|BaseModel|express-validator`)},
}

// -- Route extraction --

// Route declarations are matched against several router idioms. Each pattern
// captures (method, path) or just (path) with an implied method.
var (
	reExpressRoute = regexp.MustCompile(`(?:app|router|server)\.(get|post|put|delete|patch)\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`)
	rePyDecorRoute = regexp.MustCompile(`@(?:app|router|api|bp)\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)`)
	reFlaskRoute   = regexp.MustCompile(`@(?:app|bp)\.route\s*\(\s*['"]([^'"]+)`)
	reNextHandler  = regexp.MustCompile(`export\s+(?:async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b`)
)

// -- Database drivers --

// dbRules are checked in a fixed priority order; the first match decides the
// database kind label, even when multiple drivers appear in the corpus.
var dbRules = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"MongoDB", regexp.MustCompile(`\bmongoose\b|\bmongodb\b|MongoClient`)},
	{"PostgreSQL", regexp.MustCompile(`(?:require\(|from\s+)['"]pg['"]|node-postgres|psycopg2?|asyncpg|\bpgx\b`)},
	{"MySQL", regexp.MustCompile(`\bmysql2?\b|createConnection\s*\(\s*\{[^}]*host`)},
	{"ORM", regexp.MustCompile(`\bprisma\b|PrismaClient|\bsequelize\b|\btypeorm\b|sqlalchemy`)},
	{"Supabase", regexp.MustCompile(`\bsupabase\b|createClient\s*\(\s*['"]https://\w+\.supabase`)},
	{"Firebase", regexp.MustCompile(`\bfirebase\b|\bfirestore\b|initializeApp\s*\(`)},
}

// detection is the memoized result of one pass of every rule over a corpus.
type detection struct {
	hits   map[DetectorID]bool
	routes []routeMatch
	dbKind string // Empty when no database idiom matched.
}

type routeMatch struct {
	method string
	path   string
}

// detect runs the full battery exactly once over the corpus.
func detect(corpus string) detection {
	d := detection{hits: make(map[DetectorID]bool, len(boolRules)+1)}

	for _, r := range boolRules {
		d.hits[r.id] = r.re.MatchString(corpus)
	}

	d.routes = extractRoutes(corpus)
	d.hits[DetectRoutes] = len(d.routes) > 0

	for _, r := range dbRules {
		if r.re.MatchString(corpus) {
			d.dbKind = r.kind
			break
		}
	}
	return d
}

// extractRoutes pulls {method, path} pairs from every supported router idiom.
func extractRoutes(corpus string) []routeMatch {
	var routes []routeMatch
	seen := make(map[string]bool)

	add := func(method, path string) {
		key := method + " " + path
		if seen[key] {
			return
		}
		seen[key] = true
		routes = append(routes, routeMatch{method: method, path: path})
	}

	for _, m := range reExpressRoute.FindAllStringSubmatch(corpus, -1) {
		add(upperMethod(m[1]), m[2])
	}
	for _, m := range rePyDecorRoute.FindAllStringSubmatch(corpus, -1) {
		add(upperMethod(m[1]), m[2])
	}
	for _, m := range reFlaskRoute.FindAllStringSubmatch(corpus, -1) {
		add("GET", m[1])
	}
	for _, m := range reNextHandler.FindAllStringSubmatch(corpus, -1) {
		add(m[1], "/api")
	}
	return routes
}

func upperMethod(m string) string {
	switch m {
	case "get":
		return "GET"
	case "post":
		return "POST"
	case "put":
		return "PUT"
	case "delete":
		return "DELETE"
	case "patch":
		return "PATCH"
	default:
		return m
	}
}
