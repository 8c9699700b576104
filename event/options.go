package event

const (
	// DefaultMaxDepth bounds element nesting depth; exceeding it fails
	// with errors.KindTooManyNestedElements.
	DefaultMaxDepth = 256
	// DefaultMaxAttrs bounds attributes per element; exceeding it fails
	// with errors.KindTooManyAttributes. Configurable per the open
	// question in the spec: the previous fixed cap of 256 failed on
	// realistic, attribute-heavy documents.
	DefaultMaxAttrs = 256
	// DefaultMaxTokenSize bounds any single unbounded scan (attribute
	// value, comment, text run, ...).
	DefaultMaxTokenSize = 16 * 1024 * 1024
	// DefaultArenaCapacity is the initial backing capacity for the
	// string arena.
	DefaultArenaCapacity = 4 * 1024
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolve(def int) int {
	if !o.set {
		return def
	}
	return o.value
}

type boolOption struct {
	value bool
	set   bool
}

func (o boolOption) resolve(def bool) bool {
	if !o.set {
		return def
	}
	return o.value
}

// Options holds parser configuration. The zero value means no
// overrides; resolved values fall back to the package defaults.
type Options struct {
	preserveWhitespace boolOption
	resolveEntities    boolOption
	maxDepth           intOption
	maxAttrs           intOption
	maxTokenSize       intOption
	arenaCapacity      intOption
}

// Option mutates an Options value.
type Option func(*Options)

// WithPreserveWhitespace controls whether all-whitespace text between
// markup is emitted as Whitespace events. Default is false.
func WithPreserveWhitespace(v bool) Option {
	return func(o *Options) { o.preserveWhitespace = boolOption{v, true} }
}

// WithResolveEntities controls whether '&name;' sequences are
// resolved. Default is true; when false, entity text passes through
// literally in text and attribute values.
func WithResolveEntities(v bool) Option {
	return func(o *Options) { o.resolveEntities = boolOption{v, true} }
}

// WithMaxDepth overrides the element nesting depth bound.
func WithMaxDepth(v int) Option {
	return func(o *Options) { o.maxDepth = intOption{v, true} }
}

// WithMaxAttrs overrides the per-element attribute count bound.
func WithMaxAttrs(v int) Option {
	return func(o *Options) { o.maxAttrs = intOption{v, true} }
}

// WithMaxTokenSize overrides the per-token scan ceiling, in bytes.
func WithMaxTokenSize(v int) Option {
	return func(o *Options) { o.maxTokenSize = intOption{v, true} }
}

// WithArenaCapacity overrides the arena's initial backing capacity.
func WithArenaCapacity(v int) Option {
	return func(o *Options) { o.arenaCapacity = intOption{v, true} }
}

func buildOptions(opts ...Option) Options {
	var merged Options
	for _, opt := range opts {
		opt(&merged)
	}
	return merged
}

type resolvedOptions struct {
	preserveWhitespace bool
	resolveEntities    bool
	maxDepth           int
	maxAttrs           int
	maxTokenSize       int
	arenaCapacity      int
}

func (o Options) resolve() resolvedOptions {
	return resolvedOptions{
		preserveWhitespace: o.preserveWhitespace.resolve(false),
		resolveEntities:    o.resolveEntities.resolve(true),
		maxDepth:           o.maxDepth.resolve(DefaultMaxDepth),
		maxAttrs:           o.maxAttrs.resolve(DefaultMaxAttrs),
		maxTokenSize:       o.maxTokenSize.resolve(DefaultMaxTokenSize),
		arenaCapacity:      o.arenaCapacity.resolve(DefaultArenaCapacity),
	}
}
