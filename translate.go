package filtersql

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/GIScience/ohsome-filter-to-sql/internal/sqlgen"
	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

// Result is a translated filter.
type Result struct {
	// SQL is a boolean condition for a WHERE clause. It contains no literal
	// values; every value is referenced through a positional placeholder.
	SQL string

	// Args are the bind values in placeholder order. Elements are string,
	// int64, float64, []string or []int64. JSON documents for jsonb
	// containment are passed as their string encoding.
	Args []any
}

// Where returns the condition prefixed with the WHERE keyword.
func (r *Result) Where() string {
	return "WHERE " + r.SQL
}

// clone copies r including the list arguments, which would otherwise share
// their backing arrays.
func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	args := make([]any, len(r.Args))
	for i, arg := range r.Args {
		switch v := arg.(type) {
		case []string:
			args[i] = slices.Clone(v)
		case []int64:
			args[i] = slices.Clone(v)
		default:
			args[i] = v
		}
	}
	return &Result{SQL: r.SQL, Args: args}
}

// Option configures a Translator.
type Option func(*Translator)

// WithShift numbers placeholders from shift+1, for embedding the condition
// in a query that already binds shift parameters. Negative values make
// translation fail with ErrInvalidOption.
func WithShift(shift int) Option {
	return func(t *Translator) {
		t.shift = shift
	}
}

// WithMaxDepth bounds the nesting of parentheses and 'not' operators.
// Values below 1 use parser.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(t *Translator) {
		if depth < 1 {
			depth = parser.DefaultMaxDepth
		}
		t.maxDepth = depth
	}
}

// WithLogger sets the logger for debug output. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCache enables caching of translation results, failures included.
// The cache may be shared between translators; entries are keyed by shift
// and depth limit as well as the filter.
func WithCache(c Cache) Option {
	return func(t *Translator) {
		t.cache = c
	}
}

// Translator converts filters to SQL with a fixed configuration.
// It holds no per-call state and is safe for concurrent use.
type Translator struct {
	shift    int
	maxDepth int
	logger   *slog.Logger
	cache    Cache
}

// NewTranslator creates a Translator.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{
		maxDepth: parser.DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Shift returns the number of parameters preceding generated placeholders.
func (t *Translator) Shift() int { return t.shift }

// Parse returns the syntax tree of filter without translating it.
func (t *Translator) Parse(filter string) (parser.Expr, error) {
	return parser.Parse(filter, parser.WithMaxDepth(t.maxDepth))
}

// Translate converts filter into a parameterized condition.
func (t *Translator) Translate(filter string) (*Result, error) {
	if t.shift < 0 {
		return nil, fmt.Errorf("%w: negative parameter shift %d", ErrInvalidOption, t.shift)
	}

	if t.cache != nil {
		if res, err, ok := t.cache.Get(filter, t.shift, t.maxDepth); ok {
			t.logger.Debug("filter cache hit", "filter", filter, "shift", t.shift)
			return res, err
		}
	}

	res, err := t.translate(filter)
	if t.cache != nil {
		t.cache.Set(filter, t.shift, t.maxDepth, res, err)
	}
	return res, err
}

func (t *Translator) translate(filter string) (*Result, error) {
	root, err := t.Parse(filter)
	if err != nil {
		t.logger.Debug("filter rejected", "filter", filter, "error", err)
		return nil, err
	}

	tr, err := sqlgen.Translate(root, t.shift)
	if err != nil {
		t.logger.Debug("filter rejected", "filter", filter, "error", err)
		return nil, err
	}

	t.logger.Debug("filter translated",
		"filter", filter,
		"sql", tr.SQL,
		"params", len(tr.Args),
		"shift", t.shift,
	)
	return &Result{SQL: tr.SQL, Args: tr.Args}, nil
}

// Translate converts filter into a parameterized condition.
//
//	res, err := filtersql.Translate("id:(1..9999)")
//	// res.SQL:  (osm_id >= $1 AND osm_id <= $2)
//	// res.Args: [1 9999]
func Translate(filter string, opts ...Option) (*Result, error) {
	return NewTranslator(opts...).Translate(filter)
}

// Parse returns the syntax tree of filter. It is the diagnostic entry
// point; use parser.Print to render the tree.
func Parse(filter string, opts ...Option) (parser.Expr, error) {
	return NewTranslator(opts...).Parse(filter)
}

// Where translates filter and prefixes the condition with WHERE.
func Where(filter string, opts ...Option) (string, []any, error) {
	res, err := Translate(filter, opts...)
	if err != nil {
		return "", nil, err
	}
	return res.Where(), res.Args, nil
}
