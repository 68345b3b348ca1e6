package diagnose

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/inference"
	"github.com/cognicore/medex/pkg/medex/inference/backward"
)

// queryVar is the variable every illness query is posed with, e.g. Flu(x).
var queryVar = inference.Var("x")

// Engine diagnoses observed symptoms against an immutable catalog.
// The knowledge base is rebuilt for every request, so an Engine holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cat         *catalog.Catalog
	build       catalog.BuildOptions
	rules       []inference.Rule
	logger      *zap.Logger
	parallelism int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger (default: no-op)
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithParallelism evaluates up to n illnesses concurrently. n <= 1 is sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithStrictRangeRestriction rejects rules whose conclusion variable is not bound by a premise.
func WithStrictRangeRestriction() Option {
	return func(e *Engine) { e.build.StrictRangeRestriction = true }
}

// New validates cat and returns an engine over a private copy of it.
// Malformed rules are reported here, before any query runs.
func New(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:      zap.NewNop(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.build.Logger = e.logger

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	e.cat = cat.Clone()
	rules, err := e.cat.ParseRules(e.build)
	if err != nil {
		return nil, err
	}
	e.rules = rules
	return e, nil
}

// Rules returns the catalog's parsed rules in catalog order
func (e *Engine) Rules() []inference.Rule {
	return append([]inference.Rule(nil), e.rules...)
}

// Catalog returns a copy of the engine's catalog
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat.Clone()
}

// Diagnose returns, in catalog order, every illness that is both provable from
// the knowledge base and fully covered by observed. Unknown symptom names are
// accepted and simply never match. An empty result means no illness matched.
func (e *Engine) Diagnose(ctx context.Context, observed []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kb, err := catalog.BuildKnowledgeBase(e.cat, e.build)
	if err != nil {
		return nil, err
	}
	resolver := backward.New(kb)
	present := symptomSet(observed)

	matched := make([]bool, len(e.cat.Illnesses))
	if e.parallelism <= 1 {
		for i, ill := range e.cat.Illnesses {
			matched[i] = matches(resolver, ill, present)
		}
	} else {
		// The knowledge base is read-only from here on.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.parallelism)
		for i, ill := range e.cat.Illnesses {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				matched[i] = matches(resolver, ill, present)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(matched))
	for i, ok := range matched {
		if ok {
			out = append(out, e.cat.Illnesses[i].Name)
		}
	}

	e.logger.Debug("diagnosis complete",
		zap.Strings("observed", observed),
		zap.Strings("illnesses", out),
		zap.Int("kb_rules", kb.Len()),
	)
	return out, nil
}

// Query reports whether illness is provable from the catalog's knowledge base,
// ignoring observed symptoms. Names outside the catalog are never provable.
func (e *Engine) Query(illness string) bool {
	if _, ok := e.cat.Lookup(illness); !ok {
		e.logger.Debug("query for unknown illness", zap.String("illness", illness))
		return false
	}

	kb, err := catalog.BuildKnowledgeBase(e.cat, e.build)
	if err != nil {
		// unreachable: New already validated and parsed the catalog
		e.logger.Error("knowledge base construction failed", zap.Error(err))
		return false
	}
	return backward.New(kb).Provable(inference.NewAtom(illness, queryVar))
}

// Diagnose is the pure form of Engine.Diagnose over cat
func Diagnose(observed []string, cat *catalog.Catalog) ([]string, error) {
	e, err := New(cat)
	if err != nil {
		return nil, err
	}
	return e.Diagnose(context.Background(), observed)
}

// matches applies both checks: the resolver must prove the illness, and every
// required symptom must have been observed. Either alone is insufficient,
// since each symptom is an independent fact and one shared symptom suffices
// for a proof.
func matches(r *backward.Resolver, ill catalog.Illness, present map[string]struct{}) bool {
	if !r.Provable(inference.NewAtom(ill.Name, queryVar)) {
		return false
	}
	return ill.Requires(present)
}

func symptomSet(observed []string) map[string]struct{} {
	set := make(map[string]struct{}, len(observed))
	for _, s := range observed {
		set[s] = struct{}{}
	}
	return set
}
