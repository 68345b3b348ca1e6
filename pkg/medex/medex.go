package medex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/diagnose"
	"github.com/cognicore/medex/pkg/medex/report"
	"github.com/cognicore/medex/pkg/medex/store"
)

// Medex is the main diagnosis facade
type Medex struct {
	engine  *diagnose.Engine
	reports *report.Builder
	store   store.CatalogStore
	logger  *zap.Logger
}

// Options configures a Medex instance
type Options struct {
	// Catalog defaults to catalog.Default()
	Catalog     *catalog.Catalog
	Logger      *zap.Logger
	Parallelism int
	// StrictRangeRestriction rejects rules whose conclusion variable is unbound
	StrictRangeRestriction bool
	Reports                *report.Builder
}

// New creates a Medex instance over opts.Catalog
func New(opts Options) (*Medex, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Reports == nil {
		opts.Reports = report.New()
	}

	engineOpts := []diagnose.Option{
		diagnose.WithLogger(opts.Logger),
		diagnose.WithParallelism(opts.Parallelism),
	}
	if opts.StrictRangeRestriction {
		engineOpts = append(engineOpts, diagnose.WithStrictRangeRestriction())
	}

	engine, err := diagnose.New(opts.Catalog, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Medex{
		engine:  engine,
		reports: opts.Reports,
		logger:  opts.Logger,
	}, nil
}

// NewFromStore loads the catalog from st, ignoring opts.Catalog.
// The returned Medex owns st and closes it on Close.
func NewFromStore(ctx context.Context, st store.CatalogStore, opts Options) (*Medex, error) {
	cat, err := st.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	opts.Catalog = cat

	m, err := New(opts)
	if err != nil {
		return nil, err
	}
	m.store = st
	return m, nil
}

// Close cleanly shuts down the Medex instance
func (m *Medex) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

// DiagnoseRequest carries the observed symptoms
type DiagnoseRequest struct {
	Symptoms []string
}

// Diagnose runs the engine and wraps the result in a report
func (m *Medex) Diagnose(ctx context.Context, req DiagnoseRequest) (report.Report, error) {
	illnesses, err := m.engine.Diagnose(ctx, req.Symptoms)
	if err != nil {
		return report.Report{}, err
	}

	r := m.reports.Build(m.engine.Catalog(), req.Symptoms, illnesses)
	m.logger.Info("diagnosis",
		zap.String("report_id", r.ID),
		zap.Int("observed", len(req.Symptoms)),
		zap.Strings("illnesses", r.Illnesses),
	)
	return r, nil
}

// Query reports whether an illness is provable from the rules alone
func (m *Medex) Query(illness string) bool {
	return m.engine.Query(illness)
}

// Symptoms returns the symptom checklist in catalog order
func (m *Medex) Symptoms() []string {
	return m.engine.Catalog().Symptoms
}

// Illnesses returns every illness with its required symptoms
func (m *Medex) Illnesses() []catalog.Illness {
	return m.engine.Catalog().Illnesses
}

// Rules returns the canonical text of every rule
func (m *Medex) Rules() []string {
	rules := m.engine.Rules()
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

// Catalog returns a copy of the loaded catalog
func (m *Medex) Catalog() *catalog.Catalog {
	return m.engine.Catalog()
}
