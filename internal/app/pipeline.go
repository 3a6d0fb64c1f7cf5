package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"equitybins/internal/binning"
	"equitybins/internal/config"
	"equitybins/internal/dataprocessing"
	apperrors "equitybins/internal/errors"
	"equitybins/internal/infrastructure"
	"equitybins/internal/selection"
	"equitybins/internal/validation"
)

// Dependencies are the collaborators a Pipeline runs with. Nil fields get defaults.
type Dependencies struct {
	Selector   selection.Selector
	Normalizer dataprocessing.Normalizer
	Telemetry  *infrastructure.Telemetry
	Logger     *slog.Logger
	Out        io.Writer
}

// Pipeline computes the weighted average return for one configuration
type Pipeline struct {
	cfg       *config.Config
	selector  selection.Selector
	validator *validation.FileValidator
	cleaner   *dataprocessing.Cleaner
	binner    *binning.Binner
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
	out       io.Writer
}

// Result is everything a successful run produced
type Result struct {
	RunID      string
	InputFile  string
	Selection  selection.Selection
	Aggregates *binning.Aggregates
	Weighted   binning.Result
}

// NewPipeline creates a pipeline for cfg
func NewPipeline(cfg *config.Config, deps Dependencies) (*Pipeline, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tel := deps.Telemetry
	if tel == nil {
		var err error
		tel, err = infrastructure.InitializeTelemetry(config.TelemetryConfig{ServiceName: config.AppName}, logger, io.Discard)
		if err != nil {
			return nil, err
		}
	}

	sel := deps.Selector
	if sel == nil {
		sel = selection.NewStaticSelector(cfg.Analysis.Factor, cfg.Analysis.Bins)
	}

	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	return &Pipeline{
		cfg:       cfg,
		selector:  sel,
		validator: validation.NewFileValidator(logger),
		cleaner:   dataprocessing.NewCleaner(deps.Normalizer, logger),
		binner:    binning.NewBinner(logger),
		telemetry: tel,
		logger:    logger.With(slog.String("component", "pipeline")),
		out:       out,
	}, nil
}

// Run executes every stage once. On failure nothing is written to the output
// past the stage that failed and the error carries its kind.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	res := &Result{RunID: infrastructure.GetRunID(ctx)}
	m := p.telemetry.Metrics

	ctx, end := p.telemetry.StartStage(ctx, "pipeline")
	var err error
	defer func() { end(err) }()

	p.logger.InfoContext(ctx, "Run started", slog.String("version", config.AppVersion))

	table, err := p.load(ctx, res)
	if err != nil {
		return nil, err
	}
	m.RowsLoaded.Record(ctx, int64(table.Len()))

	res.Selection, err = p.selectFactor(ctx, table)
	if err != nil {
		return nil, err
	}
	factorAttr := metric.WithAttributes(attribute.String("factor", res.Selection.Factor))

	cleaned, err := p.clean(ctx, table, res.Selection.Factor)
	if err != nil {
		return nil, err
	}
	m.RowsCleaned.Record(ctx, int64(cleaned.Len()), factorAttr)

	res.Aggregates, err = p.aggregate(ctx, cleaned, res.Selection.Bins)
	if err != nil {
		return nil, err
	}
	m.BinsTotal.Record(ctx, int64(len(res.Aggregates.Bins)), factorAttr)
	m.BinsEmpty.Record(ctx, int64(res.Aggregates.EmptyBins()), factorAttr)

	res.Weighted, err = p.reduce(ctx, res.Aggregates)
	if err != nil {
		return nil, err
	}
	m.WeightedReturn.Record(ctx, res.Weighted.Value, factorAttr)

	if err = binning.RenderBins(p.out, res.Aggregates); err != nil {
		return nil, err
	}
	if err = binning.RenderResult(p.out, res.Weighted); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Run completed",
		slog.String("factor", res.Selection.Factor),
		slog.Int("bins", res.Selection.Bins),
		slog.Float64("weighted_return", res.Weighted.Value))

	return res, nil
}

// Factors loads the input table and returns its eligible factors
func (p *Pipeline) Factors(ctx context.Context) ([]string, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	table, err := p.load(ctx, &Result{})
	if err != nil {
		return nil, err
	}
	return selection.EligibleFactors(table.Columns()), nil
}

func (p *Pipeline) load(ctx context.Context, res *Result) (t *dataprocessing.Table, err error) {
	ctx, end := p.telemetry.StartStage(ctx, "load")
	defer func() { end(err) }()

	paths, err := config.GetPaths(p.cfg.Data)
	if err != nil {
		return nil, apperrors.NewDataSourceError("cannot resolve input path", err)
	}
	res.InputFile = paths.InputFile

	if !filepath.IsAbs(p.cfg.Data.FileName) {
		if err = p.validator.ValidateDataDir(paths.DataDir); err != nil {
			return nil, err
		}
	}
	if err = p.validator.ValidateInputFile(paths.InputFile); err != nil {
		return nil, err
	}

	t, err = dataprocessing.LoadTable(paths.InputFile)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Table loaded",
		slog.String("file", paths.InputFile),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))
	return t, nil
}

func (p *Pipeline) selectFactor(ctx context.Context, t *dataprocessing.Table) (sel selection.Selection, err error) {
	ctx, end := p.telemetry.StartStage(ctx, "select")
	defer func() { end(err) }()

	eligible := selection.EligibleFactors(t.Columns())
	sel, err = p.selector.Select(ctx, selection.Options{
		Factors:       eligible,
		DefaultFactor: p.cfg.Analysis.Factor,
		DefaultBins:   p.cfg.Analysis.Bins,
	})
	if err != nil {
		return selection.Selection{}, err
	}

	if err = selection.Validate(sel, eligible); err != nil {
		return selection.Selection{}, err
	}

	p.logger.InfoContext(ctx, "Factor selected",
		slog.String("factor", sel.Factor),
		slog.Int("bins", sel.Bins))
	return sel, nil
}

func (p *Pipeline) clean(ctx context.Context, t *dataprocessing.Table, factor string) (ct *dataprocessing.CleanTable, err error) {
	_, end := p.telemetry.StartStage(ctx, "clean")
	defer func() { end(err) }()

	return p.cleaner.Clean(t, factor)
}

func (p *Pipeline) aggregate(ctx context.Context, ct *dataprocessing.CleanTable, bins int) (agg *binning.Aggregates, err error) {
	_, end := p.telemetry.StartStage(ctx, "aggregate")
	defer func() { end(err) }()

	return p.binner.Aggregate(ct, bins)
}

func (p *Pipeline) reduce(ctx context.Context, agg *binning.Aggregates) (r binning.Result, err error) {
	_, end := p.telemetry.StartStage(ctx, "reduce")
	defer func() { end(err) }()

	return binning.Reduce(agg)
}
