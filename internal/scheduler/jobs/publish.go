package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jineeshjohn/market-movers/internal/chart"
	"github.com/jineeshjohn/market-movers/internal/report"
	"github.com/jineeshjohn/market-movers/internal/universe"
	"github.com/jineeshjohn/market-movers/pkg/logger"
)

// Published file names inside the publish directory
const (
	MomentumFile = "momentum.html"
	ChartFile    = "morning-chart.png"
)

// MomentumPublishJob renders the momentum report to a static HTML file
type MomentumPublishJob struct {
	builder  *report.Builder
	renderer *report.Renderer
	universe *universe.Universe
	dir      string
	schedule string
	logger   *logger.Logger
}

// NewMomentumPublishJob creates a new momentum publish job
func NewMomentumPublishJob(builder *report.Builder, renderer *report.Renderer, u *universe.Universe, dir, schedule string, log *logger.Logger) *MomentumPublishJob {
	return &MomentumPublishJob{
		builder:  builder,
		renderer: renderer,
		universe: u,
		dir:      dir,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *MomentumPublishJob) Name() string {
	return "publish_momentum"
}

// Schedule returns the cron schedule
func (j *MomentumPublishJob) Schedule() string {
	return j.schedule
}

// Run builds and writes the report
func (j *MomentumPublishJob) Run(ctx context.Context) error {
	rep, err := j.builder.MomentumReport(ctx, j.universe)
	if err != nil {
		return fmt.Errorf("build momentum report: %w", err)
	}

	var buf bytes.Buffer
	if err := j.renderer.RenderMomentum(&buf, rep); err != nil {
		return err
	}

	path, err := writeFile(j.dir, MomentumFile, buf.Bytes())
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"path":   path,
		"ranked": len(rep.Momentum),
		"failed": rep.Failed,
	}).Info("Published momentum report")
	return nil
}

// ChartPublishJob renders the morning-window chart to a PNG file
type ChartPublishJob struct {
	generator *chart.Generator
	symbol    string
	dir       string
	schedule  string
	logger    *logger.Logger
}

// NewChartPublishJob creates a new chart publish job
func NewChartPublishJob(gen *chart.Generator, symbol, dir, schedule string, log *logger.Logger) *ChartPublishJob {
	return &ChartPublishJob{
		generator: gen,
		symbol:    symbol,
		dir:       dir,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *ChartPublishJob) Name() string {
	return "publish_chart"
}

// Schedule returns the cron schedule
func (j *ChartPublishJob) Schedule() string {
	return j.schedule
}

// Run generates and writes the chart
func (j *ChartPublishJob) Run(ctx context.Context) error {
	var buf bytes.Buffer
	if err := j.generator.Generate(ctx, &buf, j.symbol); err != nil {
		return err
	}

	path, err := writeFile(j.dir, ChartFile, buf.Bytes())
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"path":   path,
		"symbol": j.symbol,
		"bytes":  buf.Len(),
	}).Info("Published chart")
	return nil
}

// writeFile replaces dir/name via a temp file so readers never see a partial file
func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create publish dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	return path, nil
}
