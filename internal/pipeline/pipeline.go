package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/mkosuda/gmapscan/internal/client"
	"github.com/mkosuda/gmapscan/internal/model"
	"github.com/mkosuda/gmapscan/internal/probe"
)

// Pipeline runs probes in a fixed order against one report.
//
// Design decision: Probes always continue after a failure because each
// endpoint is enabled independently on a key; a denied Geocoding API
// says nothing about the Roads API. The one ordering dependency is that
// the geocode probe runs first so later probes can consume the derived
// coordinates and place ID.
type Pipeline struct {
	// probes holds the ordered list of probes to execute.
	probes []probe.Probe

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// progress receives the per-probe status lines shown to the user.
	// io.Discard silences them.
	progress io.Writer
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress sets the writer for per-probe progress lines.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithProbes replaces the probe list. Mainly for tests that exercise a
// subset.
func WithProbes(probes ...probe.Probe) Option {
	return func(p *Pipeline) {
		p.probes = probes
	}
}

// Default creates a Pipeline with every known probe in canonical order.
func Default(c *client.Client, endpoints probe.Endpoints, opts ...Option) *Pipeline {
	p := &Pipeline{
		probes: []probe.Probe{
			probe.NewGeocodeProbe(c, endpoints),
			probe.NewBatchGeocodeProbe(c, endpoints),
			probe.NewStaticMapProbe(c, endpoints),
			probe.NewStreetViewProbe(c, endpoints),
			probe.NewPhotoReferenceProbe(c, endpoints),
			probe.NewPlaceDetailsProbe(c, endpoints),
			probe.NewTextSearchProbe(c, endpoints),
			probe.NewDistanceMatrixProbe(c, endpoints),
			probe.NewElevationProbe(c, endpoints),
			probe.NewTimeZoneProbe(c, endpoints),
			probe.NewNearbySearchProbe(c, endpoints),
			probe.NewAutocompleteProbe(c, endpoints),
			probe.NewSnapToRoadsProbe(c, endpoints),
			probe.NewNearestRoadsProbe(c, endpoints),
			probe.NewGeolocateProbe(c, endpoints),
		},
		progress: io.Discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Execute runs all probes in sequence against the report.
//
// Probes whose requirement is unmet are skipped without issuing a
// request. Probe errors are logged and recorded but never stop the run;
// only context cancellation aborts it.
func (p *Pipeline) Execute(ctx context.Context, report *model.CheckReport) error {
	total := len(p.probes)
	for i, pr := range p.probes {
		select {
		case <-ctx.Done():
			p.logger.Warn("check cancelled",
				"probe", pr.Service(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		if !p.requirementMet(pr, report) {
			report.SetProbeStatus(pr.Service(), model.ProbeStatusSkipped)
			p.printProgress(i+1, total, pr.Service(), color.YellowString("skipped"))
			p.logger.Debug("probe skipped, requirement unmet", "probe", pr.Service())
			continue
		}

		p.logger.Debug("executing probe", "probe", pr.Service())

		outcome, err := pr.Do(ctx, report)
		switch {
		case err != nil:
			report.SetProbeStatus(pr.Service(), model.ProbeStatusFailed)
			p.printProgress(i+1, total, pr.Service(), color.RedString("failed"))
			p.logger.Error("probe failed", "probe", pr.Service(), "error", err)
		case outcome == nil:
			report.SetProbeStatus(pr.Service(), model.ProbeStatusNoData)
			p.printProgress(i+1, total, pr.Service(), "no data")
			p.logger.Debug("probe returned no data", "probe", pr.Service())
		default:
			report.AddOutcome(*outcome)
			report.SetProbeStatus(pr.Service(), model.ProbeStatusOK)
			p.printProgress(i+1, total, pr.Service(), color.GreenString("ok"))
			p.logger.Debug("probe succeeded",
				"probe", pr.Service(),
				"status", outcome.HTTPStatus,
			)
		}
	}

	return nil
}

// requirementMet reports whether the report carries the derived data
// the probe needs.
func (p *Pipeline) requirementMet(pr probe.Probe, report *model.CheckReport) bool {
	switch pr.Requires() {
	case probe.RequireCoordinates:
		return report.HasCoordinates()
	case probe.RequirePlaceID:
		return report.HasPlaceID()
	default:
		return true
	}
}

// printProgress writes one status line per probe.
func (p *Pipeline) printProgress(n, total int, service model.Service, status string) {
	fmt.Fprintf(p.progress, "[%2d/%d] %-15s %s\n", n, total, service, status)
}

// ProbeCount returns the number of probes in the pipeline.
func (p *Pipeline) ProbeCount() int {
	return len(p.probes)
}

// Services returns the probe services in execution order.
func (p *Pipeline) Services() []model.Service {
	services := make([]model.Service, len(p.probes))
	for i, pr := range p.probes {
		services[i] = pr.Service()
	}
	return services
}
