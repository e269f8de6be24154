// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/samber/oops"

	"github.com/holomush/authcore/pkg/errutil"
)

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "authcore"

// ExportOptions names the places a short-lived command leaves its
// metrics, since nothing scrapes it while it runs.
type ExportOptions struct {
	// TextfilePath is written in the text exposition format for the
	// node_exporter textfile collector.
	TextfilePath string
	// PushURL is a Pushgateway base URL. The push replaces the job's
	// previous group.
	PushURL string
	Job     string
}

// Enabled reports whether any target is set.
func (o ExportOptions) Enabled() bool {
	return o.TextfilePath != "" || o.PushURL != ""
}

// Export sends everything g gathers to each configured target.
func Export(ctx context.Context, g prometheus.Gatherer, opts ExportOptions) error {
	if opts.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(opts.TextfilePath, g); err != nil {
			return oops.Code("METRICS_EXPORT_FAILED").
				In(errutil.DomainPersistence).
				With("target", "textfile").
				With("path", opts.TextfilePath).
				Wrap(err)
		}
	}
	if opts.PushURL != "" {
		job := opts.Job
		if job == "" {
			job = DefaultJob
		}
		if err := push.New(opts.PushURL, job).Gatherer(g).PushContext(ctx); err != nil {
			return oops.Code("METRICS_EXPORT_FAILED").
				In(errutil.DomainPersistence).
				With("target", "pushgateway").
				With("job", job).
				Wrap(err)
		}
	}
	return nil
}
