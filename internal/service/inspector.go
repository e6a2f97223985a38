package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/k8ika0s/wheel-inspector/internal/archive"
	"github.com/k8ika0s/wheel-inspector/internal/cache"
	"github.com/k8ika0s/wheel-inspector/internal/distinfo"
	"github.com/k8ika0s/wheel-inspector/internal/events"
	"github.com/k8ika0s/wheel-inspector/internal/manifest"
	"github.com/k8ika0s/wheel-inspector/internal/objectstore"
	"github.com/k8ika0s/wheel-inspector/internal/policy"
	"github.com/k8ika0s/wheel-inspector/internal/record"
	"github.com/k8ika0s/wheel-inspector/internal/store"
	"github.com/k8ika0s/wheel-inspector/internal/wheelname"
)

// Report is the full inspection result for one wheel object.
type Report struct {
	Key          string              `json:"key"`
	Filename     string              `json:"filename"`
	Name         wheelname.WheelName `json:"name"`
	Manifest     manifest.Manifest   `json:"manifest"`
	Entries      int                 `json:"entries"`
	KnownBytes   uint64              `json:"known_bytes"`
	NoDigest     int                 `json:"no_digest"`
	Violations   []policy.Violation  `json:"violations,omitempty"`
	HasMetadata  bool                `json:"has_metadata"`
	InspectedAt  int64               `json:"inspected_at"`
}

// Inspector pulls wheels from object storage, parses their metadata, and
// records the outcome.
type Inspector struct {
	Objects objectstore.Store
	Cache   cache.Cache
	Events  events.Publisher
	Reports store.Store
	Policy  policy.Policy
	Cfg     Config
}

// BuildInspector constructs an inspector from config.
func BuildInspector(cfg Config) *Inspector {
	return &Inspector{
		Objects: cfg.ObjectStore(),
		Cache:   cfg.Cache(),
		Events:  cfg.Publisher(),
		Reports: cfg.ReportStore(),
		Policy:  cfg.LoadPolicy(),
		Cfg:     cfg,
	}
}

// Inspect fetches and inspects one object key, serving from cache when the
// key was inspected recently. Cache, store, and event emission are best
// effort; a parse failure is reported as an error and an "invalid" event.
func (i *Inspector) Inspect(ctx context.Context, key string) (Report, error) {
	if data, ok, err := i.Cache.Get(ctx, key); err == nil && ok {
		var cached Report
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	data, err := i.Objects.Get(ctx, key)
	if err != nil {
		return Report{}, fmt.Errorf("fetch %s: %w", key, err)
	}

	report, err := i.InspectBytes(path.Base(key), data)
	if err != nil {
		i.record(ctx, key, Report{}, err)
		return Report{}, err
	}
	report.Key = key

	if encoded, err := json.Marshal(report); err == nil {
		_ = i.Cache.Put(ctx, key, encoded, time.Duration(i.Cfg.CacheTTLSec)*time.Second)
	}
	i.record(ctx, key, report, nil)
	return report, nil
}

// InspectBytes parses an in-memory wheel. No cache, store, or broker I/O.
func (i *Inspector) InspectBytes(filename string, data []byte) (Report, error) {
	name, err := wheelname.Parse(filename)
	if err != nil {
		return Report{}, fmt.Errorf("parse name %s: %w", filename, err)
	}
	arc, err := archive.FromBytes(data)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", filename, err)
	}
	info, err := distinfo.Load(arc, name)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", filename, err)
	}
	return i.buildReport(filename, info), nil
}

func (i *Inspector) buildReport(filename string, info distinfo.Info) Report {
	report := Report{
		Filename:    filename,
		Name:        info.Name,
		Manifest:    info.Manifest,
		Entries:     len(info.Record.Entries),
		Violations:  i.Policy.Evaluate(info.Record),
		HasMetadata: info.Metadata != nil,
		InspectedAt: time.Now().Unix(),
	}
	report.KnownBytes, report.NoDigest = tally(info.Record)
	return report
}

func tally(f record.File) (knownBytes uint64, noDigest int) {
	for _, e := range f.Entries {
		if e.Size != nil {
			knownBytes += *e.Size
		}
		if e.Digest == nil {
			noDigest++
		}
	}
	return knownBytes, noDigest
}

// record persists the outcome and publishes an event, best effort.
func (i *Inspector) record(ctx context.Context, key string, report Report, inspectErr error) {
	now := time.Now().Unix()
	if inspectErr != nil {
		_ = i.Reports.RecordReport(ctx, store.Row{Key: key, Status: "invalid", Detail: inspectErr.Error(), Timestamp: now})
		_ = i.Events.Publish(ctx, events.Event{Key: key, Status: "invalid", Detail: inspectErr.Error(), Timestamp: now})
		return
	}
	_ = i.Reports.RecordReport(ctx, store.Row{
		Key:          key,
		Distribution: report.Name.Distribution,
		Version:      report.Name.Version.String(),
		Status:       "inspected",
		Violations:   len(report.Violations),
		Timestamp:    now,
	})
	_ = i.Events.Publish(ctx, events.Event{
		Key:          key,
		Distribution: report.Name.Distribution,
		Version:      report.Name.Version.String(),
		Status:       "inspected",
		Violations:   len(report.Violations),
		Timestamp:    now,
	})
}

// InspectPrefix inspects every object under prefix with bounded concurrency.
// Individual failures are recorded but do not abort the scan.
func (i *Inspector) InspectPrefix(ctx context.Context, prefix string) ([]Report, error) {
	keys, err := i.Objects.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	if i.Cfg.ScanLimit > 0 && len(keys) > i.Cfg.ScanLimit {
		keys = keys[:i.Cfg.ScanLimit]
	}

	var (
		mu      sync.Mutex
		reports []Report
	)
	g, ctx := errgroup.WithContext(ctx)
	limit := i.Cfg.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			report, err := i.Inspect(ctx, key)
			if err != nil {
				return nil // recorded as invalid; keep scanning
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
