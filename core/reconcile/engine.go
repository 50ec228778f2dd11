package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-tracker/core/inventory"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const meterName = "inventory-tracker/reconcile"

// Config holds the per-deployment inputs of a Reconciler.
type Config struct {
	// Query is the vendor query collected every cycle.
	Query inventory.Query

	// Locations is the fixed enumeration of valid location names.
	Locations []string

	// Policy decides how metadata is written. Nil selects FirstWriteWins.
	Policy MetadataPolicy
}

// Reconciler runs collection cycles against a Store.
type Reconciler struct {
	store     Store
	source    Source
	query     inventory.Query
	locations map[string]struct{}
	policy    MetadataPolicy
	logger    *zap.Logger
	now       func() time.Time
	tracer    trace.Tracer
	counters  cycleCounters
}

// New creates a Reconciler.
func New(store Store, source Source, cfg Config, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := cfg.Policy
	if policy == nil {
		policy = FirstWriteWins
	}

	names := make([]string, 0, len(cfg.Locations))
	for _, name := range cfg.Locations {
		if name = normalizeLocation(name); name != "" {
			names = append(names, name)
		}
	}

	return &Reconciler{
		store:     store,
		source:    source,
		query:     cfg.Query,
		locations: setOf(names...),
		policy:    policy,
		logger:    logger,
		now:       time.Now,
		tracer:    otel.Tracer("inventory-tracker/reconcile"),
		counters:  newCycleCounters(otel.Meter(meterName)),
	}
}

// WithMeterProvider records cycle counters through mp instead of the global provider.
func (r *Reconciler) WithMeterProvider(mp metric.MeterProvider) *Reconciler {
	r.counters = newCycleCounters(mp.Meter(meterName))
	return r
}

// Policy returns the metadata policy in use.
func (r *Reconciler) Policy() MetadataPolicy {
	return r.policy
}

// RunCycle performs one complete fetch-all-pages-then-reconcile cycle.
// The returned report is never nil; err is non-nil when the cycle failed or
// was interrupted.
func (r *Reconciler) RunCycle(ctx context.Context) (*Report, error) {
	ctx, span := r.tracer.Start(ctx, "reconcile.run_cycle")
	defer span.End()

	report := &Report{StartedAt: r.now()}

	// Step 1: snapshot the removal baseline before any write.
	active, err := r.store.ActiveIdentifiers(ctx)
	if err != nil {
		err = &inventory.StoreError{Stage: inventory.StageSnapshot, Err: err}
		r.logger.Error("Active set snapshot failed, cycle aborted",
			zap.String("stage", inventory.StageSnapshot),
			zap.Error(err),
		)
		return r.finish(ctx, span, report, StatusFailed, err), err
	}
	report.ActiveBefore = len(active)

	// Step 2: fetch every page; nothing is written unless this succeeds.
	records, err := r.source.FetchAll(ctx, r.query)
	if err != nil {
		err = fmt.Errorf("fetch inventory: %w", err)
		status := StatusFailed
		if errors.Is(err, context.Canceled) {
			status = StatusInterrupted
		}
		r.logger.Error("Inventory fetch failed, cycle aborted without writes",
			zap.String("stage", inventory.StageFetch),
			zap.Error(err),
		)
		return r.finish(ctx, span, report, status, err), err
	}
	report.Records = len(records)

	// Step 3: apply each record independently.
	found := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Cycle interrupted while applying records; removal detection skipped",
				zap.Int("applied", len(found)),
				zap.Int("records", len(records)),
			)
			return r.finish(ctx, span, report, StatusInterrupted, err), err
		}

		rec = rec.Normalize()
		if rec.ID == "" {
			report.Skipped++
			r.logger.Warn("Record without identifier skipped", zap.String("location", rec.Location))
			continue
		}

		// The record in flight finishes its writes even if shutdown begins.
		r.apply(context.WithoutCancel(ctx), rec, report)
		found[rec.ID] = struct{}{}
	}
	report.Seen = len(found)

	// Steps 4 and 5: removal detection against the snapshot.
	plan := Diff(active, found)
	removedAt := r.now()
	for _, id := range plan.Removed {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Cycle interrupted while marking removals",
				zap.Int("removed", report.Removed),
				zap.Int("pending", len(plan.Removed)-report.Removed),
			)
			return r.finish(ctx, span, report, StatusInterrupted, err), err
		}

		marked, err := r.store.MarkRemoved(context.WithoutCancel(ctx), id, removedAt)
		if err != nil {
			r.storeFailure(report, inventory.StageRemove, id, err)
			continue
		}
		if marked {
			report.Removed++
		}
	}

	// Step 6: report.
	r.finish(ctx, span, report, StatusSucceeded, nil)
	r.logger.Info("Cycle completed",
		zap.Int("seen", report.Seen),
		zap.Int("created", report.Created),
		zap.Int("reactivated", report.Reactivated),
		zap.Int("removed", report.Removed),
		zap.Int("unknown_locations", report.UnknownLocations),
		zap.Int("store_errors", report.StoreErrors),
		zap.Duration("duration", report.Duration()),
	)
	return report, nil
}

// DryRun snapshots the active set and fetches every page, then returns the
// plan a cycle would apply. It never writes.
func (r *Reconciler) DryRun(ctx context.Context) (*Plan, error) {
	active, err := r.store.ActiveIdentifiers(ctx)
	if err != nil {
		return nil, &inventory.StoreError{Stage: inventory.StageSnapshot, Err: err}
	}

	records, err := r.source.FetchAll(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	found := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if id := strings.TrimSpace(rec.ID); id != "" {
			found[id] = struct{}{}
		}
	}

	plan := Diff(active, found)
	return &plan, nil
}

// apply performs step 3a-3d for a single record.
func (r *Reconciler) apply(ctx context.Context, rec inventory.Record, report *Report) {
	outcome, err := r.store.UpsertItem(ctx, rec.ID)
	if err != nil {
		r.storeFailure(report, inventory.StageItem, rec.ID, err)
	} else {
		switch outcome {
		case ItemCreated:
			report.Created++
		case ItemReactivated:
			report.Reactivated++
			r.logger.Info("Removed item observed again", zap.String("item_id", rec.ID))
		}
	}

	if err := r.policy.Write(ctx, r.store, inventory.MetadataOf(rec)); err != nil {
		r.storeFailure(report, inventory.StageMetadata, rec.ID, err)
	}

	locationID, err := r.resolveLocation(ctx, rec)
	if err != nil {
		if errors.Is(err, inventory.ErrUnknownLocation) {
			report.UnknownLocations++
			r.logger.Warn("Record references unknown location, association skipped",
				zap.String("item_id", rec.ID),
				zap.String("stage", inventory.StageLocation),
				zap.String("location", rec.Location),
			)
			return
		}
		r.storeFailure(report, inventory.StageLocation, rec.ID, err)
		return
	}

	if err := r.store.UpsertItemLocation(ctx, rec.ID, locationID); err != nil {
		r.storeFailure(report, inventory.StageItemLocation, rec.ID, err)
	}
}

// resolveLocation maps a record's location to its stable identifier.
func (r *Reconciler) resolveLocation(ctx context.Context, rec inventory.Record) (uint, error) {
	name := normalizeLocation(rec.Location)
	if _, ok := r.locations[name]; !ok {
		return 0, &inventory.UnknownLocationError{ItemID: rec.ID, Location: rec.Location}
	}
	return r.store.UpsertLocation(ctx, name)
}

func (r *Reconciler) storeFailure(report *Report, stage, id string, err error) {
	report.StoreErrors++
	r.logger.Error("Store operation failed",
		zap.String("item_id", id),
		zap.String("stage", stage),
		zap.Error(&inventory.StoreError{Stage: stage, ItemID: id, Err: err}),
	)
}

func (r *Reconciler) finish(ctx context.Context, span trace.Span, report *Report, status Status, err error) *Report {
	report.FinishedAt = r.now()
	report.Status = status
	if err != nil {
		report.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.String("cycle.status", string(status)),
		attribute.Int("cycle.seen", report.Seen),
		attribute.Int("cycle.created", report.Created),
		attribute.Int("cycle.removed", report.Removed),
	)
	r.counters.record(context.WithoutCancel(ctx), report)
	return report
}

func normalizeLocation(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// cycleCounters exports cycle outcomes as OpenTelemetry counters.
type cycleCounters struct {
	cycles  metric.Int64Counter
	created metric.Int64Counter
	removed metric.Int64Counter
	errors  metric.Int64Counter
}

func newCycleCounters(meter metric.Meter) cycleCounters {
	var c cycleCounters
	var err error
	if c.cycles, err = meter.Int64Counter("inventory.cycles", metric.WithDescription("Completed collection cycles by status")); err != nil {
		otel.Handle(err)
	}
	if c.created, err = meter.Int64Counter("inventory.items.created", metric.WithDescription("Items inserted for the first time")); err != nil {
		otel.Handle(err)
	}
	if c.removed, err = meter.Int64Counter("inventory.items.removed", metric.WithDescription("Items marked removed")); err != nil {
		otel.Handle(err)
	}
	if c.errors, err = meter.Int64Counter("inventory.apply.errors", metric.WithDescription("Record-local apply failures")); err != nil {
		otel.Handle(err)
	}
	return c
}

func (c cycleCounters) record(ctx context.Context, report *Report) {
	if c.cycles == nil || c.created == nil || c.removed == nil || c.errors == nil {
		return
	}
	c.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(report.Status))))
	c.created.Add(ctx, int64(report.Created))
	c.removed.Add(ctx, int64(report.Removed))
	c.errors.Add(ctx, int64(report.StoreErrors+report.UnknownLocations))
}
