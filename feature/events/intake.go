package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/metrics"
	"freight-relay/core/normalize"
	"freight-relay/core/tm"
	"freight-relay/core/utils"
	"freight-relay/feature/events/models"

	"go.uber.org/zap"
)

const (
	sourcePush      = "push"
	sourceTM        = "tm_sync"
	sourceDelay     = "delay"
	sourcePOD       = "pod"
	sourceUnloading = "unloading"

	coordinateScale = 10
)

// Event names recorded for SKY submissions without an action of their own.
const (
	EventDelay     = "DELAY"
	EventPOD       = "POD"
	EventUnloading = "UNLOADING"
)

// Store is the persistence side of the intake. *Gateway implements it.
type Store interface {
	Insert(ctx context.Context, ev *models.TrackingEvent) error
	InsertIfAbsent(ctx context.Context, ev *models.TrackingEvent) (bool, error)
	ListByOrder(ctx context.Context, foID string) ([]models.TrackingEvent, error)
}

// Upstream is the TM side of the intake. *tm.Client implements it.
type Upstream interface {
	FetchOrderEvents(ctx context.Context, foID normalize.PaddedID) ([]tm.ReportedEvent, error)
	PostEvent(ctx context.Context, s tm.EventSubmission) (json.RawMessage, error)
	PostDelay(ctx context.Context, s tm.DelaySubmission) (json.RawMessage, error)
	PostProofOfDelivery(ctx context.Context, s tm.ProofOfDeliverySubmission) (json.RawMessage, error)
	PostUnloading(ctx context.Context, s tm.UnloadingSubmission) (json.RawMessage, error)
}

// Intake records tracking events pushed by SKY and pulled from TM.
type Intake struct {
	store   Store
	tm      Upstream
	forward bool
	logger  *zap.Logger
}

// Option customizes an Intake.
type Option func(*Intake)

// WithLogger sets the intake logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Intake) { i.logger = l }
}

// WithForwarding toggles forwarding of SKY submissions to TM. On by default.
func WithForwarding(enabled bool) Option {
	return func(i *Intake) { i.forward = enabled }
}

// NewIntake creates an intake over store and TM.
func NewIntake(store Store, upstream Upstream, opts ...Option) *Intake {
	i := &Intake{store: store, tm: upstream, forward: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RecordEvent validates a pushed event and appends exactly one row.
func (i *Intake) RecordEvent(ctx context.Context, p EventPayload) (*models.TrackingEvent, error) {
	ev, err := pushedEvent(p)
	if err != nil {
		metrics.EventsTotal.WithLabelValues(sourcePush, "invalid").Inc()
		return nil, err
	}
	if err := i.insert(ctx, sourcePush, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// SubmitEvent records a pushed event, then forwards it to TM.
func (i *Intake) SubmitEvent(ctx context.Context, p EventPayload) (*SubmitResult, error) {
	ev, err := i.RecordEvent(ctx, p)
	if err != nil {
		return nil, err
	}
	res := &SubmitResult{Event: ev}
	if !i.forward {
		return res, nil
	}
	res.TM, err = i.tm.PostEvent(ctx, tm.EventSubmission{
		FoID:      normalize.PadOrderIdentifier(ev.FoID).String(),
		Action:    derefOr(ev.Action, ev.Event),
		StopID:    ev.StopID,
		Latitude:  ev.Latitude,
		Longitude: ev.Longitude,
	})
	return res, i.forwardErr("TM EVENT", ev, err)
}

// SubmitDelay forwards a delay to TM and records it once TM accepted it.
// The ETA is mandatory and must be YYYYMMDDHHMMSS.
func (i *Intake) SubmitDelay(ctx context.Context, p DelayPayload) (*SubmitResult, error) {
	foID := normalize.NormalizeOrderIdentifier(p.FoID)
	stopID := strings.TrimSpace(p.StopID)
	if foID == "" || stopID == "" {
		metrics.EventsTotal.WithLabelValues(sourceDelay, "invalid").Inc()
		return nil, apperr.MissingFields("FoId", "StopId")
	}
	eta, err := normalize.ParseFixedTimestampStrict(p.ETA)
	if err != nil {
		metrics.EventsTotal.WithLabelValues(sourceDelay, "invalid").Inc()
		return nil, apperr.Validation("ETA", "must be YYYYMMDDHHMMSS")
	}

	res := &SubmitResult{}
	if i.forward {
		res.TM, err = i.tm.PostDelay(ctx, tm.DelaySubmission{
			FoID:          normalize.PadOrderIdentifier(foID).String(),
			StopID:        stopID,
			ETA:           normalize.FormatFixedTimestamp(eta),
			RefEvent:      strings.TrimSpace(p.RefEvent),
			EventCode:     strings.TrimSpace(p.EventCode),
			EvtReasonCode: strings.TrimSpace(p.EvtReasonCode),
			Description:   strings.TrimSpace(p.Description),
		})
		if err != nil {
			metrics.EventsTotal.WithLabelValues(sourceDelay, "forward_failed").Inc()
			i.logger.Error("TM rejected delay", zap.String("fo_id", foID), zap.String("stop_id", stopID), zap.Error(err))
			return nil, asUpstream("TM Delay", err)
		}
	}

	event := strings.TrimSpace(p.RefEvent)
	if event == "" {
		event = EventDelay
	}
	res.Event = &models.TrackingEvent{
		FoID:          foID,
		StopID:        stopID,
		Event:         event,
		EventCode:     utils.NullIfEmpty(p.EventCode),
		EvtReasonCode: utils.NullIfEmpty(p.EvtReasonCode),
		Description:   utils.NullIfEmpty(p.Description),
		ETA:           &eta,
		Latitude:      utils.RoundDecimal(utils.ToDecimal(p.Latitude), coordinateScale),
		Longitude:     utils.RoundDecimal(utils.ToDecimal(p.Longitude), coordinateScale),
	}
	if err := i.insert(ctx, sourceDelay, res.Event); err != nil {
		return nil, err
	}
	return res, nil
}

// SubmitProofOfDelivery records a proof of delivery, then forwards it to TM.
func (i *Intake) SubmitProofOfDelivery(ctx context.Context, p ProofOfDeliveryPayload) (*SubmitResult, error) {
	foID := normalize.NormalizeOrderIdentifier(p.FoID)
	stopID := strings.TrimSpace(p.StopID)
	if foID == "" || stopID == "" {
		metrics.EventsTotal.WithLabelValues(sourcePOD, "invalid").Inc()
		return nil, apperr.MissingFields("FoId", "StopId")
	}

	items := itemsText(p.Items)
	ev := &models.TrackingEvent{
		FoID:        foID,
		StopID:      stopID,
		Event:       EventPOD,
		Discrepency: utils.NullIfEmpty(p.Discrepency),
		Items:       utils.NullIfEmpty(items),
	}
	if err := i.insert(ctx, sourcePOD, ev); err != nil {
		return nil, err
	}

	res := &SubmitResult{Event: ev}
	if !i.forward {
		return res, nil
	}
	var err error
	res.TM, err = i.tm.PostProofOfDelivery(ctx, tm.ProofOfDeliverySubmission{
		FoID:        normalize.PadOrderIdentifier(foID).String(),
		StopID:      stopID,
		Discrepency: strings.TrimSpace(p.Discrepency),
		Items:       strings.TrimSpace(items),
	})
	return res, i.forwardErr("TM POD", ev, err)
}

// SubmitUnloading records an unloading event, then forwards it to TM.
func (i *Intake) SubmitUnloading(ctx context.Context, p UnloadingPayload) (*SubmitResult, error) {
	foID := normalize.NormalizeOrderIdentifier(p.FoID)
	stopID := strings.TrimSpace(p.StopID)
	if foID == "" || stopID == "" {
		metrics.EventsTotal.WithLabelValues(sourceUnloading, "invalid").Inc()
		return nil, apperr.MissingFields("FoId", "StopId")
	}

	ev := &models.TrackingEvent{
		FoID:      foID,
		StopID:    stopID,
		Event:     EventUnloading,
		Latitude:  utils.RoundDecimal(utils.ToDecimal(p.Latitude), coordinateScale),
		Longitude: utils.RoundDecimal(utils.ToDecimal(p.Longitude), coordinateScale),
	}
	if err := i.insert(ctx, sourceUnloading, ev); err != nil {
		return nil, err
	}

	res := &SubmitResult{Event: ev}
	if !i.forward {
		return res, nil
	}
	var err error
	res.TM, err = i.tm.PostUnloading(ctx, tm.UnloadingSubmission{
		FoID:      normalize.PadOrderIdentifier(foID).String(),
		StopID:    stopID,
		Latitude:  ev.Latitude,
		Longitude: ev.Longitude,
	})
	return res, i.forwardErr("TM Unloading", ev, err)
}

// SyncEventsForOrder pulls the TM event feed of one order, inserts the events
// not stored yet and returns the stored view of the order.
//
// Events missing an identifying field (order, stop, event, reported time) or
// reported for another order are rejected and counted. Other unparseable fields are stored as null. A failed
// insert is counted and does not stop the sync.
func (i *Intake) SyncEventsForOrder(ctx context.Context, foID string) (*SyncResult, error) {
	normalized := normalize.NormalizeOrderIdentifier(foID)
	if normalized == "" {
		return nil, apperr.MissingFields("foId")
	}
	log := i.logger.With(zap.String("fo_id", normalized))

	rows, err := i.tm.FetchOrderEvents(ctx, normalize.PadOrderIdentifier(normalized))
	if err != nil {
		log.Error("Failed to fetch TM events", zap.Error(err))
		return nil, asUpstream("TM EventsReportingSet", err)
	}

	result := &SyncResult{FoID: normalized, Fetched: len(rows)}
	for _, row := range rows {
		ev, err := reportedEvent(row)
		if err == nil && ev.FoID != normalized {
			err = apperr.Validation("FoId", "event belongs to order "+ev.FoID)
		}
		if err != nil {
			result.Rejected++
			metrics.EventsTotal.WithLabelValues(sourceTM, "rejected").Inc()
			log.Warn("Rejected TM event",
				zap.String("stop_id", row.StopID),
				zap.String("event", row.Event),
				zap.String("timestamp", row.Timestamp),
				zap.Error(err))
			continue
		}

		inserted, err := i.store.InsertIfAbsent(ctx, ev)
		switch {
		case err != nil:
			result.Failed++
			metrics.EventsTotal.WithLabelValues(sourceTM, "failed").Inc()
			log.Error("Failed to store TM event", zap.String("stop_id", ev.StopID), zap.String("event", ev.Event), zap.Error(err))
		case inserted:
			result.Inserted++
			metrics.EventsTotal.WithLabelValues(sourceTM, "inserted").Inc()
		default:
			result.Duplicates++
			metrics.EventsTotal.WithLabelValues(sourceTM, "duplicate").Inc()
		}
	}

	result.Events, err = i.store.ListByOrder(ctx, normalized)
	if err != nil {
		return nil, err
	}

	log.Info("TM events synced",
		zap.Int("fetched", result.Fetched),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("rejected", result.Rejected),
		zap.Int("failed", result.Failed))
	return result, nil
}

// StoredEvents returns the stored view of one order without contacting TM.
func (i *Intake) StoredEvents(ctx context.Context, foID string) ([]models.TrackingEvent, error) {
	normalized := normalize.NormalizeOrderIdentifier(foID)
	if normalized == "" {
		return nil, apperr.MissingFields("foId")
	}
	return i.store.ListByOrder(ctx, normalized)
}

func (i *Intake) insert(ctx context.Context, source string, ev *models.TrackingEvent) error {
	if err := i.store.Insert(ctx, ev); err != nil {
		metrics.EventsTotal.WithLabelValues(source, "failed").Inc()
		i.logger.Error("Failed to store event",
			zap.String("source", source),
			zap.String("fo_id", ev.FoID),
			zap.String("stop_id", ev.StopID),
			zap.Error(err))
		return err
	}
	metrics.EventsTotal.WithLabelValues(source, "inserted").Inc()
	return nil
}

// forwardErr logs a failed forward. The event stays recorded.
func (i *Intake) forwardErr(op string, ev *models.TrackingEvent, err error) error {
	if err == nil {
		return nil
	}
	i.logger.Error("Failed to forward event to TM",
		zap.String("op", op),
		zap.String("fo_id", ev.FoID),
		zap.String("stop_id", ev.StopID),
		zap.Error(err))
	return asUpstream(op, err)
}

func pushedEvent(p EventPayload) (*models.TrackingEvent, error) {
	foID := normalize.NormalizeOrderIdentifier(p.FoID)
	action := strings.TrimSpace(p.Action)
	stopID := strings.TrimSpace(p.StopID)
	if foID == "" || action == "" || stopID == "" {
		return nil, apperr.MissingFields("FoId", "Action", "StopId")
	}

	var eta *time.Time
	if raw := strings.TrimSpace(p.ETA); raw != "" && raw != normalize.EmptyTimestamp {
		t, err := normalize.ParseFixedTimestampStrict(raw)
		if err != nil {
			return nil, apperr.Validation("ETA", "must be YYYYMMDDHHMMSS")
		}
		eta = &t
	}

	event := strings.TrimSpace(p.Event)
	if event == "" {
		event = action
	}
	return &models.TrackingEvent{
		FoID:          foID,
		StopID:        stopID,
		Event:         event,
		Action:        &action,
		EventCode:     utils.NullIfEmpty(p.EventCode),
		EvtReasonCode: utils.NullIfEmpty(p.EvtReasonCode),
		Description:   utils.NullIfEmpty(p.Description),
		ETA:           eta,
		Discrepency:   utils.NullIfEmpty(p.Discrepency),
		Items:         utils.NullIfEmpty(itemsText(p.Items)),
		Latitude:      utils.RoundDecimal(utils.ToDecimal(p.Latitude), coordinateScale),
		Longitude:     utils.RoundDecimal(utils.ToDecimal(p.Longitude), coordinateScale),
		Location:      utils.NullIfEmpty(p.Location),
	}, nil
}

func reportedEvent(row tm.ReportedEvent) (*models.TrackingEvent, error) {
	foID := normalize.NormalizeOrderIdentifier(row.FoID)
	stopID := strings.TrimSpace(row.StopID)
	event := strings.TrimSpace(row.Event)
	var missing []string
	if foID == "" {
		missing = append(missing, "FoId")
	}
	if stopID == "" {
		missing = append(missing, "StopId")
	}
	if event == "" {
		missing = append(missing, "Event")
	}
	reported := normalize.ParseFixedTimestamp(row.Timestamp)
	if reported == nil {
		missing = append(missing, "Timestamp")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	return &models.TrackingEvent{
		FoID:               foID,
		StopID:             stopID,
		Event:              event,
		Action:             utils.NullIfEmpty(row.Action),
		EventCode:          utils.NullIfEmpty(row.EventCode),
		EvtReasonCode:      utils.NullIfEmpty(row.EvtReasonCode),
		Description:        utils.NullIfEmpty(row.Description),
		ETA:                normalize.ParseFixedTimestamp(row.ETA),
		Discrepency:        utils.NullIfEmpty(row.Discrepency),
		Items:              utils.NullIfEmpty(itemsText(row.Items)),
		Latitude:           utils.RoundDecimal(utils.ToDecimal(row.Latitude), coordinateScale),
		Longitude:          utils.RoundDecimal(utils.ToDecimal(row.Longitude), coordinateScale),
		Location:           utils.NullIfEmpty(row.Location),
		PlannedTime:        normalize.ParseFixedTimestamp(row.PlannedTime),
		ActualReportedTime: reported,
	}, nil
}

func asUpstream(op string, err error) error {
	var upstream *apperr.UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	return &apperr.UpstreamError{Op: op, Err: err}
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
