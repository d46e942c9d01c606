package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"trading-statistics/internal/dto"
	"trading-statistics/internal/repository"
	"trading-statistics/pkg/logger"
)

type SessionStatus string

const (
	StatusIdle    SessionStatus = "idle"
	StatusLoading SessionStatus = "loading"
	StatusReady   SessionStatus = "ready"
	StatusError   SessionStatus = "error"
)

// ErrStaleResponse is returned to a Refresh whose response arrived after a
// newer Refresh had been issued. Its result is dropped.
var ErrStaleResponse = errors.New("statistics response superseded by a newer request")

// ErrorReporter receives failed fetches.
type ErrorReporter interface {
	Report(ctx context.Context, params dto.QueryParameters, err error)
}

// LogReporter reports through the application logger, flagged for the alert webhook.
type LogReporter struct {
	log *logger.Logger
}

func NewLogReporter(log *logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(ctx context.Context, params dto.QueryParameters, err error) {
	r.log.ErrorContext(ctx, "Statistics fetch failed",
		logger.StringField("account_id", params.AccountID),
		logger.IntField("time_range", params.TimeRange),
		logger.ErrorField(err),
		logger.AlertField(),
	)
}

// SessionState is a copy of a Session at one point in time.
type SessionState struct {
	Params    dto.QueryParameters
	Status    SessionStatus
	Records   []dto.EnrichedRecord
	Err       error
	RequestID uint64
	UpdatedAt time.Time
}

// Session owns the query parameters of one dashboard and the lifecycle of
// its statistics fetch.
type Session struct {
	repo     repository.StatisticsRepository
	reporter ErrorReporter
	log      *logger.Logger
	timeout  time.Duration
	now      func() time.Time

	mu        sync.Mutex
	params    dto.QueryParameters
	observed  dto.QueryParameters
	status    SessionStatus
	records   []dto.EnrichedRecord
	err       error
	requestID uint64
	updatedAt time.Time
}

// NewSession creates an idle session. A zero timeout leaves the fetch bounded
// only by the caller's context and the HTTP client.
func NewSession(repo repository.StatisticsRepository, reporter ErrorReporter, log *logger.Logger, timeout time.Duration, defaultRange int) *Session {
	return &Session{
		repo:     repo,
		reporter: reporter,
		log:      log,
		timeout:  timeout,
		now:      time.Now,
		params:   dto.QueryParameters{TimeRange: defaultRange},
		status:   StatusIdle,
	}
}

// SetParameters replaces the held parameters. It never fetches.
func (s *Session) SetParameters(accountID string, timeRange int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = dto.QueryParameters{AccountID: accountID, TimeRange: timeRange}
}

// Refresh fetches statistics for the current parameters. With an empty
// account id it does nothing. Only the most recently issued request may
// change the session once its response arrives.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.params.AccountID == "" {
		s.mu.Unlock()
		return nil
	}
	s.requestID++
	id := s.requestID
	params := s.params
	s.status = StatusLoading
	s.updatedAt = s.now()
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.log.DebugContext(ctx, "Fetching statistics",
		logger.StringField("account_id", params.AccountID),
		logger.IntField("time_range", params.TimeRange),
		logger.Uint64Field("request_id", id),
	)
	points, err := s.repo.GetStatistics(ctx, params)

	s.mu.Lock()
	if id != s.requestID {
		latest := s.requestID
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Discarding superseded statistics response",
			logger.Uint64Field("request_id", id),
			logger.Uint64Field("latest_request_id", latest),
		)
		return ErrStaleResponse
	}

	s.updatedAt = s.now()
	if err != nil {
		s.status = StatusError
		s.records = nil
		s.err = err
		s.mu.Unlock()
		s.reporter.Report(ctx, params, err)
		return err
	}

	s.status = StatusReady
	s.records = Derive(points)
	s.err = nil
	s.mu.Unlock()
	return nil
}

// SyncFromStore applies parameters coming from the URL store. A refresh runs
// only when the store value changed since the last observation and names an
// account; it reports whether one ran.
func (s *Session) SyncFromStore(ctx context.Context, params dto.QueryParameters) (bool, error) {
	s.mu.Lock()
	if params == s.observed {
		s.mu.Unlock()
		return false, nil
	}
	s.observed = params
	if params.AccountID == "" {
		s.mu.Unlock()
		return false, nil
	}
	s.params = params
	s.mu.Unlock()

	return true, s.Refresh(ctx)
}

// MarkObserved records params as already seen in the store, so the next
// SyncFromStore with the same value does not refetch. Used after a form
// submit has refreshed and is about to update the URL.
func (s *Session) MarkObserved(params dto.QueryParameters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = params
}

func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]dto.EnrichedRecord, len(s.records))
	copy(records, s.records)
	return SessionState{
		Params:    s.params,
		Status:    s.status,
		Records:   records,
		Err:       s.err,
		RequestID: s.requestID,
		UpdatedAt: s.updatedAt,
	}
}
