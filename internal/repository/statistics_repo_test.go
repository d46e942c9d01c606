package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trading-statistics/config"
	"trading-statistics/internal/dto"
	"trading-statistics/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Statistics: config.Statistics{
			BaseURL:          baseURL,
			Timeout:          time.Second,
			MaxRequestPerMin: 600,
		},
	}
}

func TestStatisticsRepository_GetStatistics(t *testing.T) {
	type response struct {
		status int
		body   string
	}
	tests := []struct {
		name      string
		response  response
		wantLen   int
		wantErrIs error
	}{
		{
			name: "single point",
			response: response{status: http.StatusOK, body: `{"data":{"points":[{"dateTime":"2024-01-01T00:00:00Z","dailyPnL":10,"swap":-1,"commission":-2,"balance":1100,"prevBalance":1000,"withdraw":0,"deposit":0,"winningPositions":3,"losingPositions":1,"soCompensation":0}]}}`},
			wantLen:  1,
		},
		{
			name:     "data omitted",
			response: response{status: http.StatusOK, body: `{}`},
			wantLen:  0,
		},
		{
			name:     "points omitted",
			response: response{status: http.StatusOK, body: `{"data":{}}`},
			wantLen:  0,
		},
		{
			name:      "server error",
			response:  response{status: http.StatusInternalServerError, body: `oops`},
			wantErrIs: ErrUnexpectedStatus,
		},
		{
			name:      "not found",
			response:  response{status: http.StatusNotFound, body: `{"data":{"points":[]}}`},
			wantErrIs: ErrUnexpectedStatus,
		},
		{
			name:      "malformed json",
			response:  response{status: http.StatusOK, body: `{"data":`},
			wantErrIs: ErrMalformedBody,
		},
		{
			name:      "html body",
			response:  response{status: http.StatusOK, body: `<html></html>`},
			wantErrIs: ErrMalformedBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/Private/TradingAccountPOC/TradingAccounts/A1/GetStatistics", r.URL.Path)
				assert.Equal(t, "30", r.URL.Query().Get("timeRange"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.response.status)
				_, _ = w.Write([]byte(tt.response.body))
			}))
			defer srv.Close()

			repo := NewStatisticsRepository(newTestConfig(srv.URL), logger.NewNop())
			points, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "A1", TimeRange: 30})
			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(err, tt.wantErrIs), "got %v", err)
				assert.Nil(t, points)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, points)
			assert.Len(t, points, tt.wantLen)
		})
	}
}

func TestStatisticsRepository_DecodesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"points":[{"dateTime":"2024-01-01T00:00:00Z","soCompensation":4,"dailyPnL":10,"swap":-1,"commission":-2,"balance":1100,"prevBalance":1000,"withdraw":5,"deposit":6,"winningPositions":3,"losingPositions":1}]}}`))
	}))
	defer srv.Close()

	repo := NewStatisticsRepository(newTestConfig(srv.URL), logger.NewNop())
	points, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "A1", TimeRange: 30})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, dto.DailyRecord{
		DateTime:         "2024-01-01T00:00:00Z",
		SOCompensation:   4,
		DailyPnL:         10,
		Swap:             -1,
		Commission:       -2,
		Balance:          1100,
		PrevBalance:      1000,
		Withdraw:         5,
		Deposit:          6,
		WinningPositions: 3,
		LosingPositions:  1,
	}, points[0])
}

func TestStatisticsRepository_EscapesAccountID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	repo := NewStatisticsRepository(newTestConfig(srv.URL), logger.NewNop())
	_, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "acc 1", TimeRange: 7})
	require.NoError(t, err)
	assert.Equal(t, "/Private/TradingAccountPOC/TradingAccounts/acc%201/GetStatistics", gotPath)
}

func TestStatisticsRepository_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	repo := NewStatisticsRepository(newTestConfig(baseURL), logger.NewNop())
	_, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "A1", TimeRange: 30})
	assert.Error(t, err)
}

func TestStatisticsRepository_Timeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := newTestConfig(srv.URL)
	cfg.Statistics.Timeout = 20 * time.Millisecond
	repo := NewStatisticsRepository(cfg, logger.NewNop())
	_, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "A1", TimeRange: 30})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStatisticsRepository_ThrottlesPerAccount(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := newTestConfig(srv.URL)
	cfg.Statistics.MaxRequestPerMin = 1
	repo := NewStatisticsRepository(cfg, logger.NewNop())

	_, err := repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "A1", TimeRange: 30})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = repo.GetStatistics(ctx, dto.QueryParameters{AccountID: "A1", TimeRange: 7})
	assert.Error(t, err)

	_, err = repo.GetStatistics(context.Background(), dto.QueryParameters{AccountID: "B2", TimeRange: 30})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
