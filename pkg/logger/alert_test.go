package logger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type chanSink struct {
	alerts chan Alert
}

func (c *chanSink) Send(ctx context.Context, alert Alert) error {
	c.alerts <- alert
	return nil
}

type failingSink struct{}

func (failingSink) Send(ctx context.Context, alert Alert) error {
	return errors.New("webhook unreachable")
}

type chanWriter chan string

func (w chanWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestAlertCore_ReportsFailedDelivery(t *testing.T) {
	inner, _ := observer.New(zapcore.DebugLevel)
	lines := make(chanWriter, 1)
	core := NewAlertCore(inner, failingSink{}, zapcore.ErrorLevel)
	core.fallback = log.New(lines, "", 0)

	zap.New(core).With(zap.String("account_id", "A1")).Error("fetch failed", AlertField())

	select {
	case line := <-lines:
		assert.Contains(t, line, `failed to deliver ERROR alert "fetch failed"`)
		assert.Contains(t, line, "webhook unreachable")
	case <-time.After(time.Second):
		t.Fatal("failed delivery was not reported")
	}
}

func TestAlertCore_ForwardsFlaggedEntries(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	sink := &chanSink{alerts: make(chan Alert, 4)}
	log := zap.New(NewAlertCore(inner, sink, zapcore.ErrorLevel))

	log.Error("statistics fetch failed", zap.String("account_id", "A1"), AlertField())

	select {
	case alert := <-sink.alerts:
		assert.Equal(t, "ERROR", alert.Level)
		assert.Equal(t, "statistics fetch failed", alert.Message)
		assert.Equal(t, "A1", alert.Fields["account_id"])
		assert.NotContains(t, alert.Fields, KeySendAlert)
	case <-time.After(time.Second):
		t.Fatal("alert was not forwarded")
	}
	assert.Equal(t, 1, logs.Len(), "entry must be written once to the wrapped core")
}

func TestAlertCore_SkipsUnflaggedAndLowLevel(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	sink := &chanSink{alerts: make(chan Alert, 4)}
	log := zap.New(NewAlertCore(inner, sink, zapcore.ErrorLevel))

	log.Error("plain error")
	log.Warn("flagged warning", AlertField())

	select {
	case alert := <-sink.alerts:
		t.Fatalf("unexpected alert: %+v", alert)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, logs.Len())
}

func TestWebhookSink_Send(t *testing.T) {
	received := make(chan Alert, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var alert Alert
		_ = json.NewDecoder(r.Body).Decode(&alert)
		received <- alert
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, time.Second)
	err := sink.Send(context.Background(), Alert{Level: "ERROR", Message: "boom"})
	require.NoError(t, err)
	assert.Equal(t, "boom", (<-received).Message)
}

func TestWebhookSink_SendNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, time.Second).Send(context.Background(), Alert{Message: "boom"})
	assert.Error(t, err)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "json", nil, "")
	assert.Error(t, err)

	_, err = New("info", "json", &chanSink{}, "nope")
	assert.Error(t, err)
}
