package logger

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"trading-statistics/pkg/httpclient"
	"trading-statistics/pkg/utils"

	"go.uber.org/zap/zapcore"
)

// Alert is the payload forwarded to an AlertSink.
type Alert struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields"`
	Time    time.Time              `json:"time"`
}

type AlertSink interface {
	Send(ctx context.Context, alert Alert) error
}

// AlertCore tees entries flagged with AlertField to a sink. Failed sends are
// written to stderr.
type AlertCore struct {
	core     zapcore.Core
	sink     AlertSink
	minLevel zapcore.Level
	fallback *log.Logger
}

func NewAlertCore(core zapcore.Core, sink AlertSink, minLevel zapcore.Level) *AlertCore {
	return &AlertCore{
		core:     core,
		sink:     sink,
		minLevel: minLevel,
		fallback: log.New(os.Stderr, "[alert] ", log.LstdFlags),
	}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		sink:     a.sink,
		minLevel: a.minLevel,
		fallback: a.fallback,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == KeySendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		utils.GoSafe(func() { a.send(entry, fields) })
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) send(entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key == KeySendAlert {
			continue
		}
		f.AddTo(enc)
	}

	err := a.sink.Send(context.Background(), Alert{
		Level:   entry.Level.CapitalString(),
		Message: entry.Message,
		Fields:  enc.Fields,
		Time:    entry.Time,
	})
	if err != nil {
		a.fallback.Printf("failed to deliver %s alert %q: %v", entry.Level.CapitalString(), entry.Message, err)
	}
}

// WebhookSink posts alerts as JSON to an HTTP endpoint.
type WebhookSink struct {
	client httpclient.HTTPClient
	url    string
}

func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		client: httpclient.New("", timeout, ""),
		url:    url,
	}
}

func (w *WebhookSink) Send(ctx context.Context, alert Alert) error {
	resp, err := w.client.Post(ctx, w.url, alert, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to post alert: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("alert webhook returned status: %d", resp.StatusCode)
	}
	return nil
}
