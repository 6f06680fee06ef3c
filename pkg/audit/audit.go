// Package audit writes security-relevant events (logins, registrations,
// rejected tokens, throttled clients) as structured JSON lines via zap.
package audit

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventRegistered         EventType = "user_registered"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventTokenRejected      EventType = "token_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
)

// Event is a single audit record.
type Event struct {
	Type      EventType
	UserID    int64
	Email     string // masked before it is written
	IP        string
	RequestID string
	Reason    string
}

// Logger writes audit events.
type Logger struct {
	zap     *zap.Logger
	service string
	env     string
}

// New builds a production zap logger writing to stdout.
func New(service, env string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	z, err := cfg.Build(zap.AddCaller())
	if err != nil {
		z, _ = zap.NewProduction()
	}
	return &Logger{zap: z, service: service, env: env}
}

// NewWithCore is used by tests to capture output.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{zap: zap.New(core), service: "test", env: "test"}
}

// Nop discards every event.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}

	fields := []zap.Field{
		zap.String("service", l.service),
		zap.String("env", l.env),
		zap.String("event", string(event.Type)),
		zap.Time("at", time.Now().UTC()),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Int64("user_id", event.UserID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", MaskEmail(event.Email)))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}

	switch event.Type {
	case EventRegistered, EventLoginSuccess:
		l.zap.Info("audit", fields...)
	default:
		l.zap.Warn("audit", fields...)
	}
}

func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
