package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dormhub/backend/internal/infrastructure/config"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestSetup_Disabled(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.False(t, tel.Tracer.SpanProfilesEnabled())
	require.NotNil(t, tel.Metrics)

	base := zap.NewNop()
	assert.Same(t, base, tel.BridgeLogger(base, zapcore.InfoLevel))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "x"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	assert.Error(t, err)

	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfileTypes(t *testing.T) {
	assert.Len(t, profileTypes(ProfilerConfig{}), 2)
	assert.Len(t, profileTypes(ProfilerConfig{Allocations: true}), 6)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("k", "v"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "v", entry.ContextMap()["k"])
	assert.False(t, core.Enabled(zapcore.DebugLevel))
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := StartServiceSpan(context.Background(), "inspection", "Complete", Attr("inspection_id", "abc"))
	assert.NotEmpty(t, TraceID(ctx))
	End(span, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "inspection.Complete", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("inspection_id", "abc"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("service.method", "Complete"))
}

func TestEnd_RecordsError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartServiceSpan(context.Background(), "community", "Join")
	End(span, errors.New("event is full"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "event is full", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestAttr(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, attribute.String("a", "x"), Attr("a", "x"))
	assert.Equal(t, attribute.Int("a", 3), Attr("a", 3))
	assert.Equal(t, attribute.Int64("a", 3), Attr("a", int64(3)))
	assert.Equal(t, attribute.Bool("a", true), Attr("a", true))
	assert.Equal(t, attribute.String("a", id.String()), Attr("a", id))
	assert.Equal(t, attribute.String("a", "[1 2]"), Attr("a", []int{1, 2}))
}

func TestDormMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewDormMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	m.InspectionCompleted(ctx, tenantID)
	m.RoomChecked(ctx, tenantID, "confirmed")
	m.RoomChecked(ctx, tenantID, "no_access")
	m.ReportRendered(ctx, tenantID, 2*time.Second, nil)
	m.ParticipantJoined(ctx, tenantID, "invitation")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[metric.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), totals["dorm_inspections_completed_total"])
	assert.Equal(t, int64(2), totals["dorm_inspection_rooms_checked_total"])
	assert.Equal(t, int64(1), totals["dorm_inspection_reports_total"])
	assert.Equal(t, int64(1), totals["dorm_event_participants_joined_total"])
}

func TestDormMetrics_NilIsNoop(t *testing.T) {
	var m *DormMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.InspectionCompleted(ctx, uuid.New())
		m.RoomChecked(ctx, uuid.New(), "confirmed")
		m.ReportRendered(ctx, uuid.New(), time.Second, errors.New("x"))
		m.InvitationCreated(ctx, uuid.New())
		m.ParticipantJoined(ctx, uuid.New(), "direct")
		m.JobProcessed(ctx, "INVITATION_CLEANUP", nil)
	})
}

type traceRow struct {
	ID   uint
	Name string
}

func TestRegisterDBTracing(t *testing.T) {
	sr := setupTestTracer(t)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&traceRow{}))

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "test"}, zap.NewNop()))

	ctx, span := otel.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&traceRow{Name: "a"}).Error)
	span.End()

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "parent")
	assert.Greater(t, len(names), 1, "gorm spans recorded")
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
}
