package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "matcheck_checklist_metrics_") {
		t.Fatalf("unexpected name %s", rec.Name())
	}
	rec.Observe(context.Background(), "commit", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "commit", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Second)
	rec.SetGoalCount(4)

	snap := rec.Snapshot()
	if snap.Results["commit"]["success"] != 1 || snap.Results["commit"]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if snap.DurationsMS["commit"] < 3 || snap.Goals != 4 || len(snap.Results) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), `"goals":4`) {
		t.Fatalf("expvar not published: %v", published)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	rec.Observe(context.Background(), "delete", true, time.Millisecond)
	rec.Observe(context.Background(), "delete", true, time.Millisecond)
	rec.SetGoalCount(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case "matcheck_operations_total":
				found[mf.GetName()] = m.GetCounter().GetValue()
			case "matcheck_goals":
				found[mf.GetName()] = m.GetGauge().GetValue()
			case "matcheck_operation_duration_seconds":
				found[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	if found["matcheck_operations_total"] != 2 || found["matcheck_goals"] != 3 || found["matcheck_operation_duration_seconds"] != 2 {
		t.Fatalf("unexpected metrics %+v", found)
	}
}

func TestMultiMetricsRecorder(t *testing.T) {
	a, b := &captureMetricsRecorder{}, &captureMetricsRecorder{}
	multi := NewMultiMetricsRecorder(a, nil, b)
	if len(multi) != 2 {
		t.Fatalf("nil recorders should be dropped")
	}
	multi.Observe(context.Background(), "commit", true, 0)
	multi.SetGoalCount(7)
	if !a.has("commit", true) || !b.has("commit", true) || a.count != 7 || b.count != 7 {
		t.Fatalf("fan-out failed")
	}
}

func TestJSONTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "commit")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "delete")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 || entries[0].Status != "success" || entries[1].Status != "error" || entries[1].Error != "boom" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].SpanID == "" || entries[0].SpanID == entries[1].SpanID {
		t.Fatalf("span ids must be unique")
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two json lines, got %q", buf.String())
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil || decoded.Operation != "delete" {
		t.Fatalf("decode line: %v %+v", err, decoded)
	}
	if len(NewJSONTracer(nil).Entries()) != 0 {
		t.Fatalf("nil writer tracer should start empty")
	}
}
