package syncstate

import (
	"testing"
	"time"
)

func TestWatermark_SelectMode(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hourAgo := now.Add(-time.Hour)
	dayAndHourAgo := now.Add(-25 * time.Hour)

	tests := []struct {
		name      string
		watermark Watermark
		want      Mode
	}{
		{name: "never synced", watermark: Watermark{TeamID: 99}, want: ModeSnapshot},
		{name: "no snapshot yet", watermark: Watermark{TeamID: 99, LastSeenMaxID: 57}, want: ModeSnapshot},
		{name: "fresh snapshot", watermark: Watermark{TeamID: 99, LastSeenMaxID: 57, LastSnapshotAt: &hourAgo}, want: ModeIncremental},
		{name: "stale snapshot", watermark: Watermark{TeamID: 99, LastSeenMaxID: 57, LastSnapshotAt: &dayAndHourAgo}, want: ModeSnapshot},
		{name: "zero id with fresh snapshot", watermark: Watermark{TeamID: 99, LastSnapshotAt: &hourAgo}, want: ModeSnapshot},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.watermark.SelectMode(now); got != tc.want {
				t.Fatalf("expected mode=%s, got=%s", tc.want, got)
			}
		})
	}
}

func TestWatermark_ObserveIsMonotonic(t *testing.T) {
	t.Parallel()

	w := Watermark{TeamID: 99}
	for _, id := range []int64{10, 57, 33} {
		w.Observe(id)
	}
	if w.LastSeenMaxID != 57 {
		t.Fatalf("expected watermark=57, got=%d", w.LastSeenMaxID)
	}
	if w.IDAfterFilter() != "idAfter:57" {
		t.Fatalf("unexpected filter: %s", w.IDAfterFilter())
	}
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	if f, ok := ParseFeature("injuries"); !ok || f != FeatureInjuries {
		t.Fatalf("expected injuries feature, got=%s ok=%t", f, ok)
	}
	if _, ok := ParseFeature("lineups"); ok {
		t.Fatalf("expected unknown feature to be rejected")
	}
}
