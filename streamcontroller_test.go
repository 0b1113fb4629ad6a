package stateful

import (
	"reflect"
	"testing"
	"time"
)

func TestStreamController_Timestamps_MergesAcrossStreams(t *testing.T) {
	sc := NewStreamController(Configuration{})
	sc.EnsureStream("a", 1.0)
	sc.EnsureStream("b", 1.0)

	sA, _ := sc.streamOf("a")
	sB, _ := sc.streamOf("b")
	_ = sA.Add(mustDate("2020-01-01T00:00:00Z"), 1.0)
	_ = sA.Add(mustDate("2020-01-03T00:00:00Z"), 3.0)
	_ = sB.Add(mustDate("2020-01-02T00:00:00Z"), 2.0)
	_ = sB.Add(mustDate("2020-01-03T00:00:00Z"), 2.0) // duplicate timestamp with a

	got := sc.Timestamps()
	want := []time.Time{
		mustDate("2020-01-01T00:00:00Z"),
		mustDate("2020-01-02T00:00:00Z"),
		mustDate("2020-01-03T00:00:00Z"),
	}
	if !timesEqual(got, want) {
		t.Errorf("Timestamps() = %v, want %v", got, want)
	}
}

func timesEqual(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestStreamController_Get(t *testing.T) {
	sc := NewStreamController(Configuration{})
	sc.EnsureStream("a", 1.0)
	sA, _ := sc.streamOf("a")
	_ = sA.Add(mustDate("2020-01-01T00:00:00Z"), 1.0)

	event, err := sc.Get(mustDate("2020-01-01T00:00:00Z"), nil, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := event.Get("a"); got != 1.0 {
		t.Errorf("Get()[a] = %v, want 1.0", got)
	}
}

func TestStreamController_All(t *testing.T) {
	sc := NewStreamController(Configuration{})
	sc.EnsureStream("a", 1.0)
	sA, _ := sc.streamOf("a")
	_ = sA.Add(mustDate("2020-01-01T00:00:00Z"), 1.0)
	_ = sA.Add(mustDate("2020-01-02T00:00:00Z"), 2.0)

	dates := []time.Time{mustDate("2020-01-01T00:00:00Z"), mustDate("2020-01-02T00:00:00Z")}
	frame, err := sc.All(dates, nil, true)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	col := frame.Column("a")
	want := []interface{}{1.0, 2.0}
	if !reflect.DeepEqual(col.Events, want) {
		t.Errorf("All()[a] = %v, want %v", col.Events, want)
	}
}
