package stateful

import (
	"testing"
	"time"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateTree_Get_Floor(t *testing.T) {
	dt := NewDateTree(DtypeFloating, InterpFloor, DupIncrement)
	if err := dt.Add(mustDate("2020-01-01T00:00:00Z"), 1.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := dt.Add(mustDate("2020-01-03T00:00:00Z"), 3.0); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name string
		date time.Time
		want interface{}
	}{
		{"before start", mustDate("2019-12-31T00:00:00Z"), 0.0},
		{"exact hit", mustDate("2020-01-01T00:00:00Z"), 1.0},
		{"between points", mustDate("2020-01-02T00:00:00Z"), 1.0},
		{"after end", mustDate("2020-01-10T00:00:00Z"), 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dt.Get(tt.date)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateTree_Get_Ceil(t *testing.T) {
	dt := NewDateTree(DtypeFloating, InterpCeil, DupIncrement)
	_ = dt.Add(mustDate("2020-01-01T00:00:00Z"), 1.0)
	_ = dt.Add(mustDate("2020-01-03T00:00:00Z"), 3.0)

	tests := []struct {
		name string
		date time.Time
		want interface{}
	}{
		{"before start", mustDate("2019-12-31T00:00:00Z"), 0.0},
		{"between points", mustDate("2020-01-02T00:00:00Z"), 3.0},
		{"after end", mustDate("2020-01-10T00:00:00Z"), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dt.Get(tt.date)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateTree_Get_Linear(t *testing.T) {
	dt := NewDateTree(DtypeFloating, InterpLinear, DupIncrement)
	_ = dt.Add(mustDate("2020-01-01T00:00:00Z"), 0.0)
	_ = dt.Add(mustDate("2020-01-03T00:00:00Z"), 4.0)

	got, err := dt.Get(mustDate("2020-01-02T00:00:00Z"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 2.0 {
		t.Errorf("Get(midpoint) = %v, want 2.0", got)
	}

	got, err = dt.Get(mustDate("2020-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 0.0 {
		t.Errorf("Get(exact hit) = %v, want 0.0 (backup-map workaround)", got)
	}
}

func TestDateTree_Get_Linear_IntegerStream_PreservesFraction(t *testing.T) {
	// An integer-dtype tree must not round an interpolated midpoint before
	// it reaches a derived stream's arithmetic: only output casting should
	// ever truncate it.
	dt := NewDateTree(DtypeInteger, InterpLinear, DupIncrement)
	_ = dt.Add(mustDate("2020-12-21T00:00:00Z"), 4)
	_ = dt.Add(mustDate("2020-12-22T00:00:00Z"), 5)
	_ = dt.Add(mustDate("2020-12-24T00:00:00Z"), 100)

	got, err := dt.Get(mustDate("2020-12-23T00:00:00Z"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 52.5 {
		t.Errorf("Get(midpoint) = %v, want the raw 52.5 (uncast)", got)
	}
}

func TestDateTree_DuplicatePolicies(t *testing.T) {
	date := mustDate("2020-01-01T00:00:00Z")

	t.Run("increment", func(t *testing.T) {
		dt := NewDateTree(DtypeInteger, InterpFloor, DupIncrement)
		_ = dt.Add(date, 1)
		_ = dt.Add(date, 2)
		if dt.Length() != 2 {
			t.Fatalf("Length() = %d, want 2", dt.Length())
		}
		v, _ := dt.Get(date.Add(time.Second))
		if v != 2 {
			t.Errorf("second insert landed at %v = %d, want 2", date.Add(time.Second), v)
		}
	})

	t.Run("erase", func(t *testing.T) {
		dt := NewDateTree(DtypeInteger, InterpFloor, DupErase)
		_ = dt.Add(date, 1)
		_ = dt.Add(date, 2)
		v, _ := dt.Get(date)
		if v != 2 {
			t.Errorf("Get() = %v, want 2 (overwritten)", v)
		}
	})

	t.Run("keep", func(t *testing.T) {
		dt := NewDateTree(DtypeObject, InterpFloor, DupKeep)
		_ = dt.Add(date, 1)
		_ = dt.Add(date, 2)
		v, _ := dt.Get(date)
		kept, ok := v.([]interface{})
		if !ok || len(kept) != 2 {
			t.Errorf("Get() = %v, want []interface{}{1, 2}", v)
		}
	})
}

func TestDateTree_Empty(t *testing.T) {
	dt := NewDateTree(DtypeFloating, InterpFloor, DupIncrement)
	if !dt.Empty() {
		t.Fatal("new tree should be Empty()")
	}
	_ = dt.Add(mustDate("2020-01-01T00:00:00Z"), 1.0)
	if dt.Empty() {
		t.Fatal("tree with one point should not be Empty()")
	}
}

func TestDateTree_On_Next(t *testing.T) {
	dt := NewDateTree(DtypeInteger, InterpFloor, DupIncrement)
	_ = dt.Add(mustDate("2020-01-02T00:00:00Z"), 2)
	_ = dt.Add(mustDate("2020-01-01T00:00:00Z"), 1)

	dt.On(true)
	defer dt.On(false)

	first, v, ok := dt.Next()
	if !ok || v != 1 || !first.Equal(mustDate("2020-01-01T00:00:00Z")) {
		t.Fatalf("first Next() = %v, %v, %v; want 2020-01-01, 1, true", first, v, ok)
	}
	second, v, ok := dt.Next()
	if !ok || v != 2 || !second.Equal(mustDate("2020-01-02T00:00:00Z")) {
		t.Fatalf("second Next() = %v, %v, %v; want 2020-01-02, 2, true", second, v, ok)
	}
	if _, _, ok := dt.Next(); ok {
		t.Fatal("Next() after exhaustion should return ok=false")
	}
}

func TestDateTree_Get_Floor_OutOfOrderInsert(t *testing.T) {
	// A point query always reflects the step-floor value as of the final
	// state of the tree, independent of insertion order.
	dt := NewDateTree(DtypeString, InterpFloor, DupIncrement)
	_ = dt.Add(mustDate("2020-01-10T00:00:00Z"), "A")
	_ = dt.Add(mustDate("2020-01-30T00:00:00Z"), "A")
	_ = dt.Add(mustDate("2020-01-20T00:00:00Z"), "B")

	got, err := dt.Get(mustDate("2020-02-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "A" {
		t.Errorf("Get() after an out-of-order insert = %v, want %q (the value recorded at 2020-01-30)", got, "A")
	}
}

func TestDateTree_Floor_Ceil(t *testing.T) {
	dt := NewDateTree(DtypeInteger, InterpFloor, DupIncrement)
	_ = dt.Add(mustDate("2020-01-01T00:00:00Z"), 1)
	_ = dt.Add(mustDate("2020-01-05T00:00:00Z"), 5)

	ft, fv := dt.Floor(mustDate("2020-01-03T00:00:00Z"))
	if fv != 1 || !ft.Equal(mustDate("2020-01-01T00:00:00Z")) {
		t.Errorf("Floor() = %v, %v; want 2020-01-01, 1", ft, fv)
	}
	ct, cv := dt.Ceil(mustDate("2020-01-03T00:00:00Z"))
	if cv != 5 || !ct.Equal(mustDate("2020-01-05T00:00:00Z")) {
		t.Errorf("Ceil() = %v, %v; want 2020-01-05, 5", ct, cv)
	}
}
