package stateful

import "testing"

func TestState_Add_RoutesToSpace(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	err := s.Add(map[string]interface{}{
		"symbol": "AAPL",
		"date":   mustDate("2020-01-01T00:00:00Z"),
		"price":  100.0,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Space("AAPL") == nil {
		t.Fatal("Add() should create the space on first mention")
	}
	if s.Space("MSFT") != nil {
		t.Fatal("Space() for an unmentioned primary value should be nil")
	}
}

func TestState_Add_MissingPrimaryKey(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	err := s.Add(map[string]interface{}{"date": mustDate("2020-01-01T00:00:00Z")})
	if err == nil {
		t.Fatal("Add() with no primary key should error")
	}
}

func TestState_Set_PropagatesToExistingAndFutureSpaces(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	_ = s.Add(map[string]interface{}{"symbol": "AAPL", "date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0})

	doubled := s.Dep("price").Times(2.0)
	if err := s.Set("doubled", doubled); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A space that already existed when Set ran gets the derived stream.
	event, err := s.Space("AAPL").Get(mustDate("2020-01-01T00:00:00Z"), false, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := event.Get("doubled"); got != 20.0 {
		t.Errorf("doubled on existing space = %v, want 20.0", got)
	}

	// A space created after Set also gets it, replayed from the declaration.
	_ = s.Add(map[string]interface{}{"symbol": "MSFT", "date": mustDate("2020-01-01T00:00:00Z"), "price": 5.0})
	event, err = s.Space("MSFT").Get(mustDate("2020-01-01T00:00:00Z"), false, false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := event.Get("doubled"); got != 10.0 {
		t.Errorf("doubled on space created after Set = %v, want 10.0", got)
	}
}

func TestState_All(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	_ = s.Add(map[string]interface{}{"symbol": "AAPL", "date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0})
	_ = s.Add(map[string]interface{}{"symbol": "MSFT", "date": mustDate("2020-01-01T00:00:00Z"), "price": 20.0})

	frames, err := s.All([]interface{}{mustDate("2020-01-01T00:00:00Z")})
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("All() returned %d frames, want 2", len(frames))
	}
	aapl := frames["AAPL"]
	if aapl.Column("symbol").At(0) != "AAPL" {
		t.Errorf("All()[AAPL] missing symbol column: %v", aapl.Column("symbol").Events)
	}
}

func TestState_Transpose(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	_ = s.Add(map[string]interface{}{"symbol": "AAPL", "date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0})
	_ = s.Add(map[string]interface{}{"symbol": "MSFT", "date": mustDate("2020-01-01T00:00:00Z"), "price": 20.0})

	frame, err := s.Transpose([]interface{}{mustDate("2020-01-01T00:00:00Z")})
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	if frame.Len() != 2 {
		t.Fatalf("Transpose() Len() = %d, want 2 (one row per space)", frame.Len())
	}
}
