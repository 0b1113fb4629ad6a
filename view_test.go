package stateful

import "testing"

func TestSpaceView_RejectsMutation(t *testing.T) {
	sp := NewSpace("symbol", "AAPL", "date", Configuration{})
	_ = sp.Add(map[string]interface{}{"date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0, "volume": 1000.0})

	view := sp.View("price")
	if err := view.Add(map[string]interface{}{"date": mustDate("2020-01-02T00:00:00Z")}); err == nil {
		t.Fatal("SpaceView.Add() should always error")
	} else if serr, ok := err.(*StatefulError); !ok || serr.Kind != OutOfScopeMutation {
		t.Errorf("SpaceView.Add() error = %v, want OutOfScopeMutation", err)
	}

	if err := view.Set("derived", sp.Dep("price")); err == nil {
		t.Fatal("SpaceView.Set() should always error")
	}
}

func TestSpaceView_Get_RestrictsColumns(t *testing.T) {
	sp := NewSpace("symbol", "AAPL", "date", Configuration{})
	date := mustDate("2020-01-01T00:00:00Z")
	_ = sp.Add(map[string]interface{}{"date": date, "price": 10.0, "volume": 1000.0})

	view := sp.View("price")
	event, err := view.Get(date)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if event.Get("price") != 10.0 {
		t.Errorf("View Get()[price] = %v, want 10.0", event.Get("price"))
	}
	if event.Len() != 1 {
		t.Errorf("View Get() should only surface requested columns, got keys %v", event.Keys())
	}
}

func TestStateView_RejectsMutation(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	_ = s.Add(map[string]interface{}{"symbol": "AAPL", "date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0})

	view := s.View("price")
	if err := view.Add(map[string]interface{}{"symbol": "AAPL"}); err == nil {
		t.Fatal("StateView.Add() should always error")
	}

	spaceView := view.Space("AAPL")
	if spaceView == nil {
		t.Fatal("StateView.Space() should find an existing space")
	}
	if view.Space("MSFT") != nil {
		t.Fatal("StateView.Space() for an unknown primary value should return nil")
	}
}
