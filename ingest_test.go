package stateful

import "testing"

func TestState_IncludeCSV(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	header := []string{"symbol", "date", "price"}
	rows := [][]string{
		{"AAPL", "2020-01-01", "100.5"},
		{"AAPL", "2020-01-02", "101.5"},
	}
	if err := s.IncludeCSV(header, rows); err != nil {
		t.Fatalf("IncludeCSV: %v", err)
	}

	sp := s.Space("AAPL")
	if sp == nil {
		t.Fatal("IncludeCSV() should have created the AAPL space")
	}
	if !sp.controller.Contains("price") {
		t.Fatal("IncludeCSV() should have created the price stream")
	}
}

func TestState_Include_MissingPrimaryColumn(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	rows := []map[string]interface{}{
		{"date": mustDate("2020-01-01T00:00:00Z"), "price": 10.0},
	}
	if err := s.Include(rows); err == nil {
		t.Fatal("Include() with a row missing the primary column should error")
	}
}

func TestState_Include_DropNA(t *testing.T) {
	s := NewState("symbol", "date", Configuration{})
	rows := []map[string]interface{}{
		{"symbol": "AAPL", "date": nil, "price": 10.0},
		{"symbol": "AAPL", "date": mustDate("2020-01-01T00:00:00Z"), "price": 20.0},
	}
	if err := s.Include(rows, WithDropNA()); err != nil {
		t.Fatalf("Include: %v", err)
	}
	sp := s.Space("AAPL")
	if sp == nil || sp.Empty() {
		t.Fatal("Include() should have recorded the valid row after dropping the NA one")
	}
}
