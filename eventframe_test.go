package stateful

import (
	"reflect"
	"testing"
	"time"
)

func TestEventFrame_AddColumn_Project(t *testing.T) {
	dates := []time.Time{
		mustDate("2020-01-01T00:00:00Z"),
		mustDate("2020-01-02T00:00:00Z"),
	}
	frame := NewEventFrame(dates)
	if err := frame.AddColumn(NewEventColumn("a", dates, []interface{}{1, 2})); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := frame.AddColumn(NewEventColumn("b", dates, []interface{}{3, 4})); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	mismatched := NewEventColumn("c", dates[:1], []interface{}{5})
	if err := frame.AddColumn(mismatched); err == nil {
		t.Fatal("AddColumn() with mismatched date index should error")
	}

	if got := frame.Columns(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Columns() = %v, want [a b]", got)
	}

	projected := frame.Project([]string{"b"})
	if !reflect.DeepEqual(projected.Columns(), []string{"b"}) {
		t.Errorf("Project() columns = %v, want [b]", projected.Columns())
	}
}

func TestEventFrame_Row(t *testing.T) {
	dates := []time.Time{mustDate("2020-01-01T00:00:00Z")}
	frame := NewEventFrame(dates)
	_ = frame.AddColumn(NewEventColumn("a", dates, []interface{}{1}))
	_ = frame.AddColumn(NewEventColumn("b", dates, []interface{}{"x"}))

	row := frame.Row(0)
	if row.Get("a") != 1 || row.Get("b") != "x" {
		t.Errorf("Row(0) = %v", row.Keys())
	}
}

func TestEventFrame_Concat(t *testing.T) {
	datesA := []time.Time{mustDate("2020-01-01T00:00:00Z")}
	datesB := []time.Time{mustDate("2020-01-02T00:00:00Z")}

	a := NewEventFrame(datesA)
	_ = a.AddColumn(NewEventColumn("x", datesA, []interface{}{1}))

	b := NewEventFrame(datesB)
	_ = b.AddColumn(NewEventColumn("y", datesB, []interface{}{2}))

	out := a.Concat(b)
	if out.Len() != 2 {
		t.Fatalf("Concat() Len() = %d, want 2", out.Len())
	}
	xCol := out.Column("x")
	if xCol.At(0) != 1 || !IsNA(xCol.At(1)) {
		t.Errorf("Concat() column x = %v, want [1, NA]", xCol.Events)
	}
	yCol := out.Column("y")
	if !IsNA(yCol.At(0)) || yCol.At(1) != 2 {
		t.Errorf("Concat() column y = %v, want [NA, 2]", yCol.Events)
	}
}
