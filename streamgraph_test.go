package stateful

import "testing"

func TestStreamGraph_ExecutionOrder(t *testing.T) {
	g := NewStreamGraph("a", "b")
	if err := g.Add("sum", []string{"a", "b"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add("double_sum", []string{"sum"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	order := g.ExecutionOrder(nil)
	pos := make(map[string]int, len(order))
	for i, node := range order {
		pos[node.Name] = i
	}
	if pos["a"] >= pos["sum"] || pos["b"] >= pos["sum"] {
		t.Errorf("data streams must precede sum: order=%v", order)
	}
	if pos["sum"] >= pos["double_sum"] {
		t.Errorf("sum must precede double_sum: order=%v", order)
	}
}

func TestStreamGraph_ExecutionOrder_Restricted(t *testing.T) {
	g := NewStreamGraph("a", "b", "c")
	_ = g.Add("sum_ab", []string{"a", "b"})

	order := g.ExecutionOrder([]string{"sum_ab"})
	names := make(map[string]bool, len(order))
	for _, n := range order {
		names[n.Name] = true
	}
	if names["c"] {
		t.Errorf("ExecutionOrder(restricted) should not include unrelated column c: %v", order)
	}
	if !names["a"] || !names["b"] || !names["sum_ab"] {
		t.Errorf("ExecutionOrder(restricted) missing required nodes: %v", order)
	}
}

func TestStreamGraph_Add_UnknownDependency(t *testing.T) {
	g := NewStreamGraph("a")
	err := g.Add("derived", []string{"missing"})
	if err == nil {
		t.Fatal("Add() with an unknown dependency should error")
	}
	serr, ok := err.(*StatefulError)
	if !ok || serr.Kind != UnknownDependency {
		t.Errorf("Add() error = %v, want UnknownDependency", err)
	}
}
