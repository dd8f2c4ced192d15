package app

import (
	"strings"
	"testing"
)

func TestRegistryMapperAppliedBeforeStore(t *testing.T) {
	r := NewRegistry[string, string](strings.ToUpper)
	r.Set("k", "value")

	got, ok := r.Get("k")
	if !ok || got != "VALUE" {
		t.Errorf("Get = %q/%v, want VALUE/true", got, ok)
	}
}

func TestRegistryNotifiesFullCollectionOnEveryMutation(t *testing.T) {
	r := NewRegistry[string, int](nil)
	var calls [][]int
	r.OnChange(func(all []int) {
		calls = append(calls, append([]int(nil), all...))
	})

	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)
	r.Delete("b")

	want := [][]int{{1}, {1, 2}, {3, 2}, {3}}
	if len(calls) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(calls), len(want))
	}
	for i := range want {
		if len(calls[i]) != len(want[i]) {
			t.Fatalf("notification %d = %v, want %v", i, calls[i], want[i])
		}
		for j := range want[i] {
			if calls[i][j] != want[i][j] {
				t.Errorf("notification %d = %v, want %v", i, calls[i], want[i])
			}
		}
	}
}

func TestRegistryDeleteUnknownKeyDoesNotNotify(t *testing.T) {
	r := NewRegistry[string, int](nil)
	notified := 0
	r.OnChange(func([]int) { notified++ })

	r.Delete("ghost")
	if notified != 0 {
		t.Errorf("notified %d times, want 0", notified)
	}
}

func TestRegistryValuesKeepInsertionOrder(t *testing.T) {
	r := NewRegistry[string, string](nil)
	r.Set("c", "first")
	r.Set("a", "second")
	r.Set("b", "third")
	r.Set("a", "updated")
	r.Delete("c")

	got := r.Values()
	want := []string{"second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Values = %v, want %v", got, want)
	}
	// "a" keeps its original slot even after being updated.
	if got[0] != "updated" || got[1] != "third" {
		t.Errorf("Values = %v, want [updated third]", got)
	}
}

func TestRegistryLenAndHas(t *testing.T) {
	r := NewRegistry[string, int](nil)
	if r.Has("a") || r.Len() != 0 {
		t.Error("empty registry claims contents")
	}
	r.Set("a", 1)
	if !r.Has("a") || r.Len() != 1 {
		t.Error("registry lost its entry")
	}
}
