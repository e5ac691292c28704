package llmcall

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStore(t *testing.T) {
	t.Run("add and get", func(t *testing.T) {
		s := NewStore(10)
		s.Add(&Call{ID: "a", PromptKey: "greet"})

		got, ok := s.Get("a")
		if !ok {
			t.Fatal("expected call a")
		}
		if got.PromptKey != "greet" {
			t.Errorf("PromptKey = %q", got.PromptKey)
		}
		if _, ok := s.Get("missing"); ok {
			t.Error("expected missing call to be absent")
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		s := NewStore(10)
		for i := 0; i < 3; i++ {
			s.Add(&Call{ID: fmt.Sprint(i)})
		}

		var ids []string
		for _, c := range s.List(QueryFilter{}) {
			ids = append(ids, c.ID)
		}
		if diff := cmp.Diff([]string{"2", "1", "0"}, ids); diff != "" {
			t.Errorf("List() order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("evicts oldest when full", func(t *testing.T) {
		s := NewStore(3)
		for i := 0; i < 5; i++ {
			s.Add(&Call{ID: fmt.Sprint(i)})
		}

		if s.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", s.Len())
		}
		if _, ok := s.Get("0"); ok {
			t.Error("call 0 should have been evicted")
		}
		if _, ok := s.Get("1"); ok {
			t.Error("call 1 should have been evicted")
		}
		var ids []string
		for _, c := range s.List(QueryFilter{}) {
			ids = append(ids, c.ID)
		}
		if diff := cmp.Diff([]string{"4", "3", "2"}, ids); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filters", func(t *testing.T) {
		s := NewStore(10)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		s.Add(&Call{ID: "1", PromptKey: "a", Provider: "openai", Model: "gpt-4o", Success: true, Timestamp: base})
		s.Add(&Call{ID: "2", PromptKey: "b", Provider: "mock", Model: "mock-model", Success: false, Timestamp: base.Add(time.Hour)})
		s.Add(&Call{ID: "3", PromptKey: "a", Provider: "mock", Model: "mock-model", Success: true, Timestamp: base.Add(2 * time.Hour)})

		success := true
		after := base.Add(30 * time.Minute)
		tests := []struct {
			name   string
			filter QueryFilter
			want   []string
		}{
			{"prompt key", QueryFilter{PromptKey: "a"}, []string{"3", "1"}},
			{"provider", QueryFilter{Provider: "mock"}, []string{"3", "2"}},
			{"model", QueryFilter{Model: "gpt-4o"}, []string{"1"}},
			{"success", QueryFilter{Success: &success}, []string{"3", "1"}},
			{"after", QueryFilter{After: &after}, []string{"3", "2"}},
			{"limit", QueryFilter{Limit: 1}, []string{"3"}},
			{"offset", QueryFilter{Offset: 1, Limit: 1}, []string{"2"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ids := []string{}
				for _, c := range s.List(tt.filter) {
					ids = append(ids, c.ID)
				}
				if diff := cmp.Diff(tt.want, ids); diff != "" {
					t.Errorf("List() mismatch (-want +got):\n%s", diff)
				}
			})
		}

		if diff := cmp.Diff(map[string]int{"a": 2, "b": 1}, s.CountByPromptKey()); diff != "" {
			t.Errorf("CountByPromptKey() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("default capacity", func(t *testing.T) {
		s := NewStore(0)
		if s.capacity != DefaultCapacity {
			t.Errorf("capacity = %d, want %d", s.capacity, DefaultCapacity)
		}
	})
}
