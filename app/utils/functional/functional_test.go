package functional

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapFilter(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
	even := Filter([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	if diff := cmp.Diff([]int{2, 4}, even); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestContainsRemoveDistinct(t *testing.T) {
	s := []string{"a", "b", "a", "c"}
	if !Contains(s, "b") || Contains(s, "z") {
		t.Error("Contains returned wrong result")
	}
	if diff := cmp.Diff([]string{"b", "c"}, Remove(s, "a")); diff != "" {
		t.Errorf("Remove mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, Distinct(s)); diff != "" {
		t.Errorf("Distinct mismatch (-want +got):\n%s", diff)
	}
}
