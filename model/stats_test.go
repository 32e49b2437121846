package model

import (
	"reflect"
	"testing"
)

func TestAdd(t *testing.T) {
	s1 := Stats{"issued": 1}
	s2 := Stats{"issued": 2, "validate.correct": 4}

	s3 := s1.Add(s2)
	if want, got := int64(1), s1["issued"]; want != got {
		t.Errorf("s1 modified, want %d got %d", want, got)
	}
	if want, got := 2, len(s2); want != got {
		t.Errorf("len(s2) want %d got %d", want, got)
	}

	if want, got := 2, len(s3); want != got {
		t.Errorf("len(s3) want %d got %d", want, got)
	}
	if want, got := int64(3), s3["issued"]; want != got {
		t.Errorf("issued want %d got %d", want, got)
	}
	if want, got := int64(4), s3["validate.correct"]; want != got {
		t.Errorf("validate.correct want %d got %d", want, got)
	}
}

func TestSubtract(t *testing.T) {
	total := Stats{"issued": 10, "validate.wrong": 3, "validate.correct": 2}
	week := Stats{"issued": 4, "validate.wrong": 3, "unknown": 5}

	got := total.Subtract(week)
	want := Stats{"issued": 6, "validate.correct": 2}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want %v got %v", want, got)
	}
	if want, got := int64(10), total["issued"]; want != got {
		t.Errorf("total modified, want %d got %d", want, got)
	}
}

func TestKeys(t *testing.T) {
	s := Stats{"validate.wrong": 1, "issued": 2, "validate.correct": 3}
	want := []string{"issued", "validate.correct", "validate.wrong"}
	if got := s.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v got %v", want, got)
	}
}
