package keys

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"nil input", nil, []string{}},
		{"all blank", []string{"", "  ", "\t\n"}, []string{}},
		{"trims whitespace", []string{"  AIzaA  ", "\tAIzaB\n"}, []string{"AIzaA", "AIzaB"}},
		{"drops blanks but keeps order", []string{"", "second", " ", "third"}, []string{"second", "third"}},
		{"three keys", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"blanks do not count toward the limit", []string{"a", "", "b", "", "c"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(tt.raw)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectTooMany(t *testing.T) {
	_, err := Collect([]string{"a", "b", "c", "d"})
	if !errors.Is(err, ErrTooManyKeys) {
		t.Fatalf("Collect() error = %v, want ErrTooManyKeys", err)
	}
	if !strings.Contains(err.Error(), "got 4") {
		t.Errorf("error %q should mention the count", err)
	}
}

func TestReadFrom(t *testing.T) {
	got, err := ReadFrom(strings.NewReader("AIzaFirst\r\n\n  AIzaSecond  \nAIzaThird"))
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	want := []string{"AIzaFirst", "AIzaSecond", "AIzaThird"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadFrom() = %q, want %q", got, want)
	}
}

func TestReadFromEmpty(t *testing.T) {
	got, err := ReadFrom(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadFrom() = %q, want empty", got)
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadFromError(t *testing.T) {
	_, err := ReadFrom(errorReader{})
	if err == nil {
		t.Fatal("expected error from broken reader")
	}
	if !strings.Contains(err.Error(), "failed to read keys") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestSlotsStartsWithOneBlank(t *testing.T) {
	s := NewSlots()
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if len(s.Candidates()) != 0 {
		t.Errorf("Candidates() = %q, want empty", s.Candidates())
	}
}

func TestSlotsAddUpToLimit(t *testing.T) {
	s := NewSlots()
	for s.Len() < MaxKeys {
		if err := s.Add(); err != nil {
			t.Fatalf("Add() error = %v at %d slots", err, s.Len())
		}
	}
	if err := s.Add(); !errors.Is(err, ErrSlotLimit) {
		t.Errorf("Add() beyond limit error = %v, want ErrSlotLimit", err)
	}
}

func TestSlotsRemove(t *testing.T) {
	s := NewSlots()
	_ = s.Add()
	_ = s.Add()
	_ = s.Set(0, "one")
	_ = s.Set(1, "two")
	_ = s.Set(2, "three")

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove(1) error = %v", err)
	}
	if want := []string{"one", "three"}; !reflect.DeepEqual(s.Candidates(), want) {
		t.Errorf("Candidates() = %q, want %q", s.Candidates(), want)
	}

	if err := s.Remove(5); !errors.Is(err, ErrSlotIndex) {
		t.Errorf("Remove(5) error = %v, want ErrSlotIndex", err)
	}

	if err := s.Remove(0); err != nil {
		t.Fatalf("Remove(0) error = %v", err)
	}
	if err := s.Remove(0); !errors.Is(err, ErrLastSlot) {
		t.Errorf("Remove of last slot error = %v, want ErrLastSlot", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSlotsSetOutOfRange(t *testing.T) {
	s := NewSlots()
	if err := s.Set(1, "x"); !errors.Is(err, ErrSlotIndex) {
		t.Errorf("Set(1) error = %v, want ErrSlotIndex", err)
	}
	if err := s.Set(-1, "x"); !errors.Is(err, ErrSlotIndex) {
		t.Errorf("Set(-1) error = %v, want ErrSlotIndex", err)
	}
}

func TestSlotsValuesIsACopy(t *testing.T) {
	s := NewSlots()
	_ = s.Set(0, "orig")
	v := s.Values()
	v[0] = "mutated"
	if s.Values()[0] != "orig" {
		t.Error("Values() exposed internal storage")
	}
}
