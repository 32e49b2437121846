package ticket

import (
	"testing"
	"time"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory(time.Minute)
	tk := Ticket{ID: "1", Text: "Please sum the numbers 1,2,3", Sum: 6, IssuedAt: time.Now()}

	if err := m.Put(tk); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get("1")
	if err != nil {
		t.Fatal(err)
	}
	if want := tk; want != got {
		t.Errorf("want %+v got %+v", want, got)
	}
	if want, got := 1, m.Count(); want != got {
		t.Errorf("count want %d got %d", want, got)
	}

	if _, err := m.Get("2"); err != ErrNotFound {
		t.Errorf("unknown id want ErrNotFound got %v", err)
	}
}

func TestMemoryDuplicate(t *testing.T) {
	m := NewMemory(time.Minute)
	if err := m.Put(Ticket{ID: "1", Sum: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Put(Ticket{ID: "1", Sum: 2}); err != ErrDuplicate {
		t.Errorf("want ErrDuplicate got %v", err)
	}

	got, _ := m.Get("1")
	if want, got := 1, got.Sum; want != got {
		t.Errorf("original ticket overwritten, sum want %d got %d", want, got)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Put(Ticket{ID: "1"})

	if err := m.Delete("1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("1"); err != ErrNotFound {
		t.Errorf("want ErrNotFound got %v", err)
	}
	// deleting twice is fine
	if err := m.Delete("1"); err != nil {
		t.Error(err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(20 * time.Millisecond)
	m.Put(Ticket{ID: "1"})

	time.Sleep(60 * time.Millisecond)
	if _, err := m.Get("1"); err != ErrNotFound {
		t.Errorf("expired ticket want ErrNotFound got %v", err)
	}
	// an expired id can be reused
	if err := m.Put(Ticket{ID: "1"}); err != nil {
		t.Errorf("put after expiry: %v", err)
	}
}

func TestNewMemoryDefaultTTL(t *testing.T) {
	if want, got := DefaultTTL, NewMemory(0).TTL(); want != got {
		t.Errorf("want %s got %s", want, got)
	}
}
