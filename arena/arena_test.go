package arena

import (
	"testing"

	"github.com/ryanhair/zxml/entity"
)

func TestStoreAndBytes(t *testing.T) {
	a := New(16)
	s := a.Store([]byte("hello"))
	if string(s.Bytes()) != "hello" {
		t.Fatalf("got %q", s.Bytes())
	}
}

func TestMarkResetInvalidatesSpans(t *testing.T) {
	a := New(16)
	m := a.Mark()
	first := a.Store([]byte("outer"))
	inner := a.Mark()
	second := a.Store([]byte("inner"))

	if string(first.Bytes()) != "outer" || string(second.Bytes()) != "inner" {
		t.Fatalf("spans before reset should read back their own content")
	}

	a.ResetTo(inner)
	if second.Valid() {
		t.Fatalf("span produced above the reset mark must be invalid")
	}
	if !first.Valid() || string(first.Bytes()) != "outer" {
		t.Fatalf("span produced below the reset mark must remain valid")
	}

	a.ResetTo(m)
	if first.Valid() {
		t.Fatalf("resetting to the original mark must invalidate the outer span too")
	}
}

func TestResetDoesNotShrinkCapacity(t *testing.T) {
	a := New(4)
	m := a.Mark()
	a.Store([]byte("0123456789"))
	capBefore := cap(a.data)
	a.ResetTo(m)
	if cap(a.data) != capBefore {
		t.Fatalf("ResetTo must not shrink the underlying buffer")
	}
	if a.Len() != 0 {
		t.Fatalf("Len() after reset = %d, want 0", a.Len())
	}
}

func TestStoreWithEntities(t *testing.T) {
	a := New(16)
	var table entity.Table
	table.Declare("who", "world")
	s, err := a.StoreWithEntities([]byte("hello &who;"), &table)
	if err != nil {
		t.Fatalf("StoreWithEntities: %v", err)
	}
	if string(s.Bytes()) != "hello world" {
		t.Fatalf("got %q", s.Bytes())
	}
}

func TestPeakUsageBoundedByMarks(t *testing.T) {
	a := New(8)
	for depth := 0; depth < 1000; depth++ {
		m := a.Mark()
		a.Store([]byte("x"))
		a.ResetTo(m)
	}
	if a.Len() != 0 {
		t.Fatalf("repeated mark/reset at equal depth must not grow occupancy: Len()=%d", a.Len())
	}
}
