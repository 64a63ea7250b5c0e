// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package slot

import "testing"

func TestTableZero(t *testing.T) {
	var tab Table[string]
	if n := tab.Len(); n != 0 {
		t.Fatalf("tab.Len:\nhave %d\nwant 0", n)
	}
	if _, ok := tab.Get(Nil); ok {
		t.Fatal("tab.Get(Nil):\nhave true\nwant false")
	}
	if tab.Remove(Nil) {
		t.Fatal("tab.Remove(Nil):\nhave true\nwant false")
	}
}

func TestTableInsertGet(t *testing.T) {
	var tab Table[string]
	ids := make([]ID, 0, 100)
	for i := range 100 {
		id := tab.Insert(string(rune('a' + i%26)))
		if id == Nil {
			t.Fatalf("tab.Insert: %d:\nhave Nil\nwant valid ID", i)
		}
		ids = append(ids, id)
	}
	if n := tab.Len(); n != 100 {
		t.Fatalf("tab.Len:\nhave %d\nwant 100", n)
	}
	for i, id := range ids {
		v, ok := tab.Get(id)
		if !ok {
			t.Fatalf("tab.Get: %d:\nhave false\nwant true", i)
		}
		if w := string(rune('a' + i%26)); v != w {
			t.Fatalf("tab.Get: %d:\nhave %q\nwant %q", i, v, w)
		}
	}
}

func TestTableStale(t *testing.T) {
	var tab Table[int]
	a := tab.Insert(1)
	if !tab.Remove(a) {
		t.Fatal("tab.Remove(a):\nhave false\nwant true")
	}
	if tab.Remove(a) {
		t.Fatal("tab.Remove(a): second call\nhave true\nwant false")
	}
	b := tab.Insert(2)
	if a.index() != b.index() {
		t.Fatalf("slot reuse:\nhave %d\nwant %d", b.index(), a.index())
	}
	if a == b {
		t.Fatal("tab.Insert: reused slot produced the same ID")
	}
	if _, ok := tab.Get(a); ok {
		t.Fatal("tab.Get(a): stale ID\nhave true\nwant false")
	}
	if v, ok := tab.Get(b); !ok || v != 2 {
		t.Fatalf("tab.Get(b):\nhave %d, %t\nwant 2, true", v, ok)
	}
	if n := tab.Len(); n != 1 {
		t.Fatalf("tab.Len:\nhave %d\nwant 1", n)
	}
}

func TestTableGenerationWrap(t *testing.T) {
	var tab Table[int]
	first := tab.Insert(0)
	id := first
	for i := 1; i <= genMask+1; i++ {
		if !tab.Remove(id) {
			t.Fatalf("tab.Remove: %d:\nhave false\nwant true", i)
		}
		prev := id
		id = tab.Insert(i)
		if id.index() != first.index() {
			t.Fatalf("slot reuse: %d:\nhave %d\nwant %d", i, id.index(), first.index())
		}
		if _, ok := tab.Get(prev); ok {
			t.Fatalf("tab.Get: %d: stale ID\nhave true\nwant false", i)
		}
	}
	// After a full cycle the generation repeats.
	if id != first {
		t.Fatalf("generation wrap:\nhave %#x\nwant %#x", id, first)
	}
	if v, ok := tab.Get(id); !ok || v != genMask+1 {
		t.Fatalf("tab.Get:\nhave %d, %t\nwant %d, true", v, ok, genMask+1)
	}
}

func TestIDLayout(t *testing.T) {
	for _, x := range [...]struct {
		index int
		gen   uint16
	}{
		{0, 0},
		{1, 1},
		{MaxLen - 1, genMask},
		{12345, 678},
	} {
		id := makeID(x.index, x.gen)
		if id == Nil {
			t.Fatalf("makeID(%d, %d):\nhave Nil\nwant valid ID", x.index, x.gen)
		}
		if id.index() != x.index || id.gen() != x.gen {
			t.Fatalf("makeID(%d, %d):\nhave %d, %d\nwant %d, %d",
				x.index, x.gen, id.index(), id.gen(), x.index, x.gen)
		}
	}
}
