package memdomain

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestList(t *testing.T) {
	ram := NewByteArray("RAM", LittleEndian, make([]byte, 0x800), true, 1)
	rom := NewByteArray("PRG ROM", LittleEndian, make([]byte, 0x8000), false, 1)
	bus := NewDelegate(SystemBusName, 0x10000, LittleEndian, func(int64) uint8 { return 0 }, nil, 1)

	l, err := NewList(ram, rom, bus)
	if err != nil {
		t.Fatal(err)
	}

	if l.Main() != Domain(ram) {
		t.Errorf("Main() = %s, want RAM", l.Main().Name())
	}
	if l.SystemBus() != Domain(bus) {
		t.Errorf("SystemBus() = %s, want %s", l.SystemBus().Name(), SystemBusName)
	}
	if d, ok := l.Get("PRG ROM"); !ok || d != Domain(rom) {
		t.Errorf("Get(PRG ROM) = %v, %t", d, ok)
	}
	if _, ok := l.Get("VRAM"); ok {
		t.Errorf("Get(VRAM) found a domain")
	}

	want := []string{"RAM", "PRG ROM", SystemBusName}
	if diff := cmp.Diff(want, l.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for d := range l.All() {
		names = append(names, d.Name())
	}
	if !slices.Equal(names, want) {
		t.Errorf("All() = %v, want %v", names, want)
	}

	if err := l.SetMain("PRG ROM"); err != nil {
		t.Fatal(err)
	}
	if l.Main() != Domain(rom) {
		t.Errorf("Main() after SetMain = %s", l.Main().Name())
	}
	if err := l.SetMain("nope"); err == nil {
		t.Errorf("SetMain(nope): want error")
	}

	if err := l.Add(NewByteArray("RAM", LittleEndian, nil, true, 1)); err == nil {
		t.Errorf("Add duplicate name: want error")
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestListSystemBusFallback(t *testing.T) {
	ram := NewByteArray("RAM", LittleEndian, make([]byte, 0x10), true, 1)
	l, err := NewList(ram)
	if err != nil {
		t.Fatal(err)
	}
	if l.SystemBus() != Domain(ram) {
		t.Errorf("SystemBus() without bus domain should be the main domain")
	}
}
