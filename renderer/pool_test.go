package renderer

import "testing"

func TestPoolAcquiresSequentially(t *testing.T) {
	p := NewSlotPool(4)
	for want := 0; want < 4; want++ {
		got, ok := p.Acquire()
		if !ok || got != want {
			t.Fatalf("acquire %d: got (%d, %v)", want, got, ok)
		}
	}
}

func TestPoolReusesReleasedSlots(t *testing.T) {
	p := NewSlotPool(4)
	a, _ := p.Acquire()
	b, _ := p.Acquire()
	p.Release(a)

	got, ok := p.Acquire()
	if !ok || got != a {
		t.Errorf("expected recycled slot %d, got (%d, %v)", a, got, ok)
	}
	if p.HighWater() != 2 {
		t.Errorf("recycling advanced the high-water mark to %d", p.HighWater())
	}
	_ = b
}

func TestPoolExhaustion(t *testing.T) {
	p := NewSlotPool(2)
	p.Acquire()
	p.Acquire()

	if _, ok := p.Acquire(); ok {
		t.Error("acquire succeeded past capacity")
	}

	p.Release(1)
	if got, ok := p.Acquire(); !ok || got != 1 {
		t.Errorf("expected slot 1 after release, got (%d, %v)", got, ok)
	}
}

func TestPoolAccounting(t *testing.T) {
	p := NewSlotPool(8)
	a, _ := p.Acquire()
	p.Acquire()
	p.Acquire()
	p.Release(a)

	if p.InUse() != 2 {
		t.Errorf("InUse = %d, want 2", p.InUse())
	}
	if p.HighWater() != 3 {
		t.Errorf("HighWater = %d, want 3", p.HighWater())
	}
	if p.Capacity() != 8 {
		t.Errorf("Capacity = %d, want 8", p.Capacity())
	}
}
