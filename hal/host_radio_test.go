//go:build !tinygo

package hal

import "testing"

func TestSimRadioMailbox(t *testing.T) {
	pins := newVirtualDevicePins()
	r := newSimRadio(pins[PinRadioTX], pins[PinRadioRX])
	if err := r.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	rx := r.Receiver()
	if rx.Available() {
		t.Fatal("expected empty mailbox")
	}

	want := Capture{Value: 0xABCD12, BitLength: 24, Protocol: 1, PulseLength: 350}
	r.inject(want)
	if !rx.Available() {
		t.Fatal("expected capture available")
	}
	if got := rx.Take(); got != want {
		t.Fatalf("Take = %+v, want %+v", got, want)
	}
	// Take does not consume; Reset does.
	if !rx.Available() {
		t.Fatal("expected capture still available before Reset")
	}
	rx.Reset()
	if rx.Available() {
		t.Fatal("expected empty mailbox after Reset")
	}
}

func TestSimRadioRecordsSends(t *testing.T) {
	pins := newVirtualDevicePins()
	r := newSimRadio(pins[PinRadioTX], pins[PinRadioRX])
	if err := r.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	tx := r.Transmitter()
	tx.Configure(2, 650)
	tx.Send(0x5A5, 12)

	r.setLinkFault(true)
	tx.Send(0x5A5, 12)

	sent := r.sentFrames()
	if len(sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(sent))
	}
	if sent[0].Protocol != 2 || sent[0].PulseLength != 650 || sent[0].BitLength != 12 {
		t.Fatalf("frame = %+v", sent[0])
	}
	if sent[0].Lost || !sent[1].Lost {
		t.Fatalf("lost flags = %v,%v", sent[0].Lost, sent[1].Lost)
	}
	if sent[0].AirtimeMicros == 0 {
		t.Fatal("expected airtime")
	}
}

func TestVirtualClockSteps(t *testing.T) {
	c := newVirtualClock(^uint32(0) - 1)
	var seen []uint32
	c.onSleep(func(now uint32) { seen = append(seen, now) })
	c.Sleep(3)
	if c.Millis() != 1 {
		t.Fatalf("Millis = %d, want 1 after wrap", c.Millis())
	}
	if len(seen) != 3 || seen[0] != ^uint32(0) || seen[1] != 0 {
		t.Fatalf("hook saw %v", seen)
	}
}
