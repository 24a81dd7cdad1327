package hal

import "testing"

func TestVirtualPinInputFollowsPull(t *testing.T) {
	pin := newVirtualPin("UP", GPIOCapInput|GPIOCapPullUp)
	if err := pin.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	level, err := pin.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !level {
		t.Fatal("expected pulled-up input to read high")
	}

	pin.drive(false)
	if level, _ = pin.Read(); level {
		t.Fatal("expected driven input to read low")
	}

	pin.release()
	if level, _ = pin.Read(); !level {
		t.Fatal("expected released input to float back high")
	}
}

func TestVirtualPinRejectsUnsupported(t *testing.T) {
	pin := newVirtualPin("UP", GPIOCapInput|GPIOCapPullUp)
	if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err == nil {
		t.Fatal("expected output to be rejected")
	}
	if err := pin.Configure(GPIOModeInput, GPIOPullDown); err == nil {
		t.Fatal("expected pull-down to be rejected")
	}
	if err := pin.Write(true); err == nil {
		t.Fatal("expected write on input to fail")
	}
}

func TestVirtualPinOpenOutputReadsLow(t *testing.T) {
	pins := newVirtualDevicePins()
	tx := pins[PinRadioTX]
	if err := tx.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := tx.Write(true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if level, _ := tx.Read(); !level {
		t.Fatal("expected readback high")
	}

	tx.setOpen(true)
	if level, _ := tx.Read(); level {
		t.Fatal("expected open line to read low")
	}
	tx.setOpen(false)
	if level, _ := tx.Read(); !level {
		t.Fatal("expected readback high after reconnect")
	}
}

func TestVirtualGPIOBounds(t *testing.T) {
	g := newVirtualGPIO(nil)
	if g.PinCount() != 0 || g.Pin(0) != nil {
		t.Fatal("expected empty gpio")
	}

	pins := newVirtualDevicePins()
	list := make([]GPIOPin, len(pins))
	for i, p := range pins {
		list[i] = p
	}
	g = newVirtualGPIO(list)
	if g.PinCount() != PinCount {
		t.Fatalf("PinCount = %d, want %d", g.PinCount(), PinCount)
	}
	if g.Pin(-1) != nil || g.Pin(PinCount) != nil {
		t.Fatal("expected nil for out-of-range pin")
	}
	if got := g.Pin(PinButtonSelect).Name(); got != "SELECT" {
		t.Fatalf("Pin(select).Name = %q", got)
	}
}
