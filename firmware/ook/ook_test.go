package ook

import "testing"

func feed(d *Decoder, durations []uint32) (Result, bool) {
	var last Result
	var got bool
	for _, dur := range durations {
		if res, ok := d.Edge(dur); ok {
			last = res
			got = true
		}
	}
	return last, got
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		protocol uint8
		value    uint64
		bits     uint8
	}{
		{"p1-24bit", 1, 0xABCD12, 24},
		{"p2-12bit", 2, 0x5A5, 12},
		{"p3-8bit", 3, 0x01, 8},
		{"p1-64bit", 1, 0x8000_0000_0000_0001, 64},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := Lookup(tc.protocol)
			if !ok {
				t.Fatalf("missing profile %d", tc.protocol)
			}
			var frames []uint32
			for i := 0; i < 3; i++ {
				frames = Encode(frames, p, 0, tc.value, tc.bits)
			}

			var d Decoder
			res, ok := feed(&d, frames)
			if !ok {
				t.Fatal("expected a decoded frame")
			}
			want := Result{Value: tc.value, BitLength: tc.bits, Protocol: tc.protocol, PulseLength: p.PulseLength}
			if res != want {
				t.Fatalf("expected %+v, got %+v", want, res)
			}
		})
	}
}

func TestDecodeNeedsRepeat(t *testing.T) {
	p, _ := Lookup(1)
	frame := Encode(nil, p, 0, 0xABCD12, 24)

	var d Decoder
	if _, ok := feed(&d, frame); ok {
		t.Fatal("expected no frame from a single transmission")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var d Decoder
	durations := []uint32{9000, 120, 4000, 50, 300, 2000, 9000, 120, 4000, 50, 300, 2000, 9000}
	if res, ok := feed(&d, durations); ok {
		t.Fatalf("expected no frame, got %+v", res)
	}
}

func TestEncodeLayout(t *testing.T) {
	p, _ := Lookup(1)
	got := Encode(nil, p, 100, 0b10, 2)
	want := []uint32{300, 100, 100, 300, 100, 3100}
	if len(got) != len(want) {
		t.Fatalf("expected %d durations, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("duration %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	if air := Airtime(p, 100, 0b10, 2, 2); air != 2*(300+100+100+300+100+3100) {
		t.Fatalf("unexpected airtime %d", air)
	}
}

func TestLookupBounds(t *testing.T) {
	if _, ok := Lookup(0); ok {
		t.Fatal("expected protocol 0 to be unknown")
	}
	if _, ok := Lookup(uint8(Protocols + 1)); ok {
		t.Fatal("expected protocol past the table to be unknown")
	}
}
