// Command ooktool renders fixed-code OOK frames to PCM16 WAV files and
// decodes captures back, so recordings from an SDR or a logic probe can be
// checked against what the device would see.
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"rfpocket/firmware/ook"
)

// level is the amplitude written for a carrier-on sample.
const level = 0x6000

func main() {
	var (
		inPath    = flag.String("in", "", "Input .wav (decode mode).")
		outPath   = flag.String("out", "", "Output .wav (encode mode).")
		mode      = flag.String("mode", "encode", "encode|decode.")
		value     = flag.Uint64("value", 0, "Code to encode (encode mode).")
		bits      = flag.Uint("bits", 24, "Bit length (encode mode).")
		protocol  = flag.Uint("protocol", 1, "Protocol id 1..3 (encode mode).")
		pulse     = flag.Uint("pulse", 0, "Base pulse length in µs; 0 uses the protocol default.")
		repeats   = flag.Int("repeats", ook.DefaultRepeats, "Frames sent back to back.")
		rate      = flag.Uint("rate", 100000, "Sample rate in Hz.")
		threshold = flag.Int("threshold", level/2, "Carrier-on threshold (decode mode).")
	)
	flag.Parse()

	switch strings.ToLower(*mode) {
	case "encode":
		if *outPath == "" {
			fatalf("usage: ooktool -mode encode -value 0xABCD12 [-bits 24] [-protocol 1] [-pulse 0] [-repeats 10] [-rate 100000] -out frame.wav")
		}
		f := frame{
			value:    *value,
			bits:     uint8(*bits),
			protocol: uint8(*protocol),
			pulse:    uint16(*pulse),
			repeats:  *repeats,
		}
		if err := encodeFile(*outPath, f, uint32(*rate)); err != nil {
			fatalf("encode: %v", err)
		}
	case "decode":
		if *inPath == "" {
			fatalf("usage: ooktool -mode decode -in capture.wav [-threshold 12288]")
		}
		if err := decodeFile(*inPath, int16(*threshold)); err != nil {
			fatalf("decode: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type frame struct {
	value    uint64
	bits     uint8
	protocol uint8
	pulse    uint16
	repeats  int
}

// timings returns the alternating high/low durations (µs) of the frame
// repeated back to back.
func (f frame) timings() ([]uint32, error) {
	p, ok := ook.Lookup(f.protocol)
	if !ok {
		return nil, fmt.Errorf("unknown protocol %d (want 1..%d)", f.protocol, ook.Protocols)
	}
	if f.bits == 0 || f.bits > ook.MaxBits {
		return nil, fmt.Errorf("bits out of range: %d", f.bits)
	}
	if f.repeats <= 0 {
		return nil, fmt.Errorf("repeats out of range: %d", f.repeats)
	}
	var out []uint32
	for i := 0; i < f.repeats; i++ {
		out = ook.Encode(out, p, f.pulse, f.value, f.bits)
	}
	return out, nil
}

func encodeFile(outPath string, f frame, sampleRate uint32) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 64*1024)
	n, err := writeFrameWAV(bw, f, sampleRate)
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	p, _ := ook.Lookup(f.protocol)
	air := ook.Airtime(p, f.pulse, f.value, f.bits, f.repeats)
	fmt.Printf("%s: %#x %d bits protocol %d, %d samples, %dus airtime\n",
		outPath, f.value, f.bits, f.protocol, n, air)
	return nil
}

// writeFrameWAV writes f as a mono PCM16 WAV and returns the sample count.
func writeFrameWAV(w io.Writer, f frame, sampleRate uint32) (uint32, error) {
	if sampleRate < 1000 || sampleRate > 4000000 {
		return 0, fmt.Errorf("rate out of range: %d", sampleRate)
	}
	ts, err := f.timings()
	if err != nil {
		return 0, err
	}

	runs := make([]uint32, len(ts))
	var total uint32
	for i, us := range ts {
		runs[i] = uint32((uint64(us)*uint64(sampleRate) + 500000) / 1000000)
		total += runs[i]
	}
	if err := writeWAVHeader(w, sampleRate, 1, 16, total*2); err != nil {
		return 0, err
	}

	var hi, lo [2]byte
	binary.LittleEndian.PutUint16(hi[:], uint16(level))
	for i, n := range runs {
		s := lo[:]
		if i%2 == 0 {
			s = hi[:]
		}
		for ; n > 0; n-- {
			if _, err := w.Write(s); err != nil {
				return 0, err
			}
		}
	}
	return total, nil
}

func decodeFile(inPath string, threshold int16) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	frames, err := decodeWAV(in, threshold)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.New("no frames found")
	}
	for _, r := range frames {
		fmt.Printf("%#x %d bits protocol %d pulse %dus\n", r.Value, r.BitLength, r.Protocol, r.PulseLength)
	}
	return nil
}

// decodeWAV slices a PCM16 mono recording into carrier on/off runs and
// feeds their durations through the receiver's decoder.
func decodeWAV(r io.ReadSeeker, threshold int16) ([]ook.Result, error) {
	wi, err := parseWAV(r)
	if err != nil {
		return nil, err
	}
	if wi.channels != 1 || wi.bits != 16 {
		return nil, fmt.Errorf("wav: only PCM16 mono is supported (got channels=%d bits=%d)", wi.channels, wi.bits)
	}
	if _, err := r.Seek(wi.dataOff, io.SeekStart); err != nil {
		return nil, err
	}

	var (
		dec    ook.Decoder
		frames []ook.Result
		run    uint64
		on     bool
		buf    = make([]int16, 4096)
		remain = wi.dataSize / 2
	)
	edge := func() {
		us := run * 1000000 / uint64(wi.sampleRate)
		if res, ok := dec.Edge(uint32(us)); ok {
			frames = append(frames, res)
		}
	}
	br := bufio.NewReader(r)
	for remain > 0 {
		n := uint32(len(buf))
		if remain < n {
			n = remain
		}
		if err := readPCM16Samples(br, buf, int(n)); err != nil {
			return nil, err
		}
		for _, s := range buf[:n] {
			cur := s > threshold
			if cur != on && run > 0 {
				edge()
				run = 0
			}
			on = cur
			run++
		}
		remain -= n
	}
	if run > 0 {
		edge()
	}
	return frames, nil
}

type wavInfo struct {
	sampleRate uint32
	channels   uint16
	bits       uint16
	dataOff    int64
	dataSize   uint32
}

func parseWAV(r io.ReadSeeker) (*wavInfo, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: bad header")
	}

	var (
		foundFmt  bool
		foundData bool
		wi        wavInfo
	)
	for {
		var ch [8]byte
		_, err := io.ReadFull(r, ch[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := string(ch[0:4])
		sz := binary.LittleEndian.Uint32(ch[4:8])

		switch id {
		case "fmt ":
			if sz < 16 {
				return nil, fmt.Errorf("wav: short fmt chunk")
			}
			buf := make([]byte, sz)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			if format := binary.LittleEndian.Uint16(buf[0:2]); format != 1 {
				return nil, fmt.Errorf("wav: only PCM is supported (format=%d)", format)
			}
			wi.channels = binary.LittleEndian.Uint16(buf[2:4])
			wi.sampleRate = binary.LittleEndian.Uint32(buf[4:8])
			wi.bits = binary.LittleEndian.Uint16(buf[14:16])
			foundFmt = true

		case "data":
			off, _ := r.Seek(0, io.SeekCurrent)
			wi.dataOff = off
			wi.dataSize = sz
			if _, err := r.Seek(int64(sz), io.SeekCurrent); err != nil {
				return nil, err
			}
			foundData = true

		default:
			if _, err := r.Seek(int64(sz), io.SeekCurrent); err != nil {
				return nil, err
			}
		}

		if sz%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				return nil, err
			}
		}
	}

	if !foundFmt || !foundData {
		return nil, fmt.Errorf("wav: missing fmt or data chunk")
	}
	if wi.sampleRate == 0 {
		return nil, fmt.Errorf("wav: zero sample rate")
	}
	return &wi, nil
}

func readPCM16Samples(r io.Reader, dst []int16, n int) error {
	var buf [2]byte
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		dst[i] = int16(binary.LittleEndian.Uint16(buf[:]))
	}
	return nil
}

func writeWAVHeader(w io.Writer, sampleRate uint32, channels uint16, bits uint16, dataBytes uint32) error {
	blockAlign := channels * (bits / 8)
	byteRate := sampleRate * uint32(blockAlign)
	riffSize := 4 + (8 + 16) + (8 + dataBytes)

	var hdr [44]byte
	copy(hdr[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(hdr[4:8], riffSize)
	copy(hdr[8:12], []byte("WAVE"))

	copy(hdr[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], bits)

	copy(hdr[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(hdr[40:44], dataBytes)

	_, err := w.Write(hdr[:])
	return err
}
