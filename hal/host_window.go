//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"
	"math/rand"

	"rfpocket/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that displays the framebuffer and maps
// the keyboard onto the four buttons. The firmware loop runs in its own
// goroutine. It blocks until the window closes or run fails.
func RunWindow(run func(context.Context, HAL) error, hc HostConfig) error {
	h, err := newHostHAL(hc)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{h: h, done: done, rng: rand.New(rand.NewSource(1))}
	ebiten.SetWindowTitle("rfpocket (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.disp.fb.width*hc.scale(), h.disp.fb.height*hc.scale())
	ebiten.SetTPS(60)
	err = ebiten.RunGame(g)
	cancel()
	if errors.Is(err, errFirmwareExited) {
		return g.runErr
	}
	return err
}

var errFirmwareExited = errors.New("firmware exited")

func (hc HostConfig) scale() int {
	if hc.Scale <= 0 {
		return 4
	}
	return hc.Scale
}

type hostGame struct {
	h      *hostHAL
	img    *image.RGBA
	fbImg  *ebiten.Image
	done   chan error
	runErr error
	rng    *rand.Rand

	scratch []byte
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.runErr = err
		return errFirmwareExited
	default:
	}
	pollButtons(g.h, g.rng)
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.disp.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.disp.fb.width, g.h.disp.fb.height
}
