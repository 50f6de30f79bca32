package display

import (
	"fmt"
	"image"
	"os"
)

// FramebufferConfig describes a Linux framebuffer device.
type FramebufferConfig struct {
	Device string
	// BitsPerPixel is 32 (BGRA) or 16 (RGB565).
	BitsPerPixel int
	// Stride is the line length in bytes; 0 means width * bytes per pixel.
	Stride int
}

// Framebuffer writes frames to a Linux framebuffer device such as /dev/fb0.
type Framebuffer struct {
	cfg  FramebufferConfig
	file *os.File
	buf  []byte
}

// OpenFramebuffer opens the framebuffer device for writing.
func OpenFramebuffer(cfg FramebufferConfig) (*Framebuffer, error) {
	if cfg.BitsPerPixel != 16 && cfg.BitsPerPixel != 32 {
		return nil, fmt.Errorf("unsupported framebuffer depth %d", cfg.BitsPerPixel)
	}

	f, err := os.OpenFile(cfg.Device, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %s: %w", cfg.Device, err)
	}

	return &Framebuffer{cfg: cfg, file: f}, nil
}

// Write implements Sink.
func (fb *Framebuffer) Write(frame *image.RGBA) error {
	fb.buf = encodeFrame(fb.buf, frame, fb.cfg.BitsPerPixel, fb.cfg.Stride)
	if _, err := fb.file.WriteAt(fb.buf, 0); err != nil {
		return fmt.Errorf("write framebuffer: %w", err)
	}
	return nil
}

// Close implements Sink.
func (fb *Framebuffer) Close() error {
	return fb.file.Close()
}

// encodeFrame converts frame to the framebuffer pixel format, reusing buf.
func encodeFrame(buf []byte, frame *image.RGBA, bpp, stride int) []byte {
	b := frame.Bounds()
	bytesPerPixel := bpp / 8
	if stride == 0 {
		stride = b.Dx() * bytesPerPixel
	}

	size := stride * b.Dy()
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]

	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[y*frame.Stride : y*frame.Stride+b.Dx()*4]
		dst := buf[y*stride:]
		for x := 0; x < b.Dx(); x++ {
			r, g, bl := src[x*4], src[x*4+1], src[x*4+2]
			switch bpp {
			case 32:
				dst[x*4] = bl
				dst[x*4+1] = g
				dst[x*4+2] = r
				dst[x*4+3] = 0xff
			case 16:
				v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(bl>>3)
				dst[x*2] = byte(v)
				dst[x*2+1] = byte(v >> 8)
			}
		}
	}
	return buf
}
