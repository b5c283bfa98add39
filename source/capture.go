package source

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"pal625/video"
)

// Capture runs FFmpeg to grab gray frames from a video device, already
// scaled to the raster size. Frame returns the latest complete frame.
type Capture struct {
	cmd  *exec.Cmd
	done chan struct{} // closed when the reader returns

	mu     sync.RWMutex
	latest *image.Gray
	err    error
}

// CaptureArgs builds the FFmpeg command line for device on this OS.
func CaptureArgs(goos, device string, p video.Profile) ([]string, error) {
	var ffmpegArgs []string

	switch goos {
	case "linux":
		if device == "" {
			device = "/dev/video0"
		}
		ffmpegArgs = []string{"-f", "v4l2", "-i", device}
	case "darwin":
		if device == "" {
			device = "0"
		}
		ffmpegArgs = []string{"-f", "avfoundation", "-i", device}
	case "windows":
		if device == "" {
			device = "Integrated Webcam"
		}
		ffmpegArgs = []string{"-f", "dshow", "-i", "video=" + device}
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}

	vfArg := fmt.Sprintf("scale=%d:%d,fps=25", p.PixelsPerLine, video.LinesPerFrame)
	commonArgs := []string{
		"-hide_banner", "-loglevel", "error",
		"-fflags", "nobuffer", "-flags", "low_delay",
		"-probesize", "32", "-analyzeduration", "0",
		"-threads", "1", "-f", "rawvideo",
		"-pix_fmt", "gray", "-vf", vfArg, "-",
	}
	return append(ffmpegArgs, commonArgs...), nil
}

// StartFFmpegCapture starts an FFmpeg process capturing device.
func StartFFmpegCapture(device string, p video.Profile) (*Capture, error) {
	args, err := CaptureArgs(runtime.GOOS, device, p)
	if err != nil {
		return nil, err
	}

	return startCapture(exec.Command("ffmpeg", args...), device, p)
}

func newCapture(cmd *exec.Cmd, p video.Profile) *Capture {
	return &Capture{cmd: cmd, done: make(chan struct{}), latest: video.Flat(p, 0)}
}

func startCapture(cmd *exec.Cmd, device string, p video.Profile) (*Capture, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get FFmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start FFmpeg: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"component": "capture",
		"device":    device,
		"pid":       cmd.Process.Pid,
	}).Info("FFmpeg capture started")

	c := newCapture(cmd, p)
	go c.read(stdout, p)
	return c, nil
}

func (c *Capture) read(r io.Reader, p video.Profile) {
	defer close(c.done)
	for {
		img := image.NewGray(image.Rect(0, 0, p.PixelsPerLine, video.LinesPerFrame))
		if _, err := io.ReadFull(r, img.Pix); err != nil {
			if err != io.EOF {
				logrus.WithField("component", "capture").WithError(err).Warn("Error reading from FFmpeg")
			}
			c.mu.Lock()
			c.err = fmt.Errorf("ffmpeg capture ended: %w", err)
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		c.latest = img
		c.mu.Unlock()
	}
}

// Frame returns the most recent frame. Frames are never modified after they
// are published, so the result may be read without locking.
func (c *Capture) Frame() (*image.Gray, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.latest, nil
}

// Close stops FFmpeg. The reader drains to EOF before the process is
// reaped, since Wait closes the stdout pipe.
func (c *Capture) Close() error {
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	<-c.done
	_ = c.cmd.Wait()
	return nil
}
