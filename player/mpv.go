package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV drives an mpv process over its JSON IPC socket.
type MPV struct {
	// mu serializes IPC round trips.
	mu sync.Mutex

	proc       sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
}

// NewMPV returns an MPV that starts the process on the first Play.
func NewMPV() *MPV {
	return &MPV{exited: make(chan struct{})}
}

// Play starts mpv with locator, or loads it into the running instance.
func (m *MPV) Play(locator, title string) error {
	target, err := sanitizeMediaTarget(locator)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	title = sanitizeTitle(title)

	if m.IsRunning() {
		if _, err := m.send("loadfile", target, "replace"); err != nil {
			return err
		}
		_, err := m.send("set_property", "force-media-title", title)
		return err
	}

	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socket := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.App, random))

	cmd := exec.Command("mpv", mpvArgs(socket, target, title)...)
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	m.proc.Lock()
	previous := m.socketPath
	m.socketPath, m.cmd, m.exited = socket, cmd, exited
	m.proc.Unlock()

	if previous != "" {
		_ = os.Remove(previous)
	}

	if err := waitForSocket(socket, exited); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// mpvArgs passes only the socket, the title and the target, leaving everything else to
// the user's mpv.conf.
func mpvArgs(socket, target, title string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socket,
		"--force-media-title=" + title,
		"--title=" + title,
		"--force-window=yes",
		"--idle=yes",
		"--",
		target,
	}
}

func waitForSocket(socket string, exited <-chan struct{}) error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		if conn, err := net.Dial("unix", socket); err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socket, socketWaitRetries)
}

// process returns the IPC socket and the exit channel of the latest mpv process.
func (m *MPV) process() (string, chan struct{}) {
	m.proc.Lock()
	defer m.proc.Unlock()
	return m.socketPath, m.exited
}

// Wait returns a channel closed when the latest mpv process exits. Each Play that spawns
// a process replaces it.
func (m *MPV) Wait() <-chan struct{} {
	_, exited := m.process()
	return exited
}

// TimePos returns the playback position. It is ErrNotPlaying while nothing is loaded.
func (m *MPV) TimePos() (time.Duration, error) {
	if socket, _ := m.process(); socket == "" {
		return 0, ErrNotPlaying
	}

	data, err := m.send("get_property", "time-pos")
	if err != nil {
		var mpvErr mpvError
		if errors.As(err, &mpvErr) && strings.Contains(string(mpvErr), "property unavailable") {
			return 0, ErrNotPlaying
		}
		return 0, err
	}
	return secondsToDuration(data)
}

// ShowText displays text on the mpv OSD.
func (m *MPV) ShowText(text string, d time.Duration) error {
	if socket, _ := m.process(); socket == "" {
		return ErrNotPlaying
	}
	_, err := m.send("show-text", text, d.Milliseconds())
	return err
}

// IsRunning reports whether mpv answers IPC commands.
func (m *MPV) IsRunning() bool {
	socket, exited := m.process()
	if socket == "" {
		return false
	}

	select {
	case <-exited:
		return false
	default:
	}

	_, err := m.send("get_property", "pid")
	return err == nil
}

// Close quits mpv, killing it if it does not exit within three seconds.
func (m *MPV) Close() error {
	m.proc.Lock()
	socket, cmd, exited := m.socketPath, m.cmd, m.exited
	m.proc.Unlock()

	if socket == "" {
		return nil
	}

	_, _ = m.send("quit")

	select {
	case <-exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(cmd)
	}

	_ = os.Remove(socket)
	return nil
}

func secondsToDuration(data any) (time.Duration, error) {
	seconds, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("time-pos: expected number, got %T", data)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// sanitizeMediaTarget rejects locators that could be read as mpv flags or that use
// schemes other than http(s). Anything without a scheme is a local path.
func sanitizeMediaTarget(locator string) (string, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return "", errors.New("empty locator")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in locator")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("locator must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	title = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(title)
}
