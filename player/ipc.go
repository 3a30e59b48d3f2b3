package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

type ipcCommand struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

type ipcResponse struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID uint64 `json:"request_id"`
	Event     string `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

var requestID atomic.Uint64

// send issues command to mpv, retrying transient connection errors.
func (m *MPV) send(command ...any) (any, error) {
	socket, _ := m.process()

	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := roundTrip(socket, command)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(mpvError); ok {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// mpvError is an error reported by mpv itself. It is not retried.
type mpvError string

func (e mpvError) Error() string {
	return "mpv: " + string(e)
}

// roundTrip writes one newline-delimited command and reads lines until the reply with
// the matching request id. Event lines are skipped.
func roundTrip(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestID.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	return readReply(bufio.NewScanner(conn), id)
}

func readReply(scanner *bufio.Scanner, id uint64) (any, error) {
	for scanner.Scan() {
		var res ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &res); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if res.Event != "" || res.RequestID != id {
			continue
		}

		if res.Error != "" && res.Error != "success" {
			return nil, mpvError(res.Error)
		}
		return res.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("read: connection closed before reply %d", id)
}
