// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/Thermoquad/archerlink/internal/logging"
	"github.com/Thermoquad/archerlink/pkg/archer"
)

// PasswordEnvVar holds the WebSocket password. There is no --password flag
// so credentials never land in shell history.
const PasswordEnvVar = "ARCHERLINK_PASSWORD"

// serialReadTimeout bounds each serial read so context cancellation is
// noticed between reads
const serialReadTimeout = 100 * time.Millisecond

// Link carries whole protocol payloads to and from a device. Each
// ReadPayload returns exactly one payload (a HostPayload from the device).
type Link interface {
	archer.ByteSource
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// ErrConnectionClosed is returned when reading from a closed link
var ErrConnectionClosed = errors.New("connection closed")

// FramedLink carries payloads over a byte stream using the serial framing
// (START, stuffed length+payload+CRC, END)
type FramedLink struct {
	rw      io.ReadWriteCloser
	decoder *archer.Decoder
	pending []byte // read but not yet decoded
	buf     []byte
	closed  bool
}

// NewFramedLink wraps a byte stream such as a serial port
func NewFramedLink(rw io.ReadWriteCloser) *FramedLink {
	return &FramedLink{
		rw:      rw,
		decoder: archer.NewDecoder(),
		buf:     make([]byte, 256),
	}
}

// Send frames and writes a payload
func (l *FramedLink) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wire, err := archer.EncodeFrame(payload)
	if err != nil {
		return err
	}
	logging.LogRawBytes("frame sent", wire)
	if _, err := l.rw.Write(wire); err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	return nil
}

// ReadPayload reads until one frame completes. Framing errors (CRC
// mismatch, bad length) are returned as errors; the decoder has already
// resynchronized, so the caller may read again.
func (l *FramedLink) ReadPayload(ctx context.Context) ([]byte, error) {
	for {
		for len(l.pending) > 0 {
			b := l.pending[0]
			l.pending = l.pending[1:]
			frame, err := l.decoder.DecodeByte(b)
			if err != nil {
				logging.LogRawBytes("frame rejected", l.decoder.GetRawBytes())
				return nil, fmt.Errorf("frame decode: %w", err)
			}
			if frame != nil {
				return frame.Payload, nil
			}
		}

		if l.closed {
			return nil, ErrConnectionClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := l.rw.Read(l.buf)
		if n > 0 {
			l.pending = append(l.pending, l.buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.closed = true
				continue
			}
			return nil, fmt.Errorf("serial read failed: %w", err)
		}
	}
}

// Close closes the underlying stream
func (l *FramedLink) Close() error {
	l.closed = true
	return l.rw.Close()
}

// WebSocketLink carries one payload per binary WebSocket message
type WebSocketLink struct {
	conn   *websocket.Conn
	closed bool
}

// Send writes a payload as a single binary message
func (w *WebSocketLink) Send(ctx context.Context, payload []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(deadline)
		defer w.conn.SetWriteDeadline(time.Time{})
	}
	logging.LogRawBytes("message sent", payload)
	if err := w.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return fmt.Errorf("websocket write failed: %w", err)
	}
	return nil
}

// ReadPayload returns the next binary message. Text messages are skipped.
func (w *WebSocketLink) ReadPayload(ctx context.Context) ([]byte, error) {
	if w.closed {
		return nil, ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = w.conn.SetReadDeadline(deadline)
		defer w.conn.SetReadDeadline(time.Time{})
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			// gorilla/websocket connections are unusable after a read error
			w.closed = true
			return nil, fmt.Errorf("websocket read failed: %w", err)
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		logging.LogRawBytes("message received", data)
		return data, nil
	}
}

// Close closes the WebSocket connection
func (w *WebSocketLink) Close() error {
	w.closed = true
	return w.conn.Close()
}

// OpenSerialLink opens a serial port and wraps it in a FramedLink
func OpenSerialLink(portName string, baudRate int) (*FramedLink, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}

	return NewFramedLink(port), nil
}

// OpenWebSocketLink opens a WebSocket connection with HTTP Basic auth
func OpenWebSocketLink(ctx context.Context, wsURL, username, password string, skipSSLVerify bool) (*WebSocketLink, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return &WebSocketLink{conn: conn}, nil
}

// GetPassword retrieves the password from the environment or prompts for it
func GetPassword() (string, error) {
	if pw := os.Getenv(PasswordEnvVar); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; fall back to a plain line read
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// linkPassword returns the WebSocket password when the settings need one
func linkPassword() (string, error) {
	if settings.URL == "" || settings.Username == "" {
		return "", nil
	}
	return GetPassword()
}

// OpenLink opens either a serial or WebSocket link based on the settings
func OpenLink(ctx context.Context) (Link, string, error) {
	password, err := linkPassword()
	if err != nil {
		return nil, "", err
	}
	return openLink(ctx, password)
}

// openLink opens a link with an already resolved password, so callers that
// reconnect never prompt again
func openLink(ctx context.Context, password string) (Link, string, error) {
	if settings.URL != "" {
		link, err := OpenWebSocketLink(ctx, settings.URL, settings.Username, password, settings.NoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		info := fmt.Sprintf("WebSocket: %s", settings.URL)
		logging.LogConnection(settings.URL, "connected")
		return link, info, nil
	}

	if settings.Port != "" {
		link, err := OpenSerialLink(settings.Port, settings.Baud)
		if err != nil {
			return nil, "", err
		}
		logging.LogConnection(settings.Port, "opened")
		return link, fmt.Sprintf("Serial: %s @ %d baud", settings.Port, settings.Baud), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}
