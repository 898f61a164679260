// Package sender implements the UDP snapshot transmitter. Each snapshot is
// marshaled to JSON and written as a single datagram on a socket that lives
// only for the duration of the call. Delivery is not acknowledged and failed
// sends are not retried.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/checklogs/agent/internal/models"
)

const (
	// MaxDatagramSize is the largest UDP payload that fits in one IPv4 datagram.
	MaxDatagramSize = 65507

	// writeTimeout bounds the dial and the write of a single datagram.
	writeTimeout = 5 * time.Second
)

// ErrPayloadTooLarge is returned when the encoded snapshot does not fit in a
// single datagram.
var ErrPayloadTooLarge = errors.New("payload exceeds maximum datagram size")

// Sender transmits snapshots to the collector over UDP.
type Sender struct {
	addr   string
	dialer net.Dialer
	logger *zap.Logger
}

// New creates a new Sender for the collector at addr (host:port).
func New(addr string, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		addr:   addr,
		dialer: net.Dialer{Timeout: writeTimeout},
		logger: logger,
	}
}

// Addr returns the collector address this sender writes to.
func (s *Sender) Addr() string { return s.addr }

// Send encodes the snapshot and writes it as one datagram. It returns the
// number of bytes handed to the OS. Success only means the local socket
// accepted the datagram.
func (s *Sender) Send(ctx context.Context, snapshot models.Snapshot) (int, error) {
	data, err := Encode(snapshot)
	if err != nil {
		return 0, err
	}
	if len(data) > MaxDatagramSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	conn, err := s.dialer.DialContext(ctx, "udp", s.addr)
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return 0, fmt.Errorf("set write deadline: %w", err)
	}

	n, err := conn.Write(data)
	if err != nil {
		return n, fmt.Errorf("write to %s: %w", s.addr, err)
	}
	if n != len(data) {
		return n, fmt.Errorf("short write to %s: %d of %d bytes", s.addr, n, len(data))
	}

	s.logger.Debug("Sent snapshot",
		zap.Int("bytes", n),
		zap.String("addr", s.addr))
	return n, nil
}

// Encode marshals a snapshot into its wire representation.
func Encode(snapshot models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
