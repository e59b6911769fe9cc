package radio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

const (
	llapStart       = 'a'
	llapPad         = "-"
	llapFrameSize   = 12
	llapPayloadSize = 9
)

var ErrPayloadTooLong = errors.New("llap payload longer than 9 characters")

// LLAP writes fixed 12 byte LLAP frames to the radio modem UART:
// 'a', two character node id, nine characters of payload padded with '-'.
// A reading payload is the two character reading id followed by the value.
type LLAP struct {
	w      io.Writer
	nodeID string
}

func NewLLAP(w io.Writer, nodeID string) (*LLAP, error) {
	if len(nodeID) != 2 {
		return nil, fmt.Errorf("llap node id must be 2 characters, got [%v]", nodeID)
	}
	return &LLAP{w: w, nodeID: nodeID}, nil
}

// OpenSerial opens the UART the radio modem hangs off.
func OpenSerial(port string, baud int) (serial.Port, error) {
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial [%v]: %w", port, err)
	}
	return p, nil
}

func (l *LLAP) SendMessage(id string, value float64, decimals int) error {
	if len(id) != 2 {
		return fmt.Errorf("reading id must be 2 characters, got [%v]", id)
	}
	return l.write(id + strconv.FormatFloat(value, 'f', decimals, 64))
}

func (l *LLAP) SendStatus(status string) error {
	return l.write(status)
}

func (l *LLAP) write(payload string) error {
	frame, err := l.frame(payload)
	if err != nil {
		return err
	}
	_, err = io.WriteString(l.w, frame)
	return err
}

func (l *LLAP) frame(payload string) (string, error) {
	if len(payload) > llapPayloadSize {
		return "", fmt.Errorf("%w: [%v]", ErrPayloadTooLong, payload)
	}
	frame := string(llapStart) + l.nodeID + payload
	return frame + strings.Repeat(llapPad, llapFrameSize-len(frame)), nil
}
