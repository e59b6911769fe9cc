package radio

import (
	"errors"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

var (
	ErrSessionOpen   = errors.New("radio session already open")
	ErrSessionClosed = errors.New("radio session closed")
)

// Transport sends one reading over the link. Fire and forget, nothing is
// acknowledged.
type Transport interface {
	SendMessage(id string, value float64, decimals int) error
	SendStatus(status string) error
}

// Delayer blocks for a duration. clockwork.Clock satisfies it.
type Delayer interface {
	Sleep(d time.Duration)
}

type Options struct {
	// Settle is waited after waking the radio and again before sleeping it.
	Settle time.Duration
	// Spacing is the minimum gap the transport needs between messages.
	Spacing time.Duration
	// SleepPin is driven to SleepLevel to power the radio down. Optional.
	SleepPin   gpio.PinOut
	SleepLevel gpio.Level
}

// Manager brackets a batch of sends with one wake/sleep of the radio.
type Manager struct {
	transport Transport
	delay     Delayer
	opts      Options

	lock sync.Mutex
	open bool
}

func NewManager(t Transport, delay Delayer, opts Options) *Manager {
	return &Manager{transport: t, delay: delay, opts: opts}
}

// Session is one open radio window.
type Session struct {
	m      *Manager
	closed bool
	sent   int
	failed int
}

func (m *Manager) Open() (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.open {
		return nil, ErrSessionOpen
	}
	if err := m.power(true); err != nil {
		return nil, err
	}
	m.open = true
	m.delay.Sleep(m.opts.Settle)
	return &Session{m: m}, nil
}

// Send transmits one reading then waits out the message spacing. A transport
// error is logged and counted, the session stays usable.
func (s *Session) Send(id string, value float64, decimals int) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.m.transport.SendMessage(id, value, decimals); err != nil {
		logger.Errorf("Radio send [%v] failed [%v]", id, err)
		s.failed++
	} else {
		s.sent++
	}
	s.m.delay.Sleep(s.m.opts.Spacing)
	return nil
}

func (s *Session) SendStatus(status string) error {
	if s.closed {
		return ErrSessionClosed
	}
	err := s.m.transport.SendStatus(status)
	if err != nil {
		logger.Errorf("Radio status [%v] failed [%v]", status, err)
		s.failed++
	} else {
		s.sent++
	}
	s.m.delay.Sleep(s.m.opts.Spacing)
	return err
}

// Close settles, then powers the radio down. Safe to call twice.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.m.delay.Sleep(s.m.opts.Settle)

	s.m.lock.Lock()
	defer s.m.lock.Unlock()
	s.m.open = false
	return s.m.power(false)
}

// Sent and Failed count messages handed to the transport in this session.
func (s *Session) Sent() int {
	return s.sent
}

func (s *Session) Failed() int {
	return s.failed
}

// Announce sends a single status message in its own session.
func (m *Manager) Announce(status string) error {
	s, err := m.Open()
	if err != nil {
		return err
	}
	sendErr := s.SendStatus(status)
	if err := s.Close(); err != nil {
		return err
	}
	return sendErr
}

func (m *Manager) power(on bool) error {
	if m.opts.SleepPin == nil {
		return nil
	}
	level := m.opts.SleepLevel
	if on {
		level = !level
	}
	return m.opts.SleepPin.Out(level)
}
