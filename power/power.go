package power

import (
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
)

// Sleeper suspends the node for one fixed quantum. Peripherals listed in Halt
// are powered down first; the drivers wake them again on their next read.
type Sleeper struct {
	clock   clockwork.Clock
	quantum time.Duration
	halt    []conn.Resource
}

func NewSleeper(clock clockwork.Clock, quantum time.Duration, halt ...conn.Resource) *Sleeper {
	return &Sleeper{clock: clock, quantum: quantum, halt: halt}
}

func (s *Sleeper) Sleep() {
	for _, r := range s.halt {
		if err := r.Halt(); err != nil {
			logger.Warnf("Failed to halt [%v] before sleep [%v]", r, err)
		}
	}
	s.clock.Sleep(s.quantum)
}

func (s *Sleeper) Quantum() time.Duration {
	return s.quantum
}
