package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

const (
	pcf8583Control     = 0x00
	pcf8583Count       = 0x01
	pcf8583EventMode   = 0x20
	pcf8583CounterSize = 1000000
)

// PCF8583 is the clock chip run as a 6 digit BCD event counter. It keeps
// counting while the host sleeps and rolls over at 999999.
type PCF8583 struct {
	Name string
	dev  *i2c.Dev
}

func NewPCF8583(name string, bus i2c.Bus, addr uint16) (*PCF8583, error) {
	p := &PCF8583{
		Name: name,
		dev:  &i2c.Dev{Addr: addr, Bus: bus},
	}
	if err := p.dev.Tx([]byte{pcf8583Control, pcf8583EventMode}, nil); err != nil {
		return nil, fmt.Errorf("%s counter [%#x] did not respond: %w", name, addr, err)
	}
	return p, nil
}

// Count reads the three count registers, least significant pair first.
func (p *PCF8583) Count() (uint32, error) {
	read := make([]byte, 3)
	if err := p.dev.Tx([]byte{pcf8583Count}, read); err != nil {
		return 0, fmt.Errorf("%s counter read failed: %w", p.Name, err)
	}
	count := uint32(0)
	for i := len(read) - 1; i >= 0; i-- {
		v, err := fromBCD(read[i])
		if err != nil {
			return 0, fmt.Errorf("%s counter %w", p.Name, err)
		}
		count = count*100 + v
	}
	return count, nil
}

func (p *PCF8583) Modulus() uint32 {
	return pcf8583CounterSize
}

func fromBCD(b byte) (uint32, error) {
	hi, lo := b>>4, b&0x0f
	if hi > 9 || lo > 9 {
		return 0, fmt.Errorf("bad bcd byte [%#x]", b)
	}
	return uint32(hi)*10 + uint32(lo), nil
}
