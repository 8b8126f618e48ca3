// Package mbc implements the memory bank controllers that mediate ROM
// and external-RAM banking. A controller never owns memory itself: it
// is offered every CPU write into 0x0000-0x7FFF and, if it consumes
// the write, updates the bank/enable state the MMU consults on every
// access. This mirrors the way a real MBC chip sits between the CPU's
// address bus and the ROM/RAM chips rather than storing bytes itself.
package mbc

// Kind identifies which bank-controller variant a cartridge uses.
type Kind int

const (
	KindNone Kind = iota
	KindMBC1
	KindMBC3
	KindMBC5
)

// Controller is offered every write into the ROM address space and
// tracks the currently selected ROM/RAM banks and RAM-enable state.
type Controller interface {
	// Offer presents a CPU write at addr (0x0000-0x7FFF) or, for RAM
	// enable, the same low range. Returns true if the controller
	// consumed the write (the MMU must then discard it as far as ROM
	// storage is concerned).
	Offer(addr uint16, value uint8) bool
	ROMBank() int
	RAMBank() int
	RAMEnabled() bool
}

// New constructs the controller for kind.
func New(kind Kind) Controller {
	switch kind {
	case KindMBC1:
		return &mbc1{romBank: 1}
	case KindMBC3:
		return &mbc3{romBank: 1}
	case KindMBC5:
		return &mbc5{romBank: 1}
	default:
		return &none{}
	}
}

// none is the no-banking controller: ROM bank 1 is permanently mapped
// at 0x4000-0x7FFF and no write is ever consumed.
type none struct{}

func (n *none) Offer(addr uint16, value uint8) bool { return false }
func (n *none) ROMBank() int                        { return 1 }
func (n *none) RAMBank() int                         { return 0 }
func (n *none) RAMEnabled() bool                     { return true }

// mbc1 implements the classic 7-bit-ROM-bank / 2-bit-RAM-bank
// controller with its ROM-banking vs RAM-banking mode flag.
type mbc1 struct {
	romBankLow  uint8 // low 5 bits, 0 rewritten to 1
	romBankHigh uint8 // high 2 bits
	ramBank     uint8
	ramEnabled  bool
	ramMode     bool // false = ROM banking mode, true = RAM banking mode
	romBank     int  // cached composed value, kept for ROMBank()
}

func (m *mbc1) Offer(addr uint16, value uint8) bool {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
		return true
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBankLow = bank
		m.recompute()
		return true
	case addr <= 0x5FFF:
		bits := value & 0x03
		if m.ramMode {
			m.ramBank = bits
		} else {
			m.romBankHigh = bits
		}
		m.recompute()
		return true
	case addr <= 0x7FFF:
		m.ramMode = value&0x01 != 0
		if !m.ramMode {
			m.ramBank = 0
		}
		return true
	}
	return false
}

func (m *mbc1) recompute() {
	if m.ramMode {
		m.romBank = int(m.romBankLow)
	} else {
		m.romBank = int(m.romBankLow) | int(m.romBankHigh)<<5
	}
}

func (m *mbc1) ROMBank() int     { return m.romBank }
func (m *mbc1) RAMBank() int     { return int(m.ramBank) }
func (m *mbc1) RAMEnabled() bool { return m.ramEnabled }

// mbc3 behaves like mbc1's ROM-banking mode but with a full 7-bit ROM
// bank register and no mode flag. RTC registers are stubbed: writes to
// the RTC-select range are accepted (so games don't stall polling for
// an ack) but no clock is modeled.
type mbc3 struct {
	romBank    uint8
	ramBank    uint8
	ramEnabled bool
}

func (m *mbc3) Offer(addr uint16, value uint8) bool {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
		return true
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
		return true
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F // RTC register select (0x08-0x0C) stubbed as a RAM bank
		return true
	case addr <= 0x7FFF:
		return true // RTC latch, stubbed
	}
	return false
}

func (m *mbc3) ROMBank() int     { return int(m.romBank) }
func (m *mbc3) RAMBank() int     { return int(m.ramBank) }
func (m *mbc3) RAMEnabled() bool { return m.ramEnabled }

// mbc5 uses a flat 9-bit ROM bank split across two write windows, with
// no "bank 0 treated as 1" rewrite (bank 0 is legitimately selectable).
type mbc5 struct {
	romBankLow  uint8
	romBankHigh uint8
	ramBank     uint8
	ramEnabled  bool
	romBank     int
}

func (m *mbc5) Offer(addr uint16, value uint8) bool {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
		return true
	case addr <= 0x2FFF:
		m.romBankLow = value
		m.romBank = int(m.romBankLow) | int(m.romBankHigh)<<8
		return true
	case addr <= 0x3FFF:
		m.romBankHigh = value & 0x01
		m.romBank = int(m.romBankLow) | int(m.romBankHigh)<<8
		return true
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F
		return true
	}
	return false
}

func (m *mbc5) ROMBank() int     { return m.romBank }
func (m *mbc5) RAMBank() int     { return int(m.ramBank) }
func (m *mbc5) RAMEnabled() bool { return m.ramEnabled }
