package memory

import (
	"fmt"

	"gbcore/internal/mbc"
)

const (
	headerTitleOffset    = 0x134
	headerTitleLen       = 16
	headerCGBFlagOffset  = 0x143
	headerSGBFlagOffset  = 0x146
	headerCartTypeOffset = 0x147
	headerROMSizeOffset  = 0x148
	headerRAMSizeOffset  = 0x149

	romBankSize = 0x4000
)

// HardwareType distinguishes the color-capable header flag from the
// monochrome default; SPEC_FULL only requires the header-level
// distinction, not double-speed CPU timing or GBC palette rendering.
type HardwareType int

const (
	HardwareMono HardwareType = iota
	HardwareSGB
	HardwareColor
)

// Cartridge owns the loaded ROM image, its decoded header fields, and
// the bank-slice view operation load()/bank(i) describe.
type Cartridge struct {
	raw   []uint8
	banks [][]uint8

	Title      string
	CartType   uint8
	ROMSizeTag uint8
	RAMSizeTag uint8
	CGBFlag    uint8
	SGBFlag    uint8
	Hardware   HardwareType

	MBCKind mbc.Kind
	RAMSize int

	// UnrecognizedCartType is true when CartType matched none of the
	// known MBC ranges; MBCKind was defaulted to mbc.KindNone.
	UnrecognizedCartType bool
}

// NewCartridge creates an empty, unloaded cartridge.
func NewCartridge() *Cartridge {
	return &Cartridge{}
}

// Load validates data, decodes the header at its fixed offsets, and
// partitions the buffer into 16 KiB bank slices. Non-goal: checksum
// verification.
func (c *Cartridge) Load(data []uint8) error {
	if len(data) == 0 {
		return fmt.Errorf("cartridge: empty ROM")
	}
	if len(data) < headerRAMSizeOffset+1 {
		return fmt.Errorf("cartridge: ROM too small to contain a header: %d bytes", len(data))
	}

	c.raw = make([]uint8, len(data))
	copy(c.raw, data)

	titleEnd := headerTitleOffset + headerTitleLen
	if titleEnd > len(c.raw) {
		titleEnd = len(c.raw)
	}
	c.Title = decodeTitle(c.raw[headerTitleOffset:titleEnd])

	c.CartType = c.raw[headerCartTypeOffset]
	c.ROMSizeTag = c.raw[headerROMSizeOffset]
	c.RAMSizeTag = c.raw[headerRAMSizeOffset]
	c.CGBFlag = c.raw[headerCGBFlagOffset]
	c.SGBFlag = c.raw[headerSGBFlagOffset]

	switch c.CGBFlag {
	case 0x80, 0xC0:
		c.Hardware = HardwareColor
	default:
		if c.SGBFlag == 0x03 {
			c.Hardware = HardwareSGB
		} else {
			c.Hardware = HardwareMono
		}
	}

	kind, known := mbcKindFromCartType(c.CartType)
	c.MBCKind = kind
	c.UnrecognizedCartType = !known
	c.RAMSize = ramSizeFromTag(c.RAMSizeTag)

	numBanks := (len(c.raw) + romBankSize - 1) / romBankSize
	if numBanks < 2 {
		numBanks = 2
	}
	c.banks = make([][]uint8, numBanks)
	for i := 0; i < numBanks; i++ {
		start := i * romBankSize
		end := start + romBankSize
		if start >= len(c.raw) {
			c.banks[i] = make([]uint8, romBankSize)
			continue
		}
		if end > len(c.raw) {
			b := make([]uint8, romBankSize)
			copy(b, c.raw[start:])
			c.banks[i] = b
			continue
		}
		c.banks[i] = c.raw[start:end]
	}

	return nil
}

// Bank returns a stable view into 16 KiB bank i.
func (c *Cartridge) Bank(i int) ([]uint8, error) {
	if i < 0 || i >= len(c.banks) {
		return nil, fmt.Errorf("cartridge: invalid bank %d (have %d)", i, len(c.banks))
	}
	return c.banks[i], nil
}

// BankCount returns the number of 16 KiB banks.
func (c *Cartridge) BankCount() int { return len(c.banks) }

// HasROM reports whether a ROM has been loaded.
func (c *Cartridge) HasROM() bool { return len(c.raw) > 0 }

func decodeTitle(b []uint8) string {
	end := len(b)
	for i, v := range b {
		if v == 0 {
			end = i
			break
		}
	}
	return string(b[:end])
}

// mbcKindFromCartType maps a header cart-type byte to the bank
// controller it selects. The second return value is false when t fell
// outside every known range, so the mbc.KindNone it returns in that
// case is a fallback rather than a real "no MBC" cartridge.
func mbcKindFromCartType(t uint8) (mbc.Kind, bool) {
	switch {
	case t == 0x00 || t == 0x08 || t == 0x09:
		return mbc.KindNone, true
	case t >= 0x01 && t <= 0x03:
		return mbc.KindMBC1, true
	case t >= 0x0F && t <= 0x13:
		return mbc.KindMBC3, true
	case t >= 0x19 && t <= 0x1E:
		return mbc.KindMBC5, true
	default:
		return mbc.KindNone, false
	}
}

func ramSizeFromTag(tag uint8) int {
	switch tag {
	case 0x01:
		return 2 * 1024
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}
