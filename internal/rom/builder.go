// Package rom builds in-memory cartridge images for tests: a real 16KiB-bank-accurate header plus raw program
// bytes, in place of an assembler (the module's instruction set is
// fixed-width machine code, not something a label/relocation layer
// needs to compose).
package rom

import (
	"fmt"
)

const (
	bankSize       = 0x4000
	minROMBanks    = 2 // bank 0 + at least one switchable bank
	headerStart    = 0x100
	titleOffset    = 0x134
	titleLen       = 16
	cgbFlagOffset  = 0x143
	sgbFlagOffset  = 0x146
	cartTypeOffset = 0x147
	romSizeOffset  = 0x148
	ramSizeOffset  = 0x149
)

// CartType mirrors the handful of header cart-type byte values the
// memory-bank-controller layer recognizes.
type CartType uint8

const (
	CartROMOnly CartType = 0x00
	CartMBC1    CartType = 0x01
	CartMBC3    CartType = 0x11
	CartMBC5    CartType = 0x19
)

// Builder assembles a cartridge image bank by bank. Bank 0 is always
// present; AddBank appends switchable banks starting at bank 1.
type Builder struct {
	title    string
	cartType CartType
	ramSize  int
	cgb      bool
	banks    [][bankSize]uint8
	written  []int // one counter per bank, left at zero: no method updates it
}

// NewBuilder starts a builder with an empty bank 0.
func NewBuilder(title string, cartType CartType) *Builder {
	b := &Builder{title: title, cartType: cartType}
	b.banks = append(b.banks, [bankSize]uint8{})
	b.written = append(b.written, 0)
	return b
}

// SetRAMSize records the external RAM size in bytes for the header's
// RAM-size tag (0 if the cartridge carries no RAM).
func (b *Builder) SetRAMSize(bytes int) { b.ramSize = bytes }

// SetColorFlag marks the header as a GBC-aware title.
func (b *Builder) SetColorFlag(cgb bool) { b.cgb = cgb }

// AddBank appends a fresh switchable bank and returns its index.
func (b *Builder) AddBank() int {
	b.banks = append(b.banks, [bankSize]uint8{})
	b.written = append(b.written, 0)
	return len(b.banks) - 1
}

// WriteAt writes data into bank starting at addr, given as the CPU
// address at which that bank is mapped: 0x0000-0x3FFF for bank 0,
// 0x4000-0x7FFF for every other bank.
func (b *Builder) WriteAt(bank int, addr uint16, data []uint8) error {
	if bank < 0 || bank >= len(b.banks) {
		return fmt.Errorf("rom: invalid bank %d", bank)
	}
	base := uint16(0)
	if bank > 0 {
		base = bankSize
	}
	if addr < base {
		return fmt.Errorf("rom: addr 0x%04X below bank %d's window (starts at 0x%04X)", addr, bank, base)
	}
	offset := int(addr - base)
	if offset+len(data) > bankSize {
		return fmt.Errorf("rom: write at 0x%04X overflows bank %d", addr, bank)
	}
	copy(b.banks[bank][offset:], data)
	return nil
}

// SetEntryPoint writes a jump to target at 0x100, the real hardware
// entry point, as "JP target" (0xC3 lo hi).
func (b *Builder) SetEntryPoint(target uint16) error {
	return b.WriteAt(0, headerStart, []uint8{0xC3, uint8(target), uint8(target >> 8)})
}

// Build finalizes the header (title, cart type, ROM/RAM size tags, CGB
// flag) and flattens every bank into one contiguous image.
func (b *Builder) Build() []uint8 {
	banks := len(b.banks)
	if banks < minROMBanks {
		for banks < minROMBanks {
			b.banks = append(b.banks, [bankSize]uint8{})
			banks++
		}
	}
	// Round bank count up to the nearest power of two >= 2, matching
	// the real header's size-tag encoding (32KiB << tag).
	tagBanks := 2
	romSizeTag := uint8(0)
	for tagBanks < banks {
		tagBanks *= 2
		romSizeTag++
	}

	copy(b.banks[0][titleOffset:titleOffset+titleLen], []uint8(b.title))
	b.banks[0][cartTypeOffset] = uint8(b.cartType)
	b.banks[0][romSizeOffset] = romSizeTag
	b.banks[0][ramSizeOffset] = ramSizeTag(b.ramSize)
	if b.cgb {
		b.banks[0][cgbFlagOffset] = 0x80
	}
	b.banks[0][sgbFlagOffset] = 0x00

	out := make([]uint8, 0, tagBanks*bankSize)
	for i := 0; i < tagBanks; i++ {
		if i < len(b.banks) {
			out = append(out, b.banks[i][:]...)
		} else {
			out = append(out, make([]uint8, bankSize)...)
		}
	}
	return out
}

func ramSizeTag(bytes int) uint8 {
	switch {
	case bytes <= 0:
		return 0x00
	case bytes <= 2*1024:
		return 0x01
	case bytes <= 8*1024:
		return 0x02
	case bytes <= 32*1024:
		return 0x03
	case bytes <= 128*1024:
		return 0x04
	default:
		return 0x05
	}
}
