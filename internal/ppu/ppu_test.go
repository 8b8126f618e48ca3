package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	mem        map[uint16]uint8
	lcdc, stat uint8
	scx, scy   uint8
	wx, wy     uint8
	bgp, obp0, obp1 uint8
	ly         uint8
}

func newFakeBus() *fakeBus {
	return &fakeBus{mem: make(map[uint16]uint8), lcdc: 0x91, bgp: 0xE4}
}

func (f *fakeBus) Read8(addr uint16) uint8        { return f.mem[addr] }
func (f *fakeBus) GetLCDC() uint8                 { return f.lcdc }
func (f *fakeBus) GetSCX() uint8                  { return f.scx }
func (f *fakeBus) GetSCY() uint8                  { return f.scy }
func (f *fakeBus) GetWX() uint8                   { return f.wx }
func (f *fakeBus) GetWY() uint8                   { return f.wy }
func (f *fakeBus) GetBGP() uint8                  { return f.bgp }
func (f *fakeBus) GetOBP0() uint8                 { return f.obp0 }
func (f *fakeBus) GetOBP1() uint8                 { return f.obp1 }
func (f *fakeBus) GetLY() uint8                   { return f.ly }
func (f *fakeBus) SetLY(v uint8)                  { f.ly = v }
func (f *fakeBus) SetSTATMode(mode uint8)         { f.stat = (f.stat &^ 0x03) | (mode & 0x03) }
func (f *fakeBus) GetSTAT() uint8                 { return f.stat }

type fakeIRQ struct {
	requested []uint8
}

func (f *fakeIRQ) RequestInterruptBit(bit uint8) { f.requested = append(f.requested, bit) }

func TestModeTransitionsWithinOneLine(t *testing.T) {
	bus := newFakeBus()
	irq := &fakeIRQ{}
	p := New(bus, irq)

	p.Update(80)
	if p.mode != ModeVRAMTransfer {
		t.Fatalf("mode = %v after 80 cycles, want VRAMTransfer", p.mode)
	}
	p.Update(172)
	if p.mode != ModeHBlank {
		t.Fatalf("mode = %v after OAM+VRAM cycles, want HBlank", p.mode)
	}
	p.Update(204)
	if bus.GetLY() != 1 {
		t.Fatalf("LY = %d after one full line, want 1", bus.GetLY())
	}
	if p.mode != ModeOAMScan {
		t.Fatalf("mode = %v after one full line, want OAMScan", p.mode)
	}
}

func TestVBlankAssertedOnEntryAndFlagSet(t *testing.T) {
	bus := newFakeBus()
	irq := &fakeIRQ{}
	p := New(bus, irq)

	for line := 0; line < 144; line++ {
		p.Update(cyclesOAMScan)
		p.Update(cyclesVRAMTransfer)
		p.Update(cyclesHBlank)
	}
	if bus.GetLY() != 144 {
		t.Fatalf("LY = %d, want 144 at VBlank entry", bus.GetLY())
	}
	if !p.TakeVBlank() {
		t.Fatalf("expected vblank-pending flag set on entry to VBlank")
	}
	if p.TakeVBlank() {
		t.Fatalf("TakeVBlank should clear the flag after reading it once")
	}
	found := false
	for _, b := range irq.requested {
		if b == interruptVBlank {
			found = true
		}
	}
	if !found {
		t.Fatalf("VBlank interrupt not requested: %v", irq.requested)
	}
}

func TestDisplayOffHoldsFSM(t *testing.T) {
	bus := newFakeBus()
	bus.lcdc = 0x01 // BG on, display off (bit 7 clear)
	p := New(bus, &fakeIRQ{})
	p.Update(255)
	if bus.GetLY() != 0 {
		t.Fatalf("LY advanced with display off: %d", bus.GetLY())
	}
}

func TestFramebufferLatchesUniformPaletteIndexZero(t *testing.T) {
	bus := newFakeBus()
	bus.lcdc = 0x91 // display on, BG on, unsigned tile data
	bus.bgp = 0xE4
	// tile 0 and tile map 0 are left all-zero in bus.mem, so every
	// background pixel resolves to color index 0.
	p := New(bus, &fakeIRQ{})

	for line := 0; line < ScreenHeight; line++ {
		p.Update(cyclesOAMScan)
		p.Update(cyclesVRAMTransfer)
		p.Update(cyclesHBlank)
	}

	want := paletteLookup(0xE4, 0)
	for i, got := range p.Framebuffer {
		if got != want {
			t.Fatalf("Framebuffer[%d] = 0x%02X, want 0x%02X (palette index 0 in BGP=0xE4)", i, got, want)
		}
	}
}

func TestTileDataAddrSignedVsUnsigned(t *testing.T) {
	assert.Equal(t, uint16(0x9000), tileDataAddr(0, true, 0))
	assert.Equal(t, uint16(0x8010), tileDataAddr(1, false, 0))
}

func TestPixelColorIndexCombinesBitplanes(t *testing.T) {
	// low bit 7 set, high bit 7 set -> color index 3 at byteBit 7
	assert.Equal(t, uint8(3), pixelColorIndex(0x80, 0x80, 7))
	assert.Equal(t, uint8(0), pixelColorIndex(0x00, 0x00, 7))
}
