// Package ppu implements the four-mode picture-processing state
// machine and its background/window/sprite scanline renderer.
package ppu

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode is the PPU's four-state display cycle.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeVRAMTransfer
)

const (
	cyclesOAMScan      = 80
	cyclesVRAMTransfer = 172
	cyclesHBlank       = 204
	cyclesPerLine      = 456
	lastVisibleLine    = 143
	lastLine           = 153
)

// Bus is the narrow view the PPU needs of the MMU: raw byte reads for
// VRAM/OAM and tile data, plus the handful of registers that shape
// rendering. Implemented by *memory.MMU.
type Bus interface {
	Read8(addr uint16) uint8
	GetLCDC() uint8
	GetSCX() uint8
	GetSCY() uint8
	GetWX() uint8
	GetWY() uint8
	GetBGP() uint8
	GetOBP0() uint8
	GetOBP1() uint8
	GetLY() uint8
	SetLY(v uint8)
	SetSTATMode(mode uint8)
	GetSTAT() uint8
}

// InterruptRequester raises VBlank/Stat interrupts.
type InterruptRequester interface {
	RequestInterruptBit(bit uint8)
}

const (
	interruptVBlank = 0
	interruptStat   = 1
)

// PPU drives the mode state machine and owns the output framebuffer
// and the "window internal line" counter the window renderer needs.
type PPU struct {
	bus Bus
	irq InterruptRequester

	mode        Mode
	cycleAccum  int
	windowLine  int
	vblankPend  bool

	// Framebuffer of grayscale shade bytes (0xFF, 0xAA, 0x55 or 0x00),
	// row-major, ScreenWidth*ScreenHeight.
	Framebuffer [ScreenWidth * ScreenHeight]uint8

	frameCounter uint32
}

// New wires the PPU to its register/memory view and interrupt sink.
func New(bus Bus, irq InterruptRequester) *PPU {
	return &PPU{bus: bus, irq: irq, mode: ModeOAMScan}
}

// NotifyTileDirty, NotifyOAMWrite, NotifyLCDC, NotifyPalette implement
// memory.PPUSide. Tile/OAM/palette data is read directly off the bus
// at render time rather than mirrored into a second copy, so those
// three are no-ops; only an LCDC write that toggles the display needs
// a reaction (resetting the FSM to a clean start of frame).
func (p *PPU) NotifyTileDirty(addr uint16)       {}
func (p *PPU) NotifyOAMWrite(offset, value uint8) {}
func (p *PPU) NotifyPalette(reg uint16, value uint8) {}

func (p *PPU) NotifyLCDC(value uint8) {
	if value&0x80 == 0 {
		p.mode = ModeHBlank
		p.cycleAccum = 0
		p.bus.SetLY(0)
		p.bus.SetSTATMode(uint8(ModeHBlank))
	}
}

// GetScanline, GetDot, GetVBlankFlag, GetFrameCounter back debug.CycleLogger's
// PPUStateReader interface.
func (p *PPU) GetScanline() int       { return int(p.bus.GetLY()) }
func (p *PPU) GetDot() int            { return p.cycleAccum }
func (p *PPU) GetVBlankFlag() bool    { return p.vblankPend }
func (p *PPU) GetFrameCounter() uint32 { return p.frameCounter }

// TakeVBlank returns and clears the pending-vblank notify flag, used
// by the scheduler to terminate a step-until-vblank quantum.
func (p *PPU) TakeVBlank() bool {
	v := p.vblankPend
	p.vblankPend = false
	return v
}

// Update advances the FSM by cycles CPU cycles. When LCDC bit 7 is 0
// the display is off: the FSM is held and the framebuffer untouched.
func (p *PPU) Update(cycles uint8) {
	if p.bus.GetLCDC()&0x80 == 0 {
		return
	}

	p.cycleAccum += int(cycles)

	for {
		switch p.mode {
		case ModeOAMScan:
			if p.cycleAccum < cyclesOAMScan {
				return
			}
			p.cycleAccum -= cyclesOAMScan
			p.enterMode(ModeVRAMTransfer)
		case ModeVRAMTransfer:
			if p.cycleAccum < cyclesVRAMTransfer {
				return
			}
			p.cycleAccum -= cyclesVRAMTransfer
			p.renderScanline(int(p.bus.GetLY()))
			p.enterMode(ModeHBlank)
		case ModeHBlank:
			if p.cycleAccum < cyclesHBlank {
				return
			}
			p.cycleAccum -= cyclesHBlank
			ly := p.bus.GetLY()
			if int(ly) == lastVisibleLine {
				p.bus.SetLY(ly + 1)
				p.enterMode(ModeVBlank)
			} else {
				p.bus.SetLY(ly + 1)
				p.enterMode(ModeOAMScan)
			}
		case ModeVBlank:
			if p.cycleAccum < cyclesPerLine {
				return
			}
			p.cycleAccum -= cyclesPerLine
			ly := p.bus.GetLY()
			if int(ly) >= lastLine {
				p.bus.SetLY(0)
				p.windowLine = 0
				p.frameCounter++
				p.enterMode(ModeOAMScan)
			} else {
				p.bus.SetLY(ly + 1)
			}
		}
	}
}

// enterMode rewrites STAT's low bits and requests a Stat interrupt if
// the new mode's STAT-interrupt-enable bit is set. Entering VBlank
// additionally asserts the VBlank interrupt and the notify flag.
func (p *PPU) enterMode(m Mode) {
	p.mode = m
	p.bus.SetSTATMode(uint8(m))

	statEnableBit := uint8(0)
	switch m {
	case ModeHBlank:
		statEnableBit = 1 << 3
	case ModeVBlank:
		statEnableBit = 1 << 4
	case ModeOAMScan:
		statEnableBit = 1 << 5
	}
	if statEnableBit != 0 && p.bus.GetSTAT()&statEnableBit != 0 && p.irq != nil {
		p.irq.RequestInterruptBit(interruptStat)
	}

	if m == ModeVBlank {
		p.vblankPend = true
		if p.irq != nil {
			p.irq.RequestInterruptBit(interruptVBlank)
		}
	}
}
