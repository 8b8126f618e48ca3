package debug

import (
	"fmt"
	"os"
	"sync"
)

// MemoryReader reads a single byte off the flat 64KiB address space (an
// interface, not a concrete MMU type, so this package never imports the
// memory package).
type MemoryReader interface {
	Read8(addr uint16) uint8
}

// PPUStateReader exposes the handful of PPU fields worth tracing.
type PPUStateReader interface {
	GetScanline() int
	GetDot() int
	GetVBlankFlag() bool
	GetFrameCounter() uint32
}

// CPUStateSnapshot is a CPU register snapshot for per-step tracing.
type CPUStateSnapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Cycles                 uint64
}

// CycleLogger writes one line per CPU step to a plain text file — a
// heavier, file-backed alternative to Logger's in-memory ring buffer,
// meant for timing-sensitive bugs where a whole run needs to be
// inspected after the fact.
type CycleLogger struct {
	file         *os.File
	maxCycles    uint64
	startCycle   uint64
	currentCycle uint64
	totalCycles  uint64
	enabled      bool
	mu           sync.Mutex

	mem MemoryReader
	ppu PPUStateReader
}

// NewCycleLogger opens filename and prepares a logger that records
// cycles in [startCycle, startCycle+maxCycles) (maxCycles == 0 means
// unlimited). mem and ppu are optional and may be nil.
func NewCycleLogger(filename string, maxCycles uint64, startCycle uint64, mem MemoryReader, ppu PPUStateReader) (*CycleLogger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create cycle log: %w", err)
	}

	logger := &CycleLogger{
		file:       file,
		maxCycles:  maxCycles,
		startCycle: startCycle,
		enabled:    true,
		mem:        mem,
		ppu:        ppu,
	}

	fmt.Fprintf(file, "Cycle-by-cycle trace\n====================\n\n")
	if startCycle > 0 {
		fmt.Fprintf(file, "Start offset: %d\n", startCycle)
	}
	if maxCycles > 0 {
		fmt.Fprintf(file, "Max cycles: %d\n", maxCycles)
	}
	fmt.Fprintf(file, "\nFormat: step | cycles | PC | AF BC DE HL | SP | IME | PPU\n\n")

	return logger, nil
}

// LogCycle records one CPU step.
func (c *CycleLogger) LogCycle(cpuState *CPUStateSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}

	c.totalCycles++
	if c.totalCycles < c.startCycle {
		return
	}
	if c.maxCycles > 0 && c.currentCycle >= c.maxCycles {
		c.enabled = false
		return
	}
	c.currentCycle++

	ppuScanline, ppuDot, ppuVBlank, ppuFrame := -1, -1, false, uint32(0)
	if c.ppu != nil {
		ppuScanline = c.ppu.GetScanline()
		ppuDot = c.ppu.GetDot()
		ppuVBlank = c.ppu.GetVBlankFlag()
		ppuFrame = c.ppu.GetFrameCounter()
	}

	af := uint16(cpuState.A)<<8 | uint16(cpuState.F)
	bc := uint16(cpuState.B)<<8 | uint16(cpuState.C)
	de := uint16(cpuState.D)<<8 | uint16(cpuState.E)
	hl := uint16(cpuState.H)<<8 | uint16(cpuState.L)

	fmt.Fprintf(c.file, "%6d | CYC:%d | PC:%04X | AF:%04X BC:%04X DE:%04X HL:%04X | SP:%04X | IME:%v | PPU SL:%03d Dot:%03d VB:%v FC:%d\n",
		c.totalCycles, cpuState.Cycles, cpuState.PC, af, bc, de, hl, cpuState.SP, cpuState.IME,
		ppuScanline, ppuDot, ppuVBlank, ppuFrame)
}

func (c *CycleLogger) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *CycleLogger) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = !c.enabled
}

func (c *CycleLogger) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = false
	if c.file != nil {
		fmt.Fprintf(c.file, "\nlog complete, %d cycles logged\n", c.currentCycle)
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}

func (c *CycleLogger) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && (c.maxCycles == 0 || c.currentCycle < c.maxCycles)
}

func (c *CycleLogger) GetStatus() (enabled bool, currentCycle uint64, totalCycles uint64, maxCycles uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled, c.currentCycle, c.totalCycles, c.maxCycles
}
