// Package emulator implements the C-style façade described in the
// module's external interfaces: create/destroy, ROM loading, stepping
// by instruction or by vsync, screen/button access, and an optional
// debug surface. Context is a thin owning shell wiring CPU, MMU, PPU
// and Timer together — grounded on the mined original Hardware/Context
// split, where the façade owns the subsystems and routes the handful
// of cross-references between them (interrupt assertion, PPU side
// channel) through explicit methods rather than back-pointers.
package emulator

import (
	"fmt"
	"os"

	"gbcore/internal/cpu"
	"gbcore/internal/debug"
	"gbcore/internal/input"
	"gbcore/internal/memory"
	"gbcore/internal/ppu"
	"gbcore/internal/timer"
)

// ErrorCode is the façade's error boundary type: no Go error ever
// crosses create/destroy/step/... — callers get one of these three.
type ErrorCode int

const (
	Success ErrorCode = iota
	Failed
	InvalidParam
)

// StepMode selects how far step() runs before returning control.
type StepMode int

const (
	StepVSync StepMode = iota
	StepInstruction
)

// Button re-exports input.Button so callers of this package's façade
// never need to import internal/input directly.
type Button = input.Button

const (
	ButtonA      = input.ButtonA
	ButtonB      = input.ButtonB
	ButtonSelect = input.ButtonSelect
	ButtonStart  = input.ButtonStart
	ButtonRight  = input.ButtonRight
	ButtonLeft   = input.ButtonLeft
	ButtonUp     = input.ButtonUp
	ButtonDown   = input.ButtonDown
)

// LogLevel mirrors the façade's settings.log_level enum.
type LogLevel int

const (
	LogDisabled LogLevel = iota
	LogError
	LogWarning
	LogDebug
)

// Settings configures create(). ROM is optional; when nil the context
// is constructed without a cartridge and LoadROMMemory/LoadROMFile must
// be called before stepping produces useful output.
type Settings struct {
	ROM         []uint8
	LogLevel    LogLevel
	LogCallback func(debug.LogEntry)
}

// Context owns every emulated component and is the receiver for every
// façade operation.
type Context struct {
	CPU   *cpu.CPU
	MMU   *memory.MMU
	PPU   *ppu.PPU
	Timer *timer.Timer
	Log   *debug.Logger

	cartridge *memory.Cartridge
}

// Create constructs a Context from settings, wiring CPU<->MMU,
// PPU<->MMU and MMU<->Timer cross-references, and optionally loading a
// ROM. Mirrors the façade's create(settings) -> context.
func Create(settings Settings) (*Context, ErrorCode) {
	logger := debug.NewLogger(4096)
	applyLogLevel(logger, settings.LogLevel)
	if settings.LogCallback != nil {
		logger.RegisterCallback(settings.LogCallback)
	}

	ctx := &Context{Log: logger}

	mmu := memory.New(nil, nil) // PPU/IRQ wired in below, once CPU exists
	cpuInst := cpu.NewCPU(mmu, cpu.NewLoggerAdapter(logger, debug.LogLevelDebug))
	ppuInst := ppu.New(mmu, cpuInterruptSink{cpuInst})
	tmr := timer.New(mmu, cpuInterruptSink{cpuInst})

	mmu.SetLogger(logger)
	rewireMMU(mmu, ppuInst, cpuInst, tmr)

	ctx.CPU = cpuInst
	ctx.MMU = mmu
	ctx.PPU = ppuInst
	ctx.Timer = tmr

	if settings.ROM != nil {
		if code := ctx.LoadROMMemory(settings.ROM); code != Success {
			return ctx, code
		}
	}

	return ctx, Success
}

// cpuInterruptSink adapts *cpu.CPU's RequestInterrupt(cpu.Interrupt)
// to the bit-indexed InterruptSink/InterruptRequester interfaces the
// MMU, PPU, and Timer each depend on, so those packages never import
// package cpu directly.
type cpuInterruptSink struct{ c *cpu.CPU }

func (s cpuInterruptSink) RequestInterruptBit(bit uint8) {
	s.c.RequestInterrupt(cpu.Interrupt(bit))
}

// rewireMMU re-points the MMU's PPU/IRQ/Timer side channels now that
// the PPU, CPU and Timer exist; memory.New takes ppu/irq up front for
// the common case, but Context must construct MMU before CPU/PPU/Timer
// can exist.
func rewireMMU(mmu *memory.MMU, ppuInst *ppu.PPU, cpuInst *cpu.CPU, tmr *timer.Timer) {
	mmu.SetSideChannels(ppuInst, cpuInterruptSink{cpuInst}, tmr)
}

func applyLogLevel(logger *debug.Logger, level LogLevel) {
	switch level {
	case LogDisabled:
		logger.SetMinLevel(debug.LogLevelNone)
	case LogError:
		logger.SetMinLevel(debug.LogLevelError)
	case LogWarning:
		logger.SetMinLevel(debug.LogLevelWarning)
	case LogDebug:
		logger.SetMinLevel(debug.LogLevelDebug)
	}
	for _, c := range []debug.Component{debug.ComponentCPU, debug.ComponentPPU, debug.ComponentTimer, debug.ComponentMemory, debug.ComponentInput, debug.ComponentSystem} {
		logger.SetComponentEnabled(c, level != LogDisabled)
	}
}

// Destroy releases ctx's resources. The core has no background
// goroutines of its own besides the logger's, which it shuts down.
func Destroy(ctx *Context) ErrorCode {
	if ctx == nil {
		return InvalidParam
	}
	if ctx.Log != nil {
		ctx.Log.Shutdown()
	}
	return Success
}

// LoadROMFile reads path and loads it as the active cartridge.
func (ctx *Context) LoadROMFile(path string) ErrorCode {
	data, err := os.ReadFile(path)
	if err != nil {
		ctx.Log.LogSystem(debug.LogLevelError, fmt.Sprintf("load_rom_file: %v", err), nil)
		return Failed
	}
	return ctx.LoadROMMemory(data)
}

// LoadROMMemory installs data as the active cartridge and resets the
// MMU with its decoded type.
func (ctx *Context) LoadROMMemory(data []uint8) ErrorCode {
	if len(data) == 0 {
		return InvalidParam
	}
	cart := memory.NewCartridge()
	if err := cart.Load(data); err != nil {
		ctx.Log.LogSystem(debug.LogLevelError, fmt.Sprintf("load_rom_memory: %v", err), nil)
		return Failed
	}
	ctx.cartridge = cart
	ctx.MMU.LoadCartridge(cart)
	ctx.CPU.Reset()
	return Success
}

// Step drives the tick loop for mode: cpu_cycles = CPU.Step();
// Timer.Update(cpu_cycles); PPU.Update(cpu_cycles) repeats until
// bug-checked, stalled, one instruction has run (step_instruction
// mode), or a vblank is reported. While the CPU is stalled, CPU.Step
// only checks for a pending interrupt and returns 4 idle cycles; the
// timer and PPU still advance by those cycles.
func (ctx *Context) Step(mode StepMode) ErrorCode {
	for {
		cycles, err := ctx.CPU.Step()
		if err != nil {
			ctx.Log.LogSystem(debug.LogLevelError, fmt.Sprintf("bug-check: %v", err), nil)
			return Failed
		}

		ctx.Timer.Update(cycles)
		ctx.PPU.Update(cycles)

		if ctx.CPU.Halted || ctx.CPU.Stopped {
			return Success
		}
		if mode == StepInstruction {
			return Success
		}
		if ctx.PPU.TakeVBlank() {
			return Success
		}
	}
}

// GetScreen returns the PPU's 160x144 framebuffer: one grayscale shade
// byte per pixel (0xFF, 0xAA, 0x55 or 0x00), row-major. No XRGB32
// buffer is produced; cmd/gbcore copies each shade into the three
// channels of an RGB24 pixel.
func (ctx *Context) GetScreen() []uint8 {
	return ctx.PPU.Framebuffer[:]
}

// GetScreenResolution returns the fixed display dimensions.
func (ctx *Context) GetScreenResolution() (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

// SetButtonState implements set_button_state(context, button, state).
func (ctx *Context) SetButtonState(button Button, pressed bool) ErrorCode {
	input.SetButtonState(ctx.MMU, button, pressed)
	return Success
}

// Disasm implements the optional debug façade's disasm operation.
func (ctx *Context) Disasm(addr uint16, count int) []cpu.DisasmLine {
	return cpu.Disasm(ctx.MMU, addr, count)
}
