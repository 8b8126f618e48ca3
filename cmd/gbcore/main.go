// Command gbcore is the SDL2 host frontend: it creates a window,
// streams the core's framebuffer into a texture every step_vsync, and
// translates SDL2 keyboard events into set_button_state calls.
// Grounded on go-sdl2's texture-streaming display loop and on the
// teacher's cmd/emulator flag layering.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"gbcore/internal/config"
	"gbcore/internal/debug"
	"gbcore/internal/emulator"
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM file")
	configPath := flag.String("config", "", "Path to an optional .toml config file")
	unlimited := flag.Bool("unlimited", false, "Run at unlimited speed (no vsync pacing)")
	scaleFlag := flag.Int("scale", 0, "Display scale (1-6); overrides config when set")
	tracePath := flag.String("trace", "", "Optional file to write one trace line per displayed frame")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: gbcore -rom <path-to-rom> [-config <path>] [-scale 1-6] [-unlimited]")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *scaleFlag != 0 {
		cfg.Scale = *scaleFlag
	}
	if cfg.Scale < 1 || cfg.Scale > 6 {
		fmt.Fprintf(os.Stderr, "Error: scale must be between 1 and 6\n")
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	ctx, code := emulator.Create(emulator.Settings{
		ROM:      romData,
		LogLevel: cfg.EmulatorLogLevel(),
	})
	if code != emulator.Success {
		fmt.Fprintf(os.Stderr, "Error creating emulator context: %v\n", code)
		os.Exit(1)
	}
	defer emulator.Destroy(ctx)

	var tracer *debug.CycleLogger
	if *tracePath != "" {
		tracer, err = debug.NewCycleLogger(*tracePath, 0, 0, ctx.MMU, ctx.PPU)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening trace file: %v\n", err)
			os.Exit(1)
		}
		defer tracer.Close()
	}

	if err := runDisplay(ctx, cfg, *unlimited || !cfg.FrameLimit, tracer); err != nil {
		fmt.Fprintf(os.Stderr, "Display error: %v\n", err)
		os.Exit(1)
	}
}

func runDisplay(ctx *emulator.Context, cfg config.Config, unlimited bool, tracer *debug.CycleLogger) error {
	w, h := ctx.GetScreenResolution()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"gbcore",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(w*cfg.Scale), int32(h*cfg.Scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Destroy()

	keymap := buildKeymap(cfg.KeyBindings)
	pixels := make([]byte, w*h*3)

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				pressed := e.Type == sdl.KEYDOWN
				if pressed && e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
					continue
				}
				if button, ok := keymap[e.Keysym.Sym]; ok {
					ctx.SetButtonState(button, pressed)
				}
			}
		}

		if code := ctx.Step(emulator.StepVSync); code != emulator.Success {
			return fmt.Errorf("step: %v", code)
		}

		if tracer != nil {
			r := ctx.CPU.Reg
			tracer.LogCycle(&debug.CPUStateSnapshot{
				A: r.A, F: r.F, B: r.B, C: r.C, D: r.D, E: r.E, H: r.H, L: r.L,
				SP: r.SP, PC: r.PC, IME: r.IME, Cycles: ctx.CPU.TotalCycles,
			})
		}

		shadeToRGB(ctx.GetScreen(), pixels)
		texture.Update(nil, unsafe.Pointer(&pixels[0]), w*3)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if !unlimited {
			sdl.Delay(16)
		}
	}
	return nil
}

// shadeToRGB expands the core's one-byte-per-pixel grayscale shades
// into the RGB24 triples the streaming texture expects.
func shadeToRGB(framebuffer []uint8, out []byte) {
	for i, shade := range framebuffer {
		out[i*3+0] = shade
		out[i*3+1] = shade
		out[i*3+2] = shade
	}
}

func buildKeymap(kb config.KeyBindings) map[sdl.Keycode]emulator.Button {
	return map[sdl.Keycode]emulator.Button{
		keycode(kb.A):      emulator.ButtonA,
		keycode(kb.B):      emulator.ButtonB,
		keycode(kb.Select): emulator.ButtonSelect,
		keycode(kb.Start):  emulator.ButtonStart,
		keycode(kb.Up):     emulator.ButtonUp,
		keycode(kb.Down):   emulator.ButtonDown,
		keycode(kb.Left):   emulator.ButtonLeft,
		keycode(kb.Right):  emulator.ButtonRight,
	}
}

func keycode(name string) sdl.Keycode {
	if code := sdl.GetKeyFromName(name); code != sdl.K_UNKNOWN {
		return code
	}
	return sdl.K_UNKNOWN
}
