// Command inspector is a thin Fyne register/memory/disassembly viewer
// driven by the optional Debug façade. It is deliberately narrow: a
// live register readout, a hex dump of a memory window, and a
// disassembly listing around PC — not the teacher's full scripting
// IDE and widget-panel tree, which this repo carries no use for.
// Grounded on the teacher's fyne_ui.go ticker-driven refresh loop.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"gbcore/internal/emulator"
)

const (
	tickHz     = 30
	memWindow  = 64
	disasmLine = 12
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM file")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: inspector -rom <path-to-rom>")
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
		os.Exit(1)
	}

	ctx, code := emulator.Create(emulator.Settings{ROM: romData})
	if code != emulator.Success {
		fmt.Fprintf(os.Stderr, "Error creating emulator context: %v\n", code)
		os.Exit(1)
	}
	defer emulator.Destroy(ctx)

	a := app.New()
	w := a.NewWindow("inspector — " + *romPath)

	registers := widget.NewLabel("")
	memDump := widget.NewLabel("")
	disasm := widget.NewLabel("")
	memDump.TextStyle = fyne.TextStyle{Monospace: true}
	disasm.TextStyle = fyne.TextStyle{Monospace: true}

	w.SetContent(container.NewVBox(
		widget.NewLabel("Registers"), registers,
		widget.NewLabel("Memory @ PC"), memDump,
		widget.NewLabel("Disassembly"), disasm,
	))
	w.Resize(fyne.NewSize(480, 560))

	running := true
	w.SetOnClosed(func() { running = false })

	go func() {
		ticker := time.NewTicker(time.Second / tickHz)
		defer ticker.Stop()
		for running {
			<-ticker.C
			if code := ctx.Step(emulator.StepVSync); code != emulator.Success {
				continue
			}
			regText := formatRegisters(ctx)
			memText := formatMemory(ctx)
			disasmText := formatDisasm(ctx)
			fyne.Do(func() {
				registers.SetText(regText)
				memDump.SetText(memText)
				disasm.SetText(disasmText)
			})
		}
	}()

	w.ShowAndRun()
}

func formatRegisters(ctx *emulator.Context) string {
	r := ctx.CPU.Reg
	return fmt.Sprintf(
		"A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X\nSP:%04X PC:%04X IME:%v",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC, r.IME,
	)
}

func formatMemory(ctx *emulator.Context) string {
	base := ctx.CPU.Reg.PC
	out := ""
	for row := 0; row < memWindow/16; row++ {
		addr := base + uint16(row*16)
		out += fmt.Sprintf("%04X: ", addr)
		for col := 0; col < 16; col++ {
			out += fmt.Sprintf("%02X ", ctx.MMU.Read8(addr+uint16(col)))
		}
		out += "\n"
	}
	return out
}

func formatDisasm(ctx *emulator.Context) string {
	lines := ctx.Disasm(ctx.CPU.Reg.PC, disasmLine)
	out := ""
	for _, l := range lines {
		prefix := ""
		if l.CBOpcode {
			prefix = "CB "
		}
		out += fmt.Sprintf("%04X  %s%02X  %s\n", l.Addr, prefix, l.Opcode, l.Mnemonic)
	}
	return out
}
