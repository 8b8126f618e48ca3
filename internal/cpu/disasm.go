package cpu

import "fmt"

// DisasmLine is one decoded instruction, as returned by the debug
// façade's disasm operation.
type DisasmLine struct {
	Addr     uint16
	Opcode   uint8
	CBOpcode bool
	Mnemonic string
	Size     uint8
}

// Disasm decodes count instructions starting at addr by reading through
// mem, transparently following into the CB-extended table whenever a
// 0xCB prefix byte appears. It never executes anything — it walks the
// same descriptor tables the executor uses, so disassembly and
// execution can never disagree about instruction length.
func Disasm(mem MemoryInterface, addr uint16, count int) []DisasmLine {
	lines := make([]DisasmLine, 0, count)
	a := addr
	for i := 0; i < count; i++ {
		start := a
		opcode := mem.Read8(a)
		a++

		if opcode == 0xCB {
			sub := mem.Read8(a)
			a++
			mnemonic := cbMnemonics[sub]
			if mnemonic == "" {
				mnemonic = fmt.Sprintf("DB 0xCB,0x%02X", sub)
			}
			lines = append(lines, DisasmLine{Addr: start, Opcode: sub, CBOpcode: true, Mnemonic: mnemonic, Size: 2})
			continue
		}

		desc := descriptorFor(opcode)
		mnemonic := mnemonics[opcode]
		size := desc.size
		if mnemonic == "" {
			mnemonic = fmt.Sprintf("DB 0x%02X", opcode)
			size = 1
		}
		if size == 0 {
			size = 1
		}
		for size > 1 && a < start+uint16(size) {
			a++
		}
		lines = append(lines, DisasmLine{Addr: start, Opcode: opcode, Mnemonic: mnemonic, Size: size})
	}
	return lines
}
