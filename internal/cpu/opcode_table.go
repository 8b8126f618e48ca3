package cpu

// instrDesc is the per-opcode descriptor: size in bytes (informational,
// used by the disassembler) and the cycles consumed for the taken
// ("passed") and not-taken ("failed") branch of a conditional
// instruction. Unconditional instructions set both to the same value.
type instrDesc struct {
	size         uint8
	cyclesPassed uint8
	cyclesFailed uint8
}

var (
	opcodeTable   [256]opcodeFunc
	cbOpcodeTable [256]opcodeFunc

	descriptors   [256]instrDesc
	cbDescriptors [256]instrDesc

	mnemonics   [256]string
	cbMnemonics [256]string
)

func descriptorFor(opcode uint8) instrDesc { return descriptors[opcode] }

// cbDescriptorFor looks up a CB-prefixed opcode's descriptor; Step uses
// it to account the cycles of CB instructions.
func cbDescriptorFor(opcode uint8) instrDesc { return cbDescriptors[opcode] }

// define registers a base-table opcode: its handler, mnemonic, size and
// both cycle counts. Unconditional instructions pass the same value for
// both cycle arguments.
func define(opcode uint8, mnemonic string, size uint8, cyclesPassed, cyclesFailed uint8, fn opcodeFunc) {
	opcodeTable[opcode] = fn
	mnemonics[opcode] = mnemonic
	descriptors[opcode] = instrDesc{size: size, cyclesPassed: cyclesPassed, cyclesFailed: cyclesFailed}
}

func defineCB(opcode uint8, mnemonic string, cycles uint8, fn opcodeFunc) {
	cbOpcodeTable[opcode] = fn
	cbMnemonics[opcode] = mnemonic
	cbDescriptors[opcode] = instrDesc{size: 2, cyclesPassed: cycles, cyclesFailed: cycles}
}

func init() {
	buildBaseOpcodeTable()
	buildCBOpcodeTable()
}
