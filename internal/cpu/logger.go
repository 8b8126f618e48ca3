package cpu

import (
	"fmt"

	"gbcore/internal/debug"
)

// LoggerAdapter narrows a debug.Logger down to the CPU's own
// LoggerInterface, the same adapter shape this codebase uses wherever a
// leaf component needs only a sliver of the shared logger's surface.
type LoggerAdapter struct {
	logger  *debug.Logger
	level   debug.LogLevel
	enabled bool
}

// NewLoggerAdapter wraps logger for CPU instruction logging at minLevel.
func NewLoggerAdapter(logger *debug.Logger, minLevel debug.LogLevel) *LoggerAdapter {
	return &LoggerAdapter{logger: logger, level: minLevel, enabled: true}
}

func (a *LoggerAdapter) SetEnabled(enabled bool) { a.enabled = enabled }

// LogInstruction implements LoggerInterface.
func (a *LoggerAdapter) LogInstruction(pc uint16, opcode uint8, mnemonic string, cycles uint8) {
	if !a.enabled || a.logger == nil {
		return
	}
	a.logger.LogCPU(a.level, fmt.Sprintf("%s (0x%02X) @ 0x%04X", mnemonic, opcode, pc), map[string]interface{}{
		"pc":     fmt.Sprintf("0x%04X", pc),
		"opcode": fmt.Sprintf("0x%02X", opcode),
		"cycles": cycles,
	})
}
