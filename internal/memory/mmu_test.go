package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbcore/internal/mbc"
)

func romOfSize(banks int, fill uint8) []uint8 {
	data := make([]uint8, banks*romBankSize)
	for i := range data {
		data[i] = fill
	}
	return data
}

func TestCartridgeHeaderFields(t *testing.T) {
	data := romOfSize(4, 0)
	copy(data[headerTitleOffset:], []byte("TESTGAME"))
	data[headerCartTypeOffset] = 0x01 // MBC1
	data[headerROMSizeOffset] = 0x01
	data[headerCGBFlagOffset] = 0x00

	c := NewCartridge()
	require.NoError(t, c.Load(data))
	assert.Equal(t, "TESTGAME", c.Title)
	assert.Equal(t, HardwareMono, c.Hardware)
	assert.Equal(t, mbc.KindMBC1, c.MBCKind)
}

func TestCartridgeUnrecognizedTypeFallsBackToNoMBC(t *testing.T) {
	data := romOfSize(2, 0)
	data[headerCartTypeOffset] = 0xFF // not a recognized cart-type byte
	c := NewCartridge()
	require.NoError(t, c.Load(data))
	assert.True(t, c.UnrecognizedCartType)
	assert.Equal(t, mbc.KindNone, c.MBCKind)
}

func TestCartridgeColorFlag(t *testing.T) {
	data := romOfSize(2, 0)
	data[headerCGBFlagOffset] = 0xC0
	c := NewCartridge()
	require.NoError(t, c.Load(data))
	assert.Equal(t, HardwareColor, c.Hardware)
}

func TestMMUWorkRAMRoundTrip(t *testing.T) {
	m := New(nil, nil)
	m.Write8(0xC000, 0x42)
	if got := m.Read8(0xC000); got != 0x42 {
		t.Fatalf("WorkRam0 round trip = 0x%02X", got)
	}
	m.Write8(0xD000, 0x99)
	if got := m.Read8(0xD000); got != 0x99 {
		t.Fatalf("WorkRam1 round trip = 0x%02X", got)
	}
}

func TestMMUEchoRAMAliasesWorkRAM(t *testing.T) {
	m := New(nil, nil)
	m.Write8(0xC010, 0x77)
	if got := m.Read8(0xE010); got != 0x77 {
		t.Fatalf("EchoRam did not alias WorkRam0: got 0x%02X", got)
	}
	m.Write8(0xE010, 0x11)
	if got := m.Read8(0xC010); got != 0x11 {
		t.Fatalf("write through EchoRam did not reach WorkRam0: got 0x%02X", got)
	}
}

func TestMMUROMBank0AlwaysBank0(t *testing.T) {
	data := romOfSize(4, 0)
	for b := 0; b < 4; b++ {
		data[b*romBankSize] = uint8(b)
	}
	cart := NewCartridge()
	if err := cart.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := New(nil, nil)
	m.LoadCartridge(cart)
	if got := m.Read8(0x0000); got != 0 {
		t.Fatalf("RomBank0[0] = %d, want 0", got)
	}
}

func TestMMUWriteIntoROMIsOfferedToMBC(t *testing.T) {
	data := romOfSize(8, 0)
	data[headerCartTypeOffset] = 0x01 // MBC1
	for b := 0; b < 8; b++ {
		data[b*romBankSize] = uint8(b)
	}
	cart := NewCartridge()
	if err := cart.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := New(nil, nil)
	m.LoadCartridge(cart)

	m.Write8(0x2000, 0x03) // select ROM bank 3
	if got := m.Read8(0x4000); got != 3 {
		t.Fatalf("RomBank1[0] after bank select = %d, want 3", got)
	}
}

func TestMMUDIVResetOnWrite(t *testing.T) {
	m := New(nil, nil)
	m.SetDIVRaw(0x42)
	m.Write8(0xFF04, 0xFF)
	if got := m.GetDIV(); got != 0 {
		t.Fatalf("DIV after write = 0x%02X, want 0", got)
	}
}

type fakeTimerSide struct {
	resetCount int
}

func (f *fakeTimerSide) ResetDivider() { f.resetCount++ }

func TestMMUDIVWriteAlsoResetsTimerAccumulator(t *testing.T) {
	m := New(nil, nil)
	tmr := &fakeTimerSide{}
	m.SetSideChannels(nil, nil, tmr)
	m.Write8(0xFF04, 0xFF)
	if tmr.resetCount != 1 {
		t.Fatalf("timer ResetDivider calls = %d, want 1", tmr.resetCount)
	}
}

func TestMMUDMACopiesToOAM(t *testing.T) {
	m := New(nil, nil)
	for i := uint16(0); i < 0xA0; i++ {
		m.Write8(0xC000+i, uint8(i))
	}
	m.Write8(0xFF46, 0xC0) // source = 0xC000
	for i := uint8(0); i < 0xA0; i++ {
		if got := m.ReadOAMByte(i); got != i {
			t.Fatalf("OAM[%d] = %d after DMA, want %d", i, got, i)
		}
	}
}

func TestMMUSTATLowBitsReadOnly(t *testing.T) {
	m := New(nil, nil)
	m.SetSTATMode(2)
	m.Write8(0xFF41, 0xFF)
	if got := m.GetSTAT() & 0x03; got != 2 {
		t.Fatalf("STAT mode bits changed by CPU write: got %d, want 2", got)
	}
	if got := m.GetSTAT() & 0x78; got != 0x78 {
		t.Fatalf("STAT upper bits not written: got 0x%02X", got)
	}
}

func TestMMUButtonPressRequestsInterrupt(t *testing.T) {
	m := New(nil, nil)
	m.SetSideChannels(nil, m, nil) // route interrupt requests into the MMU's own IF
	m.SetButton(0, true, true)     // face button 0 pressed
	if got := m.ReadIF(); got&0x10 == 0 {
		t.Fatalf("IF = 0x%02X, want Button bit (0x10) set", got)
	}
}
