package rom

import "testing"

func TestBuildSetsHeaderFields(t *testing.T) {
	b := NewBuilder("TESTROM", CartMBC1)
	b.SetRAMSize(8 * 1024)
	if err := b.SetEntryPoint(0x150); err != nil {
		t.Fatalf("SetEntryPoint: %v", err)
	}
	bank := b.AddBank()
	if err := b.WriteAt(bank, 0x4000, []uint8{0xAA, 0xBB}); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	data := b.Build()

	if string(data[titleOffset:titleOffset+7]) != "TESTROM" {
		t.Fatalf("title = %q", data[titleOffset:titleOffset+16])
	}
	if CartType(data[cartTypeOffset]) != CartMBC1 {
		t.Fatalf("cartType = %#x, want MBC1", data[cartTypeOffset])
	}
	if data[ramSizeOffset] != 0x02 {
		t.Fatalf("ramSizeTag = %#x, want 0x02 (8KiB)", data[ramSizeOffset])
	}
	if data[headerStart] != 0xC3 || data[headerStart+1] != 0x50 || data[headerStart+2] != 0x01 {
		t.Fatalf("entry point bytes = % X, want JP 0x0150", data[headerStart:headerStart+3])
	}
	if data[bankSize] != 0xAA || data[bankSize+1] != 0xBB {
		t.Fatalf("bank 1 payload not written at 0x4000")
	}
}

func TestBuildPadsToPowerOfTwoBankCount(t *testing.T) {
	b := NewBuilder("PAD", CartROMOnly)
	for i := 0; i < 3; i++ {
		b.AddBank()
	}
	data := b.Build()
	// 4 banks used (0-3) rounds up to the next power-of-two tag: 4 banks exactly.
	if len(data) != 4*bankSize {
		t.Fatalf("len(data) = %d, want %d", len(data), 4*bankSize)
	}
	if data[romSizeOffset] != 0x01 {
		t.Fatalf("romSizeTag = %#x, want 0x01 (4 banks)", data[romSizeOffset])
	}
}

func TestWriteAtRejectsOutOfWindowAddress(t *testing.T) {
	b := NewBuilder("X", CartROMOnly)
	bank := b.AddBank()
	if err := b.WriteAt(bank, 0x1000, []uint8{0x00}); err == nil {
		t.Fatalf("expected error writing below bank 1's window")
	}
}
