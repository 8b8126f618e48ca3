package ppu

const (
	tileMapSize  = 32
	oamEntrySize = 4
	oamEntries   = 40
	maxSpritesPerLine = 10
)

// shades holds the four grayscale values; paletteLookup maps a 2-bit
// color index through a 4-entry palette byte to one of them.
var shades = [4]uint8{0xFF, 0xAA, 0x55, 0x00}

func paletteLookup(palette uint8, index uint8) uint8 {
	shade := (palette >> (index * 2)) & 0x03
	return shades[shade]
}

// renderScanline renders line L of the framebuffer, snapshotting LCDC
// at entry so a mid-scanline register change never tears the line.
func (p *PPU) renderScanline(line int) {
	if line < 0 || line >= ScreenHeight {
		return
	}
	lcdc := p.bus.GetLCDC()

	bgColorIndex := [ScreenWidth]uint8{}

	if lcdc&0x01 != 0 {
		p.renderBackground(line, lcdc, &bgColorIndex)
	}
	if lcdc&0x20 != 0 {
		p.renderWindow(line, lcdc, &bgColorIndex)
	}
	if lcdc&0x02 != 0 {
		p.renderSprites(line, lcdc, &bgColorIndex)
	}
}

func (p *PPU) renderBackground(line int, lcdc uint8, bgColorIndex *[ScreenWidth]uint8) {
	scx, scy := p.bus.GetSCX(), p.bus.GetSCY()
	bgp := p.bus.GetBGP()
	mapBase := uint16(0x9800)
	if lcdc&0x08 != 0 {
		mapBase = 0x9C00
	}
	signedIndex := lcdc&0x10 == 0

	y := (int(scy) + line) & 0xFF
	tileRow := y / 8
	rowInTile := y % 8

	for x := 0; x < ScreenWidth; x++ {
		wx := (int(scx) + x) & 0xFF
		tileCol := wx / 8
		colInTile := wx % 8

		tileIndex := p.bus.Read8(mapBase + uint16(tileRow*tileMapSize+tileCol))
		addr := tileDataAddr(tileIndex, signedIndex, rowInTile)
		low := p.bus.Read8(addr)
		high := p.bus.Read8(addr + 1)
		colorIdx := pixelColorIndex(low, high, 7-colInTile)

		bgColorIndex[x] = colorIdx
		p.setPixel(x, line, paletteLookup(bgp, colorIdx))
	}
}

func (p *PPU) renderWindow(line int, lcdc uint8, bgColorIndex *[ScreenWidth]uint8) {
	wy := int(p.bus.GetWY())
	wx := int(p.bus.GetWX()) - 7
	if line < wy || wx >= ScreenWidth {
		return
	}

	bgp := p.bus.GetBGP()
	mapBase := uint16(0x9800)
	if lcdc&0x40 != 0 {
		mapBase = 0x9C00
	}
	signedIndex := lcdc&0x10 == 0

	tileRow := p.windowLine / 8
	rowInTile := p.windowLine % 8
	drewAny := false

	for x := 0; x < ScreenWidth; x++ {
		wxPixel := x - wx
		if wxPixel < 0 {
			continue
		}
		drewAny = true
		tileCol := wxPixel / 8
		colInTile := wxPixel % 8

		tileIndex := p.bus.Read8(mapBase + uint16(tileRow*tileMapSize+tileCol))
		addr := tileDataAddr(tileIndex, signedIndex, rowInTile)
		low := p.bus.Read8(addr)
		high := p.bus.Read8(addr + 1)
		colorIdx := pixelColorIndex(low, high, 7-colInTile)

		bgColorIndex[x] = colorIdx
		p.setPixel(x, line, paletteLookup(bgp, colorIdx))
	}

	if drewAny {
		p.windowLine++
	}
}

type spriteEntry struct {
	y, x, tile, flags uint8
}

func (p *PPU) renderSprites(line int, lcdc uint8, bgColorIndex *[ScreenWidth]uint8) {
	tall := lcdc&0x04 != 0
	height := 8
	if tall {
		height = 16
	}

	var visible []spriteEntry
	for i := 0; i < oamEntries && len(visible) < maxSpritesPerLine; i++ {
		base := uint8(i * oamEntrySize)
		y := int(p.bus.Read8(0xFE00+uint16(base))) - 16
		if line < y || line >= y+height {
			continue
		}
		visible = append(visible, spriteEntry{
			y:     uint8(y),
			x:     p.bus.Read8(0xFE00 + uint16(base) + 1),
			tile:  p.bus.Read8(0xFE00 + uint16(base) + 2),
			flags: p.bus.Read8(0xFE00 + uint16(base) + 3),
		})
	}

	obp0, obp1 := p.bus.GetOBP0(), p.bus.GetOBP1()

	// Lower X wins; OAM order breaks ties. A stable sort by X keeps OAM
	// order among equal X, and drawing the sorted list back to front
	// leaves the lowest X (then the earliest OAM entry) on top.
	for i := 1; i < len(visible); i++ {
		for j := i; j > 0 && visible[j].x < visible[j-1].x; j-- {
			visible[j], visible[j-1] = visible[j-1], visible[j]
		}
	}
	for i := len(visible) - 1; i >= 0; i-- {
		s := visible[i]
		xPos := int(s.x) - 8
		if xPos <= -8 || xPos >= ScreenWidth {
			continue
		}

		flipX := s.flags&0x20 != 0
		flipY := s.flags&0x40 != 0
		bgPriority := s.flags&0x80 != 0
		obp := obp0
		if s.flags&0x10 != 0 {
			obp = obp1
		}

		rowInSprite := line - int(s.y)
		if flipY {
			rowInSprite = height - 1 - rowInSprite
		}

		tile := s.tile
		if tall {
			tile &^= 0x01
			if rowInSprite >= 8 {
				tile |= 0x01
				rowInSprite -= 8
			}
		}

		addr := uint16(0x8000) + uint16(tile)*16 + uint16(rowInSprite)*2
		low := p.bus.Read8(addr)
		high := p.bus.Read8(addr + 1)

		for col := 0; col < 8; col++ {
			screenX := xPos + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			byteBit := 7 - col
			if flipX {
				byteBit = col
			}
			colorIdx := pixelColorIndex(low, high, byteBit)
			if colorIdx == 0 {
				continue
			}
			if bgPriority && bgColorIndex[screenX] != 0 {
				continue
			}
			p.setPixel(screenX, line, paletteLookup(obp, colorIdx))
		}
	}
}

// tileDataAddr resolves a tile index to its byte address: bank 0
// (signed index) is based at 0x9000, bank 1 (unsigned) at 0x8000.
func tileDataAddr(tileIndex uint8, signed bool, rowInTile int) uint16 {
	var base uint16
	if signed {
		base = uint16(int32(0x9000) + int32(int8(tileIndex))*16)
	} else {
		base = 0x8000 + uint16(tileIndex)*16
	}
	return base + uint16(rowInTile)*2
}

// pixelColorIndex extracts the 2-bit color index for byteBit (0-7,
// where 7 is the most-significant bit = the leftmost pixel) from a
// tile row's two interleaved bitplane bytes.
func pixelColorIndex(low, high uint8, byteBit int) uint8 {
	lo := (low >> uint(byteBit)) & 1
	hi := (high >> uint(byteBit)) & 1
	return hi<<1 | lo
}

func (p *PPU) setPixel(x, y int, shade uint8) {
	p.Framebuffer[y*ScreenWidth+x] = shade
}
