// vdp_sprites.go - sprite renderer.
//
// Direct generalization of vdp.py's draw_sprite_part/draw_sprites:
// same attribute-table formula ((reg5&0x7F)<<7), same pattern-base
// formula (reg6<<11), same Y=0xD0 early-terminate and color-0
// transparency rule. Widened from the original's fixed 8x8-only path
// to also cover the 16x16/zoom combinations the spec calls for.

package main

const spriteTerminatorY = 0xD0

func drawSprites(s *vdpSnapshot, buf []byte, width, height int) {
	regs := s.regs
	attrBase := int(regs[5]&0x7F) << 7
	pattBase := int(regs[6]) << 11
	large := regs[1]&0x02 != 0
	zoom := regs[1]&0x01 != 0

	quadrant := 8 // source pixels between quadrants of a 16x16 sprite
	scale := 1
	if zoom {
		scale = 2
	}

	for i := 0; i < 32; i++ {
		off := attrBase + i*4
		spy := int(s.vram[off])
		if spy == spriteTerminatorY {
			break
		}
		spx := int(s.vram[off+1])
		patternIdx := int(s.vram[off+2])
		colorByte := s.vram[off+3]
		if colorByte&0x80 != 0 {
			spx -= 32 // early-clock bit shifts the sprite 32px left
		}
		colorIdx := colorByte & 0x0F
		if colorIdx == 0 {
			continue
		}
		color := s.palette[colorIdx]

		if large {
			patternOff := pattBase + patternIdx*8
			drawSpritePart(s.vram, buf, width, height, spx, spy, patternOff, color, scale)
			drawSpritePart(s.vram, buf, width, height, spx, spy+quadrant*scale, patternOff+8, color, scale)
			drawSpritePart(s.vram, buf, width, height, spx+quadrant*scale, spy, patternOff+16, color, scale)
			drawSpritePart(s.vram, buf, width, height, spx+quadrant*scale, spy+quadrant*scale, patternOff+24, color, scale)
		} else {
			drawSpritePart(s.vram, buf, width, height, spx, spy, pattBase+patternIdx*8, color, scale)
		}
	}
}

// drawSpritePart plots one 8-row pattern quadrant, doubling each
// source pixel when scale is 2 (zoom enabled).
func drawSpritePart(vram []byte, buf []byte, width, height, offX, offY, patternOffset int, color uint32, scale int) {
	for row := 0; row < 8; row++ {
		var pattern byte
		if idx := patternOffset + row; idx >= 0 && idx < len(vram) {
			pattern = vram[idx]
		}
		for col := 0; col < 8; col++ {
			if pattern&0x80 != 0 {
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						x := offX + col*scale + dx
						y := offY + row*scale + dy
						if x < 0 || x >= width || y < 0 || y >= height {
							continue
						}
						putPixel(buf, width, x, y, color)
					}
				}
			}
			pattern <<= 1
		}
	}
}
