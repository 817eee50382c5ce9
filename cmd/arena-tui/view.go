package main

import (
	"fmt"
	"math"

	"tensura-arena/internal/game"

	"github.com/gdamore/tcell/v2"
)

const hudRows = 3

var enemyGlyphs = map[string]rune{
	"slime":  's',
	"wolf":   'w',
	"orc":    'O',
	"goblin": 'g',
}

var (
	styleGrid     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 40, 60))
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleReady    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCooling  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleOverlay  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
)

// canvas is the part of tcell.Screen the view draws on.
type canvas interface {
	Clear()
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// cellFor maps an arena position to a screen cell inside the play area.
func cellFor(x, y float64, snap *game.RunSnapshot, cols, rows int) (int, int) {
	c := int(math.Floor(x / snap.ArenaWidth * float64(cols)))
	r := int(math.Floor(y / snap.ArenaHeight * float64(rows)))
	return c, r
}

// draw paints snap over the whole screen. The bottom hudRows rows hold
// the status line and the four move buttons.
func draw(s canvas, snap *game.RunSnapshot, name string) {
	s.Clear()
	w, h := s.Size()
	rows := h - hudRows
	if w <= 0 || rows <= 0 || snap == nil {
		s.Show()
		return
	}

	for r := 0; r < rows; r += 4 {
		for c := 0; c < w; c += 8 {
			s.SetContent(c, r, '·', nil, styleGrid)
		}
	}

	put := func(x, y float64, ch rune, style tcell.Style) {
		c, r := cellFor(x, y, snap, w, rows)
		if c >= 0 && c < w && r >= 0 && r < rows {
			s.SetContent(c, r, ch, nil, style)
		}
	}

	for _, p := range snap.Particles {
		put(p.X, p.Y, '*', styleParticle.Foreground(tcell.GetColor(p.Color)))
	}
	for _, e := range snap.Enemies {
		glyph, ok := enemyGlyphs[e.Type]
		if !ok {
			glyph = 'e'
		}
		put(e.X, e.Y, glyph, styleEnemy)
	}
	pl := snap.Player
	put(pl.X, pl.Y, '@', tcell.StyleDefault.Foreground(tcell.GetColor(pl.Color)).Bold(true))

	status := fmt.Sprintf(" %s [%s] Lv %d  XP %d/%d  HP %.0f/%.0f  MP %.0f/%.0f  Kills %d  Enemies %d",
		name, pl.EvolutionName, pl.Level, pl.XP, pl.XPToNext, pl.HP, pl.MaxHP, pl.MP, pl.MaxMP, pl.Kills, len(snap.Enemies))
	drawText(s, 0, rows, status, styleHUD)

	col := 0
	for i, cd := range snap.Cooldowns {
		label := fmt.Sprintf(" %d:%s", i+1, cd.Name)
		style := styleReady
		if !cd.Usable {
			style = styleCooling
			if cd.Remaining > 0 {
				label += fmt.Sprintf(" %.1fs", cd.Remaining)
			}
		}
		drawText(s, col, rows+1, label, style)
		col += len([]rune(label)) + 1
	}
	drawText(s, 0, rows+2, " move: arrows/WASD  stop: space  pause: p  quit: q", styleCooling)

	switch {
	case snap.Defeated:
		drawCentered(s, rows/2, " DEFEATED - press q ", styleOverlay)
	case snap.Paused:
		drawCentered(s, rows/2, " PAUSED - press p ", styleOverlay)
	}

	s.Show()
}

func drawText(s canvas, x, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawCentered(s canvas, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	drawText(s, max((w-len([]rune(text)))/2, 0), y, text, style)
}
