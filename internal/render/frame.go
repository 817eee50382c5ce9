// Package render draws run snapshots into raster frames with gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"tensura-arena/internal/game"
)

var (
	backgroundColor = color.RGBA{12, 12, 28, 255}
	gridColor       = color.RGBA{30, 30, 45, 255}
	barBackground   = color.RGBA{51, 51, 51, 255}
	mpColor         = color.RGBA{66, 135, 245, 255}
	xpColor         = color.RGBA{255, 215, 0, 255}
)

var enemyColors = map[string]string{
	string(game.EnemySlime):  "#4FC3F7",
	string(game.EnemyWolf):   "#9E9E9E",
	string(game.EnemyOrc):    "#66BB6A",
	string(game.EnemyGoblin): "#8D6E63",
}

// Renderer turns snapshots into frames of a fixed pixel size. Arena
// coordinates are scaled to fit.
type Renderer struct {
	width, height int
	fontPath      string
}

// New creates a renderer producing width×height frames.
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height, fontPath: getFontPath()}
}

// Frame draws snap and returns the image.
func (r *Renderer) Frame(snap *game.RunSnapshot) image.Image {
	return r.draw(snap).Image()
}

// WritePNG draws snap and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, snap *game.RunSnapshot) error {
	return r.draw(snap).EncodePNG(w)
}

func (r *Renderer) draw(snap *game.RunSnapshot) *gg.Context {
	dc := gg.NewContext(r.width, r.height)
	r.drawBackground(dc)

	if snap == nil || snap.ArenaWidth <= 0 || snap.ArenaHeight <= 0 {
		return dc
	}

	dc.Push()
	dc.Scale(float64(r.width)/snap.ArenaWidth, float64(r.height)/snap.ArenaHeight)
	drawGrid(dc, snap.ArenaWidth, snap.ArenaHeight)
	drawEnemies(dc, snap.Enemies)
	drawPlayer(dc, snap)
	drawParticles(dc, snap.Particles)
	drawJoystick(dc, snap)
	drawAttackButtons(dc, snap)
	dc.Pop()

	r.drawHUD(dc, snap)
	if snap.Defeated {
		r.drawOverlay(dc, "DEFEATED")
	} else if snap.Paused {
		r.drawOverlay(dc, "PAUSED")
	}
	return dc
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(backgroundColor)
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	dc.SetColor(color.White)
	for i := 1; i <= 30; i++ {
		x := float64((i * 67) % r.width)
		y := float64((i * 47) % r.height)
		dc.DrawCircle(x, y, 1)
		dc.Fill()
	}
}

func drawGrid(dc *gg.Context, w, h float64) {
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)

	gridSize := 50.0
	for x := 0.0; x < w; x += gridSize {
		dc.DrawLine(x, 0, x, h)
		dc.Stroke()
	}
	for y := 0.0; y < h; y += gridSize {
		dc.DrawLine(0, y, w, y)
		dc.Stroke()
	}
}

func drawEnemies(dc *gg.Context, enemies []game.EnemySnapshot) {
	for _, e := range enemies {
		radius := e.Size / 2

		dc.SetColor(parseHexColor(enemyColors[e.Type]))
		dc.DrawCircle(e.X, e.Y, radius)
		dc.Fill()

		barWidth := e.Size
		drawBar(dc, e.X-barWidth/2, e.Y-radius-8, barWidth, 4, e.HPFraction, hpColor(e.HPFraction))
	}
}

func drawPlayer(dc *gg.Context, snap *game.RunSnapshot) {
	p := snap.Player
	radius := snap.PlayerSize / 2

	// Shadow
	dc.SetColor(color.RGBA{0, 0, 0, 128})
	dc.DrawCircle(p.X, p.Y+6, radius)
	dc.Fill()

	// Evolution aura grows with each tier
	if p.Evolution > 0 {
		aura := parseHexColor(game.EvolutionColor)
		aura.A = 70
		dc.SetColor(aura)
		dc.DrawCircle(p.X, p.Y, radius+4*float64(p.Evolution))
		dc.Fill()
	}

	dc.SetColor(parseHexColor(p.Color))
	dc.DrawCircle(p.X, p.Y, radius)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetLineWidth(3)
	dc.DrawCircle(p.X, p.Y, radius)
	dc.Stroke()

	barWidth := snap.PlayerSize * 1.4
	hp := fraction(p.HP, p.MaxHP)
	drawBar(dc, p.X-barWidth/2, p.Y-radius-16, barWidth, 6, hp, hpColor(hp))
	drawBar(dc, p.X-barWidth/2, p.Y-radius-9, barWidth, 4, fraction(p.MP, p.MaxMP), mpColor)
}

func drawParticles(dc *gg.Context, particles []game.ParticleSnapshot) {
	for _, p := range particles {
		c := parseHexColor(p.Color)
		c.A = uint8(clamp01(p.Alpha) * 255)
		dc.SetColor(c)
		dc.DrawCircle(p.X, p.Y, p.Size/2)
		dc.Fill()
	}
}

// drawJoystick draws the base and knob in the bottom-left corner.
func drawJoystick(dc *gg.Context, snap *game.RunSnapshot) {
	const baseRadius, knobRadius = 50.0, 25.0
	cx := 30 + baseRadius
	cy := snap.ArenaHeight - 30 - baseRadius

	dc.SetColor(color.RGBA{255, 255, 255, 40})
	dc.DrawCircle(cx, cy, baseRadius)
	dc.Fill()

	dc.SetColor(color.RGBA{255, 255, 255, 140})
	dc.DrawCircle(cx+snap.Player.KnobX, cy+snap.Player.KnobY, knobRadius)
	dc.Fill()
}

// drawAttackButtons draws the four move buttons bottom-right with a
// cooldown sweep.
func drawAttackButtons(dc *gg.Context, snap *game.RunSnapshot) {
	const radius = 22.0
	baseX := snap.ArenaWidth - 40
	baseY := snap.ArenaHeight - 40
	offsets := [4][2]float64{{0, 0}, {-55, 0}, {0, -55}, {-55, -55}}

	for i, cd := range snap.Cooldowns {
		x, y := baseX+offsets[i][0], baseY+offsets[i][1]

		c := parseHexColor(snap.Player.Color)
		if !cd.Usable {
			c.A = 90
		}
		dc.SetColor(c)
		dc.DrawCircle(x, y, radius)
		dc.Fill()

		if cd.Fraction > 0 {
			dc.SetColor(color.RGBA{0, 0, 0, 160})
			dc.MoveTo(x, y)
			dc.DrawArc(x, y, radius, -math.Pi/2, -math.Pi/2+2*math.Pi*clamp01(cd.Fraction))
			dc.ClosePath()
			dc.Fill()
		}
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.RunSnapshot) {
	p := snap.Player
	w := float64(r.width)

	drawBar(dc, 16, 16, w-32, 6, fraction(float64(p.XP), float64(p.XPToNext)), xpColor)

	if r.fontPath == "" {
		return
	}
	if err := dc.LoadFontFace(r.fontPath, 16); err != nil {
		return
	}
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("Lv %d  %s", p.Level, p.EvolutionName), 16, 42)
	dc.DrawStringAnchored(fmt.Sprintf("Kills %d", p.Kills), w-16, 42, 1, 0)
}

func (r *Renderer) drawOverlay(dc *gg.Context, text string) {
	dc.SetColor(color.RGBA{0, 0, 0, 150})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	if r.fontPath == "" {
		return
	}
	if err := dc.LoadFontFace(r.fontPath, 36); err != nil {
		return
	}
	dc.SetColor(color.White)
	dc.DrawStringAnchored(text, float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
}

func drawBar(dc *gg.Context, x, y, w, h, frac float64, fill color.Color) {
	dc.SetColor(barBackground)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRectangle(x, y, w*clamp01(frac), h)
	dc.Fill()
}

func hpColor(frac float64) color.RGBA {
	switch {
	case frac > 0.5:
		return color.RGBA{83, 255, 69, 255}
	case frac > 0.25:
		return color.RGBA{255, 149, 0, 255}
	default:
		return color.RGBA{255, 62, 62, 255}
	}
}

func fraction(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clamp01(v / limit)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}

	var r, g, b uint8
	fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}

func getFontPath() string {
	if p := os.Getenv("FONT_PATH"); p != "" {
		return p
	}

	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
