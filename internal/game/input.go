package game

import "math"

// Joystick turns a drag displacement into a velocity. Its only state is the
// knob offset used for rendering.
type Joystick struct {
	Radius       float64 // maximum knob displacement
	KnobX, KnobY float64
}

// Drag takes the displacement from gesture start and returns a velocity in
// the drag direction. The knob is clamped to Radius and the velocity scales
// with the clamped distance, reaching speed at the rim.
func (j *Joystick) Drag(dx, dy, speed float64) (vx, vy float64) {
	dist := math.Hypot(dx, dy)
	if dist == 0 || j.Radius <= 0 {
		j.KnobX, j.KnobY = 0, 0
		return 0, 0
	}

	ux, uy := dx/dist, dy/dist
	knob := math.Min(dist, j.Radius)
	j.KnobX, j.KnobY = ux*knob, uy*knob

	scale := knob / j.Radius * speed
	return ux * scale, uy * scale
}

// Release springs the knob back to center.
func (j *Joystick) Release() {
	j.KnobX, j.KnobY = 0, 0
}
