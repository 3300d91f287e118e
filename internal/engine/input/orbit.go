package input

import "github.com/veandco/go-sdl2/sdl"

// Orbiter is a camera driven by OrbitControl.
type Orbiter interface {
	HandleDrag(deltaX, deltaY float32)
	HandleZoom(delta float32)
	HandleMovement(forward, right, up float32)
}

// OrbitControl maps mouse and keyboard input to an orbit camera: right drag
// rotates, the wheel zooms and WASD/QE pan.
type OrbitControl struct {
	camera   Orbiter
	dragging bool
}

// NewOrbitControl creates a control for cam.
func NewOrbitControl(cam Orbiter) *OrbitControl {
	return &OrbitControl{camera: cam}
}

// Apply feeds one frame of events to the camera.
func (o *OrbitControl) Apply(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventMouseDown:
			if e.Button == sdl.BUTTON_RIGHT {
				o.dragging = true
			}
		case EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				o.dragging = false
			}
		case EventMouseMove:
			if o.dragging {
				o.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		case EventMouseWheel:
			o.camera.HandleZoom(float32(e.DeltaY))
		}
	}
}

// Move pans the camera from held keys, scaled by the frame time in seconds.
func (o *OrbitControl) Move(held func(sdl.Scancode) bool, dt float32) {
	axis := func(pos, neg sdl.Scancode) float32 {
		var v float32
		if held(pos) {
			v++
		}
		if held(neg) {
			v--
		}
		return v
	}
	forward := axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward == 0 && right == 0 && up == 0 {
		return
	}
	// 60 units of HandleMovement per second.
	s := dt * 60
	o.camera.HandleMovement(forward*s, right*s, up*s)
}

// Dragging reports whether a rotate drag is in progress.
func (o *OrbitControl) Dragging() bool {
	return o.dragging
}
