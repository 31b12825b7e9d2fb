package twistycube

// Renderer is the drawing collaborator the core calls into.
// Calls arrive on the goroutine that drives the Controller and must not
// call back into it.
type Renderer interface {
	// Attach moves a piece under the pivot. Its world transform is unchanged.
	Attach(piece int)
	// Detach moves a piece back to the scene with the given world transform.
	Detach(piece int, world Transform)
	// SetPivotAngle sets the pivot rotation about axis in radians.
	SetPivotAngle(axis Axis, radians float64)
	// RedrawFacelet repaints one facelet of a piece.
	RedrawFacelet(piece int, home Face, c Color)
}

// NopRenderer ignores every call.
type NopRenderer struct{}

func (NopRenderer) Attach(int) {}
func (NopRenderer) Detach(int, Transform) {}
func (NopRenderer) SetPivotAngle(Axis, float64) {}
func (NopRenderer) RedrawFacelet(int, Face, Color) {}
