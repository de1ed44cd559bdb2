package sim

import "github.com/go-gl/mathgl/mgl64"

type EntityID string

// Entity is the simulated state a Controller mutates. Entities are created
// and destroyed only by the Registry; Controllers never own them.
type Entity struct {
	ID          EntityID
	Name        string
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	// Tool is the currently held tool, empty when bare-handed. It is a
	// weak reference resolved through the Registry at use time; a stale
	// id simply fails to resolve.
	Tool ToolID
}
