package render

import (
	"math"

	"github.com/taigrr/ott/pkg/math3d"
)

// Camera projects world points onto a viewing plane that sits FocalLength in
// front of it along its forward axis.
//
// Every mutator funnels through update, which re-derives the local axes, the
// viewing plane and both GL-style matrices. There is no way to observe a
// camera whose derived state lags its pose.
type Camera struct {
	position math3d.Vec3
	rotation math3d.Mat3

	fov    float64 // horizontal, radians
	focal  float64
	aspect float64 // width / height
	near   float64
	far    float64

	// derived
	uX, uY, uZ math3d.Vec3
	planeW     float64
	planeH     float64
	plane      math3d.Plane
	view       math3d.Mat4
	proj       math3d.Mat4
}

// NewCamera creates a camera at the origin looking down +Z with a 90°
// horizontal field of view, unit focal length and square aspect.
func NewCamera() *Camera {
	c := &Camera{
		rotation: math3d.Mat3Identity(),
		fov:      math.Pi / 2,
		focal:    1,
		aspect:   1,
		near:     0.1,
		far:      1000,
	}
	c.update()
	return c
}

func (c *Camera) update() {
	c.rotation = c.rotation.Orthonormalize()
	c.uX = c.rotation.Col(0)
	c.uY = c.rotation.Col(1)
	c.uZ = c.rotation.Col(2)

	c.planeW = 2 * c.focal * math.Tan(c.fov/2)
	c.planeH = c.planeW / c.aspect
	c.plane = math3d.Plane{Pos: c.position.Add(c.uZ.Scale(c.focal)), Norm: c.uZ}

	c.view = math3d.ViewFromAxes(c.position, c.uX, c.uY, c.uZ)
	fovy := 2 * math.Atan(math.Tan(c.fov/2)/c.aspect)
	c.proj = math3d.Perspective(fovy, c.aspect, c.near, c.far)
}

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Rotation returns the camera orientation; its columns are Right, Up, Forward.
func (c *Camera) Rotation() math3d.Mat3 { return c.rotation }

// Right returns the camera's local +X axis.
func (c *Camera) Right() math3d.Vec3 { return c.uX }

// Up returns the camera's local +Y axis.
func (c *Camera) Up() math3d.Vec3 { return c.uY }

// Forward returns the camera's local +Z axis.
func (c *Camera) Forward() math3d.Vec3 { return c.uZ }

// FOV returns the horizontal field of view in radians.
func (c *Camera) FOV() float64 { return c.fov }

// FocalLength returns the distance from the camera to the viewing plane.
func (c *Camera) FocalLength() float64 { return c.focal }

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float64 { return c.aspect }

// Near returns the near clip distance.
func (c *Camera) Near() float64 { return c.near }

// ViewingPlane returns the plane points are projected onto.
func (c *Camera) ViewingPlane() math3d.Plane { return c.plane }

// PlaneSize returns the full width and height of the viewing plane.
func (c *Camera) PlaneSize() (w, h float64) { return c.planeW, c.planeH }

// ViewMatrix returns the GL-style view matrix (eye space looks down -Z).
func (c *Camera) ViewMatrix() math3d.Mat4 { return c.view }

// ProjectionMatrix returns the GL-style perspective matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 { return c.proj }

// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 { return c.proj.Mul(c.view) }

// Frustum returns the camera's clip volume in world space.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// SetFOV sets the horizontal field of view in radians.
// Non-positive values are not rejected; config validation guards them.
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.update()
}

// SetFocalLength sets the distance to the viewing plane.
func (c *Camera) SetFocalLength(l float64) {
	c.focal = l
	c.update()
}

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.aspect = aspect
	c.update()
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.near = near
	c.far = far
	c.update()
}

// SetPosition moves the camera to pos.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
	c.update()
}

// Move translates the camera by a world-space delta.
func (c *Camera) Move(delta math3d.Vec3) {
	c.SetPosition(c.position.Add(delta))
}

// MoveForward moves along the camera's forward axis (backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Move(c.uZ.Scale(distance))
}

// MoveRight moves along the camera's right axis (left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Move(c.uX.Scale(distance))
}

// MoveUp moves along the camera's up axis (down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Move(c.uY.Scale(distance))
}

// SetOrientation replaces the rotation. The matrix is re-orthonormalized.
func (c *Camera) SetOrientation(m math3d.Mat3) {
	c.rotation = m
	c.update()
}

// SetRotation sets the orientation from Euler angles in radians.
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.SetOrientation(math3d.Mat3FromEuler(pitch, yaw, roll))
}

// RotateX pitches the camera about its own right axis.
func (c *Camera) RotateX(angle float64) {
	c.SetOrientation(c.rotation.Mul(math3d.Mat3RotateX(angle)))
}

// RotateY yaws the camera about its own up axis.
func (c *Camera) RotateY(angle float64) {
	c.SetOrientation(c.rotation.Mul(math3d.Mat3RotateY(angle)))
}

// RotateZ rolls the camera about its own forward axis.
func (c *Camera) RotateZ(angle float64) {
	c.SetOrientation(c.rotation.Mul(math3d.Mat3RotateZ(angle)))
}

// LookAt turns the camera toward target keeping world up as close to the
// camera's up axis as possible. A target at the camera position is ignored.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.position)
	if dir.LenSq() == 0 {
		return
	}
	c.SetOrientation(math3d.Mat3LookAt(dir, math3d.Up()))
}

// Depth returns the distance of world in front of the camera along its
// forward axis. Points behind the camera are negative.
func (c *Camera) Depth(world math3d.Vec3) float64 {
	return world.Sub(c.position).Dot(c.uZ)
}

// ProjectPoint projects world onto the viewing plane and returns normalized
// screen coordinates (NDC, [-1,1] inside the view) plus the camera depth.
// It fails for points at or behind the camera and when the line of sight is
// parallel to the viewing plane. The near plane only applies to the GL
// matrices and the frustum.
func (c *Camera) ProjectPoint(world math3d.Vec3) (sx, sy, z float64, ok bool) {
	z = c.Depth(world)
	if !(z > 0) {
		return 0, 0, z, false
	}

	ray := math3d.NewRay(world, c.position.Sub(world))
	hit, _, ok := ray.IntersectPlane(c.plane)
	if !ok {
		return 0, 0, z, false
	}

	local := hit.Sub(c.plane.Pos)
	sx = 2 * local.Dot(c.uX) / c.planeW
	sy = 2 * local.Dot(c.uY) / c.planeH
	return sx, sy, z, true
}

// ToPixel converts normalized screen coordinates to pixel space (origin top
// left, Y down) for a width x height surface.
func ToPixel(sx, sy float64, width, height int) (px, py float64) {
	px = (sx + 1) * 0.5 * float64(width)
	py = (1 - sy) * 0.5 * float64(height)
	return px, py
}

// ProjectVertex refreshes v's projection cache for a width x height surface
// and reports whether it is visible.
func (c *Camera) ProjectVertex(v *Vertex, width, height int) bool {
	sx, sy, z, ok := c.ProjectPoint(v.World())
	if !ok {
		v.Proj = Projection{Z: z}
		return false
	}
	px, py := ToPixel(sx, sy, width, height)
	v.Proj = Projection{PX: px, PY: py, SX: sx, SY: sy, Z: z, Visible: true}
	return true
}

// CheckCulling reports whether p faces the camera. The test is per triangle,
// not per pixel: front-facing means (center - camera) · normal <= 0.
func (c *Camera) CheckCulling(p *Polygon) bool {
	return p.Center().Sub(c.position).Dot(p.Normal()) <= 0
}
