package splat

// OrbitControls turns discrete input into smooth camera motion.
// Input methods may be called any time; Update applies it once per frame.
type OrbitControls struct {
	Camera     *Orbit
	Damping    float64 // fraction of velocity kept per frame
	AutoRotate float64 // radians per frame while idle

	vYaw, vPitch, vZoom float64
	idleFrames          int
}

const idleBeforeAutoRotate = 90

func NewOrbitControls(cam *Orbit) *OrbitControls {
	return &OrbitControls{Camera: cam, Damping: 0.8, AutoRotate: 0.004}
}

// Rotate nudges the camera by the given angles (radians).
func (c *OrbitControls) Rotate(dYaw, dPitch float64) {
	c.vYaw += dYaw
	c.vPitch += dPitch
	c.idleFrames = 0
}

// Zoom scales distance; factor < 1 moves closer.
func (c *OrbitControls) Zoom(factor float64) {
	if factor > 0 {
		c.vZoom += factor - 1
	}
	c.idleFrames = 0
}

func (c *OrbitControls) Update() {
	if c.Camera == nil {
		return
	}
	c.Camera.Yaw += c.vYaw
	c.Camera.Pitch += c.vPitch
	c.Camera.Distance *= 1 + c.vZoom
	c.vYaw *= c.Damping
	c.vPitch *= c.Damping
	c.vZoom *= c.Damping
	c.idleFrames++
	if c.idleFrames > idleBeforeAutoRotate {
		c.Camera.Yaw += c.AutoRotate
	}
	c.Camera.Clamp()
}
