// Package viewer binds a splat asset to an external render engine and ties
// the engine's lifetime to the viewer step.
package viewer

import "context"

// SampleAssetURL is the point cloud shown after processing.
const SampleAssetURL = "https://huggingface.co/datasets/dylanebert/3dgs/resolve/main/bonsai/bonsai-7k-mini.splat"

// Surface is the drawing area the renderer is mounted into.
type Surface interface {
	Size() (width, height int)
}

// Scene and Camera are engine-owned values the binding only passes around.
type (
	Scene  any
	Camera any
)

// Renderer draws a scene through a camera onto its surface.
type Renderer interface {
	Render(scene Scene, camera Camera)
	SetSize(width, height int)
	// Dispose releases the surface and anything the renderer allocated.
	Dispose()
}

// Controls maps user input onto the camera. Update is called once per frame.
type Controls interface {
	Update()
}

// Engine is the narrow capability set the binding consumes.
type Engine interface {
	NewScene() Scene
	NewCamera() Camera
	NewRenderer(surface Surface) (Renderer, error)
	NewControls(camera Camera, surface Surface) Controls
	// Load fetches the asset at url into scene. progress receives 0..1.
	Load(ctx context.Context, url string, scene Scene, progress func(float64)) error
}
