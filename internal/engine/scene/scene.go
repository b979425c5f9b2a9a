// Package scene renders a set of drawables in two passes: a depth
// pass into the shadow map from the light's point of view, then the
// lit main pass sampling it.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelview/internal/engine/lighting"
	"github.com/Faultbox/skelview/internal/engine/shader"
	"github.com/Faultbox/skelview/internal/engine/shadow"
)

// Drawable is anything the scene can render. Draw is called once per
// pass with the pass's program already bound; implementations set
// their per-model uniforms and issue draw calls.
type Drawable interface {
	Draw(prog *shader.Program)
}

// Config contains scene configuration.
type Config struct {
	ShadowResolution int32
	ShadowsEnabled   bool
}

// DefaultConfig returns the default scene configuration.
func DefaultConfig() Config {
	return Config{
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   true,
	}
}

// Scene owns the render programs, the shadow map, the light, and the
// list of drawables.
type Scene struct {
	config Config

	depthProgram *shader.Program
	mainProgram  *shader.Program

	shadowMap *shadow.Map
	Light     *lighting.Directional

	// Bounds covers everything that casts or receives shadows.
	Bounds shadow.AABB

	drawables []Drawable
}

// New compiles the render programs and creates the shadow map. Must be
// called with a current GL context.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config: cfg,
		Light:  lighting.NewDirectional(30, 55),
		Bounds: shadow.AABB{Min: mgl32.Vec3{-10, 0, -10}, Max: mgl32.Vec3{10, 5, 10}},
	}

	var err error
	s.depthProgram, err = shader.NewProgram(shader.DepthVertexSrc, shader.DepthFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("scene: depth program: %w", err)
	}
	s.mainProgram, err = shader.NewProgram(shader.ModelVertexSrc, shader.ModelFragmentSrc)
	if err != nil {
		s.depthProgram.Delete()
		return nil, fmt.Errorf("scene: main program: %w", err)
	}

	if cfg.ShadowsEnabled {
		s.shadowMap, err = shadow.NewMap(cfg.ShadowResolution)
		if err != nil {
			s.depthProgram.Delete()
			s.mainProgram.Delete()
			return nil, fmt.Errorf("scene: %w", err)
		}
	}

	return s, nil
}

// Add registers a drawable for both passes.
func (s *Scene) Add(d Drawable) {
	s.drawables = append(s.drawables, d)
}

// Render draws the frame: shadow depth pass, then the main pass.
func (s *Scene) Render(view, projection mgl32.Mat4) {
	lightSpace := shadow.DirectionalLightMatrix(s.Light.Direction, s.Bounds)

	shadowsOn := s.config.ShadowsEnabled && s.shadowMap != nil
	if shadowsOn {
		s.shadowMap.Bind()
		s.depthProgram.Use()
		s.depthProgram.SetMat4("uLightSpace", lightSpace)
		for _, d := range s.drawables {
			d.Draw(s.depthProgram)
		}
		s.shadowMap.Unbind()
	}

	s.mainProgram.Use()
	s.mainProgram.SetMat4("uView", view)
	s.mainProgram.SetMat4("uProjection", projection)
	s.mainProgram.SetMat4("uLightSpace", lightSpace)
	s.mainProgram.SetVec3("uLightDir", s.Light.Direction)
	s.mainProgram.SetVec3("uLightColor", s.Light.Color)
	s.mainProgram.SetVec3("uAmbient", s.Light.Ambient)
	s.mainProgram.SetBool("uShadowsEnabled", shadowsOn)
	s.mainProgram.SetInt("uTexture", 0)
	s.mainProgram.SetInt("uShadowMap", 1)
	if shadowsOn {
		s.shadowMap.BindTexture(gl.TEXTURE1)
	}

	for _, d := range s.drawables {
		d.Draw(s.mainProgram)
	}
}

// SetShadowsEnabled toggles the depth pass at runtime.
func (s *Scene) SetShadowsEnabled(enabled bool) {
	s.config.ShadowsEnabled = enabled
}

// ShadowsEnabled reports whether the depth pass runs.
func (s *Scene) ShadowsEnabled() bool {
	return s.config.ShadowsEnabled && s.shadowMap != nil
}

// Destroy releases the programs and the shadow map. Drawables are
// owned by the caller.
func (s *Scene) Destroy() {
	if s.depthProgram != nil {
		s.depthProgram.Delete()
	}
	if s.mainProgram != nil {
		s.mainProgram.Delete()
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
	}
}
