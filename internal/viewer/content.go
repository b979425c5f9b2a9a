package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skelview/internal/anim"
	"github.com/Faultbox/skelview/internal/config"
	"github.com/Faultbox/skelview/internal/engine/model"
	"github.com/Faultbox/skelview/internal/engine/scene"
	"github.com/Faultbox/skelview/internal/engine/shadow"
	"github.com/Faultbox/skelview/internal/engine/texture"
	"github.com/Faultbox/skelview/internal/importer"
	"github.com/Faultbox/skelview/internal/logger"
)

// content holds the loaded scene objects and playback state.
type content struct {
	animated *model.AnimatedModel
	ground   *model.StaticModel
	textures []uint32
}

// loadContent imports the configured model, builds the runtime
// animation structures, uploads GPU resources, and registers the
// drawables with the scene.
func loadContent(cfg *config.Config, s *scene.Scene) (*content, error) {
	if cfg.Scene.ModelPath == "" {
		return nil, fmt.Errorf("no model specified: set scene.model_path or pass -model")
	}

	imported, err := importer.Load(cfg.Scene.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	logger.Log.Info("model imported",
		zap.String("path", cfg.Scene.ModelPath),
		zap.Int("joints", len(imported.Joints)),
		zap.Int("clips", len(imported.Clips)),
		zap.Int("meshes", len(imported.Meshes)),
	)

	skeleton, err := anim.NewSkeleton(imported.Joints)
	if err != nil {
		return nil, fmt.Errorf("building skeleton: %w", err)
	}

	animated, err := model.NewAnimatedModel(skeleton, imported.InverseBind)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}

	for _, clip := range imported.Clips {
		a, err := anim.NewAnimation(skeleton, clip.Name, clip.Duration, clip.Tracks)
		if err != nil {
			logger.Log.Warn("skipping invalid clip",
				zap.String("clip", clip.Name), zap.Error(err))
			continue
		}
		if err := animated.AddAnimation(a); err != nil {
			logger.Log.Warn("skipping clip",
				zap.String("clip", clip.Name), zap.Error(err))
		}
	}

	c := &content{animated: animated}

	for _, mesh := range imported.Meshes {
		tex := c.loadTexture(mesh)
		animated.AddMesh(model.NewMesh(mesh, tex))
	}

	bounds := meshBounds(imported.Meshes)

	if cfg.Scene.GroundPlane {
		extent := bounds.Radius() * 3
		if extent < 5 {
			extent = 5
		}
		plane := model.PlaneMesh(extent, [4]float32{0.55, 0.55, 0.6, 1})
		c.ground = model.NewStaticModel(model.NewMesh(plane, 0))
		c.ground.Transform = mgl32.Translate3D(0, bounds.Min.Y(), 0)
		bounds.Extend(mgl32.Vec3{-extent, bounds.Min.Y(), -extent})
		bounds.Extend(mgl32.Vec3{extent, bounds.Min.Y(), extent})
		s.Add(c.ground)
	}

	s.Add(animated)
	s.Bounds = bounds

	c.startPlayback(cfg.Scene.Animation)

	return c, nil
}

// startPlayback selects the configured clip, falling back to the first
// registered one.
func (c *content) startPlayback(name string) {
	if !c.animated.HasAnimations() {
		logger.Log.Info("model has no animation clips, showing bind pose")
		return
	}

	if name != "" {
		if err := c.animated.SelectAnimation(name); err == nil {
			logger.Log.Info("animation selected", zap.String("clip", name))
			return
		}
		logger.Log.Warn("configured animation not found, using first clip",
			zap.String("clip", name),
			zap.Strings("available", c.animated.AnimationNames()))
	}

	if err := c.animated.SelectAnimationIndex(0); err != nil {
		logger.Log.Warn("selecting first clip", zap.Error(err))
		return
	}
	if clip, ok := c.animated.CurrentAnimation(); ok {
		logger.Log.Info("animation selected", zap.String("clip", clip))
	}
}

// loadTexture uploads the mesh texture, preferring embedded data over
// an external path. Returns 0 when the mesh is untextured.
func (c *content) loadTexture(mesh importer.Mesh) uint32 {
	var (
		tex uint32
		err error
	)
	switch {
	case len(mesh.TextureData) > 0:
		tex, err = texture.FromBytes(mesh.TextureData)
	case mesh.TexturePath != "":
		tex, err = texture.FromFile(mesh.TexturePath)
	default:
		return 0
	}
	if err != nil {
		logger.Log.Warn("texture load failed, using base color",
			zap.String("path", mesh.TexturePath), zap.Error(err))
		return 0
	}
	c.textures = append(c.textures, tex)
	return tex
}

// advance steps the animation clock, logging sampling failures without
// stopping playback.
func (c *content) advance(dt float32) {
	if err := c.animated.Advance(dt); err != nil {
		logger.Log.Warn("animation sampling failed", zap.Error(err))
	}
}

// cycleAnimation switches to the next clip in registration order.
func (c *content) cycleAnimation() {
	names := c.animated.AnimationNames()
	if len(names) == 0 {
		return
	}

	next := 0
	if current, ok := c.animated.CurrentAnimation(); ok {
		for i, n := range names {
			if n == current {
				next = (i + 1) % len(names)
				break
			}
		}
	}
	c.selectAnimationIndex(next)
}

// selectAnimationIndex selects a clip by index, ignoring out-of-range
// requests.
func (c *content) selectAnimationIndex(idx int) {
	if err := c.animated.SelectAnimationIndex(idx); err != nil {
		logger.Log.Debug("animation index not available", zap.Int("index", idx))
		return
	}
	if clip, ok := c.animated.CurrentAnimation(); ok {
		logger.Log.Info("animation selected", zap.String("clip", clip))
	}
}

// destroy releases GPU resources owned by the content.
func (c *content) destroy() {
	if c.animated != nil {
		c.animated.Destroy()
	}
	if c.ground != nil {
		c.ground.Destroy()
	}
	for _, tex := range c.textures {
		texture.Delete(tex)
	}
	c.textures = nil
}

// meshBounds computes the rest-pose bounding box over all mesh
// vertices.
func meshBounds(meshes []importer.Mesh) shadow.AABB {
	box := shadow.NewAABB()
	found := false
	for _, mesh := range meshes {
		for _, v := range mesh.Vertices {
			box.Extend(mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]})
			found = true
		}
	}
	if !found {
		return shadow.AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	}
	return box
}
