package main

import (
	"fmt"

	"go.uber.org/zap"

	"scene-renderer/config"
	"scene-renderer/entity"
	"scene-renderer/gfx"
	"scene-renderer/internal/logger"
	"scene-renderer/renderer"
	"scene-renderer/scene"
)

// buildScene adds the skybox first so it lands behind everything, then every
// configured entity in file order.
func buildScene(dev gfx.Device, params *scene.Params, cfg *config.Config, loader entity.ImageLoader, ctrl *renderer.Controller, shadowUnit int) error {
	if len(cfg.Skybox) > 0 {
		var faces [6]string
		copy(faces[:], cfg.Skybox)

		sky := entity.NewSkybox(dev, entity.NewSkyboxProgram(dev, params), params)
		sky.LoadFaces(loader, faces)
		ctrl.AddEntity(sky)
	}

	meshProgram := entity.NewMeshProgram(dev, params)
	meshProgram.SetShadowUnit(shadowUnit)

	for i, ec := range cfg.Entities {
		model, err := ec.LoadModel()
		if err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}

		mesh, err := entity.NewTexturedMesh(dev, meshProgram, model.Mesh, ec.Transform.Clone(), ec.TextureUnit)
		if err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
		mesh.LoadTexture(loader, model.TexturePath)

		var e entity.Entity = mesh
		if ec.Kind == config.KindProp {
			prop, err := entity.NewAnimatedProp(mesh)
			if err != nil {
				return fmt.Errorf("entity %d: %w", i, err)
			}
			e = prop
		}
		ctrl.AddEntity(e)

		logger.Log.Debug("entity added",
			zap.Int("index", i),
			zap.String("kind", string(ec.Kind)),
			zap.String("texture", model.TexturePath),
			zap.Int32("vertices", mesh.DrawSize()))
	}
	return nil
}
