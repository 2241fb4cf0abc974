package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scene-renderer/assets"
	"scene-renderer/config"
	"scene-renderer/core"
	"scene-renderer/internal/logger"
	"scene-renderer/internal/opengl"
	"scene-renderer/renderer"
	"scene-renderer/scene"
	"scene-renderer/shader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Log.Fatal("demo failed", zap.Error(err))
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Render a shadowed scene described by a JSON config",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(debug); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer logger.Sync()

			err := run(cmd.Context(), configPath)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "scene.json", "scene config file (see scene.example.json)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Log.Info("config loaded",
		zap.String("path", configPath),
		zap.Int("entities", len(cfg.Entities)),
		zap.Bool("skybox", len(cfg.Skybox) > 0))

	windowConfig := core.DefaultWindowConfig()
	windowConfig.Title = cfg.Window.Title
	windowConfig.Width = cfg.Window.Width
	windowConfig.Height = cfg.Window.Height
	windowConfig.VSync = cfg.Window.VSync

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return fmt.Errorf("creating device: %w", err)
	}
	defer dev.Destroy()

	shadow, err := opengl.NewShadowTarget(cfg.Light.ShadowSize, shader.DefaultShadowUnit)
	if err != nil {
		return fmt.Errorf("creating shadow target: %w", err)
	}
	defer shadow.Destroy()

	params := scene.NewParams()
	cfg.Apply(params)

	camera := scene.NewCamera(params, cfg.Camera.FOV,
		float32(window.Width)/float32(max(window.Height, 1)),
		cfg.Camera.Near, cfg.Camera.Far)
	hud := newHUD(window, cfg.Window.Title)
	camera.OnInfo(hud.update)

	ctrl := renderer.NewController(dev, shadow, params)
	ctrl.SetCamera(camera)
	ctrl.SetViewport(window.Width, window.Height)

	window.OnKey(ctrl.HandleKey)
	window.OnResize(func(width, height int) {
		ctrl.SetViewport(width, height)
		camera.UpdateAspectRatio(float32(width), float32(height))
	})

	loader := assets.NewLoader(window, assets.Options{
		Workers: cfg.Loader.Workers,
		Retries: cfg.Loader.Retries,
		Backoff: cfg.BackoffDuration(),
	})

	if err := buildScene(dev, params, cfg, loader, ctrl, shadow.TextureUnit()); err != nil {
		return err
	}

	return ctrl.StartAnimation(ctx, window)
}
