package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"planetviewer/camera"
	"planetviewer/config"
	"planetviewer/core"
	"planetviewer/frame"
	"planetviewer/geometry"
	"planetviewer/mesh"
	"planetviewer/rendering/opengl"
	"planetviewer/server"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath   = flag.String("config", "settings.json", "Settings file (.json or .yaml)")
		mode         = flag.String("mode", "native", "Output: native window or serve over websocket")
		globePath    = flag.String("globe", "", "Load geometry from a globe.json instead of generating it")
		subdivisions = flag.Int("subdivisions", 0, "Icosphere subdivisions (0 uses the settings value)")
		addr         = flag.String("addr", "", "Listen address in serve mode (empty uses the settings value)")
	)
	flag.Parse()

	fmt.Println("=== Planet Viewer ===")

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *subdivisions > 0 {
		settings.Subdivisions = *subdivisions
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	start := time.Now()
	globe, err := loadGlobe(settings, *globePath)
	if err != nil {
		log.Fatalf("Failed to load globe: %v", err)
	}
	fmt.Printf("Globe: %d points, %d triangles (%v)\n", len(globe.Points), len(globe.Triangles), time.Since(start))

	colors, err := settings.ColorSource()
	if err != nil {
		log.Fatalf("Invalid gradient: %v", err)
	}

	coloring, err := mesh.ParseColoringMode(settings.TriangleColoring)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	meshes, err := mesh.BuildMeshes(globe, colors, mesh.Options{
		ElevationScale:       settings.ElevationScale,
		Coloring:             coloring,
		ComputeVertexNormals: settings.ComputeVertexNormals,
	})
	if err != nil {
		var malformed *core.MalformedGeometryError
		if errors.As(err, &malformed) {
			log.Fatalf("Globe data is malformed: %v", err)
		}
		log.Fatalf("Failed to build meshes: %v", err)
	}
	fmt.Printf("Entire globe initialization: %v\n", time.Since(start))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := camera.NewQueue()
	controller := camera.NewController(settings.InitialZoom)

	switch *mode {
	case "native":
		err = runNative(ctx, settings, meshes, controller, queue)
	case "serve":
		err = runServer(ctx, settings, meshes, controller, queue)
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("\nShutting down...")
}

func loadGlobe(settings config.Settings, path string) (*core.Globe, error) {
	if path != "" {
		return geometry.LoadGlobe(path)
	}
	globe, err := geometry.Icosphere(settings.Subdivisions, geometry.FractalTerrain(settings.TerrainSeed))
	if err != nil {
		return nil, err
	}
	return geometry.Smooth(globe, settings.TerrainSmoothing), nil
}

func runNative(ctx context.Context, settings config.Settings, meshes *mesh.Meshes, controller *camera.Controller, queue *camera.Queue) error {
	renderer, err := opengl.NewGlobeRenderer(meshes, queue, opengl.Options{
		Width:                settings.Window.Width,
		Height:               settings.Window.Height,
		Title:                "Planet Viewer",
		Material:             settings.Material,
		AmbientIntensity:     settings.AmbientLightIntensity,
		SunIntensity:         settings.SunlightIntensity,
		CameraLightIntensity: settings.CameraLightIntensity,
		RenderGlobeInterior:  settings.RenderGlobeInterior,
		InitialZoom:          settings.InitialZoom,
		ShowStats:            true,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer renderer.Terminate()

	fmt.Println("\nControls:")
	fmt.Println("  Mouse: Click and drag to rotate")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  F1: Toggle stats")
	fmt.Println("  ESC: Exit")

	loop := frame.NewLoop(controller, queue, renderer, settings.Rotation)
	return loop.Run(ctx, nil)
}

func runServer(ctx context.Context, settings config.Settings, meshes *mesh.Meshes, controller *camera.Controller, queue *camera.Queue) error {
	srv, err := server.New(meshes, queue)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe(ctx, settings.Server.Addr)
		cancel()
	}()
	fmt.Printf("Serving on %s (ws://%s/ws)\n", settings.Server.Addr, settings.Server.Addr)

	ticker := time.NewTicker(time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	loop := frame.NewLoop(controller, queue, srv, settings.Rotation)
	loopErr := loop.Run(ctx, ticker.C)
	cancel()

	if err := <-errc; err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return loopErr
}
