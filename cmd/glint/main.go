// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glint/core"
)

func init() {
	// glfw and the surface presentation must stay on the main thread
	runtime.LockOSThread()
}

var configuration = core.Configuration{
	Time: core.TimeConfiguration{
		FramesPerSecond: 60,
		EventPollDelay:  10,
	},
	Renderer: core.RendererConfiguration{
		WindowTitle:  "Glint",
		ScreenWidth:  450,
		ScreenHeight: 400,
		ClearColor:   mgl32.Vec4{0.1, 0.2, 0.3, 1.0},
	},
}

// requestExit queues a shutdown signal. Several callbacks can fire
// between receives on the loop goroutine, so the send must never
// block; one buffered signal is enough to stop the loop.
func requestExit(exitC chan<- struct{}) {
	select {
	case exitC <- struct{}{}:
	default:
	}
}

func newWindow(cfg core.RendererConfiguration) *glfw.Window {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(
		int(cfg.ScreenWidth),
		int(cfg.ScreenHeight),
		cfg.WindowTitle,
		nil, nil)
	if err != nil {
		panic(err)
	}
	return window
}

func main() {
	cfg := core.ConfigurationFromEnv(configuration)

	if err := glfw.Init(); err != nil {
		log.WithError(err).Fatal("glfw initialization failed")
	}
	defer glfw.Terminate()

	// The surface must not outlive the window: window first, surface
	// second, teardown in strict reverse order below.
	window := newWindow(cfg.Renderer)
	defer window.Destroy()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	deviceCtx, err := core.NewDeviceContext(instance, surface, cfg.Renderer)
	if err != nil {
		log.WithError(err).Fatal("gpu setup failed")
	}
	defer deviceCtx.Destroy()

	fbWidth, fbHeight := window.GetFramebufferSize()
	surf, err := core.NewSurface(surface, deviceCtx, uint32(fbWidth), uint32(fbHeight))
	if err != nil {
		log.WithError(err).Fatal("surface setup failed")
	}

	pipeline, err := core.NewPipeline(deviceCtx.Device(), surf.Config().Format)
	if err != nil {
		log.WithError(err).Fatal("pipeline setup failed")
	}

	var driver core.Renderer = core.NewDriver(deviceCtx, surf, pipeline, cfg.Renderer)
	defer driver.Destroy()

	exitC := make(chan struct{}, 1)

	renderFrame := func() {
		driver.Update()
		if err := driver.Render(); err != nil {
			if errors.Is(err, core.ErrSurfaceOutOfMemory) {
				log.WithError(err).Error("gpu out of memory, shutting down")
				requestExit(exitC)
				return
			}
			log.WithError(err).Warn("render failed")
		}
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		driver.Resize(uint32(width), uint32(height))
	})
	window.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) {
		width, height := window.GetFramebufferSize()
		driver.Resize(uint32(width), uint32(height))
	})
	window.SetRefreshCallback(func(_ *glfw.Window) {
		renderFrame()
	})
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			requestExit(exitC)
		}
	})
	window.SetCloseCallback(func(_ *glfw.Window) {
		requestExit(exitC)
	})

	time := core.NewTime(cfg.Time)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-time.EventTicker().C:
			glfw.PollEvents()
			if window.ShouldClose() {
				requestExit(exitC)
				continue EventLoop
			}
		case <-time.FpsTicker().C:
			renderFrame()
		}
	}
}
