// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core contains the GPU device, surface and frame driving
// machinery of glint. It binds a WebGPU device to a platform window
// surface and runs the acquire-record-submit-present cycle for it.
package core

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Presenter describes a configured window surface that frames
// can be acquired from and presented to. It is the seam between
// the frame driver and the windowing system.
type Presenter interface {
	// Acquire requests the next drawable frame. Failures are
	// classified into the package error taxonomy.
	Acquire() (Frame, error)

	// Resize updates the surface pixel dimensions and reapplies
	// the configuration. Zero dimensions are ignored.
	Resize(width, height uint32)

	// Reconfigure reapplies the last known configuration unchanged.
	// Used to recover a lost or outdated surface.
	Reconfigure()

	// Config returns the currently applied configuration.
	Config() SurfaceConfig

	// Destroy releases the underlying surface resources.
	Destroy()
}

// Frame is a single drawable texture acquired from a Presenter.
// It is only valid until presented or released.
type Frame interface {
	// View returns the default texture view for render pass attachment.
	View() *wgpu.TextureView

	// Present hands the texture back to the surface for display.
	// Must be called at most once.
	Present()

	// Release frees the frame resources. Safe after Present.
	Release()
}

// Recorder encodes and submits the GPU commands for one frame
// targeting the given texture view.
type Recorder interface {
	Record(view *wgpu.TextureView) error
}

// Renderer describes the per-iteration driving surface exposed
// to the event loop.
type Renderer interface {
	// Update runs per-frame logic. Must run exactly once before
	// every Render call.
	Update()

	// Render draws and presents a single frame. A nil return
	// means either a presented or an intentionally skipped frame.
	Render() error

	// Resize propagates a window size change.
	Resize(width, height uint32)

	// Destroy releases internal members.
	Destroy()
}
