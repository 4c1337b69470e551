// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Fixed draw parameters of the bootstrap triangle
const (
	triangleVertexCount   = 3
	triangleInstanceCount = 1
)

// NewDriver creates the frame driver. It exclusively owns the surface
// configuration and the pipeline for the process lifetime.
func NewDriver(dc *DeviceContext, surface Presenter, pipeline *Pipeline, cfg RendererConfiguration) *Driver {
	return &Driver{
		surface: surface,
		recorder: &pipelineRecorder{
			device:   dc.Device(),
			queue:    dc.Queue(),
			pipeline: pipeline,
			clear:    colorFromVec(cfg.ClearColor),
		},
		pipeline: pipeline,
	}
}

var _ Renderer = (*Driver)(nil)

// Driver runs the per-iteration update/render cycle and maps surface
// failures to recovery actions.
type Driver struct {
	surface  Presenter
	recorder Recorder
	pipeline *Pipeline

	updates uint64
	frames  uint64
}

// Update implements interface. It carries no per-frame logic yet but
// must keep running exactly once before every Render call.
func (d *Driver) Update() {
	d.updates++
}

// Render implements interface. Lost and outdated surfaces are
// reconfigured with the stored size and the frame dropped; timeouts
// and unclassified failures drop the frame only; out of memory is
// forwarded so the loop controller can stop.
func (d *Driver) Render() error {
	frame, err := d.surface.Acquire()
	if err != nil {
		switch {
		case errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated):
			log.WithError(err).Warn("surface invalid, reconfiguring")
			d.surface.Reconfigure()
			return nil
		case errors.Is(err, ErrSurfaceOutOfMemory):
			return err
		default:
			log.WithError(err).Warn("frame skipped")
			return nil
		}
	}
	defer frame.Release()

	if err := d.recorder.Record(frame.View()); err != nil {
		log.WithError(err).Warn("command recording failed, frame dropped")
		return nil
	}

	frame.Present()
	d.frames++
	return nil
}

// Resize implements interface
func (d *Driver) Resize(width, height uint32) {
	d.surface.Resize(width, height)
}

// Destroy implements interface
func (d *Driver) Destroy() {
	if d.pipeline != nil {
		d.pipeline.Destroy()
	}
	d.surface.Destroy()
}

// pipelineRecorder encodes the single clear-and-draw pass of a frame
// and submits it as one command buffer.
type pipelineRecorder struct {
	device   *wgpu.Device
	queue    *wgpu.Queue
	pipeline *Pipeline
	clear    wgpu.Color
}

func (r *pipelineRecorder) Record(view *wgpu.TextureView) error {
	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "glint pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	encodeTrianglePass(pass, r.pipeline.pipeline)

	buffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer buffer.Release()

	r.queue.Submit(buffer)
	return nil
}

// passEncoder is the slice of the render pass the draw touches,
// split out so the encoding order stays observable in tests.
type passEncoder interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
	Release()
}

func encodeTrianglePass(pass passEncoder, pipeline *wgpu.RenderPipeline) {
	pass.SetPipeline(pipeline)
	pass.Draw(triangleVertexCount, triangleInstanceCount, 0, 0)
	// the pass must be ended before the encoder is finished
	pass.End()
	pass.Release()
}

func colorFromVec(v mgl32.Vec4) wgpu.Color {
	return wgpu.Color{
		R: float64(v.X()),
		G: float64(v.Y()),
		B: float64(v.Z()),
		A: float64(v.W()),
	}
}
