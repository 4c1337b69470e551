// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	log "github.com/sirupsen/logrus"
)

// SurfaceConfig holds the applied surface parameters. Width and
// height are the single source of truth for the drawable size once
// the surface is initialized.
type SurfaceConfig struct {
	Usage       wgpu.TextureUsage
	Format      wgpu.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode
}

// setSize stores new pixel dimensions. Degenerate sizes, as reported
// for minimized windows, leave the configuration untouched.
func (c *SurfaceConfig) setSize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	c.Width = width
	c.Height = height
	return true
}

// selectFormat picks the surface pixel format from the supported
// list. The preferred format is placed at the beginning of the list,
// so the first entry always wins.
func selectFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	if len(formats) == 0 {
		return wgpu.TextureFormatUndefined, ErrSurfaceUnsupported
	}
	return formats[0], nil
}

// NewSurface binds the drawable surface to the device and applies the
// initial configuration: render attachment usage, the surface's
// preferred format, FIFO presentation and automatic alpha compositing.
func NewSurface(surface *wgpu.Surface, dc *DeviceContext, width, height uint32) (*Surface, error) {
	caps := surface.GetCapabilities(dc.Adapter())
	format, err := selectFormat(caps.Formats)
	if err != nil {
		return nil, fmt.Errorf("surface init: %w", err)
	}

	s := &Surface{
		surface: surface,
		adapter: dc.Adapter(),
		device:  dc.Device(),
		config: SurfaceConfig{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      format,
			Width:       width,
			Height:      height,
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   wgpu.CompositeAlphaModeAuto,
		},
	}
	s.apply()

	log.WithFields(log.Fields{
		"format": format,
		"width":  width,
		"height": height,
	}).Info("surface configured")

	return s, nil
}

// Surface is the window-backed wgpu presenter
type Surface struct {
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device

	config SurfaceConfig
}

func (s *Surface) apply() {
	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       s.config.Usage,
		Format:      s.config.Format,
		Width:       s.config.Width,
		Height:      s.config.Height,
		PresentMode: s.config.PresentMode,
		AlphaMode:   s.config.AlphaMode,
	})
}

// Resize implements interface. This is the only path that mutates
// surface parameters after initialization.
func (s *Surface) Resize(width, height uint32) {
	if !s.config.setSize(width, height) {
		log.WithFields(log.Fields{
			"width":  width,
			"height": height,
		}).Debug("degenerate resize ignored")
		return
	}
	s.apply()
}

// Reconfigure implements interface
func (s *Surface) Reconfigure() {
	s.apply()
}

// Config implements interface
func (s *Surface) Config() SurfaceConfig {
	return s.config
}

// Acquire implements interface
func (s *Surface) Acquire() (Frame, error) {
	texture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, classifyAcquireError(err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, classifyAcquireError(err)
	}

	return &surfaceFrame{
		surface: s.surface,
		texture: texture,
		view:    view,
	}, nil
}

// Destroy implements interface
func (s *Surface) Destroy() {
	s.surface.Release()
}

// surfaceFrame is one acquired swapchain texture
type surfaceFrame struct {
	surface *wgpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (f *surfaceFrame) View() *wgpu.TextureView {
	return f.view
}

func (f *surfaceFrame) Present() {
	f.surface.Present()
}

func (f *surfaceFrame) Release() {
	f.view.Release()
	f.texture.Release()
}
