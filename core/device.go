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

// NewDeviceContext selects a GPU adapter compatible with the given
// surface and creates the logical device and submission queue on it.
// Power preference is left at its default and no fallback adapter is
// forced; when the primary request yields nothing, creation fails.
func NewDeviceContext(instance *wgpu.Instance, surface *wgpu.Surface, cfg RendererConfiguration) (*DeviceContext, error) {
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAdapterUnavailable, err)
	}

	limits := limitsForTier(cfg.Constrained)
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "glint device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("%w: %s", ErrDeviceCreationFailed, err)
	}

	log.WithFields(log.Fields{
		"constrained":  cfg.Constrained,
		"maxTexture2D": limits.MaxTextureDimension2D,
	}).Info("gpu device created")

	return &DeviceContext{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// DeviceContext owns the GPU instance handle, the chosen adapter and
// the logical device with its queue. Device and queue are created
// together from the same adapter and never rebound.
type DeviceContext struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// Device returns the logical device handle
func (d *DeviceContext) Device() *wgpu.Device {
	return d.device
}

// Queue returns the submission queue handle
func (d *DeviceContext) Queue() *wgpu.Queue {
	return d.queue
}

// Adapter returns the chosen adapter handle
func (d *DeviceContext) Adapter() *wgpu.Adapter {
	return d.adapter
}

// Destroy releases the device context members. The owning instance
// handle is left to the caller that created it.
func (d *DeviceContext) Destroy() {
	d.device.Release()
	d.adapter.Release()
}

// limitsForTier returns the device limits profile for the target
// capability tier. The constrained tier mirrors web-like environments
// that cannot offer the full native limits.
func limitsForTier(constrained bool) wgpu.Limits {
	limits := wgpu.DefaultLimits()
	if constrained {
		limits.MaxTextureDimension2D = 2048
		limits.MaxBindGroups = 4
	}
	return limits
}
