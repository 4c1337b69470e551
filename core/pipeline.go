// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gobuffalo/packr"
)

const (
	shaderFile         = "triangle.wgsl"
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

var shaderBox = packr.NewBox("../shaders")

// NewPipeline compiles the embedded shader and builds the one render
// pipeline of the process against the given surface format. The
// pipeline binds no external resources: the triangle is synthesized
// in the vertex stage from the vertex index alone. Built exactly
// once, immutable thereafter.
func NewPipeline(device *wgpu.Device, format wgpu.TextureFormat) (*Pipeline, error) {
	source, err := shaderBox.MustString(shaderFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShaderCompile, err)
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: shaderFile,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShaderCompile, err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "glint pipeline layout",
	})
	if err != nil {
		module.Release()
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "glint pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: vertexEntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &wgpu.BlendStateReplace,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		layout.Release()
		module.Release()
		return nil, fmt.Errorf("render pipeline: %w", err)
	}

	return &Pipeline{
		pipeline: pipeline,
		layout:   layout,
		module:   module,
	}, nil
}

// Pipeline is the compiled graphics pipeline state
type Pipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	module   *wgpu.ShaderModule
}

// Destroy releases the pipeline resources
func (p *Pipeline) Destroy() {
	p.pipeline.Release()
	p.layout.Release()
	p.module.Release()
}
