// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"strings"
)

// package errors
var (
	// ErrAdapterUnavailable means no GPU adapter compatible with the
	// target surface could be found. Fatal at startup.
	ErrAdapterUnavailable = errors.New("no compatible gpu adapter available")

	// ErrDeviceCreationFailed means the adapter rejected the device
	// and queue request. Fatal at startup.
	ErrDeviceCreationFailed = errors.New("gpu device creation failed")

	// ErrShaderCompile means shader source failed to compile into a
	// module. Fatal at startup, there is no partial pipeline state.
	ErrShaderCompile = errors.New("shader compilation failed")

	// ErrSurfaceUnsupported means the surface reports no usable
	// texture formats for the chosen adapter.
	ErrSurfaceUnsupported = errors.New("surface has no supported formats")

	// ErrSurfaceLost and ErrSurfaceOutdated mean the surface became
	// invalid and must be reconfigured before the next frame.
	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceOutdated = errors.New("surface outdated")

	// ErrSurfaceTimeout means the next frame was not ready in time.
	// The frame is skipped and the loop retries.
	ErrSurfaceTimeout = errors.New("surface acquisition timed out")

	// ErrSurfaceOutOfMemory is unrecoverable at runtime and is
	// forwarded to the loop controller as a termination request.
	ErrSurfaceOutOfMemory = errors.New("surface out of memory")
)

// classifyAcquireError maps a texture acquisition failure onto the
// package taxonomy. The binding exposes no sentinel values, so the
// message is inspected here and nowhere else. Errors that match
// nothing are returned unchanged and treated as transient.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %s", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "out of memory") || strings.Contains(msg, "outofmemory"):
		return fmt.Errorf("%w: %s", ErrSurfaceOutOfMemory, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %s", ErrSurfaceLost, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %s", ErrSurfaceTimeout, err)
	default:
		return err
	}
}
