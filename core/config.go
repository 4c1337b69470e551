// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the window event polling interval
	// in milliseconds
	EventPollDelay int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	WindowTitle string

	ScreenWidth  uint32
	ScreenHeight uint32

	// Constrained selects the reduced device limits profile for
	// web-like capability tiers
	Constrained bool

	// ClearColor is the normalized RGBA background of every frame
	ClearColor mgl32.Vec4
}

// ConfigurationFromEnv layers environment overrides on top of the
// given defaults. A local .env file is honoured when present.
// Recognized variables: GLINT_TITLE, GLINT_WIDTH, GLINT_HEIGHT,
// GLINT_FPS, GLINT_CONSTRAINED.
func ConfigurationFromEnv(defaults Configuration) Configuration {
	// .env is optional, a missing file is not an error
	_ = godotenv.Load()

	cfg := defaults
	if v := envy.Get("GLINT_TITLE", ""); v != "" {
		cfg.Renderer.WindowTitle = v
	}
	if v, err := strconv.ParseUint(envy.Get("GLINT_WIDTH", ""), 10, 32); err == nil && v > 0 {
		cfg.Renderer.ScreenWidth = uint32(v)
	}
	if v, err := strconv.ParseUint(envy.Get("GLINT_HEIGHT", ""), 10, 32); err == nil && v > 0 {
		cfg.Renderer.ScreenHeight = uint32(v)
	}
	if v, err := strconv.Atoi(envy.Get("GLINT_FPS", "")); err == nil && v >= 0 {
		cfg.Time.FramesPerSecond = v
	}
	if v, err := strconv.ParseBool(envy.Get("GLINT_CONSTRAINED", "")); err == nil {
		cfg.Renderer.Constrained = v
	}
	return cfg
}
