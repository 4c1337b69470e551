// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeFrame struct {
	presents int
	releases int
}

func (f *fakeFrame) View() *wgpu.TextureView { return nil }
func (f *fakeFrame) Present()                { f.presents++ }
func (f *fakeFrame) Release()                { f.releases++ }

type fakePresenter struct {
	acquireErr   error
	frame        *fakeFrame
	acquires     int
	reconfigures int
	destroys     int
	config       SurfaceConfig
}

func (p *fakePresenter) Acquire() (Frame, error) {
	p.acquires++
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.frame, nil
}

func (p *fakePresenter) Resize(width, height uint32) {
	p.config.setSize(width, height)
}

func (p *fakePresenter) Reconfigure()          { p.reconfigures++ }
func (p *fakePresenter) Config() SurfaceConfig { return p.config }
func (p *fakePresenter) Destroy()              { p.destroys++ }

type fakeRecorder struct {
	records int
	err     error
}

func (r *fakeRecorder) Record(view *wgpu.TextureView) error {
	r.records++
	return r.err
}

func newTestDriver(p *fakePresenter, r *fakeRecorder) *Driver {
	return &Driver{surface: p, recorder: r}
}

func TestRenderPresentsFrame(t *testing.T) {
	c := qt.New(t)

	frame := &fakeFrame{}
	presenter := &fakePresenter{frame: frame}
	recorder := &fakeRecorder{}
	driver := newTestDriver(presenter, recorder)

	driver.Update()
	c.Assert(driver.Render(), qt.IsNil)

	c.Assert(recorder.records, qt.Equals, 1)
	c.Assert(frame.presents, qt.Equals, 1)
	c.Assert(frame.releases, qt.Equals, 1)
	c.Assert(presenter.reconfigures, qt.Equals, 0)
}

func TestRenderLostSurfaceReconfigures(t *testing.T) {
	c := qt.New(t)

	for _, acquireErr := range []error{ErrSurfaceLost, ErrSurfaceOutdated} {
		presenter := &fakePresenter{
			acquireErr: fmt.Errorf("%w: swapchain invalid", acquireErr),
			config:     SurfaceConfig{Width: 800, Height: 600},
		}
		recorder := &fakeRecorder{}
		driver := newTestDriver(presenter, recorder)

		driver.Update()
		c.Assert(driver.Render(), qt.IsNil)

		c.Assert(presenter.reconfigures, qt.Equals, 1)
		c.Assert(recorder.records, qt.Equals, 0)
		c.Assert(presenter.Config().Width, qt.Equals, uint32(800))
		c.Assert(presenter.Config().Height, qt.Equals, uint32(600))
	}
}

func TestRenderOutOfMemorySignalsTermination(t *testing.T) {
	c := qt.New(t)

	presenter := &fakePresenter{acquireErr: ErrSurfaceOutOfMemory}
	recorder := &fakeRecorder{}
	driver := newTestDriver(presenter, recorder)

	driver.Update()
	err := driver.Render()
	c.Assert(errors.Is(err, ErrSurfaceOutOfMemory), qt.Equals, true)

	c.Assert(presenter.reconfigures, qt.Equals, 0)
	c.Assert(recorder.records, qt.Equals, 0)
}

func TestRenderTimeoutSkipsFrame(t *testing.T) {
	c := qt.New(t)

	presenter := &fakePresenter{acquireErr: ErrSurfaceTimeout}
	recorder := &fakeRecorder{}
	driver := newTestDriver(presenter, recorder)

	driver.Update()
	c.Assert(driver.Render(), qt.IsNil)

	c.Assert(presenter.reconfigures, qt.Equals, 0)
	c.Assert(recorder.records, qt.Equals, 0)
}

func TestRenderUnclassifiedErrorSkipsFrame(t *testing.T) {
	c := qt.New(t)

	presenter := &fakePresenter{acquireErr: errors.New("validation failure")}
	recorder := &fakeRecorder{}
	driver := newTestDriver(presenter, recorder)

	driver.Update()
	c.Assert(driver.Render(), qt.IsNil)
	c.Assert(presenter.reconfigures, qt.Equals, 0)
}

func TestRenderRecordFailureNeverPresents(t *testing.T) {
	c := qt.New(t)

	frame := &fakeFrame{}
	presenter := &fakePresenter{frame: frame}
	recorder := &fakeRecorder{err: errors.New("encoder exhausted")}
	driver := newTestDriver(presenter, recorder)

	driver.Update()
	c.Assert(driver.Render(), qt.IsNil)

	c.Assert(frame.presents, qt.Equals, 0)
	c.Assert(frame.releases, qt.Equals, 1)
}

func TestUpdatePrecedesRender(t *testing.T) {
	c := qt.New(t)

	presenter := &fakePresenter{frame: &fakeFrame{}}
	driver := newTestDriver(presenter, &fakeRecorder{})

	for i := 0; i < 5; i++ {
		driver.Update()
		c.Assert(driver.Render(), qt.IsNil)
	}
	c.Assert(driver.updates, qt.Equals, uint64(5))
	c.Assert(driver.frames, qt.Equals, uint64(5))
}

func TestDriverResizeDelegates(t *testing.T) {
	c := qt.New(t)

	presenter := &fakePresenter{config: SurfaceConfig{Width: 450, Height: 400}}
	driver := newTestDriver(presenter, &fakeRecorder{})

	driver.Resize(800, 600)
	c.Assert(presenter.Config().Width, qt.Equals, uint32(800))

	driver.Resize(0, 300)
	c.Assert(presenter.Config().Width, qt.Equals, uint32(800))
	c.Assert(presenter.Config().Height, qt.Equals, uint32(600))
}

type fakePass struct {
	calls []string
	draws [][4]uint32
}

func (p *fakePass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.calls = append(p.calls, "pipeline")
}

func (p *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.draws = append(p.draws, [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance})
	p.calls = append(p.calls, "draw")
}

func (p *fakePass) End() error { p.calls = append(p.calls, "end"); return nil }
func (p *fakePass) Release() { p.calls = append(p.calls, "release") }

func TestEncodeTrianglePass(t *testing.T) {
	c := qt.New(t)

	pass := &fakePass{}
	encodeTrianglePass(pass, nil)

	c.Assert(pass.draws, qt.DeepEquals, [][4]uint32{{3, 1, 0, 0}})
	c.Assert(pass.calls, qt.DeepEquals, []string{"pipeline", "draw", "end", "release"})
}

func TestColorFromVec(t *testing.T) {
	c := qt.New(t)

	color := colorFromVec(mgl32.Vec4{0.1, 0.2, 0.3, 1.0})
	c.Assert(color.A, qt.Equals, 1.0)
	c.Assert(color.R > 0.09 && color.R < 0.11, qt.Equals, true)
	c.Assert(color.G > 0.19 && color.G < 0.21, qt.Equals, true)
	c.Assert(color.B > 0.29 && color.B < 0.31, qt.Equals, true)
}

func BenchmarkRenderSkippedFrame(b *testing.B) {
	presenter := &fakePresenter{acquireErr: ErrSurfaceTimeout}
	driver := newTestDriver(presenter, &fakeRecorder{})
	for idx := 0; idx < b.N; idx++ {
		driver.Update()
		if err := driver.Render(); err != nil {
			b.Fatal(err)
		}
	}
}
