// Package core owns the GLFW window and the OpenGL context bound to it.
package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

// KeyHandler receives key presses and releases. Repeats are not reported.
type KeyHandler func(key int, pressed bool)

// ResizeHandler receives the new framebuffer size in pixels.
type ResizeHandler func(width, height int)

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onKey    KeyHandler
	onResize ResizeHandler

	mu     sync.Mutex
	posted []func()
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1280,
		Height:     720,
		Title:      "scene-renderer",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}

// NewWindow opens a window with a current OpenGL 4.1 core context. It must be
// called from the main goroutine.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(config.VSync))

	window := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.onResize != nil {
			window.onResize(width, height)
		}
	})

	handle.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		if window.onKey == nil || action == glfw.Repeat {
			return
		}
		window.onKey(int(key), action == glfw.Press)
	})

	return window, nil
}

func (w *Window) OnKey(fn KeyHandler) {
	w.onKey = fn
}

func (w *Window) OnResize(fn ResizeHandler) {
	w.onResize = fn
}

// Post queues fn to run on the window thread before the next frame. Safe to
// call from any goroutine.
func (w *Window) Post(fn func()) {
	w.mu.Lock()
	w.posted = append(w.posted, fn)
	w.mu.Unlock()
	glfw.PostEmptyEvent()
}

func (w *Window) runPosted() {
	w.mu.Lock()
	tasks := w.posted
	w.posted = nil
	w.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

// Run drives frame once per refresh with the GLFW clock in milliseconds
// until the window closes or ctx is done.
func (w *Window) Run(ctx context.Context, frame func(ms float64)) error {
	for !w.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		glfw.PollEvents()
		w.runPosted()
		frame(glfw.GetTime() * 1000)
		w.Handle.SwapBuffers()
	}
	return nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
