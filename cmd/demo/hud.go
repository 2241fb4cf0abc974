package main

import (
	"fmt"
	"strings"

	"scene-renderer/core"
	"scene-renderer/scene"
)

// DebugOverlay collects status lines shown in the window title.
type DebugOverlay struct {
	lines []string
}

func (do *DebugOverlay) AddLine(format string, args ...interface{}) {
	do.lines = append(do.lines, fmt.Sprintf(format, args...))
}

func (do *DebugOverlay) Clear() {
	do.lines = do.lines[:0]
}

func (do *DebugOverlay) GetText() string {
	return strings.Join(do.lines, " | ")
}

// hud refreshes the window title once per second from the camera info
// callback.
type hud struct {
	window  *core.Window
	title   string
	overlay DebugOverlay
}

func newHUD(window *core.Window, title string) *hud {
	return &hud{window: window, title: title}
}

func (h *hud) update(p *scene.Params) {
	h.window.SetTitle(h.text(p))
}

func (h *hud) text(p *scene.Params) string {
	cam := p.Camera
	h.overlay.Clear()
	h.overlay.AddLine("%s", h.title)
	h.overlay.AddLine("%d fps", cam.FPS)
	h.overlay.AddLine("eye %.1f %.1f %.1f", cam.Eye[0], cam.Eye[1], cam.Eye[2])
	if p.FlashLight.Enable {
		h.overlay.AddLine("flashlight")
	}
	return h.overlay.GetText()
}
