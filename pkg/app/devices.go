package app

import (
	"image/color"
	"time"

	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GamepadHaptics 通过已连接手柄震动实现 game.HapticDevice
//
// 没有手柄时静默忽略。
type GamepadHaptics struct {
	gamepadIDs []ebiten.GamepadID
}

// Pulse 让所有已连接手柄震动
func (h *GamepadHaptics) Pulse(amplitude, seconds float64) {
	if amplitude <= 0 || seconds <= 0 {
		return
	}
	h.gamepadIDs = ebiten.AppendGamepadIDs(h.gamepadIDs[:0])
	op := &ebiten.VibrateGamepadOptions{
		Duration:        time.Duration(seconds * float64(time.Second)),
		StrongMagnitude: amplitude,
		WeakMagnitude:   amplitude,
	}
	for _, id := range h.gamepadIDs {
		ebiten.VibrateGamepad(id, op)
	}
}

var colorViewfinder = color.RGBA{120, 255, 120, 200}

// Viewfinder 桌面端的"探测相机"：开启时在屏幕上画出取景框
//
// 实现 game.CameraSwitcher。
type Viewfinder struct {
	enabled  bool
	frameMin float64
	frameMax float64
}

// NewViewfinder 按取景框边界创建
func NewViewfinder(cam config.CameraConfig) *Viewfinder {
	return &Viewfinder{frameMin: cam.FrameMin, frameMax: cam.FrameMax}
}

// UseDetectionCamera 实现 game.CameraSwitcher
func (v *Viewfinder) UseDetectionCamera(enabled bool) {
	v.enabled = enabled
}

// Enabled 取景框是否显示
func (v *Viewfinder) Enabled() bool {
	return v.enabled
}

// Draw 绘制取景框和四角标记
func (v *Viewfinder) Draw(screen *ebiten.Image) {
	if !v.enabled {
		return
	}
	x, y, w, h := config.ViewfinderRect(v.frameMin, v.frameMax)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, colorViewfinder, false)

	// 中心十字
	cx := float32(x + w/2)
	cy := float32(y + h/2)
	vector.StrokeLine(screen, cx-8, cy, cx+8, cy, 1, colorViewfinder, false)
	vector.StrokeLine(screen, cx, cy-8, cx, cy+8, 1, colorViewfinder, false)
}
