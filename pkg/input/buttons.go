// Package input 提供相机模式使用的按钮输入
//
// 所有按钮都做了按下沿检测：JustPressed 只在按下的那一帧返回 true。
// 每个按钮每帧最多读取一次。
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyboardButton 键盘按键
type KeyboardButton struct {
	Key ebiten.Key
}

// NewKeyboardButton 创建键盘按键
func NewKeyboardButton(key ebiten.Key) *KeyboardButton {
	return &KeyboardButton{Key: key}
}

// JustPressed 本帧是否刚按下
func (b *KeyboardButton) JustPressed() bool {
	return inpututil.IsKeyJustPressed(b.Key)
}

// MouseButton 鼠标按键
type MouseButton struct {
	Button ebiten.MouseButton
}

// NewMouseButton 创建鼠标按键
func NewMouseButton(button ebiten.MouseButton) *MouseButton {
	return &MouseButton{Button: button}
}

// JustPressed 本帧是否刚按下
func (b *MouseButton) JustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(b.Button)
}

// Pressable 任何能报告按下沿的输入
type Pressable interface {
	JustPressed() bool
}

// AnyButton 组合多个按钮，任意一个按下即视为按下
//
// 所有按钮每帧都会被读取，保证各自的边沿状态同步。
type AnyButton []Pressable

// JustPressed 任意一个按钮本帧刚按下
func (a AnyButton) JustPressed() bool {
	pressed := false
	for _, b := range a {
		if b != nil && b.JustPressed() {
			pressed = true
		}
	}
	return pressed
}

// ReadFunc 读取设备按钮的当前电平和设备连接状态
type ReadFunc func() (down bool, connected bool)

// EdgeButton 对只能读取电平的设备按钮做按下沿检测
//
// 用于 VR 手柄这类没有 "just pressed" 事件的设备：
// 上一帧松开、本帧按下时 JustPressed 返回 true。
type EdgeButton struct {
	read ReadFunc
	prev bool
}

// NewEdgeButton 创建边沿检测按钮
func NewEdgeButton(read ReadFunc) *EdgeButton {
	return &EdgeButton{read: read}
}

// JustPressed 本帧是否出现按下沿，设备断开时返回 false 并复位
func (b *EdgeButton) JustPressed() bool {
	if b.read == nil {
		return false
	}
	down, connected := b.read()
	if !connected {
		b.prev = false
		return false
	}
	pressed := down && !b.prev
	b.prev = down
	return pressed
}

// Available 设备当前是否连接
func (b *EdgeButton) Available() bool {
	if b.read == nil {
		return false
	}
	_, connected := b.read()
	return connected
}

// NewGamepadButton 用第一个标准布局手柄上的按钮模拟 VR 手柄按钮
//
// 桌面端没有 XR 运行时，标准手柄是最接近的替代。
func NewGamepadButton(button ebiten.StandardGamepadButton) *EdgeButton {
	return NewEdgeButton(func() (bool, bool) {
		for _, id := range ebiten.AppendGamepadIDs(nil) {
			if !ebiten.IsStandardGamepadLayoutAvailable(id) {
				continue
			}
			return ebiten.IsStandardGamepadButtonPressed(id, button), true
		}
		return false, false
	})
}
