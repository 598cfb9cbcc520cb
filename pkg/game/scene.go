package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可切换的场景（遭遇战、结局画面等）
// 同一时间只有一个场景处于活动状态
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距离上一帧的秒数
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，场景被替换或程序退出时调用
//
// 遭遇场景用它在窗口关闭时补写未完成的遭遇记录。
type Closer interface {
	Close()
}
