package components

import "github.com/gonewx/ghostframe/pkg/ecs"

// FlickerComponent 灯光闪烁效果
//
// 惊吓触发时挂到幽灵实体上，由 FlickerSystem 推进。
// 每盏灯各自在 [MinInterval, MaxInterval] 内随机间隔切换开关，
// 持续 Duration 秒后所有灯恢复为开启并移除组件。
type FlickerComponent struct {
	Lights []ecs.EntityID

	Duration float64
	Elapsed  float64

	MinInterval float64
	MaxInterval float64

	// NextToggle 与 Lights 一一对应：距离下一次切换的剩余时间
	NextToggle []float64
}
