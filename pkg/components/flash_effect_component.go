package components

// FlashEffectComponent 全屏闪光效果组件
//
// 使用场景：探测相机成功定身幽灵时，画面短暂闪白（快门反馈）
type FlashEffectComponent struct {
	// Duration 闪光持续时间（秒）
	Duration float64

	// Elapsed 已经过的时间（秒）
	Elapsed float64

	// Intensity 闪光强度（0.0 - 1.0）
	// 1.0 = 完全白色，0.0 = 无效果
	Intensity float64

	// IsActive 是否激活（用于临时禁用效果）
	IsActive bool
}

// Alpha 当前帧的白色叠加透明度，随时间线性衰减
func (f *FlashEffectComponent) Alpha() float64 {
	if !f.IsActive || f.Duration <= 0 {
		return 0
	}
	remaining := 1 - f.Elapsed/f.Duration
	if remaining < 0 {
		remaining = 0
	}
	return f.Intensity * remaining
}
