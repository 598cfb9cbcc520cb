package geom

import "math"

// 缓动函数：输入进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]
// 用于脚本化的镜头拖拽等位移动画。

// EaseLinear 线性缓动（匀速）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出：开始快，结束慢
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EasingByName 按配置名称选择缓动函数，未知名称退化为线性
func EasingByName(name string) func(float64) float64 {
	switch name {
	case "easeOut":
		return EaseOutCubic
	case "easeInOut":
		return EaseInOutCubic
	default:
		return EaseLinear
	}
}

// Lerp 标量线性插值
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec 向量线性插值
func LerpVec(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}
