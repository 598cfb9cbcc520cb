// Package capture 判定目标是否被探测相机"取景"
//
// 取景 = 目标位于相机前方、投影落在视口中央区域、距离在拍摄范围内，
// 并且从相机到目标的射线第一个命中的是目标本身（或其子物体）。
package capture

import (
	"github.com/gonewx/ghostframe/pkg/geom"
)

// DefaultRange 默认拍摄距离（米）
const DefaultRange = 15.0

// Query 一次取景判定的全部输入
type Query struct {
	Camera geom.Camera
	// Bounds 目标投影必须严格落入的视口区域；零值表示使用 geom.CentralBand
	Bounds   geom.ViewportRect
	MaxRange float64
	// Target 目标世界坐标
	Target geom.Vec3
	// TargetID 目标的碰撞体实体 ID
	TargetID uint64
}

// Hierarchy 判断射线命中的碰撞体是否属于目标（目标自身或其后代）
type Hierarchy func(collider, target uint64) bool

// SameCollider 仅接受目标自身的 Hierarchy
func SameCollider(collider, target uint64) bool {
	return collider == target
}

// Result 取景失败的原因，便于调试日志和测试断言
type Result int

const (
	Framed Result = iota
	BehindCamera
	OutsideBounds
	OutOfRange
	Occluded
)

func (r Result) String() string {
	switch r {
	case Framed:
		return "framed"
	case BehindCamera:
		return "behind_camera"
	case OutsideBounds:
		return "outside_bounds"
	case OutOfRange:
		return "out_of_range"
	case Occluded:
		return "occluded"
	}
	return "unknown"
}

// IsFramed 判定目标是否被取景
func IsFramed(q Query, rc geom.Raycaster, h Hierarchy) bool {
	return Evaluate(q, rc, h) == Framed
}

// Evaluate 按固定顺序执行各项检查并在第一个失败处返回
//
// 检查顺序：深度 → 视口区域 → 距离 → 遮挡射线。
// 射线最昂贵，放在最后。
func Evaluate(q Query, rc geom.Raycaster, h Hierarchy) Result {
	vp := geom.WorldToViewport(q.Camera, q.Target)
	if vp.Z <= 0 {
		return BehindCamera
	}

	bounds := q.Bounds
	if bounds == (geom.ViewportRect{}) {
		bounds = geom.CentralBand
	}
	if !bounds.Contains(vp.X, vp.Y) {
		return OutsideBounds
	}

	maxRange := q.MaxRange
	if maxRange <= 0 {
		maxRange = DefaultRange
	}
	if geom.Distance(q.Camera.Position, q.Target) > maxRange {
		return OutOfRange
	}

	if h == nil {
		h = SameCollider
	}
	visible := geom.Unobstructed(rc, q.Camera.Position, q.Target, func(collider uint64) bool {
		return h(collider, q.TargetID)
	})
	if !visible {
		return Occluded
	}
	return Framed
}
