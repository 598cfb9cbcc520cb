// Package geom 提供遭遇战核心使用的纯几何工具
//
// 坐标约定与头显运行时一致：左手系，Y 轴向上，+Z 为前方。
// 包内所有函数都是无状态的纯函数，可以在任意系统中每帧调用。
package geom

import "math"

// Vec3 三维向量（世界坐标，单位：米）
type Vec3 struct {
	X, Y, Z float64
}

// 常用方向
var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)

// V 构造向量的简写
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 叉积
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 返回单位向量；零向量原样返回
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat 投影到水平面（Y 置零）
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero 长度是否可以忽略
func (v Vec3) IsZero() bool {
	return v.Length() < Epsilon
}

// Epsilon 几何比较的容差
const Epsilon = 1e-9

// Distance 两点之间的直线距离
func Distance(a, b Vec3) float64 {
	return b.Sub(a).Length()
}

// FlatDistance 两点在水平面上的距离（忽略高度差）
//
// 追逐和攻击阈值都基于水平距离：玩家蹲下或抬头不应改变判定。
func FlatDistance(a, b Vec3) float64 {
	dx := b.X - a.X
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// FlatDirection 从 from 指向 to 的水平单位方向；重合时返回零向量
func FlatDirection(from, to Vec3) Vec3 {
	return to.Sub(from).Flat().Normalize()
}

// MoveTowards 从 current 朝 target 移动至多 maxStep，不会越过目标
func MoveTowards(current, target Vec3, maxStep float64) Vec3 {
	delta := target.Sub(current)
	dist := delta.Length()
	if dist <= maxStep || dist < Epsilon {
		return target
	}
	return current.Add(delta.Scale(maxStep / dist))
}
