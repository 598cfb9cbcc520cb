package geom

import "math"

// Quat 单位四元数，表示朝向
type Quat struct {
	X, Y, Z, W float64
}

// Identity 无旋转
var Identity = Quat{W: 1}

// AngleAxis 绕 axis 旋转 degrees 度
func AngleAxis(degrees float64, axis Vec3) Quat {
	a := axis.Normalize()
	if a.IsZero() {
		return Identity
	}
	half := degrees * math.Pi / 360
	s := math.Sin(half)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(half)}
}

// LookRotation 返回使 +Z 指向 forward、+Y 尽量贴近 up 的朝向
//
// forward 为零向量时返回 Identity；forward 与 up 平行时改用世界 +Z 作为参考上方向。
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f.IsZero() {
		return Identity
	}
	r := up.Cross(f).Normalize()
	if r.IsZero() {
		r = Forward.Cross(f).Normalize()
		if r.IsZero() {
			r = Right
		}
	}
	u := f.Cross(r)
	return fromBasis(r, u, f)
}

// fromBasis 由正交基（列向量 r, u, f）构造四元数
func fromBasis(r, u, f Vec3) Quat {
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}

// Mul 组合旋转：结果等价于先应用 o 再应用 q
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate 共轭（单位四元数的逆）
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Dot 四元数点积
func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalize 归一化；退化输入返回 Identity
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l < Epsilon {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate 用 q 旋转向量 v
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward 朝向的前方向量
func (q Quat) Forward() Vec3 {
	return q.Rotate(Forward)
}

// Angle 两个朝向之间的夹角（度）
func Angle(a, b Quat) float64 {
	d := math.Abs(a.Dot(b))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d) * 180 / math.Pi
}

// Slerp 球面插值，t 被限制在 [0, 1]
func Slerp(a, b Quat, t float64) Quat {
	t = Clamp01(t)
	d := a.Dot(b)
	// 走短弧
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.Normalize()
	}
	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
