package geom

// RaycastHit 射线命中信息
type RaycastHit struct {
	// Collider 命中的碰撞体所属实体 ID
	Collider uint64
	Point    Vec3
	Distance float64
}

// Raycaster 由物理协作方提供的射线查询
//
// 返回 (hit, true, nil) 表示命中；(_, false, nil) 表示未命中；
// err 非空表示本帧查询不可用（调用方应保守处理）。
type Raycaster interface {
	Raycast(origin, direction Vec3, maxDistance float64) (RaycastHit, bool, error)
}

// Unobstructed 从 from 向 to 投射射线，第一个命中必须被 accept 接受
//
// 没有命中（目标没有碰撞体）或查询失败都返回 false：
// 看不见碰撞体的目标不能被确认。
func Unobstructed(rc Raycaster, from, to Vec3, accept func(collider uint64) bool) bool {
	if rc == nil {
		return false
	}
	delta := to.Sub(from)
	dist := delta.Length()
	if dist < Epsilon {
		return false
	}
	hit, ok, err := rc.Raycast(from, delta.Scale(1/dist), dist)
	if err != nil || !ok {
		return false
	}
	return accept(hit.Collider)
}
