package systems

import (
	"math"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// DefaultProbeRadius 障碍检测时探测球的半径（米）
const DefaultProbeRadius = 0.25

// PhysicsSystem 基于 CollisionComponent 的射线与障碍查询
//
// 同时实现 geom.Raycaster（相机视线检测）和 game.ObstacleTester（幽灵前方障碍）。
// 碰撞体数量很少（一个房间的墙体和家具），每次查询直接遍历所有碰撞体。
type PhysicsSystem struct {
	em *ecs.EntityManager

	// ProbeRadius 障碍检测时碰撞体膨胀的半径，近似球体投射
	ProbeRadius float64
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器，用于查询碰撞体
//
// 返回:
//   - *PhysicsSystem: 物理系统实例
func NewPhysicsSystem(em *ecs.EntityManager) *PhysicsSystem {
	return &PhysicsSystem{
		em:          em,
		ProbeRadius: DefaultProbeRadius,
	}
}

// Raycast 沿 direction 投射射线，返回最近的命中
//
// 起点位于碰撞体内部时忽略该碰撞体（相机在玩家头部碰撞体里、
// 幽灵从自身中心发出探测）。触发器和玩家层不参与检测。
func (ps *PhysicsSystem) Raycast(origin, direction geom.Vec3, maxDistance float64) (geom.RaycastHit, bool, error) {
	return ps.cast(origin, direction, maxDistance, 0, func(c *components.CollisionComponent) bool {
		return c.Layer != components.LayerPlayer
	})
}

// Blocked 前方 maxDistance 内是否有静态障碍
//
// 只检测 LayerWorld 碰撞体，碰撞体按 ProbeRadius 膨胀。
func (ps *PhysicsSystem) Blocked(origin, direction geom.Vec3, maxDistance float64) (bool, error) {
	_, hit, err := ps.cast(origin, direction, maxDistance, ps.ProbeRadius, func(c *components.CollisionComponent) bool {
		return c.Layer == components.LayerWorld
	})
	return hit, err
}

func (ps *PhysicsSystem) cast(origin, direction geom.Vec3, maxDistance, inflate float64,
	filter func(*components.CollisionComponent) bool) (geom.RaycastHit, bool, error) {

	dir := direction.Normalize()
	if dir.IsZero() || maxDistance <= 0 {
		return geom.RaycastHit{}, false, nil
	}

	best := geom.RaycastHit{Distance: math.Inf(1)}
	found := false

	entities := ecs.GetEntitiesWith2[*components.CollisionComponent, *components.TransformComponent](ps.em)
	for _, id := range entities {
		col, _ := ecs.GetComponent[*components.CollisionComponent](ps.em, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](ps.em, id)
		if col.IsTrigger || !filter(col) {
			continue
		}

		center := tr.Position.Add(col.Offset)
		var t float64
		var ok bool
		switch col.Shape {
		case components.ColliderBox:
			ext := col.HalfExtents.Add(geom.V(inflate, inflate, inflate))
			t, ok = rayBox(origin, dir, center, ext)
		default:
			t, ok = raySphere(origin, dir, center, col.Radius+inflate)
		}
		if !ok || t > maxDistance || t >= best.Distance {
			continue
		}

		best = geom.RaycastHit{
			Collider: uint64(id),
			Point:    origin.Add(dir.Scale(t)),
			Distance: t,
		}
		found = true
	}

	if !found {
		return geom.RaycastHit{}, false, nil
	}
	return best, true, nil
}

// raySphere 射线与球体的最近交点参数；起点在球内时视为不相交
func raySphere(origin, dir, center geom.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, false
	}
	b := oc.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// rayBox 射线与轴对齐包围盒的交点参数（slab 算法）；起点在盒内时视为不相交
func rayBox(origin, dir, center, half geom.Vec3) (float64, bool) {
	minB := center.Sub(half)
	maxB := center.Add(half)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{minB.X, minB.Y, minB.Z}
	hi := [3]float64{maxB.X, maxB.Y, maxB.Z}

	inside := true
	for i := 0; i < 3; i++ {
		if o[i] <= lo[i] || o[i] >= hi[i] {
			inside = false
			break
		}
	}
	if inside {
		return 0, false
	}

	tMin, tMax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < geom.Epsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMin < 0 {
		return 0, false
	}
	return tMin, true
}
