package components

import "github.com/gonewx/ghostframe/pkg/geom"

// ColliderShape 碰撞体形状
type ColliderShape int

const (
	// ColliderSphere 球体，使用 Radius
	ColliderSphere ColliderShape = iota
	// ColliderBox 轴对齐包围盒，使用 HalfExtents
	ColliderBox
)

// CollisionLayer 碰撞层
type CollisionLayer int

const (
	// LayerWorld 墙体、家具等静态障碍，阻挡幽灵移动与相机视线
	LayerWorld CollisionLayer = iota
	// LayerGhost 幽灵，只参与相机射线检测
	LayerGhost
	// LayerPlayer 玩家，不阻挡任何检测
	LayerPlayer
)

// CollisionComponent 定义实体参与射线检测的碰撞体
//
// 碰撞体中心 = TransformComponent.Position + Offset。
// 墙体、家具用 Box；幽灵、玩家头部用 Sphere。
type CollisionComponent struct {
	Shape       ColliderShape
	Radius      float64   // 球体半径（米）
	HalfExtents geom.Vec3 // 包围盒半尺寸（米）
	Offset      geom.Vec3 // 相对实体位置的偏移
	Layer       CollisionLayer
	// IsTrigger 触发器不阻挡射线（例如逃生区域）
	IsTrigger bool
}
