package entities

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// PlayerHeadRadius 玩家头部碰撞球半径（米）
const PlayerHeadRadius = 0.2

// NewLightEntity 创建一盏可闪烁的灯，初始为开启
func NewLightEntity(em *ecs.EntityManager, name string) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LightComponent{
		Name:    name,
		Enabled: true,
	})
	return id
}

// NewWallEntity 创建静态障碍（墙体、家具）
//
// 参数:
//   - center: 包围盒中心
//   - halfExtents: 包围盒半尺寸
func NewWallEntity(em *ecs.EntityManager, center, halfExtents geom.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: center,
		Rotation: geom.Identity,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Shape:       components.ColliderBox,
		HalfExtents: halfExtents,
		Layer:       components.LayerWorld,
	})
	return id
}

// NewDetectionCameraEntity 创建探测相机实体
// 位姿在相机模式开启期间每帧从玩家相机同步
func NewDetectionCameraEntity(em *ecs.EntityManager, cfg config.CameraConfig) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: geom.Zero,
		Rotation: geom.Identity,
	})
	ecs.AddComponent(em, id, &components.DetectionCameraComponent{
		FieldOfView:  cfg.FieldOfView,
		Aspect:       cfg.Aspect,
		Bounds:       cfg.Frame(),
		CaptureRange: cfg.CaptureRange,
	})
	return id
}

// NewPlayerEntity 创建玩家头部实体，碰撞体位于玩家层，不阻挡任何检测
func NewPlayerEntity(em *ecs.EntityManager, position geom.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: position,
		Rotation: geom.Identity,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Shape:  components.ColliderSphere,
		Radius: PlayerHeadRadius,
		Layer:  components.LayerPlayer,
	})
	return id
}
