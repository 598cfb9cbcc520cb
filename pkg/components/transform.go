package components

import (
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// TransformComponent 实体在世界空间中的位姿
type TransformComponent struct {
	Position geom.Vec3
	Rotation geom.Quat
}

// ParentComponent 层级关系：碰撞体可以挂在幽灵的子物体上
type ParentComponent struct {
	Parent ecs.EntityID
}
