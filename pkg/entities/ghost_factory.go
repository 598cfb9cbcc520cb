package entities

import (
	"fmt"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/google/uuid"
)

const (
	// GhostColliderRadius 幽灵碰撞球半径（米）
	GhostColliderRadius = 0.35

	// GhostColliderHeight 碰撞球中心离地高度（米），大致在胸口
	GhostColliderHeight = 1.0
)

// NewGhostEntity 创建幽灵实体
// 幽灵初始处于未激活状态，需要剧情触发 ActivateMovement 后才开始追击
//
// 参数:
//   - em: 实体管理器
//   - cfg: 幽灵行为参数（距离阈值在这里校验）
//   - spawn: 出生点
//
// 返回:
//   - ecs.EntityID: 幽灵实体ID，失败时返回 ecs.InvalidEntity
//   - error: 阈值配置错误时返回包装了 config.ErrInvalidThresholds 的错误
func NewGhostEntity(em *ecs.EntityManager, cfg config.GhostConfig, spawn config.SpawnPoint) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if err := cfg.ValidateThresholds(); err != nil {
		return ecs.InvalidEntity, fmt.Errorf("ghost '%s': %w", spawn.Name, err)
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: geom.V(spawn.X, spawn.Y, spawn.Z),
		Rotation: geom.AngleAxis(spawn.Yaw, geom.Up),
	})

	ecs.AddComponent(em, id, &components.GhostComponent{
		InstanceID:                uuid.NewString(),
		State:                     components.GhostIdle,
		MoveSpeed:                 cfg.BaseSpeed,
		BaseSpeed:                 cfg.BaseSpeed,
		SpeedPerItem:              cfg.SpeedPerItem,
		AttackDistance:            cfg.AttackDistance,
		JumpscareDistance:         cfg.JumpscareDistance,
		ObstacleAvoidanceDistance: cfg.ObstacleAvoidanceDistance,
		RotationSpeed:             cfg.RotationSpeed,
	})

	// 幽灵默认不可见，只有探测相机能看到
	ecs.AddComponent(em, id, &components.VisibilityComponent{Visible: false})

	ecs.AddComponent(em, id, &components.CollisionComponent{
		Shape:  components.ColliderSphere,
		Radius: GhostColliderRadius,
		Offset: geom.V(0, GhostColliderHeight, 0),
		Layer:  components.LayerGhost,
	})

	return id, nil
}
