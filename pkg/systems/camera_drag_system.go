package systems

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// CameraDragSystem 把玩家相机沿缓动曲线拖向目标位姿
//
// 拖拽属于攻击序列：来源幽灵的序列不再是攻击（被惊吓或定身替换）时立即停止。
type CameraDragSystem struct {
	entityManager *ecs.EntityManager
	rig           game.CameraRig
}

// NewCameraDragSystem 创建相机拖拽系统，rig 为 nil 时拖拽组件被直接丢弃
func NewCameraDragSystem(em *ecs.EntityManager, rig game.CameraRig) *CameraDragSystem {
	return &CameraDragSystem{
		entityManager: em,
		rig:           rig,
	}
}

// Update 推进所有拖拽动画
func (s *CameraDragSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CameraDragComponent](s.entityManager) {
		drag, _ := ecs.GetComponent[*components.CameraDragComponent](s.entityManager, id)

		if s.rig == nil || !s.sourceStillAttacking(drag.Source) {
			ecs.RemoveComponent[*components.CameraDragComponent](s.entityManager, id)
			continue
		}

		if !drag.Started {
			drag.StartPosition, drag.StartRotation = s.rig.Pose()
			drag.Started = true
		}

		drag.Elapsed += dt
		progress := 1.0
		if drag.Duration > 0 {
			progress = geom.Clamp01(drag.Elapsed / drag.Duration)
		}
		eased := geom.EasingByName(drag.EasingType)(progress)

		s.rig.SetPose(
			geom.LerpVec(drag.StartPosition, drag.TargetPosition, eased),
			geom.Slerp(drag.StartRotation, drag.TargetRotation, eased),
		)

		if progress >= 1 {
			ecs.RemoveComponent[*components.CameraDragComponent](s.entityManager, id)
		}
	}
}

func (s *CameraDragSystem) sourceStillAttacking(source ecs.EntityID) bool {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, source)
	if !ok {
		return false
	}
	return g.Sequence.Kind == components.SequenceAttack
}
