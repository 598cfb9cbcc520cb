package systems

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
)

// FlashEffectSystem 全屏闪光效果系统
// 管理快门闪光实体的生命周期，并向渲染层提供当前叠加透明度
type FlashEffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewFlashEffectSystem 创建闪光效果系统
func NewFlashEffectSystem(em *ecs.EntityManager) *FlashEffectSystem {
	return &FlashEffectSystem{
		entityManager: em,
	}
}

// Trigger 创建一次全屏闪光
//
// 参数：
//   - duration: 持续时间（秒）
//   - intensity: 初始强度（0.0 - 1.0）
func (s *FlashEffectSystem) Trigger(duration, intensity float64) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.FlashEffectComponent{
		Duration:  duration,
		Intensity: intensity,
		IsActive:  true,
	})
	return id
}

// Update 更新所有闪光效果，结束的闪光实体被销毁
// 参数：
//   - dt: 时间增量（秒）
func (s *FlashEffectSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.FlashEffectComponent](s.entityManager) {
		flash, _ := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, id)
		if !flash.IsActive {
			continue
		}

		flash.Elapsed += dt
		if flash.Elapsed >= flash.Duration {
			flash.IsActive = false
			s.entityManager.DestroyEntity(id)
		}
	}
}

// Alpha 当前所有闪光叠加后的白色透明度（取最大值）
func (s *FlashEffectSystem) Alpha() float64 {
	alpha := 0.0
	for _, id := range ecs.GetEntitiesWith1[*components.FlashEffectComponent](s.entityManager) {
		flash, _ := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, id)
		if a := flash.Alpha(); a > alpha {
			alpha = a
		}
	}
	return alpha
}
