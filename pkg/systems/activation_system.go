package systems

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/rs/zerolog"
)

// ActivationSystem 剧情物品放置后延迟激活所有幽灵
type ActivationSystem struct {
	entityManager *ecs.EntityManager
	ghosts        *GhostSystem
	logger        zerolog.Logger
}

// NewActivationSystem 创建激活系统
func NewActivationSystem(em *ecs.EntityManager, ghosts *GhostSystem) *ActivationSystem {
	return &ActivationSystem{
		entityManager: em,
		ghosts:        ghosts,
		logger:        logging.For("ActivationSystem"),
	}
}

// Schedule 在 delay 秒后激活所有幽灵
func (s *ActivationSystem) Schedule(delay float64) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.ActivationComponent{
		Timer: components.TimerComponent{
			Name:       "ghost_activation",
			TargetTime: delay,
		},
	})
	s.logger.Info().Float64("delay", delay).Msg("幽灵将在延迟后激活")
	return id
}

// Update 推进激活计时器
func (s *ActivationSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ActivationComponent](s.entityManager) {
		ac, _ := ecs.GetComponent[*components.ActivationComponent](s.entityManager, id)
		if !ac.Timer.Advance(dt) {
			continue
		}
		s.entityManager.DestroyEntity(id)

		count := 0
		for _, ghost := range s.ghosts.Ghosts() {
			if s.ghosts.ActivateMovement(ghost) {
				count++
			}
		}
		s.logger.Info().Int("ghosts", count).Msg("幽灵已激活")
	}
}
