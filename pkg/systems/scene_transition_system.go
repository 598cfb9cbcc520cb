package systems

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/rs/zerolog"
)

// TransitionHandler 场景切换发出时的回调（记录遭遇结局）
type TransitionHandler func(scene string, outcome components.SceneOutcome)

// SceneTransitionSystem 处理延迟的场景切换请求
//
// 同一遭遇只发出第一个到期的切换，之后的请求被丢弃：
// 场景加载器收到请求后当前遭遇即被拆除。
type SceneTransitionSystem struct {
	entityManager *ecs.EntityManager
	loader        game.SceneLoader
	onTransition  TransitionHandler
	fired         bool
	logger        zerolog.Logger
}

// NewSceneTransitionSystem 创建场景切换系统
func NewSceneTransitionSystem(em *ecs.EntityManager, loader game.SceneLoader) *SceneTransitionSystem {
	return &SceneTransitionSystem{
		entityManager: em,
		loader:        loader,
		logger:        logging.For("SceneTransitionSystem"),
	}
}

// SetTransitionHandler 设置切换回调
func (s *SceneTransitionSystem) SetTransitionHandler(h TransitionHandler) {
	s.onTransition = h
}

// Schedule 在 delay 秒后请求切换到 scene
func (s *SceneTransitionSystem) Schedule(scene string, delay float64, outcome components.SceneOutcome) ecs.EntityID {
	return scheduleSceneLoad(s.entityManager, scene, delay, outcome)
}

// Fired 是否已经发出过场景切换
func (s *SceneTransitionSystem) Fired() bool {
	return s.fired
}

// Pending 是否有尚未到期的切换
func (s *SceneTransitionSystem) Pending() bool {
	return len(ecs.GetEntitiesWith1[*components.SceneTransitionComponent](s.entityManager)) > 0
}

// Update 推进所有切换计时器
func (s *SceneTransitionSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SceneTransitionComponent](s.entityManager) {
		tc, _ := ecs.GetComponent[*components.SceneTransitionComponent](s.entityManager, id)
		if !tc.Timer.Advance(dt) {
			continue
		}
		s.entityManager.DestroyEntity(id)

		if s.fired {
			s.logger.Debug().Str("scene", tc.Scene).Msg("已有场景切换，忽略")
			continue
		}
		s.fired = true

		s.logger.Info().Str("scene", tc.Scene).Str("outcome", string(tc.Outcome)).Msg("请求切换场景")
		if s.onTransition != nil {
			s.onTransition(tc.Scene, tc.Outcome)
		}
		if s.loader != nil {
			s.loader.RequestSceneLoad(tc.Scene)
		} else {
			s.logger.Warn().Str("scene", tc.Scene).Msg("未提供场景加载器")
		}
	}
}
