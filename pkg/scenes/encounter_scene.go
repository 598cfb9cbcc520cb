package scenes

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/entities"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/gonewx/ghostframe/pkg/systems"
	"github.com/rs/zerolog"
)

// EncounterSceneName 遭遇战场景在 SceneManager 中的名字
const EncounterSceneName = "Encounter"

// EncounterDeps 遭遇战场景的外部协作者
//
// Viewpoint 必须提供；输入至少需要 Keyboard 或 XR 之一。
// 其余缺失时跳过对应效果。
type EncounterDeps struct {
	Viewpoint game.ViewpointTracker
	Rig       game.CameraRig
	Switcher  game.CameraSwitcher
	Haptics   game.HapticDevice
	Animators game.AnimatorSource
	Presenter game.Presenter
	Navigator game.Navigator
	Loader    game.SceneLoader
	// Clock 为 nil 时使用场景内部按帧累计的时钟
	Clock game.Clock

	Keyboard systems.ToggleButton
	XR       systems.DeviceButton
	Shutter  systems.ToggleButton

	Settings *game.SettingsManager
	Records  *game.RecordManager
	Rand     *rand.Rand
}

// EncounterScene 一次幽灵遭遇战
//
// 场景持有 ECS 和全部系统，每帧按固定顺序推进：
// 相机模式 → 幽灵激活 → 幽灵 → 灯光闪烁 → 相机拖拽 → 闪光 → 场景切换 → 清理实体。
type EncounterScene struct {
	entityManager *ecs.EntityManager
	cfg           *config.EncounterConfig
	deps          EncounterDeps
	logger        zerolog.Logger

	physics     *systems.PhysicsSystem
	ghosts      *systems.GhostSystem
	cameraMode  *systems.CameraModeSystem
	activation  *systems.ActivationSystem
	flicker     *systems.FlickerSystem
	cameraDrag  *systems.CameraDragSystem
	flash       *systems.FlashEffectSystem
	transitions *systems.SceneTransitionSystem

	items     *game.RequiredItemSet
	sessionID string

	playerID ecs.EntityID
	cameraID ecs.EntityID

	elapsed       float64
	triggerPlaced bool
	escaping      bool
	outcome       components.SceneOutcome
	closed        bool
}

// NewEncounterScene 按配置搭建遭遇战
//
// 参数:
//   - cfg: 已校验的遭遇战配置
//   - deps: 外部协作者
//
// 返回:
//   - error: 配置或协作者不完整时返回包装后的错误
//     （config.ErrInvalidThresholds / game.ErrMissingDependency）
func NewEncounterScene(cfg *config.EncounterConfig, deps EncounterDeps) (*EncounterScene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("encounter: config: %w", game.ErrMissingDependency)
	}
	if deps.Viewpoint == nil {
		return nil, fmt.Errorf("encounter: viewpoint tracker: %w", game.ErrMissingDependency)
	}

	s := &EncounterScene{
		entityManager: ecs.NewEntityManager(),
		cfg:           cfg,
		deps:          deps,
		logger:        logging.For("EncounterScene"),
		items:         game.NewRequiredItemSet(cfg.Items),
		sessionID:     game.NewSessionID(),
	}

	if s.deps.Clock == nil {
		s.deps.Clock = sceneClock{scene: s}
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if err := s.spawnWorld(); err != nil {
		return nil, err
	}

	var err error
	s.physics = systems.NewPhysicsSystem(s.entityManager)
	s.ghosts, err = systems.NewGhostSystem(s.entityManager, cfg.Ghost, systems.GhostDeps{
		Viewpoint: deps.Viewpoint,
		Obstacles: s.physics,
		Navigator: deps.Navigator,
		Animators: deps.Animators,
		Presenter: deps.Presenter,
		Rig:       deps.Rig,
		Rand:      rng,
	})
	if err != nil {
		return nil, fmt.Errorf("encounter: %w", err)
	}

	s.flash = systems.NewFlashEffectSystem(s.entityManager)
	s.cameraMode, err = systems.NewCameraModeSystem(s.entityManager, cfg.Camera, systems.CameraModeDeps{
		Ghosts:   s.ghosts,
		Detector: systems.NewCaptureDetector(s.entityManager, s.physics),
		Clock:    s.deps.Clock,
		Camera:   s.cameraID,
		Keyboard: deps.Keyboard,
		XR:       deps.XR,
		Shutter:  deps.Shutter,
		Switcher: deps.Switcher,
		Rig:      deps.Rig,
		Haptics:  deps.Haptics,
		Flash:    s.flash,
		Settings: deps.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("encounter: %w", err)
	}

	s.activation = systems.NewActivationSystem(s.entityManager, s.ghosts)
	s.flicker = systems.NewFlickerSystem(s.entityManager, rng)
	s.cameraDrag = systems.NewCameraDragSystem(s.entityManager, deps.Rig)
	s.transitions = systems.NewSceneTransitionSystem(s.entityManager, deps.Loader)
	s.transitions.SetTransitionHandler(s.onTransition)

	s.logger.Info().
		Str("session", s.sessionID).
		Int("ghosts", len(s.ghosts.Ghosts())).
		Int("items", s.items.Total()).
		Bool("vr", s.cameraMode.VRMode()).
		Msg("遭遇战开始")

	return s, nil
}

// spawnWorld 创建玩家、探测相机、灯光、障碍和幽灵实体
func (s *EncounterScene) spawnWorld() error {
	em := s.entityManager

	pos, _ := s.deps.Viewpoint.Pose()
	s.playerID = entities.NewPlayerEntity(em, pos)
	s.cameraID = entities.NewDetectionCameraEntity(em, s.cfg.Camera)

	for _, name := range s.cfg.Lights {
		entities.NewLightEntity(em, name)
	}
	for _, w := range s.cfg.Walls {
		entities.NewWallEntity(em, geom.V(w.X, w.Y, w.Z), geom.V(w.HalfX, w.HalfY, w.HalfZ))
	}

	if len(s.cfg.Spawns) == 0 {
		s.logger.Warn().Msg("配置中没有幽灵出生点")
	}
	for _, spawn := range s.cfg.Spawns {
		if _, err := entities.NewGhostEntity(em, s.cfg.Ghost, spawn); err != nil {
			return fmt.Errorf("encounter: spawn '%s': %w", spawn.Name, err)
		}
	}
	return nil
}

// Update 推进遭遇战一帧
func (s *EncounterScene) Update(deltaTime float64) {
	if s.closed {
		return
	}
	s.elapsed += deltaTime

	s.syncPlayer()

	s.cameraMode.Update(deltaTime)
	s.activation.Update(deltaTime)
	s.ghosts.Update(deltaTime)
	s.flicker.Update(deltaTime)
	s.cameraDrag.Update(deltaTime)
	s.flash.Update(deltaTime)
	s.transitions.Update(deltaTime)

	s.entityManager.RemoveMarkedEntities()
}

// syncPlayer 玩家碰撞体跟随视点
func (s *EncounterScene) syncPlayer() {
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerID)
	if !ok {
		return
	}
	tr.Position, tr.Rotation = s.deps.Viewpoint.Pose()
}

// CollectItem 收集一个逃生物品，所有幽灵随之提速
//
// 返回 false 表示物品不在清单中或已经收集过。
func (s *EncounterScene) CollectItem(name string) bool {
	known, changed := s.items.Collect(name)
	if !known {
		s.logger.Warn().Str("item", name).Msg("未知物品，忽略")
		return false
	}
	if !changed {
		return false
	}

	count := s.items.CollectedCount()
	s.ghosts.UpdateSpeedAll(count)
	s.logger.Info().Str("item", name).Int("collected", count).Int("total", s.items.Total()).Msg("收集物品")
	return true
}

// PlaceTriggerItem 放置剧情物品，延迟后幽灵开始追击
//
// 只有配置的剧情物品有效，重复放置被忽略。
func (s *EncounterScene) PlaceTriggerItem(name string) bool {
	if name != s.cfg.TriggerItem {
		s.logger.Warn().Str("item", name).Str("expected", s.cfg.TriggerItem).Msg("不是剧情物品")
		return false
	}
	if s.triggerPlaced {
		return false
	}
	s.triggerPlaced = true
	s.activation.Schedule(s.cfg.ActivationDelay)
	return true
}

// TryEscape 尝试逃生
//
// 物品未收集齐时返回缺少的物品名；收集齐时安排切换到逃生场景并返回空。
// 幽灵已进入终局后逃生无效。
func (s *EncounterScene) TryEscape() []string {
	if missing := s.items.Missing(); len(missing) > 0 {
		s.logger.Info().Strs("missing", missing).Msg("物品未收集齐，无法逃生")
		return missing
	}
	if s.escaping || s.ghosts.IsTerminal() || s.transitions.Fired() {
		return nil
	}
	s.escaping = true
	s.transitions.Schedule(s.cfg.EscapeScene, s.cfg.EscapeDelay, components.OutcomeEscaped)
	s.logger.Info().Str("scene", s.cfg.EscapeScene).Float64("delay", s.cfg.EscapeDelay).Msg("开始逃生")
	return nil
}

// onTransition 记录遭遇结局
func (s *EncounterScene) onTransition(scene string, outcome components.SceneOutcome) {
	s.outcome = outcome
	s.record(scene, outcome)
}

// record 写入一条遭遇记录，没有 RecordManager 时跳过
func (s *EncounterScene) record(scene string, outcome components.SceneOutcome) {
	if s.deps.Records == nil {
		return
	}
	err := s.deps.Records.Append(game.EncounterRecord{
		SessionID: s.sessionID,
		Outcome:   string(outcome),
		Scene:     scene,
		Items:     s.items.CollectedCount(),
		Stuns:     s.cameraMode.StunCount(),
		Duration:  s.elapsed,
		EndedAt:   time.Now(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("保存遭遇记录失败")
	}
}

// Close 拆除场景：关闭相机模式，停止推进
//
// 尚未产生结局时补写一条 abandoned 记录。
func (s *EncounterScene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cameraMode.Active() {
		s.cameraMode.Toggle()
	}
	if s.outcome == components.OutcomeNone {
		s.record(EncounterSceneName, components.OutcomeAbandoned)
	}
	s.logger.Info().Str("session", s.sessionID).Str("outcome", string(s.outcome)).Msg("遭遇战结束")
}

// Ghosts 幽灵系统（供调试和测试使用）
func (s *EncounterScene) Ghosts() *systems.GhostSystem {
	return s.ghosts
}

// CameraMode 相机模式控制器
func (s *EncounterScene) CameraMode() *systems.CameraModeSystem {
	return s.cameraMode
}

// EntityManager 场景的实体管理器
func (s *EncounterScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Items 逃生物品清单
func (s *EncounterScene) Items() *game.RequiredItemSet {
	return s.items
}

// SessionID 本次遭遇的会话 ID
func (s *EncounterScene) SessionID() string {
	return s.sessionID
}

// Outcome 已记录的结局，尚未结束时为 OutcomeNone
func (s *EncounterScene) Outcome() components.SceneOutcome {
	return s.outcome
}

// Elapsed 遭遇已进行的时间（秒）
func (s *EncounterScene) Elapsed() float64 {
	return s.elapsed
}

// sceneClock 用场景累计时间作为时钟
type sceneClock struct {
	scene *EncounterScene
}

func (c sceneClock) Now() float64 {
	return c.scene.elapsed
}
