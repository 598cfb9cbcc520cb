package systems

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/rs/zerolog"
)

// 动画参数名
const (
	AnimParamIdle    = "isIdle"
	AnimParamRunning = "isRunning"
	AnimParamDead    = "isDead"
	AnimTriggerAtk   = "attack"
	AnimStateAttack  = "attack"
)

// obstacleProbeHeight 障碍探测起点相对幽灵脚底的高度（米）
const obstacleProbeHeight = 0.5

// GhostDeps 幽灵系统的协作者
//
// Viewpoint 和 Obstacles 必须提供；其余可为 nil，缺失时跳过对应效果。
type GhostDeps struct {
	Viewpoint game.ViewpointTracker
	Obstacles game.ObstacleTester
	Navigator game.Navigator
	Animators game.AnimatorSource
	Presenter game.Presenter
	Rig       game.CameraRig
	// Rand 惊吓抖动使用的随机源，nil 时按当前时间播种
	Rand *rand.Rand
}

// GhostSystem 幽灵行为状态机
//
// 每帧对每个幽灵：推进独占序列 → 终局/定身检查 → 惊吓检查 → 攻击检查 → 追击。
// 惊吓检查先于攻击检查，并且在攻击进行中也会执行（惊吓覆盖未完成的攻击）。
type GhostSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.GhostConfig
	deps          GhostDeps
	rng           *rand.Rand
	logger        zerolog.Logger
}

// NewGhostSystem 创建幽灵系统
//
// 参数:
//   - em: 实体管理器
//   - cfg: 幽灵行为参数（距离阈值在这里再次校验）
//   - deps: 协作者
//
// 返回:
//   - error: 缺少必需协作者（game.ErrMissingDependency）或
//     阈值顺序错误（config.ErrInvalidThresholds）
func NewGhostSystem(em *ecs.EntityManager, cfg config.GhostConfig, deps GhostDeps) (*GhostSystem, error) {
	if em == nil {
		return nil, fmt.Errorf("ghost system: entity manager: %w", game.ErrMissingDependency)
	}
	if deps.Viewpoint == nil {
		return nil, fmt.Errorf("ghost system: viewpoint tracker: %w", game.ErrMissingDependency)
	}
	if deps.Obstacles == nil {
		return nil, fmt.Errorf("ghost system: obstacle tester: %w", game.ErrMissingDependency)
	}
	if err := cfg.ValidateThresholds(); err != nil {
		return nil, fmt.Errorf("ghost system: %w", err)
	}

	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &GhostSystem{
		entityManager: em,
		cfg:           cfg,
		deps:          deps,
		rng:           rng,
		logger:        logging.For("GhostSystem"),
	}

	if deps.Animators == nil {
		s.logger.Warn().Msg("未提供动画器，攻击动作按固定时长结束")
	}
	if deps.Presenter == nil {
		s.logger.Warn().Msg("未提供渲染层，可见性只记录在组件中")
	}

	return s, nil
}

// Update 推进所有幽灵一帧
func (s *GhostSystem) Update(dt float64) {
	target, _ := s.deps.Viewpoint.Pose()

	for _, id := range s.Ghosts() {
		ghost, _ := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		s.updateGhost(id, ghost, tr, target, dt)
	}
}

func (s *GhostSystem) updateGhost(id ecs.EntityID, g *components.GhostComponent, tr *components.TransformComponent, target geom.Vec3, dt float64) {
	s.advanceSequence(id, g, tr, dt)

	if g.State == components.GhostStunned || g.IsTerminal() {
		return
	}

	if !g.Active {
		g.State = components.GhostIdle
		return
	}

	d := geom.FlatDistance(tr.Position, target)

	// 惊吓优先，攻击进行中同样检查
	if d <= g.JumpscareDistance && !g.HasTriggeredJumpscare {
		s.startJumpscare(id, g, tr, target)
		return
	}

	if g.State == components.GhostAttacking {
		return
	}

	if d <= g.AttackDistance && !g.HasAttacked {
		s.startAttack(id, g, tr, target)
		return
	}

	s.pursue(id, g, tr, target, d, dt)
}

// pursue 转向玩家并在前方无障碍时前进
func (s *GhostSystem) pursue(id ecs.EntityID, g *components.GhostComponent, tr *components.TransformComponent, target geom.Vec3, d, dt float64) {
	dir := geom.FlatDirection(tr.Position, target)
	if !dir.IsZero() {
		look := geom.LookRotation(dir, geom.Up)
		tr.Rotation = geom.Slerp(tr.Rotation, look, geom.Clamp01(g.RotationSpeed*dt))
	}

	advanced := false
	if d > g.ObstacleAvoidanceDistance && !dir.IsZero() && s.pathClear(id, tr.Position, dir, target, g.ObstacleAvoidanceDistance) {
		step := math.Min(g.EffectiveSpeed()*dt, d)
		if step > 0 {
			flatTarget := geom.V(target.X, tr.Position.Y, target.Z)
			tr.Position = geom.MoveTowards(tr.Position, flatTarget, step)
			advanced = true
		}
	}

	next := components.GhostIdle
	if advanced {
		next = components.GhostPursuing
	}
	if next != g.State {
		g.State = next
		s.setLocomotionFlags(id, advanced)
	}
}

// pathClear 前方障碍与可达性检测
//
// 查询失败按有障碍处理，下一帧重试。
func (s *GhostSystem) pathClear(id ecs.EntityID, pos, dir, target geom.Vec3, probe float64) bool {
	origin := pos.Add(geom.Up.Scale(obstacleProbeHeight))
	blocked, err := s.deps.Obstacles.Blocked(origin, dir, probe)
	if err != nil {
		s.logger.Debug().Err(err).Uint64("ghost", uint64(id)).Msg("障碍查询失败，本帧不移动")
		return false
	}
	if blocked {
		return false
	}
	if s.deps.Navigator != nil && !s.deps.Navigator.CanReach(pos, target) {
		return false
	}
	return true
}

// Stun 定身幽灵
//
// 返回 false 且不做任何修改的情况：实体不是幽灵、已经被定身、
// 惊吓已触发、攻击已经完成。
// 定身会替换进行中的攻击序列（HasAttacked 保持，恢复时清除）。
func (s *GhostSystem) Stun(id ecs.EntityID) bool {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return false
	}
	if g.State == components.GhostStunned || g.HasTriggeredJumpscare || g.AttackCommitted {
		return false
	}

	g.SavedSpeed = g.MoveSpeed
	g.MoveSpeed = 0
	g.State = components.GhostStunned
	g.StunTimer = s.cfg.StunDuration
	g.Sequence = components.GhostSequence{
		Kind:  components.SequenceStun,
		Phase: components.PhaseCountdown,
	}

	if anim, ok := s.animator(id); ok {
		anim.SetBool(AnimParamDead, true)
		anim.SetBool(AnimParamIdle, false)
		anim.SetBool(AnimParamRunning, false)
	}

	s.logger.Info().Str("ghost", g.InstanceID).Float64("duration", s.cfg.StunDuration).Msg("幽灵被定身")
	return true
}

// recover 定身结束：恢复速度，清除攻击锁存，回到追击
func (s *GhostSystem) recover(id ecs.EntityID, g *components.GhostComponent) {
	g.MoveSpeed = g.SavedSpeed
	g.SavedSpeed = 0
	g.StunTimer = 0
	g.HasAttacked = false
	g.State = components.GhostPursuing
	g.Sequence = components.GhostSequence{}

	if anim, ok := s.animator(id); ok {
		anim.SetBool(AnimParamDead, false)
		anim.SetBool(AnimParamIdle, true)
	}

	s.logger.Info().Str("ghost", g.InstanceID).Float64("speed", g.MoveSpeed).Msg("幽灵恢复，继续追击")
}

// SetVisible 设置幽灵的渲染可见性
//
// 攻击完成后幽灵永久隐藏，之后的显示请求被忽略。
func (s *GhostSystem) SetVisible(id ecs.EntityID, visible bool) {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return
	}
	if visible && g.AttackCommitted {
		return
	}

	vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id)
	if !ok {
		vis = &components.VisibilityComponent{}
		ecs.AddComponent(s.entityManager, id, vis)
	}
	vis.Visible = visible
	if !visible {
		vis.Revealed = false
	}

	if s.deps.Presenter != nil {
		s.deps.Presenter.SetVisible(id, visible)
	}
}

// UpdateSpeed 按已收集物品数提升速度（只升不降）
//
// 定身期间提升保存的速度，恢复时生效。
func (s *GhostSystem) UpdateSpeed(id ecs.EntityID, itemCount int) {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return
	}

	target := g.BaseSpeed + float64(itemCount)*g.SpeedPerItem
	if g.State == components.GhostStunned {
		g.SavedSpeed = math.Max(g.SavedSpeed, target)
	} else {
		g.MoveSpeed = math.Max(g.MoveSpeed, target)
	}

	s.logger.Debug().Str("ghost", g.InstanceID).Int("items", itemCount).Float64("target", target).Msg("速度升级")
}

// UpdateSpeedAll 对所有幽灵调用 UpdateSpeed
func (s *GhostSystem) UpdateSpeedAll(itemCount int) {
	for _, id := range s.Ghosts() {
		s.UpdateSpeed(id, itemCount)
	}
}

// ActivateMovement 激活幽灵追击，速度不低于基础速度
func (s *GhostSystem) ActivateMovement(id ecs.EntityID) bool {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return false
	}

	g.Active = true
	if g.State == components.GhostStunned {
		g.SavedSpeed = math.Max(g.SavedSpeed, g.BaseSpeed)
	} else {
		g.MoveSpeed = math.Max(g.MoveSpeed, g.BaseSpeed)
	}

	s.logger.Info().Str("ghost", g.InstanceID).Float64("speed", g.MoveSpeed).Msg("幽灵开始追击")
	return true
}

// State 查询幽灵状态
func (s *GhostSystem) State(id ecs.EntityID) (components.GhostState, bool) {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return components.GhostIdle, false
	}
	return g.State, true
}

// EffectiveSpeed 当前实际移动速度，定身时为 0，未知实体为 0
func (s *GhostSystem) EffectiveSpeed(id ecs.EntityID) float64 {
	g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
	if !ok {
		return 0
	}
	return g.EffectiveSpeed()
}

// Ghosts 返回所有幽灵实体（ID 升序）
func (s *GhostSystem) Ghosts() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.GhostComponent, *components.TransformComponent](s.entityManager)
}

// IsTerminal 是否有幽灵已经进入终局（惊吓或攻击完成）
func (s *GhostSystem) IsTerminal() bool {
	for _, id := range s.Ghosts() {
		g, _ := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
		if g.IsTerminal() {
			return true
		}
	}
	return false
}

func (s *GhostSystem) animator(id ecs.EntityID) (game.Animator, bool) {
	if s.deps.Animators == nil {
		return nil, false
	}
	return s.deps.Animators.AnimatorFor(id)
}

func (s *GhostSystem) setLocomotionFlags(id ecs.EntityID, running bool) {
	if anim, ok := s.animator(id); ok {
		anim.SetBool(AnimParamRunning, running)
		anim.SetBool(AnimParamIdle, !running)
	}
}
