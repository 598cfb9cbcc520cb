package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/entities"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ghostFixture 幽灵系统测试夹具：视点在原点，幽灵沿 +Z 摆放
type ghostFixture struct {
	em        *ecs.EntityManager
	sys       *GhostSystem
	cfg       config.GhostConfig
	view      *fakeViewpoint
	obstacles *fakeObstacles
	presenter *fakePresenter
}

func newGhostFixture(t *testing.T, mutate func(cfg *config.GhostConfig, deps *GhostDeps)) *ghostFixture {
	t.Helper()

	f := &ghostFixture{
		em:        ecs.NewEntityManager(),
		cfg:       config.DefaultEncounterConfig().Ghost,
		view:      &fakeViewpoint{},
		obstacles: &fakeObstacles{},
		presenter: newFakePresenter(),
	}
	deps := GhostDeps{
		Viewpoint: f.view,
		Obstacles: f.obstacles,
		Presenter: f.presenter,
		Rand:      rand.New(rand.NewSource(1)),
	}
	if mutate != nil {
		mutate(&f.cfg, &deps)
	}

	sys, err := NewGhostSystem(f.em, f.cfg, deps)
	require.NoError(t, err)
	f.sys = sys
	return f
}

// spawn 在 (0, 0, z) 创建幽灵，面朝视点（-Z）
func (f *ghostFixture) spawn(t *testing.T, z float64, active bool) ecs.EntityID {
	t.Helper()
	id, err := entities.NewGhostEntity(f.em, f.cfg, config.SpawnPoint{Name: "doll", Z: z, Yaw: 180})
	require.NoError(t, err)
	if active {
		require.True(t, f.sys.ActivateMovement(id))
	}
	return id
}

func (f *ghostFixture) ghost(id ecs.EntityID) *components.GhostComponent {
	g, _ := ecs.GetComponent[*components.GhostComponent](f.em, id)
	return g
}

func (f *ghostFixture) transform(id ecs.EntityID) *components.TransformComponent {
	tr, _ := ecs.GetComponent[*components.TransformComponent](f.em, id)
	return tr
}

func (f *ghostFixture) distance(id ecs.EntityID) float64 {
	pos, _ := f.view.Pose()
	return geom.FlatDistance(f.transform(id).Position, pos)
}

// pendingScenes 返回所有已排队的场景切换
func (f *ghostFixture) pendingScenes() []*components.SceneTransitionComponent {
	var out []*components.SceneTransitionComponent
	for _, id := range ecs.GetEntitiesWith1[*components.SceneTransitionComponent](f.em) {
		tc, _ := ecs.GetComponent[*components.SceneTransitionComponent](f.em, id)
		out = append(out, tc)
	}
	return out
}

func TestNewGhostSystemValidation(t *testing.T) {
	good := config.DefaultEncounterConfig().Ghost
	bad := good
	bad.JumpscareDistance = 2.0

	tests := []struct {
		name  string
		em    *ecs.EntityManager
		cfg   config.GhostConfig
		deps  GhostDeps
		errIs error
	}{
		{"缺少实体管理器", nil, good, GhostDeps{Viewpoint: &fakeViewpoint{}, Obstacles: &fakeObstacles{}}, game.ErrMissingDependency},
		{"缺少视点", ecs.NewEntityManager(), good, GhostDeps{Obstacles: &fakeObstacles{}}, game.ErrMissingDependency},
		{"缺少障碍检测", ecs.NewEntityManager(), good, GhostDeps{Viewpoint: &fakeViewpoint{}}, game.ErrMissingDependency},
		{"阈值顺序错误", ecs.NewEntityManager(), bad, GhostDeps{Viewpoint: &fakeViewpoint{}, Obstacles: &fakeObstacles{}}, config.ErrInvalidThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := NewGhostSystem(tt.em, tt.cfg, tt.deps)
			require.Error(t, err)
			assert.Nil(t, sys)
			assert.True(t, errors.Is(err, tt.errIs), "got %v", err)
		})
	}
}

func TestInactiveGhostStaysPut(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, false)

	for i := 0; i < 10; i++ {
		f.sys.Update(0.1)
	}

	assert.Equal(t, geom.V(0, 0, 10), f.transform(id).Position)
	state, ok := f.sys.State(id)
	require.True(t, ok)
	assert.Equal(t, components.GhostIdle, state)
	assert.Equal(t, 0, f.obstacles.calls)
}

func TestPursuitAdvancesAtMoveSpeed(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, true)

	f.sys.Update(0.5)

	assert.InDelta(t, 10-0.75*0.5, f.distance(id), 1e-9)
	state, _ := f.sys.State(id)
	assert.Equal(t, components.GhostPursuing, state)
	assert.Equal(t, 1, f.obstacles.calls)
}

func TestPursuitStepNeverOvershoots(t *testing.T) {
	f := newGhostFixture(t, func(cfg *config.GhostConfig, _ *GhostDeps) {
		cfg.AttackDistance = 0.2
		cfg.JumpscareDistance = 0.1
		cfg.ObstacleAvoidanceDistance = 0
	})
	id := f.spawn(t, 2, true)
	f.ghost(id).MoveSpeed = 100

	f.sys.Update(1)

	assert.InDelta(t, 0, f.distance(id), 1e-9)
}

func TestPursuitIgnoresHeight(t *testing.T) {
	f := newGhostFixture(t, nil)
	f.view.pos = geom.V(0, 1.6, 0)
	id := f.spawn(t, 10, true)

	f.sys.Update(1)

	pos := f.transform(id).Position
	assert.Equal(t, 0.0, pos.Y, "幽灵只在水平面移动")
	assert.InDelta(t, 10-0.75, pos.Z, 1e-9)
}

func TestPursuitBlocked(t *testing.T) {
	tests := []struct {
		name      string
		blocked   bool
		err       error
		navigator game.Navigator
	}{
		{"前方有障碍", true, nil, nil},
		{"查询失败视为障碍", false, errQueryUnavailable, nil},
		{"导航不可达", false, nil, &fakeNavigator{reachable: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGhostFixture(t, func(_ *config.GhostConfig, deps *GhostDeps) {
				deps.Navigator = tt.navigator
			})
			f.obstacles.blocked = tt.blocked
			f.obstacles.err = tt.err
			id := f.spawn(t, 10, true)

			f.sys.Update(0.5)

			assert.Equal(t, 10.0, f.distance(id))
			state, _ := f.sys.State(id)
			assert.Equal(t, components.GhostIdle, state)

			// 障碍消失后下一帧继续追击
			f.obstacles.blocked = false
			f.obstacles.err = nil
			if nav, ok := tt.navigator.(*fakeNavigator); ok {
				nav.reachable = true
			}
			f.sys.Update(0.5)
			state, _ = f.sys.State(id)
			assert.Equal(t, components.GhostPursuing, state)
			assert.Less(t, f.distance(id), 10.0)
		})
	}
}

func TestNoObstacleQueryInsideAvoidanceDistance(t *testing.T) {
	f := newGhostFixture(t, func(cfg *config.GhostConfig, _ *GhostDeps) {
		cfg.AttackDistance = 0.5
		cfg.JumpscareDistance = 0.3
		cfg.ObstacleAvoidanceDistance = 1.0
	})
	id := f.spawn(t, 0.9, true)

	f.sys.Update(0.1)

	assert.Equal(t, 0, f.obstacles.calls)
	assert.InDelta(t, 0.9, f.distance(id), 1e-9)
	state, _ := f.sys.State(id)
	assert.Equal(t, components.GhostIdle, state)
}

func TestPursuitRotationIsBounded(t *testing.T) {
	f := newGhostFixture(t, nil)
	// 背对视点
	id, err := entities.NewGhostEntity(f.em, f.cfg, config.SpawnPoint{Name: "doll", Z: 10, Yaw: 0})
	require.NoError(t, err)
	f.sys.ActivateMovement(id)
	look := geom.LookRotation(geom.V(0, 0, -1), geom.Up)

	// RotationSpeed=5, dt=0.1 → 插值 0.5
	f.sys.Update(0.1)
	assert.InDelta(t, 90, geom.Angle(f.transform(id).Rotation, look), 1e-6)

	// 插值系数被限制在 1：一帧之内转到正对
	f.sys.Update(1)
	assert.InDelta(t, 0, geom.Angle(f.transform(id).Rotation, look), 1e-3)
}

func TestAttackTriggersInsideAttackDistance(t *testing.T) {
	anim := newFakeAnimator()
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)
	f.sys.deps.Animators = fakeAnimators{id: anim}

	f.sys.Update(0.1)

	g := f.ghost(id)
	assert.Equal(t, components.GhostAttacking, g.State)
	assert.True(t, g.HasAttacked)
	assert.False(t, g.HasTriggeredJumpscare)
	assert.Equal(t, components.SequenceAttack, g.Sequence.Kind)

	// 朝向瞬间翻转 180°：原本朝 -Z，现在朝 +Z
	assert.InDelta(t, 1, f.transform(id).Rotation.Forward().Z, 1e-9)

	assert.Equal(t, []string{AnimTriggerAtk}, anim.triggers)
	assert.False(t, anim.bools[AnimParamIdle])
	assert.False(t, anim.bools[AnimParamRunning])

	// 攻击期间不移动
	before := f.transform(id).Position
	f.sys.Update(0.1)
	assert.Equal(t, before, f.transform(id).Position)
	assert.Equal(t, 0, f.obstacles.calls, "攻击期间不做障碍查询")
}

func TestAttackCommitsAfterTimeoutWithoutAnimator(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)
	f.sys.SetVisible(id, true)

	f.sys.Update(0.5) // 触发
	f.sys.Update(0.5)
	f.sys.Update(0.5)
	assert.False(t, f.ghost(id).AttackCommitted)
	assert.Empty(t, f.pendingScenes())

	f.sys.Update(0.5) // 累计 1.5 秒
	g := f.ghost(id)
	assert.True(t, g.AttackCommitted)
	assert.True(t, g.IsTerminal())
	assert.False(t, f.presenter.visible[id])

	scenes := f.pendingScenes()
	require.Len(t, scenes, 1)
	assert.Equal(t, f.cfg.AttackScene, scenes[0].Scene)
	assert.Equal(t, components.OutcomeCaughtAttack, scenes[0].Outcome)
	assert.Equal(t, f.cfg.AttackSceneDelay, scenes[0].Timer.TargetTime)
}

func TestAttackCommitWaitsForAnimation(t *testing.T) {
	anim := newFakeAnimator()
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)
	f.sys.deps.Animators = fakeAnimators{id: anim}

	f.sys.Update(0.1)
	anim.progress[AnimStateAttack] = 0.5
	for i := 0; i < 50; i++ {
		f.sys.Update(0.1)
	}
	assert.False(t, f.ghost(id).AttackCommitted, "动画未播完不提交")

	anim.progress[AnimStateAttack] = 1.0
	f.sys.Update(0.1)
	assert.True(t, f.ghost(id).AttackCommitted)
}

func TestAttackCommitFallsBackToTimeoutWithoutAttackState(t *testing.T) {
	anim := newFakeAnimator()
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)
	f.sys.deps.Animators = fakeAnimators{id: anim}

	f.sys.Update(0.1)
	require.Equal(t, components.GhostAttacking, f.ghost(id).State)

	// 动画器从未进入 attack 状态
	for i := 0; i < 10; i++ {
		f.sys.Update(0.1)
	}
	assert.False(t, f.ghost(id).AttackCommitted, "超时之前不提交")

	for i := 0; i < 10; i++ {
		f.sys.Update(0.1)
	}
	g := f.ghost(id)
	assert.True(t, g.AttackCommitted)
	assert.True(t, g.IsTerminal())

	scenes := f.pendingScenes()
	require.Len(t, scenes, 1)
	assert.Equal(t, f.cfg.AttackScene, scenes[0].Scene)
}

func TestSetVisibleIgnoredAfterAttackCommitted(t *testing.T) {
	f := newGhostFixture(t, func(cfg *config.GhostConfig, _ *GhostDeps) {
		cfg.AttackCueTimeout = 0
	})
	id := f.spawn(t, 1.0, true)

	f.sys.Update(0.1)
	f.sys.Update(0.1)
	require.True(t, f.ghost(id).AttackCommitted)

	f.sys.SetVisible(id, true)
	vis, _ := ecs.GetComponent[*components.VisibilityComponent](f.em, id)
	assert.False(t, vis.Visible)
	assert.False(t, f.presenter.visible[id])
}

func TestJumpscareWinsTies(t *testing.T) {
	f := newGhostFixture(t, nil)
	entities.NewLightEntity(f.em, "hall_lamp")
	entities.NewLightEntity(f.em, "porch_light")
	id := f.spawn(t, 0.5, true)

	f.sys.Update(0.01)

	g := f.ghost(id)
	assert.Equal(t, components.GhostJumpscare, g.State)
	assert.True(t, g.HasTriggeredJumpscare)
	assert.False(t, g.HasAttacked, "同一帧惊吓优先，攻击不触发")

	// 贴脸：停在视点前 ApproachOffset 处并正对视点
	assert.InDelta(t, f.cfg.ApproachOffset, f.distance(id), 1e-9)
	assert.InDelta(t, -1, f.transform(id).Rotation.Forward().Z, 1e-9)
	assert.True(t, f.presenter.visible[id])

	flicker, ok := ecs.GetComponent[*components.FlickerComponent](f.em, id)
	require.True(t, ok)
	assert.Len(t, flicker.Lights, 2)
	assert.Equal(t, f.cfg.FlickerDuration, flicker.Duration)

	scenes := f.pendingScenes()
	require.Len(t, scenes, 1)
	assert.Equal(t, f.cfg.JumpscareScene, scenes[0].Scene)
	assert.Equal(t, components.OutcomeCaughtJumpscare, scenes[0].Outcome)
}

func TestJumpscareWithoutLightsSkipsFlicker(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 0.5, true)

	f.sys.Update(0.01)

	assert.Equal(t, components.GhostJumpscare, f.ghost(id).State)
	assert.False(t, ecs.HasComponent[*components.FlickerComponent](f.em, id))
	assert.Len(t, f.pendingScenes(), 1, "缺少灯光不影响场景切换")
}

func TestJumpscareJitterSettlesOnAnchor(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 0.5, true)

	f.sys.Update(0.01)
	anchor := f.transform(id).Position

	f.sys.Update(0.02)
	jittered := f.transform(id).Position
	assert.InDelta(t, anchor.X, jittered.X, f.cfg.JitterAmplitude+1e-12)
	assert.InDelta(t, anchor.Z, jittered.Z, f.cfg.JitterAmplitude+1e-12)

	f.sys.Update(0.05)
	assert.Equal(t, anchor, f.transform(id).Position)
	assert.Equal(t, components.PhaseHold, f.ghost(id).Sequence.Phase)

	// 终局之后视点移动不再影响幽灵
	f.view.pos = geom.V(5, 0, 5)
	f.sys.Update(1)
	assert.Equal(t, anchor, f.transform(id).Position)
}

func TestJumpscareSupersedesInFlightAttack(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)

	f.sys.Update(0.1)
	require.Equal(t, components.GhostAttacking, f.ghost(id).State)

	// 玩家走近到惊吓距离内
	f.view.pos = geom.V(0, 0, 0.4)
	f.sys.Update(0.1)

	g := f.ghost(id)
	assert.Equal(t, components.GhostJumpscare, g.State)
	assert.Equal(t, components.SequenceJumpscare, g.Sequence.Kind)

	// 被替换的攻击不会再提交
	for i := 0; i < 30; i++ {
		f.sys.Update(0.1)
	}
	assert.False(t, g.AttackCommitted)
	scenes := f.pendingScenes()
	require.Len(t, scenes, 1)
	assert.Equal(t, components.OutcomeCaughtJumpscare, scenes[0].Outcome)
}

func TestStunRejectedDuringJumpscare(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 0.5, true)
	f.sys.Update(0.01)
	require.True(t, f.ghost(id).HasTriggeredJumpscare)

	speed := f.ghost(id).MoveSpeed
	assert.False(t, f.sys.Stun(id))

	g := f.ghost(id)
	assert.Equal(t, components.GhostJumpscare, g.State)
	assert.Equal(t, speed, g.MoveSpeed)
	assert.Equal(t, 0.0, g.StunTimer)
}

func TestStunRejectedAfterAttackCommitted(t *testing.T) {
	f := newGhostFixture(t, func(cfg *config.GhostConfig, _ *GhostDeps) {
		cfg.AttackCueTimeout = 0
	})
	id := f.spawn(t, 1.0, true)
	f.sys.Update(0.1)
	f.sys.Update(0.1)
	require.True(t, f.ghost(id).AttackCommitted)

	assert.False(t, f.sys.Stun(id))
	assert.Equal(t, components.GhostAttacking, f.ghost(id).State)
}

func TestStunUnknownEntity(t *testing.T) {
	f := newGhostFixture(t, nil)
	assert.False(t, f.sys.Stun(ecs.EntityID(999)))
	assert.False(t, f.sys.ActivateMovement(ecs.EntityID(999)))
	assert.Equal(t, 0.0, f.sys.EffectiveSpeed(ecs.EntityID(999)))
	_, ok := f.sys.State(ecs.EntityID(999))
	assert.False(t, ok)
}

func TestStunRoundTripRestoresSpeedAndClearsAttackLatch(t *testing.T) {
	anim := newFakeAnimator()
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 1.0, true)
	f.sys.deps.Animators = fakeAnimators{id: anim}
	anim.progress[AnimStateAttack] = 0.2

	f.sys.UpdateSpeed(id, 2)
	f.sys.Update(0.1)
	require.True(t, f.ghost(id).HasAttacked)

	require.True(t, f.sys.Stun(id))
	g := f.ghost(id)
	assert.Equal(t, components.GhostStunned, g.State)
	assert.Equal(t, 0.0, f.sys.EffectiveSpeed(id))
	assert.Equal(t, 0.0, g.MoveSpeed)
	assert.InDelta(t, 1.55, g.SavedSpeed, 1e-9)
	assert.True(t, anim.bools[AnimParamDead])

	// 定身期间完全不动
	before := f.transform(id).Position
	for i := 0; i < 99; i++ {
		f.sys.Update(0.1)
	}
	assert.Equal(t, components.GhostStunned, g.State)
	assert.Equal(t, before, f.transform(id).Position)

	f.sys.Update(0.2)
	assert.NotEqual(t, components.GhostStunned, g.State)
	assert.InDelta(t, 1.55, g.MoveSpeed, 1e-9)
	assert.False(t, anim.bools[AnimParamDead])
	assert.True(t, g.HasAttacked, "恢复后仍在攻击距离内，攻击重新触发")
	assert.Equal(t, components.GhostAttacking, g.State)
}

func TestStunRecoveryReturnsToPursuit(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, true)

	require.True(t, f.sys.Stun(id))
	f.sys.Update(f.cfg.StunDuration)

	g := f.ghost(id)
	assert.Equal(t, components.GhostPursuing, g.State)
	assert.False(t, g.HasAttacked)
	assert.InDelta(t, 0.75, g.MoveSpeed, 1e-9)
}

func TestDoubleStunIsIdempotent(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, true)

	require.True(t, f.sys.Stun(id))
	f.sys.Update(3)
	timer := f.ghost(id).StunTimer

	assert.False(t, f.sys.Stun(id), "已定身时再次定身被拒绝")
	g := f.ghost(id)
	assert.Equal(t, timer, g.StunTimer, "计时器不会被重置")
	assert.InDelta(t, 0.75, g.SavedSpeed, 1e-9, "保存的速度不会被 0 覆盖")
}

func TestUpdateSpeed(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, true)

	f.sys.UpdateSpeed(id, 3)
	assert.InDelta(t, 1.95, f.ghost(id).MoveSpeed, 1e-9)

	// 只升不降
	f.sys.UpdateSpeed(id, 1)
	assert.InDelta(t, 1.95, f.ghost(id).MoveSpeed, 1e-9)
}

func TestUpdateSpeedWhileStunnedEscalatesSavedSpeed(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, true)

	require.True(t, f.sys.Stun(id))
	f.sys.UpdateSpeed(id, 3)

	g := f.ghost(id)
	assert.Equal(t, 0.0, g.MoveSpeed)
	assert.InDelta(t, 1.95, g.SavedSpeed, 1e-9)

	f.sys.Update(f.cfg.StunDuration)
	assert.InDelta(t, 1.95, g.MoveSpeed, 1e-9)
}

func TestUpdateSpeedAll(t *testing.T) {
	f := newGhostFixture(t, nil)
	a := f.spawn(t, 10, true)
	b := f.spawn(t, 20, false)

	f.sys.UpdateSpeedAll(2)

	assert.InDelta(t, 1.55, f.ghost(a).MoveSpeed, 1e-9)
	assert.InDelta(t, 1.55, f.ghost(b).MoveSpeed, 1e-9)
}

func TestActivateMovementFloorsSpeed(t *testing.T) {
	f := newGhostFixture(t, nil)
	id := f.spawn(t, 10, false)
	f.ghost(id).MoveSpeed = 0.1

	require.True(t, f.sys.ActivateMovement(id))

	g := f.ghost(id)
	assert.True(t, g.Active)
	assert.Equal(t, g.BaseSpeed, g.MoveSpeed)
}

// TestAttackThenJumpscareOrder 幽灵从 10 米外以 2 m/s 接近：
// 先在 1.2 米处攻击，玩家继续靠近到 0.8 米内时惊吓
func TestAttackThenJumpscareOrder(t *testing.T) {
	f := newGhostFixture(t, func(cfg *config.GhostConfig, _ *GhostDeps) {
		cfg.BaseSpeed = 2
	})
	id := f.spawn(t, 10, true)

	const dt = 0.1
	attackTick, jumpscareTick := -1, -1
	var attackDistance float64

	for tick := 0; tick < 200 && jumpscareTick < 0; tick++ {
		if attackTick >= 0 {
			// 攻击后玩家向幽灵走去
			f.view.pos = f.view.pos.Add(geom.V(0, 0, 0.1))
		}
		f.sys.Update(dt)

		g := f.ghost(id)
		if attackTick < 0 && g.HasAttacked {
			attackTick = tick
			attackDistance = f.distance(id)
		}
		if jumpscareTick < 0 && g.HasTriggeredJumpscare {
			jumpscareTick = tick
		}
	}

	require.GreaterOrEqual(t, attackTick, 0, "攻击应触发")
	require.GreaterOrEqual(t, jumpscareTick, 0, "惊吓应触发")
	assert.Less(t, attackTick, jumpscareTick)
	assert.LessOrEqual(t, attackDistance, f.cfg.AttackDistance)
	assert.Greater(t, attackDistance, f.cfg.JumpscareDistance)
	assert.Equal(t, components.GhostJumpscare, f.ghost(id).State)
}
