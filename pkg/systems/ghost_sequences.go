package systems

import (
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// faceHeight 默认拖拽目标的高度（幽灵脸部，米）
const faceHeight = 1.5

// advanceSequence 推进幽灵当前的独占序列
//
// 被替换的序列不会再走到这里，不需要额外的取消逻辑。
func (s *GhostSystem) advanceSequence(id ecs.EntityID, g *components.GhostComponent, tr *components.TransformComponent, dt float64) {
	seq := &g.Sequence
	switch seq.Kind {
	case components.SequenceStun:
		g.StunTimer -= dt
		if g.StunTimer <= 0 {
			s.recover(id, g)
		}

	case components.SequenceAttack:
		if seq.Phase != components.PhaseCue {
			return
		}
		seq.Elapsed += dt
		if s.attackCueDone(id, seq.Elapsed) {
			s.commitAttack(id, g)
		}

	case components.SequenceJumpscare:
		if seq.Phase != components.PhaseJitter {
			return
		}
		seq.Elapsed += dt
		if seq.Elapsed >= s.cfg.JitterDuration {
			tr.Position = seq.JitterAnchor
			seq.Phase = components.PhaseHold
			return
		}
		amp := s.cfg.JitterAmplitude
		tr.Position = seq.JitterAnchor.Add(geom.V(
			(s.rng.Float64()*2-1)*amp,
			0,
			(s.rng.Float64()*2-1)*amp,
		))
	}
}

// startJumpscare 触发惊吓终局
//
// 顺序：锁存 → 瞬间朝向玩家 → 贴脸 → 抖动 → 灯光闪烁 → 延迟切换场景。
func (s *GhostSystem) startJumpscare(id ecs.EntityID, g *components.GhostComponent, tr *components.TransformComponent, target geom.Vec3) {
	g.HasTriggeredJumpscare = true
	g.State = components.GhostJumpscare

	dir := geom.FlatDirection(tr.Position, target)
	if dir.IsZero() {
		dir = tr.Rotation.Forward().Flat().Normalize()
	}
	if !dir.IsZero() {
		tr.Rotation = geom.LookRotation(dir, geom.Up)
	}

	anchor := geom.V(target.X, tr.Position.Y, target.Z).Sub(dir.Scale(s.cfg.ApproachOffset))
	tr.Position = anchor
	g.Sequence = components.GhostSequence{
		Kind:         components.SequenceJumpscare,
		Phase:        components.PhaseJitter,
		JitterAnchor: anchor,
	}

	if anim, ok := s.animator(id); ok {
		anim.SetBool(AnimParamRunning, false)
		anim.SetBool(AnimParamIdle, false)
	}
	s.SetVisible(id, true)

	s.startFlicker(id)
	scheduleSceneLoad(s.entityManager, s.cfg.JumpscareScene, s.cfg.JumpscareSceneDelay, components.OutcomeCaughtJumpscare)

	s.logger.Info().Str("ghost", g.InstanceID).Msg("惊吓触发")
}

// startFlicker 给场景中所有灯光挂上闪烁效果，没有灯光时跳过
func (s *GhostSystem) startFlicker(id ecs.EntityID) {
	lights := ecs.GetEntitiesWith1[*components.LightComponent](s.entityManager)
	if len(lights) == 0 {
		s.logger.Warn().Msg("场景中没有可闪烁的灯光，跳过闪烁效果")
		return
	}

	ecs.AddComponent(s.entityManager, id, &components.FlickerComponent{
		Lights:      lights,
		Duration:    s.cfg.FlickerDuration,
		MinInterval: s.cfg.FlickerMinInterval,
		MaxInterval: s.cfg.FlickerMaxInterval,
	})
}

// startAttack 开始近身攻击
//
// 瞬间转身 180°，停止移动动画并触发攻击动作；可选地把玩家视角拖到幽灵脸前。
func (s *GhostSystem) startAttack(id ecs.EntityID, g *components.GhostComponent, tr *components.TransformComponent, target geom.Vec3) {
	g.HasAttacked = true
	g.State = components.GhostAttacking
	tr.Rotation = tr.Rotation.Mul(geom.AngleAxis(180, geom.Up))

	g.Sequence = components.GhostSequence{
		Kind:  components.SequenceAttack,
		Phase: components.PhaseCue,
	}

	if anim, ok := s.animator(id); ok {
		anim.SetBool(AnimParamIdle, false)
		anim.SetBool(AnimParamRunning, false)
		anim.Trigger(AnimTriggerAtk)
	}

	if s.cfg.CameraDrag {
		if s.deps.Rig == nil {
			s.logger.Warn().Msg("未提供玩家相机，跳过攻击拖拽")
		} else {
			s.startCameraDrag(id, tr)
		}
	}

	s.logger.Info().Str("ghost", g.InstanceID).Float64("distance", geom.FlatDistance(tr.Position, target)).Msg("幽灵发起攻击")
}

// startCameraDrag 在幽灵实体上挂拖拽组件，由 CameraDragSystem 推进
func (s *GhostSystem) startCameraDrag(id ecs.EntityID, tr *components.TransformComponent) {
	face := tr.Position.Add(geom.V(0, faceHeight, 0))
	if len(s.cfg.FaceTarget) == 3 {
		face = geom.V(s.cfg.FaceTarget[0], s.cfg.FaceTarget[1], s.cfg.FaceTarget[2])
	}

	rigPos, _ := s.deps.Rig.Pose()
	toFace := face.Sub(rigPos).Flat().Normalize()
	if toFace.IsZero() {
		toFace = geom.Forward
	}
	// 停在脸前 ApproachOffset 处，看向脸
	dragTo := face.Sub(toFace.Scale(s.cfg.ApproachOffset))

	ecs.AddComponent(s.entityManager, id, &components.CameraDragComponent{
		Source:         id,
		TargetPosition: dragTo,
		TargetRotation: geom.LookRotation(toFace, geom.Up),
		Duration:       s.cfg.CameraDragDuration,
		EasingType:     "easeOut",
	})
}

// attackCueDone 攻击动作是否结束
//
// 动画器正在播放 attack 状态时等它播完；没有动画器，
// 或动画器没有进入 attack 状态时，按 AttackCueTimeout 计时。
func (s *GhostSystem) attackCueDone(id ecs.EntityID, elapsed float64) bool {
	if anim, ok := s.animator(id); ok {
		if progress, inState := anim.Progress(AnimStateAttack); inState {
			return progress >= 1
		}
	}
	return elapsed >= s.cfg.AttackCueTimeout
}

// commitAttack 攻击完成：隐藏幽灵，延迟切换到攻击结局场景
func (s *GhostSystem) commitAttack(id ecs.EntityID, g *components.GhostComponent) {
	s.SetVisible(id, false)
	g.AttackCommitted = true
	g.Sequence.Phase = components.PhaseHold
	g.Sequence.Elapsed = 0

	scheduleSceneLoad(s.entityManager, s.cfg.AttackScene, s.cfg.AttackSceneDelay, components.OutcomeCaughtAttack)
	s.logger.Info().Str("ghost", g.InstanceID).Msg("攻击完成")
}

// scheduleSceneLoad 创建一个延迟切换场景的实体
func scheduleSceneLoad(em *ecs.EntityManager, scene string, delay float64, outcome components.SceneOutcome) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SceneTransitionComponent{
		Scene:   scene,
		Outcome: outcome,
		Timer: components.TimerComponent{
			Name:       scene,
			TargetTime: delay,
		},
	})
	return id
}
