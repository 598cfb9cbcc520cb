package components

import "github.com/gonewx/ghostframe/pkg/geom"

// GhostState 幽灵行为状态机的状态
type GhostState int

const (
	// GhostIdle 未激活，或本帧没有前进（被阻挡 / 无法到达）
	GhostIdle GhostState = iota
	// GhostPursuing 本帧朝玩家前进
	GhostPursuing
	// GhostAttacking 近身攻击序列进行中或已完成
	GhostAttacking
	// GhostJumpscare 惊吓终局已触发，不可打断
	GhostJumpscare
	// GhostStunned 被相机定身，计时结束后恢复追击
	GhostStunned
)

func (s GhostState) String() string {
	switch s {
	case GhostIdle:
		return "idle"
	case GhostPursuing:
		return "pursuing"
	case GhostAttacking:
		return "attacking"
	case GhostJumpscare:
		return "jumpscare"
	case GhostStunned:
		return "stunned"
	}
	return "unknown"
}

// SequenceKind 幽灵当前独占的长时序列
//
// 同一时间每个幽灵最多只有一个独占序列。更高优先级的序列（惊吓）
// 直接替换较低优先级的（攻击）；被替换的序列不再被推进，无需显式取消。
type SequenceKind int

const (
	SequenceNone SequenceKind = iota
	SequenceAttack
	SequenceJumpscare
	SequenceStun
)

func (k SequenceKind) String() string {
	switch k {
	case SequenceNone:
		return "none"
	case SequenceAttack:
		return "attack"
	case SequenceJumpscare:
		return "jumpscare"
	case SequenceStun:
		return "stun"
	}
	return "unknown"
}

// SequencePhase 序列内部的阶段
type SequencePhase int

const (
	// PhaseCue 攻击：等待攻击动画完成
	PhaseCue SequencePhase = iota
	// PhaseJitter 惊吓：贴脸后短暂抖动
	PhaseJitter
	// PhaseHold 已提交终局，等待场景切换
	PhaseHold
	// PhaseCountdown 定身倒计时
	PhaseCountdown
)

// GhostSequence 独占序列的运行状态（带标签的变体）
type GhostSequence struct {
	Kind    SequenceKind
	Phase   SequencePhase
	Elapsed float64 // 当前阶段已经过的时间（秒）

	// JitterAnchor 惊吓抖动的锚点位置（贴脸位置）
	JitterAnchor geom.Vec3
}

// GhostComponent 幽灵状态机的全部可变状态
type GhostComponent struct {
	// InstanceID 用于日志和遭遇记录的实例标识（uuid）
	InstanceID string

	State  GhostState
	Active bool // 是否已激活追击（剧情触发前幽灵静止）

	// 速度：MoveSpeed 为当前生效速度，定身期间为 0，升级值保存在 SavedSpeed
	MoveSpeed    float64
	SavedSpeed   float64
	BaseSpeed    float64
	SpeedPerItem float64

	// 静态阈值（米），保证 JumpscareDistance < AttackDistance
	AttackDistance            float64
	JumpscareDistance         float64
	ObstacleAvoidanceDistance float64
	// RotationSpeed 每秒的球面插值系数，单帧插值量被限制在 1 以内
	RotationSpeed float64

	// 一次性锁存
	HasAttacked           bool // 定身恢复时清除
	HasTriggeredJumpscare bool // 整个遭遇内不重置

	// AttackCommitted 攻击动画完成后置位，此后幽灵不可被定身
	AttackCommitted bool

	// StunTimer 剩余定身时间（秒），仅在 GhostStunned 时有意义
	StunTimer float64

	Sequence GhostSequence
}

// EffectiveSpeed 当前帧实际使用的移动速度
func (g *GhostComponent) EffectiveSpeed() float64 {
	if g.State == GhostStunned {
		return 0
	}
	return g.MoveSpeed
}

// IsTerminal 惊吓已触发或攻击已提交：遭遇即将结束
func (g *GhostComponent) IsTerminal() bool {
	return g.HasTriggeredJumpscare || g.AttackCommitted
}
