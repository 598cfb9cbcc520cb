package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gonewx/ghostframe/pkg/geom"
	"gopkg.in/yaml.v3"
)

// ErrInvalidThresholds 幽灵距离阈值配置错误
//
// 必须满足 0 < jumpscareDistance < attackDistance，
// 否则惊吓与攻击的优先级无意义。由调用方在初始化时检查并拒绝启动。
var ErrInvalidThresholds = errors.New("invalid ghost distance thresholds")

// EncounterConfig 遭遇战配置
//
// 包含幽灵行为参数、探测相机参数和关卡物品配置。
//
// 配置文件位置: data/encounter.yaml
type EncounterConfig struct {
	// Ghost 幽灵行为参数（所有幽灵共用）
	Ghost GhostConfig `yaml:"ghost"`

	// Camera 探测相机参数
	Camera CameraConfig `yaml:"camera"`

	// Spawns 幽灵出生点
	Spawns []SpawnPoint `yaml:"spawns"`

	// Items 逃生所需物品（按收集顺序展示）
	Items []string `yaml:"items"`

	// TriggerItem 放置后激活幽灵的剧情物品
	TriggerItem string `yaml:"triggerItem"`

	// ActivationDelay 放置剧情物品到幽灵开始追击的延迟（秒）
	ActivationDelay float64 `yaml:"activationDelay"`

	// EscapeScene 收集齐物品后逃生进入的场景
	EscapeScene string `yaml:"escapeScene"`

	// EscapeDelay 逃生到切换场景的延迟（秒）
	EscapeDelay float64 `yaml:"escapeDelay"`

	// Lights 惊吓时闪烁的灯光名称
	Lights []string `yaml:"lights"`

	// Walls 场景中的静态障碍（轴对齐包围盒）
	Walls []WallBox `yaml:"walls"`
}

// GhostConfig 幽灵行为参数
type GhostConfig struct {
	// 速度：speed = baseSpeed + itemCount * speedPerItem
	BaseSpeed    float64 `yaml:"baseSpeed"`
	SpeedPerItem float64 `yaml:"speedPerItem"`

	// 距离阈值（米，水平面距离）
	AttackDistance            float64 `yaml:"attackDistance"`
	JumpscareDistance         float64 `yaml:"jumpscareDistance"`
	ObstacleAvoidanceDistance float64 `yaml:"obstacleAvoidanceDistance"`

	// RotationSpeed 转向插值速率（每秒）
	RotationSpeed float64 `yaml:"rotationSpeed"`

	// StunDuration 被定身的时长（秒）
	StunDuration float64 `yaml:"stunDuration"`

	// 惊吓序列
	ApproachOffset      float64 `yaml:"approachOffset"`      // 贴脸时与玩家保持的距离
	JitterDuration      float64 `yaml:"jitterDuration"`      // 抖动时长
	JitterAmplitude     float64 `yaml:"jitterAmplitude"`     // 抖动幅度
	FlickerDuration     float64 `yaml:"flickerDuration"`     // 灯光闪烁时长
	FlickerMinInterval  float64 `yaml:"flickerMinInterval"`  // 单盏灯最短切换间隔
	FlickerMaxInterval  float64 `yaml:"flickerMaxInterval"`  // 单盏灯最长切换间隔
	JumpscareScene      string  `yaml:"jumpscareScene"`      // 惊吓结束后的场景
	JumpscareSceneDelay float64 `yaml:"jumpscareSceneDelay"` // 惊吓到切换场景的延迟

	// 攻击序列
	AttackCueTimeout   float64   `yaml:"attackCueTimeout"`   // 没有动画器时攻击动作的时长
	AttackScene        string    `yaml:"attackScene"`        // 攻击结束后的场景
	AttackSceneDelay   float64   `yaml:"attackSceneDelay"`   // 攻击完成到切换场景的延迟
	CameraDrag         bool      `yaml:"cameraDrag"`         // 是否把玩家视角拖到幽灵脸前
	CameraDragDuration float64   `yaml:"cameraDragDuration"` // 拖拽时长
	FaceTarget         []float64 `yaml:"faceTarget"`         // 拖拽目标位置 [x, y, z]
}

// CameraConfig 探测相机参数
type CameraConfig struct {
	FieldOfView  float64 `yaml:"fieldOfView"`  // 垂直视场角（度）
	Aspect       float64 `yaml:"aspect"`       // 宽高比
	CaptureRange float64 `yaml:"captureRange"` // 拍摄距离（米）

	// FrameMin / FrameMax 取景框（归一化视口坐标）
	FrameMin float64 `yaml:"frameMin"`
	FrameMax float64 `yaml:"frameMax"`

	// ButtonCooldown 开关相机的防抖间隔（秒）
	ButtonCooldown float64 `yaml:"buttonCooldown"`

	// FlashDuration 定身成功时的闪光时长（秒）
	FlashDuration float64 `yaml:"flashDuration"`

	// 震动反馈 [振幅, 时长]
	PulseOn     [2]float64 `yaml:"pulseOn"`
	PulseOff    [2]float64 `yaml:"pulseOff"`
	PulseStrong [2]float64 `yaml:"pulseStrong"`
	PulseWeak   [2]float64 `yaml:"pulseWeak"`
}

// Frame 取景框矩形
func (c CameraConfig) Frame() geom.ViewportRect {
	return geom.ViewportRect{MinX: c.FrameMin, MinY: c.FrameMin, MaxX: c.FrameMax, MaxY: c.FrameMax}
}

// SpawnPoint 幽灵出生点
type SpawnPoint struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
	// Yaw 初始朝向（度，绕 Y 轴）
	Yaw float64 `yaml:"yaw"`
}

// WallBox 轴对齐的静态障碍，中心点加半尺寸
type WallBox struct {
	Name  string  `yaml:"name"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	HalfX float64 `yaml:"halfX"`
	HalfY float64 `yaml:"halfY"`
	HalfZ float64 `yaml:"halfZ"`
}

// DefaultEncounterConfig 返回默认遭遇战配置
//
// 未在配置文件中出现的字段使用这里的值。
func DefaultEncounterConfig() *EncounterConfig {
	return &EncounterConfig{
		Ghost: GhostConfig{
			BaseSpeed:                 0.75,
			SpeedPerItem:              0.4,
			AttackDistance:            1.2,
			JumpscareDistance:         0.8,
			ObstacleAvoidanceDistance: 1.0,
			RotationSpeed:             5.0,
			StunDuration:              10.0,
			ApproachOffset:            0.3,
			JitterDuration:            0.05,
			JitterAmplitude:           0.02,
			FlickerDuration:           2.0,
			FlickerMinInterval:        0.05,
			FlickerMaxInterval:        0.2,
			JumpscareScene:            "JumpscareScene",
			JumpscareSceneDelay:       2.0,
			AttackCueTimeout:          1.5,
			AttackScene:               "GameOverScene",
			AttackSceneDelay:          1.0,
			CameraDrag:                false,
			CameraDragDuration:        0.5,
		},
		Camera: CameraConfig{
			FieldOfView:    60,
			Aspect:         16.0 / 9.0,
			CaptureRange:   15,
			FrameMin:       0.25,
			FrameMax:       0.75,
			ButtonCooldown: 0.3,
			FlashDuration:  0.1,
			PulseOn:        [2]float64{0.3, 0.2},
			PulseOff:       [2]float64{0.2, 0.1},
			PulseStrong:    [2]float64{0.8, 0.3},
			PulseWeak:      [2]float64{0.2, 0.1},
		},
		TriggerItem:     "Dark Diary",
		ActivationDelay: 1.5,
		EscapeScene:     "GameOverScene",
		EscapeDelay:     5.0,
	}
}

// LoadEncounterConfig 加载遭遇战配置
//
// 参数:
//   - path: 配置文件路径（如 "data/encounter.yaml"）
//
// 返回:
//   - *EncounterConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadEncounterConfig(path string) (*EncounterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encounter config: %w", err)
	}
	return ParseEncounterConfig(data)
}

// ParseEncounterConfig 从 YAML 数据解析遭遇战配置
//
// 解析结果叠加在 DefaultEncounterConfig 之上，然后执行 Validate。
// 嵌入的默认配置文件也通过这个函数加载。
func ParseEncounterConfig(data []byte) (*EncounterConfig, error) {
	cfg := DefaultEncounterConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse encounter config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encounter config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查项：
//   - 距离阈值满足 0 < jumpscareDistance < attackDistance（ErrInvalidThresholds）
//   - 速度、时长不能为负
//   - 闪烁间隔 min <= max
//   - 取景框在 [0, 1] 内且 min < max
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *EncounterConfig) Validate() error {
	if err := c.Ghost.ValidateThresholds(); err != nil {
		return err
	}

	g := c.Ghost
	if g.BaseSpeed < 0 || g.SpeedPerItem < 0 {
		return fmt.Errorf("ghost speed must be >= 0, got base=%.2f perItem=%.2f", g.BaseSpeed, g.SpeedPerItem)
	}
	if g.StunDuration <= 0 {
		return fmt.Errorf("stunDuration must be > 0, got %.2f", g.StunDuration)
	}
	if g.RotationSpeed < 0 {
		return fmt.Errorf("rotationSpeed must be >= 0, got %.2f", g.RotationSpeed)
	}
	if g.FlickerMinInterval <= 0 || g.FlickerMinInterval > g.FlickerMaxInterval {
		return fmt.Errorf("flicker interval invalid: min(%.2f) max(%.2f)", g.FlickerMinInterval, g.FlickerMaxInterval)
	}
	if g.JumpscareSceneDelay < 0 || g.AttackSceneDelay < 0 || g.AttackCueTimeout < 0 {
		return fmt.Errorf("sequence delays must be >= 0")
	}
	if len(g.FaceTarget) != 0 && len(g.FaceTarget) != 3 {
		return fmt.Errorf("faceTarget must have 3 components, got %d", len(g.FaceTarget))
	}

	cam := c.Camera
	if !cam.Frame().Valid() {
		return fmt.Errorf("camera frame invalid: min(%.2f) max(%.2f)", cam.FrameMin, cam.FrameMax)
	}
	if cam.CaptureRange <= 0 {
		return fmt.Errorf("captureRange must be > 0, got %.2f", cam.CaptureRange)
	}
	if cam.ButtonCooldown < 0 {
		return fmt.Errorf("buttonCooldown must be >= 0, got %.2f", cam.ButtonCooldown)
	}

	if c.ActivationDelay < 0 || c.EscapeDelay < 0 {
		return fmt.Errorf("encounter delays must be >= 0")
	}

	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if item == "" {
			return fmt.Errorf("item name must not be empty")
		}
		if seen[item] {
			return fmt.Errorf("duplicate item '%s'", item)
		}
		seen[item] = true
	}

	for _, w := range c.Walls {
		if w.HalfX <= 0 || w.HalfY <= 0 || w.HalfZ <= 0 {
			return fmt.Errorf("wall '%s' must have positive half extents", w.Name)
		}
	}

	return nil
}

// ValidateThresholds 检查距离阈值的顺序
//
// 返回的错误包装 ErrInvalidThresholds，调用方可以用 errors.Is 判断。
func (g GhostConfig) ValidateThresholds() error {
	if g.JumpscareDistance <= 0 || g.AttackDistance <= g.JumpscareDistance {
		return fmt.Errorf("%w: need 0 < jumpscareDistance(%.2f) < attackDistance(%.2f)",
			ErrInvalidThresholds, g.JumpscareDistance, g.AttackDistance)
	}
	if g.ObstacleAvoidanceDistance < 0 {
		return fmt.Errorf("%w: obstacleAvoidanceDistance must be >= 0, got %.2f",
			ErrInvalidThresholds, g.ObstacleAvoidanceDistance)
	}
	return nil
}
