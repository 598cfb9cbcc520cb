package systems

import (
	"fmt"
	"math"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/rs/zerolog"
)

// restoreAngleThreshold 自由视角偏离保存朝向超过该角度（度）才恢复
const restoreAngleThreshold = 0.01

// ToggleButton 按下沿检测过的按钮
type ToggleButton interface {
	JustPressed() bool
}

// DeviceButton 来自外部设备（VR 手柄）的按钮
type DeviceButton interface {
	ToggleButton
	// Available 设备是否已连接
	Available() bool
}

// CameraModeDeps 相机模式控制器的协作者
//
// Ghosts、Detector、Clock 和 Camera 必须提供；输入通道至少需要一个。
type CameraModeDeps struct {
	Ghosts   *GhostSystem
	Detector *CaptureDetector
	Clock    game.Clock
	// Camera 探测相机实体（TransformComponent + DetectionCameraComponent）
	Camera ecs.EntityID

	Keyboard ToggleButton
	XR       DeviceButton
	// Shutter 快门键：强制本帧给出反馈
	Shutter ToggleButton

	Switcher game.CameraSwitcher
	Rig      game.CameraRig
	Haptics  game.HapticDevice
	Flash    *FlashEffectSystem
	Settings *game.SettingsManager
}

// CameraModeSystem 探测相机模式控制器
//
// 开启后每帧对所有幽灵做取景检测，被取景的幽灵全部定身。
// 输入通道在创建时选定：检测到 VR 手柄用手柄按钮，否则用键盘。
type CameraModeSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.CameraConfig
	deps          CameraModeDeps
	logger        zerolog.Logger

	active bool
	vrMode bool

	// 各通道独立防抖
	lastKeyToggle float64
	lastXRToggle  float64

	savedRotation geom.Quat
	hasSaved      bool

	stunCount int
}

// NewCameraModeSystem 创建相机模式控制器
//
// 返回:
//   - error: 缺少必需协作者时返回包装了 game.ErrMissingDependency 的错误
func NewCameraModeSystem(em *ecs.EntityManager, cfg config.CameraConfig, deps CameraModeDeps) (*CameraModeSystem, error) {
	switch {
	case em == nil:
		return nil, fmt.Errorf("camera mode: entity manager: %w", game.ErrMissingDependency)
	case deps.Ghosts == nil:
		return nil, fmt.Errorf("camera mode: ghost system: %w", game.ErrMissingDependency)
	case deps.Detector == nil:
		return nil, fmt.Errorf("camera mode: capture detector: %w", game.ErrMissingDependency)
	case deps.Clock == nil:
		return nil, fmt.Errorf("camera mode: clock: %w", game.ErrMissingDependency)
	case !ecs.HasComponent[*components.DetectionCameraComponent](em, deps.Camera):
		return nil, fmt.Errorf("camera mode: detection camera entity %d: %w", deps.Camera, game.ErrMissingDependency)
	case deps.Keyboard == nil && deps.XR == nil:
		return nil, fmt.Errorf("camera mode: input channel: %w", game.ErrMissingDependency)
	}

	s := &CameraModeSystem{
		entityManager: em,
		cfg:           cfg,
		deps:          deps,
		logger:        logging.For("CameraModeSystem"),
		vrMode:        deps.XR != nil && deps.XR.Available(),
		lastKeyToggle: math.Inf(-1),
		lastXRToggle:  math.Inf(-1),
	}

	if s.vrMode {
		s.logger.Info().Msg("检测到 VR 手柄，使用手柄按钮切换相机")
	} else if deps.Keyboard == nil {
		return nil, fmt.Errorf("camera mode: VR device unavailable and no keyboard: %w", game.ErrMissingDependency)
	}

	return s, nil
}

// Active 相机模式是否开启
func (s *CameraModeSystem) Active() bool {
	return s.active
}

// VRMode 是否使用 VR 输入通道
func (s *CameraModeSystem) VRMode() bool {
	return s.vrMode
}

// Detector 取景检测器
func (s *CameraModeSystem) Detector() *CaptureDetector {
	return s.deps.Detector
}

// StunCount 本次遭遇中成功定身的次数
func (s *CameraModeSystem) StunCount() int {
	return s.stunCount
}

// Update 处理输入并在开启时执行取景定身
func (s *CameraModeSystem) Update(dt float64) {
	s.pollToggle()
	if !s.active {
		return
	}

	s.syncCameraPose()

	shutter := s.deps.Shutter != nil && s.deps.Shutter.JustPressed()

	framed, stunned := 0, 0
	for _, id := range s.deps.Ghosts.Ghosts() {
		if !s.deps.Detector.IsFramed(s.deps.Camera, id) {
			continue
		}
		framed++
		if s.deps.Ghosts.Stun(id) {
			stunned++
		}
	}
	s.stunCount += stunned

	s.revealForward()

	switch {
	case stunned > 0:
		s.logger.Info().Int("stunned", stunned).Msg("定身成功")
		s.hitFeedback()
	case shutter && framed > 0:
		s.hitFeedback()
	case shutter:
		s.pulse(s.cfg.PulseWeak)
	}
}

// pollToggle 读取当前输入通道的按下沿，冷却时间内的按下被忽略
func (s *CameraModeSystem) pollToggle() {
	now := s.deps.Clock.Now()

	if s.vrMode {
		if s.deps.XR.JustPressed() && now-s.lastXRToggle >= s.cfg.ButtonCooldown {
			s.lastXRToggle = now
			s.Toggle()
		}
		return
	}

	if s.deps.Keyboard.JustPressed() && now-s.lastKeyToggle >= s.cfg.ButtonCooldown {
		s.lastKeyToggle = now
		s.Toggle()
	}
}

// Toggle 切换相机模式
func (s *CameraModeSystem) Toggle() {
	if s.active {
		s.deactivate()
	} else {
		s.activate()
	}
}

func (s *CameraModeSystem) activate() {
	s.active = true

	if s.deps.Switcher != nil {
		s.deps.Switcher.UseDetectionCamera(true)
	}
	if s.deps.Rig != nil {
		_, s.savedRotation = s.deps.Rig.Pose()
		s.hasSaved = true
	}
	for _, id := range s.deps.Ghosts.Ghosts() {
		s.deps.Ghosts.SetVisible(id, true)
	}
	s.pulse(s.cfg.PulseOn)

	s.logger.Info().Msg("探测相机开启")
}

func (s *CameraModeSystem) deactivate() {
	s.active = false

	if s.deps.Switcher != nil {
		s.deps.Switcher.UseDetectionCamera(false)
	}
	// 正在惊吓的幽灵保持可见，直到惊吓动作结束
	for _, id := range s.deps.Ghosts.Ghosts() {
		if g, ok := ecs.GetComponent[*components.GhostComponent](s.entityManager, id); ok && g.HasTriggeredJumpscare {
			continue
		}
		s.deps.Ghosts.SetVisible(id, false)
	}
	if s.deps.Rig != nil && s.hasSaved {
		pos, rot := s.deps.Rig.Pose()
		if geom.Angle(rot, s.savedRotation) > restoreAngleThreshold {
			s.deps.Rig.SetPose(pos, s.savedRotation)
		}
		s.hasSaved = false
	}
	s.pulse(s.cfg.PulseOff)

	s.logger.Info().Msg("探测相机关闭")
}

// syncCameraPose 探测相机跟随玩家相机
func (s *CameraModeSystem) syncCameraPose() {
	if s.deps.Rig == nil {
		return
	}
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.deps.Camera)
	if !ok {
		return
	}
	tr.Position, tr.Rotation = s.deps.Rig.Pose()
}

// revealForward 相机正前方射线照到的幽灵标记为已显形
func (s *CameraModeSystem) revealForward() {
	hit, ok := s.deps.Detector.ForwardHit(s.deps.Camera)
	if !ok {
		return
	}
	for _, id := range s.deps.Ghosts.Ghosts() {
		if !s.deps.Detector.IsDescendant(uint64(hit), uint64(id)) {
			continue
		}
		s.deps.Ghosts.SetVisible(id, true)
		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id); ok && vis.Visible {
			vis.Revealed = true
		}
		return
	}
}

func (s *CameraModeSystem) hitFeedback() {
	s.pulse(s.cfg.PulseStrong)
	if s.deps.Flash != nil && s.deps.Settings.FlashEnabled() {
		s.deps.Flash.Trigger(s.cfg.FlashDuration, 1.0)
	}
}

// pulse 发送震动，玩家关闭震动时跳过
func (s *CameraModeSystem) pulse(p [2]float64) {
	if s.deps.Haptics == nil {
		return
	}
	amp, ok := s.deps.Settings.HapticAmplitude(p[0])
	if !ok {
		return
	}
	s.deps.Haptics.Pulse(amp, p[1])
}
