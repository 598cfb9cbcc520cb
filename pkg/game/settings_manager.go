package game

import (
	"fmt"

	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerSettings 玩家设置
// 注意：设置是全局的，不区分存档
type PlayerSettings struct {
	// 反馈设置
	HapticsEnabled bool    `yaml:"hapticsEnabled"` // 手柄震动开关
	HapticsScale   float64 `yaml:"hapticsScale"`   // 震动强度倍率 0.0 ~ 1.0
	FlashEnabled   bool    `yaml:"flashEnabled"`   // 定身闪光开关（光敏玩家可关闭）

	// 视角设置
	InvertFreeLook      bool    `yaml:"invertFreeLook"`      // 自由视角 Y 轴反转
	FreeLookSensitivity float64 `yaml:"freeLookSensitivity"` // 自由视角灵敏度（度/秒）
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PlayerSettings {
	return &PlayerSettings{
		HapticsEnabled:      true,
		HapticsScale:        1.0,
		FlashEnabled:        true,
		InvertFreeLook:      false,
		FreeLookSensitivity: 90,
	}
}

// SettingsManager 设置管理器
// 负责玩家设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PlayerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//
// 加载失败不是致命错误，记录警告后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		logger := logging.For("SettingsManager")
		logger.Warn().Err(err).Msg("加载设置失败，使用默认设置")
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本存档缺少的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.HapticsScale = clampUnit(loaded.HapticsScale)

	sm.settings = loaded
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *PlayerSettings {
	return sm.settings
}

// SetHapticsEnabled 设置震动开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetHapticsEnabled(enabled bool) {
	sm.settings.HapticsEnabled = enabled
}

// SetHapticsScale 设置震动强度倍率，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetHapticsScale(scale float64) {
	sm.settings.HapticsScale = clampUnit(scale)
}

// SetFlashEnabled 设置定身闪光开关
func (sm *SettingsManager) SetFlashEnabled(enabled bool) {
	sm.settings.FlashEnabled = enabled
}

// SetInvertFreeLook 设置自由视角 Y 轴反转
func (sm *SettingsManager) SetInvertFreeLook(inverted bool) {
	sm.settings.InvertFreeLook = inverted
}

// HapticAmplitude 应用玩家设置后的实际震动振幅
//
// 返回 ok=false 表示震动被关闭，调用方应跳过本次震动。
func (sm *SettingsManager) HapticAmplitude(amplitude float64) (float64, bool) {
	if sm == nil {
		return amplitude, true
	}
	if !sm.settings.HapticsEnabled || sm.settings.HapticsScale <= 0 {
		return 0, false
	}
	return clampUnit(amplitude * sm.settings.HapticsScale), true
}

// FlashEnabled 定身闪光是否开启；nil 管理器视为开启
func (sm *SettingsManager) FlashEnabled() bool {
	if sm == nil {
		return true
	}
	return sm.settings.FlashEnabled
}

// clampUnit 将值限制在 0.0 ~ 1.0 范围内
func clampUnit(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
