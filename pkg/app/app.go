// Package app 提供桌面端的游戏应用包装器
//
// 该包把遭遇战核心接到 Ebitengine 上：键盘鼠标模拟头部、
// 手柄模拟 VR 控制器、屏幕取景框模拟探测相机。
// main.go 只负责读取启动参数并调用 NewApp()。
package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/gonewx/ghostframe/pkg/input"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/gonewx/ghostframe/pkg/scenes"
	"github.com/gonewx/ghostframe/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
)

// Config 定义应用启动配置
type Config struct {
	// Encounter 已校验的遭遇战配置
	Encounter *config.EncounterConfig
	// Verbose 启用详细日志输出
	Verbose bool
	// VR 用标准手柄的右肩键模拟 VR 控制器切换键
	VR bool
	// Storage 持久化存储，为 nil 时设置和记录只保存在内存中
	Storage *gdata.Manager
}

// itemHotkeys 数字键收集对应序号的物品
var itemHotkeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          Config
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	records      *game.RecordManager
	rig          *DesktopRig
	viewfinder   *Viewfinder
	haptics      *GamepadHaptics
	logger       zerolog.Logger

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用，直接进入遭遇战
//
// 返回:
//   - error: 缺少遭遇战配置或首个场景创建失败时返回
func NewApp(cfg Config) (*App, error) {
	if cfg.Encounter == nil {
		return nil, fmt.Errorf("app: encounter config: %w", game.ErrMissingDependency)
	}

	a := &App{
		cfg:          cfg,
		sceneManager: game.NewSceneManager(),
		settings:     game.NewSettingsManager(cfg.Storage),
		viewfinder:   NewViewfinder(cfg.Encounter.Camera),
		haptics:      &GamepadHaptics{},
		logger:       logging.For("App"),
	}

	records, err := game.NewRecordManager(cfg.Storage)
	if err != nil {
		a.logger.Warn().Err(err).Msg("加载遭遇记录失败，从空记录开始")
	}
	a.records = records
	a.rig = NewDesktopRig(startPosition(), a.settings)

	a.sceneManager.SetSceneFactory(a.createScene)

	first, err := a.newEncounter()
	if err != nil {
		return nil, err
	}
	a.sceneManager.SwitchTo(scenes.EncounterSceneName, first)

	a.logger.Info().Bool("vr", cfg.VR).Int("items", len(cfg.Encounter.Items)).Msg("应用初始化完成")
	return a, nil
}

func startPosition() geom.Vec3 {
	return geom.V(0, config.PlayerEyeHeight, 0)
}

// createScene 场景工厂：遭遇战之外的场景都是结局画面
func (a *App) createScene(name string) game.Scene {
	if name != scenes.EncounterSceneName {
		return scenes.NewResultScene(name, a.sceneManager, input.NewKeyboardButton(ebiten.KeyEnter), a.records)
	}
	scene, err := a.newEncounter()
	if err != nil {
		a.logger.Error().Err(err).Msg("创建遭遇战失败")
		return nil
	}
	return scene
}

// newEncounter 重置视角并搭建新的遭遇战
func (a *App) newEncounter() (*scenes.EncounterScene, error) {
	a.rig.Reset(startPosition())

	deps := scenes.EncounterDeps{
		Viewpoint: a.rig,
		Rig:       a.rig,
		Switcher:  a.viewfinder,
		Haptics:   a.haptics,
		Loader:    a.sceneManager,
		Keyboard:  input.NewKeyboardButton(ebiten.KeyC),
		Shutter: input.AnyButton{
			input.NewKeyboardButton(ebiten.KeySpace),
			input.NewMouseButton(ebiten.MouseButtonLeft),
		},
		Settings: a.settings,
		Records:  a.records,
	}
	if a.cfg.VR {
		deps.XR = input.NewGamepadButton(ebiten.StandardGamepadButtonRightBottom)
	}

	scene, err := scenes.NewEncounterScene(a.cfg.Encounter, deps)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return scene, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.logger.Debug().Int("w", config.GameWindowWidth).Int("h", config.GameWindowHeight).Msg("恢复窗口大小")
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = config.WindowSizeResetFrames
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := config.FixedDeltaTime
	if encounter, ok := a.sceneManager.GetCurrentScene().(*scenes.EncounterScene); ok {
		a.rig.Update(deltaTime)
		a.handleHotkeys(encounter)
	}
	a.sceneManager.Update(deltaTime)
	return nil
}

// handleHotkeys 桌面端用快捷键代替场景中的物品交互
//
// 数字键收集物品，T 放置剧情物品，E 尝试逃生。
func (a *App) handleHotkeys(encounter *scenes.EncounterScene) {
	items := a.cfg.Encounter.Items
	for i, key := range itemHotkeys {
		if i >= len(items) {
			break
		}
		if inpututil.IsKeyJustPressed(key) {
			encounter.CollectItem(items[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		encounter.PlaceTriggerItem(a.cfg.Encounter.TriggerItem)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if missing := encounter.TryEscape(); len(missing) > 0 {
			a.logger.Info().Strs("missing", missing).Msg("还不能逃生")
		}
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
	a.viewfinder.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 关闭当前场景并保存设置（窗口关闭后调用）
func (a *App) Close() {
	a.sceneManager.Close()
	if err := a.settings.Save(); err != nil {
		a.logger.Warn().Err(err).Msg("保存设置失败")
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.cfg.Verbose
}

// 编译期检查
var (
	_ game.ViewpointTracker = (*DesktopRig)(nil)
	_ game.CameraRig        = (*DesktopRig)(nil)
	_ game.CameraSwitcher   = (*Viewfinder)(nil)
	_ game.HapticDevice     = (*GamepadHaptics)(nil)
	_ systems.DeviceButton  = (*input.EdgeButton)(nil)
)
