package game

import (
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 按名称创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(name string) Scene

// SceneManager 管理当前活动场景，并实现 SceneLoader
//
// RequestSceneLoad 只记录请求，真正的切换发生在下一次 Update 开头，
// 保证发出请求的场景能完整跑完当前帧。
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
	pending      string
	hasPending   bool
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 立即切换到指定场景
func (sm *SceneManager) SwitchTo(name string, scene Scene) {
	if closer, ok := sm.currentScene.(Closer); ok && sm.currentScene != scene {
		closer.Close()
	}
	sm.currentScene = scene
	sm.currentName = name
}

// GetCurrentScene 返回当前活动的场景，没有则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 返回当前场景名称
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// RequestSceneLoad 请求切换场景（实现 SceneLoader）
//
// 同一帧内多次请求时以最后一次为准。
func (sm *SceneManager) RequestSceneLoad(name string) {
	logger := logging.For("SceneManager")
	logger.Info().Str("scene", name).Msg("收到场景切换请求")
	sm.pending = name
	sm.hasPending = true
}

// applyPending 执行挂起的场景切换
func (sm *SceneManager) applyPending() {
	if !sm.hasPending {
		return
	}
	name := sm.pending
	sm.pending = ""
	sm.hasPending = false

	logger := logging.For("SceneManager")
	if sm.sceneFactory == nil {
		logger.Error().Str("scene", name).Msg("SceneFactory 未设置")
		return
	}

	newScene := sm.sceneFactory(name)
	if newScene == nil {
		logger.Error().Str("scene", name).Msg("无法创建场景")
		return
	}
	sm.SwitchTo(name, newScene)
	logger.Info().Str("scene", name).Msg("场景切换完成")
}

// Update 先处理挂起的切换，再更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	sm.applyPending()
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	if closer, ok := sm.currentScene.(Closer); ok {
		closer.Close()
	}
}
