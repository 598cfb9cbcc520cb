package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockScene 记录调用情况的测试场景
type MockScene struct {
	updateCalls int
	drawCalled  bool
	closed      bool
	deltaTime   float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalls++
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Close() {
	m.closed = true
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	require.NotNil(t, sm)
	assert.Nil(t, sm.GetCurrentScene())
}

func TestSceneManagerUpdateWithoutScene(t *testing.T) {
	sm := NewSceneManager()
	assert.NotPanics(t, func() {
		sm.Update(0.016)
		sm.Draw(nil)
	})
}

func TestSceneManagerUpdateForwardsDelta(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo("encounter", scene)

	sm.Update(0.016)
	assert.Equal(t, 1, scene.updateCalls)
	assert.Equal(t, 0.016, scene.deltaTime)
	assert.Equal(t, "encounter", sm.CurrentName())
}

func TestRequestSceneLoadIsDeferred(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{}
	second := &MockScene{}
	created := []string{}
	sm.SetSceneFactory(func(name string) Scene {
		created = append(created, name)
		return second
	})
	sm.SwitchTo("encounter", first)

	sm.RequestSceneLoad("GameOverScene")
	assert.Same(t, first, sm.GetCurrentScene(), "请求后当前帧不切换")
	assert.Empty(t, created)

	sm.Update(0.016)
	assert.Same(t, second, sm.GetCurrentScene())
	assert.Equal(t, []string{"GameOverScene"}, created)
	assert.True(t, first.closed, "被替换的场景应被关闭")
	assert.Equal(t, 0, first.updateCalls)
	assert.Equal(t, 1, second.updateCalls)
}

func TestRequestSceneLoadLastWins(t *testing.T) {
	sm := NewSceneManager()
	var created []string
	sm.SetSceneFactory(func(name string) Scene {
		created = append(created, name)
		return &MockScene{}
	})

	sm.RequestSceneLoad("JumpscareScene")
	sm.RequestSceneLoad("GameOverScene")
	sm.Update(0.016)

	assert.Equal(t, []string{"GameOverScene"}, created)
	assert.Equal(t, "GameOverScene", sm.CurrentName())
}

func TestRequestSceneLoadWithoutFactory(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo("encounter", scene)

	sm.RequestSceneLoad("GameOverScene")
	sm.Update(0.016)

	assert.Same(t, scene, sm.GetCurrentScene())
}

func TestRequestSceneLoadFactoryReturnsNil(t *testing.T) {
	sm := NewSceneManager()
	scene := &MockScene{}
	sm.SwitchTo("encounter", scene)
	sm.SetSceneFactory(func(string) Scene { return nil })

	sm.RequestSceneLoad("Missing")
	sm.Update(0.016)

	assert.Same(t, scene, sm.GetCurrentScene())
	assert.False(t, scene.closed)
}
