package systems

import (
	"errors"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// addSphere 创建一个球形碰撞体实体
func addSphere(em *ecs.EntityManager, pos geom.Vec3, radius float64, layer components.CollisionLayer) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{Position: pos, Rotation: geom.Identity})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Shape:  components.ColliderSphere,
		Radius: radius,
		Layer:  layer,
	})
	return id
}

// addBox 创建一个包围盒碰撞体实体
func addBox(em *ecs.EntityManager, pos, half geom.Vec3, layer components.CollisionLayer) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{Position: pos, Rotation: geom.Identity})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Shape:       components.ColliderBox,
		HalfExtents: half,
		Layer:       layer,
	})
	return id
}

// fakeViewpoint 可手动移动的视点
type fakeViewpoint struct {
	pos geom.Vec3
	rot geom.Quat
}

func (v *fakeViewpoint) Pose() (geom.Vec3, geom.Quat) {
	if v.rot == (geom.Quat{}) {
		return v.pos, geom.Identity
	}
	return v.pos, v.rot
}

// fakeObstacles 可配置的障碍检测
type fakeObstacles struct {
	blocked bool
	err     error
	calls   int
}

func (o *fakeObstacles) Blocked(origin, dir geom.Vec3, max float64) (bool, error) {
	o.calls++
	return o.blocked, o.err
}

var errQueryUnavailable = errors.New("physics query unavailable")

// fakeNavigator 可达性检测
type fakeNavigator struct {
	reachable bool
}

func (n *fakeNavigator) CanReach(from, to geom.Vec3) bool {
	return n.reachable
}

// fakeSceneLoader 记录场景切换请求
type fakeSceneLoader struct {
	requests []string
}

func (l *fakeSceneLoader) RequestSceneLoad(name string) {
	l.requests = append(l.requests, name)
}

// fakeAnimator 记录动画参数，进度由测试控制
type fakeAnimator struct {
	bools    map[string]bool
	triggers []string
	progress map[string]float64
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{
		bools:    make(map[string]bool),
		progress: make(map[string]float64),
	}
}

func (a *fakeAnimator) SetBool(name string, value bool) {
	a.bools[name] = value
}

func (a *fakeAnimator) Trigger(name string) {
	a.triggers = append(a.triggers, name)
}

func (a *fakeAnimator) Progress(state string) (float64, bool) {
	p, ok := a.progress[state]
	return p, ok
}

// fakeAnimators 按实体分配动画器
type fakeAnimators map[ecs.EntityID]*fakeAnimator

func (f fakeAnimators) AnimatorFor(id ecs.EntityID) (game.Animator, bool) {
	a, ok := f[id]
	if !ok {
		return nil, false
	}
	return a, true
}

// fakePresenter 记录可见性
type fakePresenter struct {
	visible map[ecs.EntityID]bool
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{visible: make(map[ecs.EntityID]bool)}
}

func (p *fakePresenter) SetVisible(id ecs.EntityID, visible bool) {
	p.visible[id] = visible
}

// fakeRig 玩家相机
type fakeRig struct {
	pos geom.Vec3
	rot geom.Quat
	set int
}

func (r *fakeRig) Pose() (geom.Vec3, geom.Quat) {
	return r.pos, r.rot
}

func (r *fakeRig) SetPose(pos geom.Vec3, rot geom.Quat) {
	r.pos = pos
	r.rot = rot
	r.set++
}

// fakeSwitcher 记录相机切换
type fakeSwitcher struct {
	detection bool
	calls     int
}

func (s *fakeSwitcher) UseDetectionCamera(enabled bool) {
	s.detection = enabled
	s.calls++
}

// fakeHaptics 记录震动
type fakeHaptics struct {
	pulses [][2]float64
}

func (h *fakeHaptics) Pulse(amplitude, seconds float64) {
	h.pulses = append(h.pulses, [2]float64{amplitude, seconds})
}

// fakeClock 手动推进的单调时钟
type fakeClock struct {
	now float64
}

func (c *fakeClock) Now() float64 {
	return c.now
}

func (c *fakeClock) Advance(d float64) {
	c.now += d
}

// fakeButton 可编程的按钮
type fakeButton struct {
	pressed bool
	valid   bool
}

func (b *fakeButton) JustPressed() bool {
	p := b.pressed
	b.pressed = false
	return p
}

func (b *fakeButton) Available() bool {
	return b.valid
}
