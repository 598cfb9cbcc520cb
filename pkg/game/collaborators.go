package game

import (
	"errors"

	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// ErrMissingDependency 必需的协作者未注入
//
// 系统构造函数在缺少必需依赖时返回包装了该错误的 error，
// 可选依赖缺失只记录警告并跳过对应效果。
var ErrMissingDependency = errors.New("missing required dependency")

// ViewpointTracker 提供被追踪视点（玩家头部）的位姿
type ViewpointTracker interface {
	Pose() (position geom.Vec3, rotation geom.Quat)
}

// ObstacleTester 前方障碍检测（由物理层提供的球体/胶囊体投射）
//
// 返回 error 表示本帧查询失败，调用方按"有障碍"处理，下一帧重试。
type ObstacleTester interface {
	Blocked(origin, direction geom.Vec3, maxDistance float64) (bool, error)
}

// Navigator 可选的可达性检测（导航网格）
type Navigator interface {
	CanReach(from, to geom.Vec3) bool
}

// SceneLoader 场景切换请求，发出后即视为当前遭遇结束
type SceneLoader interface {
	RequestSceneLoad(name string)
}

// HapticDevice 手柄震动，尽力而为
type HapticDevice interface {
	Pulse(amplitude, seconds float64)
}

// Animator 幽灵动画状态机的参数接口
type Animator interface {
	SetBool(name string, value bool)
	Trigger(name string)
	// Progress 返回指定动画状态的归一化播放进度；当前不在该状态时 ok=false
	Progress(state string) (progress float64, ok bool)
}

// AnimatorSource 按实体查找动画器，没有动画绑定的幽灵返回 ok=false
type AnimatorSource interface {
	AnimatorFor(id ecs.EntityID) (Animator, bool)
}

// Presenter 渲染层可见性开关
type Presenter interface {
	SetVisible(id ecs.EntityID, visible bool)
}

// CameraRig 玩家相机的位姿读写（自由视角、脚本化拖拽）
type CameraRig interface {
	Pose() (position geom.Vec3, rotation geom.Quat)
	SetPose(position geom.Vec3, rotation geom.Quat)
}

// CameraSwitcher 切换当前渲染使用的相机
type CameraSwitcher interface {
	UseDetectionCamera(enabled bool)
}

// Clock 单调时钟（秒），用于输入防抖
type Clock interface {
	Now() float64
}
