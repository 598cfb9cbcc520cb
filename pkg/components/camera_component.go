package components

import (
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// DetectionCameraComponent 探测相机（"灵异相机"）的镜头参数
//
// 相机的位姿来自同一实体上的 TransformComponent。
type DetectionCameraComponent struct {
	FieldOfView float64 // 垂直视场角（度）
	Aspect      float64
	// Bounds 取景框（归一化视口坐标）
	Bounds geom.ViewportRect
	// CaptureRange 拍摄距离（米）
	CaptureRange float64
}

// CameraDragComponent 把玩家相机拖向固定目标的脚本化动画
//
// 攻击序列中可选：幽灵"抓住"玩家，把视角拖到它脸前。
type CameraDragComponent struct {
	// Source 触发拖拽的幽灵
	Source ecs.EntityID

	StartPosition  geom.Vec3
	StartRotation  geom.Quat
	TargetPosition geom.Vec3
	TargetRotation geom.Quat

	Duration float64
	Elapsed  float64

	// EasingType 缓动类型："linear" / "easeOut" / "easeInOut"
	EasingType string

	// Started 首帧记录起点后置位
	Started bool
}
