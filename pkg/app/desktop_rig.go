package app

import (
	"math"

	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
)

// DesktopRig 桌面端的玩家头部
//
// 没有头显时用键盘鼠标模拟：WASD 行走，方向键或按住右键拖动鼠标转头。
// 同时实现 game.ViewpointTracker 和 game.CameraRig，脚本化相机拖拽通过 SetPose 接管视角。
type DesktopRig struct {
	position geom.Vec3
	yaw      float64 // 度，0 朝 +Z，正值向右转
	pitch    float64 // 度，正值抬头
	settings *game.SettingsManager

	lastCursorX, lastCursorY int
	dragging                 bool
}

// NewDesktopRig 创建桌面视角
//
// 参数:
//   - start: 初始位置
//   - settings: 玩家设置（视角灵敏度、Y 轴反转），可为 nil
func NewDesktopRig(start geom.Vec3, settings *game.SettingsManager) *DesktopRig {
	return &DesktopRig{
		position: start,
		settings: settings,
	}
}

// Reset 回到指定位置并朝向 +Z（每次重开遭遇战时调用）
func (r *DesktopRig) Reset(start geom.Vec3) {
	r.position = start
	r.yaw = 0
	r.pitch = 0
	r.dragging = false
}

// Pose 实现 game.ViewpointTracker / game.CameraRig
func (r *DesktopRig) Pose() (geom.Vec3, geom.Quat) {
	return r.position, r.rotation()
}

// SetPose 实现 game.CameraRig，从朝向反推偏航和俯仰
func (r *DesktopRig) SetPose(position geom.Vec3, rotation geom.Quat) {
	r.position = position
	f := rotation.Forward()
	r.yaw = math.Atan2(f.X, f.Z) * 180 / math.Pi
	r.pitch = math.Asin(math.Max(-1, math.Min(1, f.Y))) * 180 / math.Pi
}

func (r *DesktopRig) rotation() geom.Quat {
	// 绕 +X 正向旋转是低头，所以俯仰取反
	return geom.AngleAxis(r.yaw, geom.Up).Mul(geom.AngleAxis(-r.pitch, geom.Right))
}

// Walk 在水平面上移动
//
// 参数:
//   - forward: 前进输入（-1 ~ 1）
//   - strafe: 平移输入（-1 ~ 1，正值向右）
//   - deltaTime: 帧时间
//
// 斜向移动不会比直线更快。
func (r *DesktopRig) Walk(forward, strafe, deltaTime float64) {
	rad := r.yaw * math.Pi / 180
	fwd := geom.V(math.Sin(rad), 0, math.Cos(rad))
	right := geom.V(math.Cos(rad), 0, -math.Sin(rad))

	move := fwd.Scale(forward).Add(right.Scale(strafe))
	if move.Length() > 1 {
		move = move.Normalize()
	}
	r.position = r.position.Add(move.Scale(config.PlayerWalkSpeed * deltaTime))
}

// Turn 转动视角（度）
//
// 俯仰限制在 ±MaxPitch 内，开启 Y 轴反转时俯仰输入取反。
func (r *DesktopRig) Turn(dYaw, dPitch float64) {
	if r.settings != nil && r.settings.GetSettings().InvertFreeLook {
		dPitch = -dPitch
	}
	r.yaw = math.Mod(r.yaw+dYaw, 360)
	if r.yaw > 180 {
		r.yaw -= 360
	} else if r.yaw <= -180 {
		r.yaw += 360
	}
	r.pitch = math.Max(-config.MaxPitch, math.Min(config.MaxPitch, r.pitch+dPitch))
}

// Yaw 当前偏航角（度）
func (r *DesktopRig) Yaw() float64 {
	return r.yaw
}

// Pitch 当前俯仰角（度）
func (r *DesktopRig) Pitch() float64 {
	return r.pitch
}

// sensitivity 方向键转动速度（度/秒）
func (r *DesktopRig) sensitivity() float64 {
	if r.settings == nil {
		return game.DefaultSettings().FreeLookSensitivity
	}
	return r.settings.GetSettings().FreeLookSensitivity
}

// Update 读取键盘鼠标输入
func (r *DesktopRig) Update(deltaTime float64) {
	var forward, strafe float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		strafe--
	}
	if forward != 0 || strafe != 0 {
		r.Walk(forward, strafe, deltaTime)
	}

	turn := r.sensitivity() * deltaTime
	var dYaw, dPitch float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dYaw += turn
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dYaw -= turn
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dPitch += turn
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dPitch -= turn
	}

	// 按住右键拖动鼠标转头
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if r.dragging {
			dYaw += float64(x-r.lastCursorX) * config.MouseLookScale
			dPitch -= float64(y-r.lastCursorY) * config.MouseLookScale
		}
		r.dragging = true
	} else {
		r.dragging = false
	}
	r.lastCursorX, r.lastCursorY = x, y

	if dYaw != 0 || dPitch != 0 {
		r.Turn(dYaw, dPitch)
	}
}
