package config

// 窗口与逻辑屏幕尺寸
//
// Layout 返回固定的逻辑尺寸，Ebitengine 负责缩放到实际窗口。
const (
	GameWindowWidth  = 960
	GameWindowHeight = 540
	GameWindowTitle  = "ghostframe"

	// FixedDeltaTime 每个 tick 的固定步长（秒）
	FixedDeltaTime = 1.0 / 60.0

	// WindowSizeResetFrames 退出全屏后延迟多少帧再恢复窗口大小
	WindowSizeResetFrames = 3
)

// 桌面自由视角参数
const (
	// PlayerEyeHeight 玩家视点高度（米）
	PlayerEyeHeight = 1.6

	// PlayerWalkSpeed 行走速度（米/秒）
	PlayerWalkSpeed = 1.4

	// MouseLookScale 鼠标每像素转动的角度（度）
	MouseLookScale = 0.15

	// MaxPitch 俯仰角上限（度），避免视角翻转
	MaxPitch = 80.0
)

// ViewfinderRect 返回取景框在逻辑屏幕上的像素矩形
//
// 参数:
//   - frameMin, frameMax: 取景框的归一化边界（与 CameraConfig 相同）
//
// 返回:
//   - x, y, w, h: 左上角坐标与宽高
func ViewfinderRect(frameMin, frameMax float64) (x, y, w, h float64) {
	x = frameMin * GameWindowWidth
	w = (frameMax - frameMin) * GameWindowWidth
	// 视口 Y 轴向上，屏幕 Y 轴向下
	y = (1 - frameMax) * GameWindowHeight
	h = (frameMax - frameMin) * GameWindowHeight
	return x, y, w, h
}
