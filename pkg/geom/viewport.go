package geom

import "math"

// Camera 透视相机的最小描述
type Camera struct {
	Position    Vec3
	Rotation    Quat
	FieldOfView float64 // 垂直视场角（度）
	Aspect      float64 // 宽高比
}

// ViewportRect 归一化视口坐标中的矩形，原点在左下角
type ViewportRect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// CentralBand 取景判定使用的中央区域 [0.25, 0.75]²
var CentralBand = ViewportRect{MinX: 0.25, MinY: 0.25, MaxX: 0.75, MaxY: 0.75}

// FullViewport 整个视口
var FullViewport = ViewportRect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

// Contains 严格包含判定（落在边界上视为不在框内）
func (r ViewportRect) Contains(x, y float64) bool {
	return x > r.MinX && x < r.MaxX && y > r.MinY && y < r.MaxY
}

// Valid 矩形是否非空且位于 [0,1]² 之内
func (r ViewportRect) Valid() bool {
	return r.MinX >= 0 && r.MinY >= 0 && r.MaxX <= 1 && r.MaxY <= 1 &&
		r.MinX < r.MaxX && r.MinY < r.MaxY
}

// WorldToViewport 将世界坐标投影到归一化视口空间
//
// 返回值 X、Y 在画面内时位于 [0, 1]，Z 为沿相机前方的深度（米）。
// Z <= 0 表示点在相机背后，此时 X、Y 没有意义。
func WorldToViewport(cam Camera, p Vec3) Vec3 {
	local := cam.Rotation.Conjugate().Rotate(p.Sub(cam.Position))
	depth := local.Z
	if depth <= Epsilon {
		return Vec3{X: 0.5, Y: 0.5, Z: depth}
	}

	fov := cam.FieldOfView
	if fov <= 0 || fov >= 180 {
		fov = 60
	}
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	halfH := math.Tan(fov * math.Pi / 360)
	halfW := halfH * aspect

	return Vec3{
		X: 0.5 + local.X/(depth*halfW)*0.5,
		Y: 0.5 + local.Y/(depth*halfH)*0.5,
		Z: depth,
	}
}
