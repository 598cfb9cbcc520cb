package components

// VisibilityComponent 渲染可见性，不影响模拟状态
//
// 幽灵只有在探测相机模式下才可见；攻击完成后会被永久隐藏。
type VisibilityComponent struct {
	Visible bool
	// Revealed 探测相机的前向射线在本次开启期间照到过该实体
	Revealed bool
}
