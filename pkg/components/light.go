package components

// LightComponent 场景灯光的开关状态
type LightComponent struct {
	Name    string
	Enabled bool
}
