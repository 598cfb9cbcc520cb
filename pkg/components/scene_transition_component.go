package components

// SceneOutcome 场景切换对应的遭遇结局
type SceneOutcome string

const (
	OutcomeNone            SceneOutcome = ""
	OutcomeEscaped         SceneOutcome = "escaped"
	OutcomeCaughtAttack    SceneOutcome = "caught_attack"
	OutcomeCaughtJumpscare SceneOutcome = "caught_jumpscare"
	// OutcomeAbandoned 场景在结局前被关闭（窗口关闭、重开）
	OutcomeAbandoned       SceneOutcome = "abandoned"
)

// SceneTransitionComponent 延迟的场景切换请求
//
// 计时到期后由 SceneTransitionSystem 调用场景加载器并销毁实体。
type SceneTransitionComponent struct {
	Scene   string
	Outcome SceneOutcome
	Timer   TimerComponent
}

// ActivationComponent 延迟激活幽灵追击（剧情物品放置后）
type ActivationComponent struct {
	Timer TimerComponent
}
