package scenes

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/logging"
	"github.com/gonewx/ghostframe/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
)

// ResultScene 遭遇结束后的结局画面（GameOverScene / JumpscareScene）
//
// 显示结局名和历史战绩，按下重开键后重新加载遭遇战。
type ResultScene struct {
	name    string
	loader  game.SceneLoader
	restart systems.ToggleButton
	records *game.RecordManager
	logger  zerolog.Logger

	elapsed   float64
	requested bool
}

// resultInputDelay 进入结局画面后忽略输入的时间（秒），防止误触
const resultInputDelay = 0.5

// NewResultScene 创建结局画面
//
// 参数:
//   - name: 场景名（显示用）
//   - loader: 场景加载器，nil 时无法重开
//   - restart: 重开按钮
//   - records: 遭遇记录，可为 nil
func NewResultScene(name string, loader game.SceneLoader, restart systems.ToggleButton, records *game.RecordManager) *ResultScene {
	return &ResultScene{
		name:    name,
		loader:  loader,
		restart: restart,
		records: records,
		logger:  logging.For("ResultScene"),
	}
}

// Name 场景名
func (s *ResultScene) Name() string {
	return s.name
}

// Update 等待重开按钮
func (s *ResultScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	if s.requested || s.restart == nil || s.loader == nil {
		return
	}
	pressed := s.restart.JustPressed()
	if s.elapsed < resultInputDelay || !pressed {
		return
	}
	s.requested = true
	s.logger.Info().Str("from", s.name).Msg("重新开始遭遇战")
	s.loader.RequestSceneLoad(EncounterSceneName)
}

// Draw 绘制结局文字与战绩
func (s *ResultScene) Draw(screen *ebiten.Image) {
	bg := color.RGBA{10, 0, 0, 255}
	if s.name == "JumpscareScene" {
		bg = color.RGBA{60, 0, 0, 255}
	}
	screen.Fill(bg)

	ebitenutil.DebugPrintAt(screen, s.name, 20, 20)
	ebitenutil.DebugPrintAt(screen, "press Enter to try again", 20, 40)

	if s.records == nil {
		return
	}
	counts := s.records.CountByOutcome()
	outcomes := make([]string, 0, len(counts))
	for outcome := range counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	for i, outcome := range outcomes {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-18s %d", outcome, counts[outcome]), 20, 80+i*16)
	}
}
