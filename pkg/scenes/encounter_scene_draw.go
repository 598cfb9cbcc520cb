package scenes

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 俯视调试地图参数
const (
	mapPixelsPerMeter = 24.0
	mapMarginBottom   = 40.0
	hudLineHeight     = 16
)

var (
	colorBackground = color.RGBA{16, 16, 24, 255}
	colorWall       = color.RGBA{90, 90, 100, 255}
	colorLightOn    = color.RGBA{250, 220, 120, 255}
	colorLightOff   = color.RGBA{60, 50, 30, 255}
	colorPlayer     = color.RGBA{230, 230, 230, 255}
	colorGhostShown = color.RGBA{220, 40, 40, 255}
	colorGhostDim   = color.RGBA{80, 20, 20, 255}
	colorStunned    = color.RGBA{80, 160, 255, 255}
	colorFrame      = color.RGBA{120, 255, 120, 255}
)

// Draw 绘制俯视调试地图、状态信息和快门闪光
func (s *EncounterScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	s.drawMap(screen)
	s.drawHUD(screen)
	s.drawFlash(screen)
}

// worldToMap 世界坐标（x, z）转换为俯视地图像素坐标，玩家位于地图下方中央
func (s *EncounterScene) worldToMap(screen *ebiten.Image, p geom.Vec3) (float32, float32) {
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())
	origin, _ := s.deps.Viewpoint.Pose()
	x := w/2 + (p.X-origin.X)*mapPixelsPerMeter
	y := h - mapMarginBottom - (p.Z-origin.Z)*mapPixelsPerMeter
	return float32(x), float32(y)
}

func (s *EncounterScene) drawMap(screen *ebiten.Image) {
	em := s.entityManager

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.CollisionComponent](em) {
		col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		if col.Layer != components.LayerWorld || col.Shape != components.ColliderBox {
			continue
		}
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		minX, minY := s.worldToMap(screen, tr.Position.Add(geom.V(-col.HalfExtents.X, 0, col.HalfExtents.Z)))
		vector.DrawFilledRect(screen, minX, minY,
			float32(col.HalfExtents.X*2*mapPixelsPerMeter), float32(col.HalfExtents.Z*2*mapPixelsPerMeter),
			colorWall, false)
	}

	lights := ecs.GetEntitiesWith1[*components.LightComponent](em)
	for i, id := range lights {
		light, _ := ecs.GetComponent[*components.LightComponent](em, id)
		clr := colorLightOff
		if light.Enabled {
			clr = colorLightOn
		}
		vector.DrawFilledCircle(screen, float32(20+i*18), 20, 6, clr, true)
	}

	for _, id := range s.ghosts.Ghosts() {
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		g, _ := ecs.GetComponent[*components.GhostComponent](em, id)
		x, y := s.worldToMap(screen, tr.Position)

		clr := colorGhostDim
		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](em, id); ok && vis.Visible {
			clr = colorGhostShown
		}
		if g.State == components.GhostStunned {
			clr = colorStunned
		}
		vector.DrawFilledCircle(screen, x, y, 7, clr, true)

		fx, fy := s.worldToMap(screen, tr.Position.Add(tr.Rotation.Forward().Flat().Normalize().Scale(0.6)))
		vector.StrokeLine(screen, x, y, fx, fy, 2, clr, true)

		if s.cameraMode.Active() && s.cameraMode.Detector().IsFramed(s.cameraID, id) {
			vector.StrokeRect(screen, x-10, y-10, 20, 20, 1, colorFrame, false)
		}
	}

	pos, rot := s.deps.Viewpoint.Pose()
	px, py := s.worldToMap(screen, pos)
	vector.DrawFilledCircle(screen, px, py, 6, colorPlayer, true)
	lx, ly := s.worldToMap(screen, pos.Add(rot.Forward().Flat().Normalize().Scale(1.0)))
	vector.StrokeLine(screen, px, py, lx, ly, 2, colorPlayer, true)
}

func (s *EncounterScene) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("session %s  t=%.1fs", s.sessionID[:8], s.elapsed),
		fmt.Sprintf("camera: %s  stuns: %d", onOff(s.cameraMode.Active()), s.cameraMode.StunCount()),
		fmt.Sprintf("items: %d/%d", s.items.CollectedCount(), s.items.Total()),
	}
	if missing := s.items.Missing(); len(missing) > 0 {
		lines = append(lines, "missing: "+strings.Join(missing, ", "))
	}

	pos, _ := s.deps.Viewpoint.Pose()
	for _, id := range s.ghosts.Ghosts() {
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		g, _ := ecs.GetComponent[*components.GhostComponent](s.entityManager, id)
		line := fmt.Sprintf("ghost %d: %-9s d=%.2f v=%.2f", id, g.State, geom.FlatDistance(tr.Position, pos), g.EffectiveSpeed())
		if g.State == components.GhostStunned {
			line += fmt.Sprintf(" stun=%.1f", g.StunTimer)
		}
		lines = append(lines, line)
	}
	if s.outcome != components.OutcomeNone {
		lines = append(lines, "outcome: "+string(s.outcome))
	}

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 36+i*hudLineHeight)
	}
}

// drawFlash 快门闪光：白色全屏叠加
func (s *EncounterScene) drawFlash(screen *ebiten.Image) {
	alpha := s.flash.Alpha()
	if alpha <= 0 {
		return
	}
	w := float32(screen.Bounds().Dx())
	h := float32(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, color.NRGBA{255, 255, 255, uint8(geom.Clamp01(alpha) * 255)}, false)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "off"
}
