package systems

import (
	"math/rand"
	"time"

	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
)

// FlickerSystem 推进灯光闪烁效果
//
// 每盏灯独立计时，到点就切换开关并重新随机下一次间隔；
// 效果结束时所有灯恢复开启并移除 FlickerComponent。
type FlickerSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
}

// NewFlickerSystem 创建闪烁系统，rng 为 nil 时按当前时间播种
func NewFlickerSystem(em *ecs.EntityManager, rng *rand.Rand) *FlickerSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FlickerSystem{
		entityManager: em,
		rng:           rng,
	}
}

// Update 更新所有闪烁效果
func (s *FlickerSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.FlickerComponent](s.entityManager) {
		flicker, _ := ecs.GetComponent[*components.FlickerComponent](s.entityManager, id)

		if len(flicker.NextToggle) != len(flicker.Lights) {
			flicker.NextToggle = make([]float64, len(flicker.Lights))
			for i := range flicker.NextToggle {
				flicker.NextToggle[i] = s.nextInterval(flicker)
			}
		}

		flicker.Elapsed += dt
		if flicker.Elapsed >= flicker.Duration {
			s.restore(flicker)
			ecs.RemoveComponent[*components.FlickerComponent](s.entityManager, id)
			continue
		}

		for i, lightID := range flicker.Lights {
			flicker.NextToggle[i] -= dt
			if flicker.NextToggle[i] > 0 {
				continue
			}
			if light, ok := ecs.GetComponent[*components.LightComponent](s.entityManager, lightID); ok {
				light.Enabled = !light.Enabled
			}
			flicker.NextToggle[i] = s.nextInterval(flicker)
		}
	}
}

// restore 所有灯恢复开启（已被销毁的灯忽略）
func (s *FlickerSystem) restore(flicker *components.FlickerComponent) {
	for _, lightID := range flicker.Lights {
		if light, ok := ecs.GetComponent[*components.LightComponent](s.entityManager, lightID); ok {
			light.Enabled = true
		}
	}
}

func (s *FlickerSystem) nextInterval(flicker *components.FlickerComponent) float64 {
	span := flicker.MaxInterval - flicker.MinInterval
	if span <= 0 {
		return flicker.MinInterval
	}
	return flicker.MinInterval + s.rng.Float64()*span
}
