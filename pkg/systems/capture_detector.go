package systems

import (
	"github.com/gonewx/ghostframe/pkg/capture"
	"github.com/gonewx/ghostframe/pkg/components"
	"github.com/gonewx/ghostframe/pkg/ecs"
	"github.com/gonewx/ghostframe/pkg/geom"
)

// maxHierarchyDepth 父子链的最大深度，防止错误数据形成环
const maxHierarchyDepth = 32

// CaptureDetector 把 ECS 实体接到 capture.Evaluate 上
//
// 相机实体需要 TransformComponent + DetectionCameraComponent，
// 目标实体需要 TransformComponent；射线由 raycaster 提供，
// 命中目标的子碰撞体（ParentComponent 链）同样算命中。
type CaptureDetector struct {
	entityManager *ecs.EntityManager
	raycaster     geom.Raycaster
}

// NewCaptureDetector 创建取景检测器
func NewCaptureDetector(em *ecs.EntityManager, rc geom.Raycaster) *CaptureDetector {
	return &CaptureDetector{
		entityManager: em,
		raycaster:     rc,
	}
}

// IsFramed 目标是否被相机取景
func (d *CaptureDetector) IsFramed(cameraID, targetID ecs.EntityID) bool {
	return d.Evaluate(cameraID, targetID) == capture.Framed
}

// Evaluate 返回取景判定结果；相机或目标缺少组件时视为 OutOfRange
func (d *CaptureDetector) Evaluate(cameraID, targetID ecs.EntityID) capture.Result {
	q, ok := d.query(cameraID, targetID)
	if !ok {
		return capture.OutOfRange
	}
	return capture.Evaluate(q, d.raycaster, d.IsDescendant)
}

func (d *CaptureDetector) query(cameraID, targetID ecs.EntityID) (capture.Query, bool) {
	camTr, ok := ecs.GetComponent[*components.TransformComponent](d.entityManager, cameraID)
	if !ok {
		return capture.Query{}, false
	}
	lens, ok := ecs.GetComponent[*components.DetectionCameraComponent](d.entityManager, cameraID)
	if !ok {
		return capture.Query{}, false
	}
	targetTr, ok := ecs.GetComponent[*components.TransformComponent](d.entityManager, targetID)
	if !ok {
		return capture.Query{}, false
	}

	return capture.Query{
		Camera: geom.Camera{
			Position:    camTr.Position,
			Rotation:    camTr.Rotation,
			FieldOfView: lens.FieldOfView,
			Aspect:      lens.Aspect,
		},
		Bounds:   lens.Bounds,
		MaxRange: lens.CaptureRange,
		Target:   aimPoint(d.entityManager, targetID, targetTr),
		TargetID: uint64(targetID),
	}, true
}

// aimPoint 取景瞄准点：有碰撞体时取碰撞体中心，否则取实体位置
func aimPoint(em *ecs.EntityManager, id ecs.EntityID, tr *components.TransformComponent) geom.Vec3 {
	if col, ok := ecs.GetComponent[*components.CollisionComponent](em, id); ok {
		return tr.Position.Add(col.Offset)
	}
	return tr.Position
}

// IsDescendant collider 是否是 target 本身或其后代
func (d *CaptureDetector) IsDescendant(collider, target uint64) bool {
	current := ecs.EntityID(collider)
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if uint64(current) == target {
			return true
		}
		parent, ok := ecs.GetComponent[*components.ParentComponent](d.entityManager, current)
		if !ok || parent.Parent == ecs.InvalidEntity {
			return false
		}
		current = parent.Parent
	}
	return false
}

// ForwardHit 沿相机前方投射射线，返回命中的实体
func (d *CaptureDetector) ForwardHit(cameraID ecs.EntityID) (ecs.EntityID, bool) {
	camTr, ok := ecs.GetComponent[*components.TransformComponent](d.entityManager, cameraID)
	if !ok || d.raycaster == nil {
		return ecs.InvalidEntity, false
	}
	maxRange := capture.DefaultRange
	if lens, ok := ecs.GetComponent[*components.DetectionCameraComponent](d.entityManager, cameraID); ok && lens.CaptureRange > 0 {
		maxRange = lens.CaptureRange
	}

	hit, ok, err := d.raycaster.Raycast(camTr.Position, camTr.Rotation.Forward(), maxRange)
	if err != nil || !ok {
		return ecs.InvalidEntity, false
	}
	return ecs.EntityID(hit.Collider), true
}
