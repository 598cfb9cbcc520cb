// Package ecs 提供遭遇战使用的最小实体-组件存储
//
// 组件通过 generics.go 中的泛型函数按类型读写，系统不直接接触 reflect。
package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidEntity 表示"没有实体"，ID 从 1 开始分配
const InvalidEntity EntityID = 0

// componentSet 一个实体挂载的全部组件，按具体类型索引
type componentSet map[reflect.Type]any

// EntityManager 管理所有实体和组件
//
// 遭遇战中的幽灵、灯光、探测相机、碰撞体都是实体。
// 不是并发安全的：所有访问都发生在同一个更新循环里。
type EntityManager struct {
	lastID   EntityID
	entities map[EntityID]componentSet
	// marked 本帧标记删除的实体，RemoveMarkedEntities 时统一清理
	marked map[EntityID]struct{}
}

// NewEntityManager 创建一个空的 EntityManager
func NewEntityManager() *EntityManager {
	return &EntityManager{
		entities: make(map[EntityID]componentSet),
		marked:   make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	em.lastID++
	em.entities[em.lastID] = make(componentSet)
	return em.lastID
}

// Exists 检查实体是否存在（已标记删除但尚未清理的实体仍然存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.entities[id]
	return ok
}

// DestroyEntity 标记实体待删除
//
// 实体在 RemoveMarkedEntities 之前仍可被查询，
// 保证同一帧后面的系统看到一致的世界。重复标记是空操作。
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.Exists(id) {
		return
	}
	em.marked[id] = struct{}{}
}

// IsMarked 实体是否已被标记删除
func (em *EntityManager) IsMarked(id EntityID) bool {
	_, ok := em.marked[id]
	return ok
}

// RemoveMarkedEntities 清理所有标记删除的实体（每帧末尾调用一次）
func (em *EntityManager) RemoveMarkedEntities() {
	for id := range em.marked {
		delete(em.entities, id)
		delete(em.marked, id)
	}
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.entities)
}

// set 返回实体的组件集合，实体不存在时 ok=false
func (em *EntityManager) set(id EntityID) (componentSet, bool) {
	s, ok := em.entities[id]
	return s, ok
}

// query 返回拥有全部指定组件类型的实体
//
// 结果按 ID 升序排列，保证同一帧内系统的遍历顺序稳定
// （幽灵的处理顺序影响日志和测试断言）。
func (em *EntityManager) query(types ...reflect.Type) []EntityID {
	result := make([]EntityID, 0, 4)
	for id, s := range em.entities {
		if s.hasAll(types) {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func (s componentSet) hasAll(types []reflect.Type) bool {
	for _, t := range types {
		if _, ok := s[t]; !ok {
			return false
		}
	}
	return true
}
