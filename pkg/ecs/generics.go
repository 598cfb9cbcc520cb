package ecs

import "reflect"

// 泛型组件访问 API
//
// 系统代码统一通过这些函数访问组件，避免到处书写
// reflect.TypeOf(&components.XxxComponent{}) 和类型断言。

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 为实体添加组件（类型由参数推导），同类型组件会被替换
//
// 对不存在的实体是空操作。
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	if s, ok := em.set(id); ok {
		s[typeOf[T]()] = component
	}
}

// GetComponent 获取实体的 T 类型组件
//
// 用法: pos, ok := ecs.GetComponent[*components.TransformComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	s, ok := em.set(id)
	if !ok {
		return zero, false
	}
	typed, ok := s[typeOf[T]()].(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	s, ok := em.set(id)
	if !ok {
		return false
	}
	_, found := s[typeOf[T]()]
	return found
}

// RemoveComponent 移除实体的 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if s, ok := em.set(id); ok {
		delete(s, typeOf[T]())
	}
}

// GetEntitiesWith1 查询拥有 T1 组件的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.query(typeOf[T1]())
}

// GetEntitiesWith2 查询同时拥有 T1、T2 组件的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.query(typeOf[T1](), typeOf[T2]())
}
