package game

// RequiredItem 逃生所需的一件物品
type RequiredItem struct {
	Name      string
	Collected bool
}

// RequiredItemSet 逃生所需物品清单（保持配置中的顺序）
//
// 已收集数量会作为速度升级信号通知所有幽灵。
type RequiredItemSet struct {
	items []RequiredItem
	index map[string]int
}

// NewRequiredItemSet 按名称顺序创建物品清单，重复名称只保留第一次出现
func NewRequiredItemSet(names []string) *RequiredItemSet {
	s := &RequiredItemSet{
		items: make([]RequiredItem, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if _, dup := s.index[name]; dup {
			continue
		}
		s.index[name] = len(s.items)
		s.items = append(s.items, RequiredItem{Name: name})
	}
	return s
}

// Collect 标记物品已收集
//
// 返回:
//   - known: 物品是否在清单中
//   - changed: 本次调用是否改变了收集状态（重复收集返回 false）
func (s *RequiredItemSet) Collect(name string) (known, changed bool) {
	i, ok := s.index[name]
	if !ok {
		return false, false
	}
	if s.items[i].Collected {
		return true, false
	}
	s.items[i].Collected = true
	return true, true
}

// CollectedCount 已收集的物品数量
func (s *RequiredItemSet) CollectedCount() int {
	n := 0
	for _, it := range s.items {
		if it.Collected {
			n++
		}
	}
	return n
}

// Total 清单中的物品总数
func (s *RequiredItemSet) Total() int {
	return len(s.items)
}

// Complete 是否已全部收集
func (s *RequiredItemSet) Complete() bool {
	return s.CollectedCount() == len(s.items)
}

// Missing 返回尚未收集的物品名称（按清单顺序）
func (s *RequiredItemSet) Missing() []string {
	var missing []string
	for _, it := range s.items {
		if !it.Collected {
			missing = append(missing, it.Name)
		}
	}
	return missing
}

// Items 返回清单的副本
func (s *RequiredItemSet) Items() []RequiredItem {
	out := make([]RequiredItem, len(s.items))
	copy(out, s.items)
	return out
}
