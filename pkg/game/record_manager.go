package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// EncounterRecord 一次遭遇战的结果
type EncounterRecord struct {
	SessionID string    `yaml:"sessionId"`
	Outcome   string    `yaml:"outcome"` // escaped / caught_attack / caught_jumpscare / abandoned
	Scene     string    `yaml:"scene"`   // 结局场景
	Items     int       `yaml:"items"`   // 结束时已收集的物品数
	Stuns     int       `yaml:"stuns"`   // 成功定身次数
	Duration  float64   `yaml:"duration"`
	EndedAt   time.Time `yaml:"endedAt"`
}

// RecordHistory 持久化的遭遇记录列表
type RecordHistory struct {
	Records []EncounterRecord `yaml:"records"`
}

// 存储路径常量
const (
	recordsObject   = "records"
	recordsProperty = "history"

	// maxRecords 只保留最近的记录
	maxRecords = 50
)

// RecordManager 遭遇记录管理器
//
// gdataManager 为 nil 时只在内存中保存（降级模式）。
type RecordManager struct {
	gdataManager *gdata.Manager
	history      RecordHistory
}

// NewRecordManager 创建记录管理器并加载历史记录
//
// 返回：
//   - *RecordManager: 记录管理器实例（加载失败时历史为空）
//   - error: 加载失败的原因，不影响使用
func NewRecordManager(gdataManager *gdata.Manager) (*RecordManager, error) {
	rm := &RecordManager{gdataManager: gdataManager}
	if err := rm.load(); err != nil {
		return rm, err
	}
	return rm, nil
}

// NewSessionID 生成遭遇会话 ID
func NewSessionID() string {
	return uuid.NewString()
}

func (rm *RecordManager) load() error {
	if rm.gdataManager == nil {
		return nil
	}
	if !rm.gdataManager.ObjectPropExists(recordsObject, recordsProperty) {
		return nil
	}

	data, err := rm.gdataManager.LoadObjectProp(recordsObject, recordsProperty)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	var history RecordHistory
	if err := yaml.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	rm.history = history
	return nil
}

// Append 追加一条记录并立即持久化
//
// SessionID 为空时自动生成；同一会话只记录一次，重复调用返回 nil 且不修改历史。
func (rm *RecordManager) Append(record EncounterRecord) error {
	if record.SessionID == "" {
		record.SessionID = NewSessionID()
	}
	for _, r := range rm.history.Records {
		if r.SessionID == record.SessionID {
			return nil
		}
	}
	if record.EndedAt.IsZero() {
		record.EndedAt = time.Now()
	}

	rm.history.Records = append(rm.history.Records, record)
	if n := len(rm.history.Records); n > maxRecords {
		rm.history.Records = rm.history.Records[n-maxRecords:]
	}

	return rm.save()
}

func (rm *RecordManager) save() error {
	if rm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(&rm.history)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := rm.gdataManager.SaveObjectProp(recordsObject, recordsProperty, data); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

// Records 返回所有记录（旧记录在前）
func (rm *RecordManager) Records() []EncounterRecord {
	out := make([]EncounterRecord, len(rm.history.Records))
	copy(out, rm.history.Records)
	return out
}

// CountByOutcome 统计每种结局出现的次数
func (rm *RecordManager) CountByOutcome() map[string]int {
	counts := make(map[string]int)
	for _, r := range rm.history.Records {
		counts[r.Outcome]++
	}
	return counts
}
