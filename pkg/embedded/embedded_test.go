package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/encounter.yaml": &fstest.MapFile{Data: []byte("items: []\n")},
	}
}

// reset 恢复未初始化状态，避免影响其他测试
func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	defer reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	Init(nil)
	if IsInitialized() {
		t.Error("Expected Init(nil) to leave the package uninitialized")
	}
}

// TestNotInitialized 未初始化时所有读取都失败
func TestNotInitialized(t *testing.T) {
	reset()

	if _, err := Open("data/encounter.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Open() error = %v, want ErrNotInitialized", err)
	}
	if _, err := ReadFile("data/encounter.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile() error = %v, want ErrNotInitialized", err)
	}
	if Exists("data/encounter.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

// TestReadFile 测试路径前缀和路径标准化
func TestReadFile(t *testing.T) {
	reset()
	defer reset()
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"标准路径", "data/encounter.yaml", false},
		{"带 ./ 前缀", "./data/encounter.yaml", false},
		{"未知前缀", "assets/encounter.yaml", true},
		{"不存在的文件", "data/missing.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != "items: []\n" {
				t.Errorf("ReadFile(%q) = %q", tt.path, data)
			}
			if Exists(tt.path) == tt.wantErr {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, !tt.wantErr, !tt.wantErr)
			}
		})
	}
}
