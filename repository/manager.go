package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/govm-net/riffs/core"
)

// ErrCodeNotFound 代码不存在
var ErrCodeNotFound = errors.New("code not found")

// Manager 代码管理器, 按内容哈希保存已部署的二进制
type Manager struct {
	rootDir string // 代码根目录
}

// ContractCode 合约代码信息
type ContractCode struct {
	Hash       string    // 代码哈希
	Code       []byte    // 二进制
	UpdateTime time.Time // 首次保存时间
}

// ContractMetadata 合约元数据
type ContractMetadata struct {
	Hash       string    `json:"hash"`        // 代码哈希
	Size       int       `json:"size"`        // 字节数
	UpdateTime time.Time `json:"update_time"` // 保存时间
}

// NewManager 创建代码管理器
func NewManager(rootDir string) (*Manager, error) {
	// 确保根目录存在
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		slog.Error("failed to create root directory", "dir", rootDir, "error", err)
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}

	return &Manager{
		rootDir: rootDir,
	}, nil
}

// Put 保存代码并返回其哈希, 已存在时直接返回
func (m *Manager) Put(code []byte) (string, error) {
	hash := core.Hash(code)
	dir := m.getCodeDir(hash)
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err == nil {
		return hash, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check code directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create code directory: %w", err)
	}
	c := &ContractCode{Hash: hash, Code: code, UpdateTime: time.Now()}
	if err := m.saveCodeFiles(c); err != nil {
		// 删除已创建的目录
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to save code files: %w", err)
	}
	slog.Debug("code stored", "hash", hash, "size", len(code))
	return hash, nil
}

// Get 获取代码二进制
func (m *Manager) Get(hash string) ([]byte, error) {
	c, err := m.GetCode(hash)
	if err != nil {
		return nil, err
	}
	return c.Code, nil
}

// GetCode 获取代码及其元数据, 并校验哈希
func (m *Manager) GetCode(hash string) (*ContractCode, error) {
	dir := m.getCodeDir(hash)

	code, err := os.ReadFile(filepath.Join(dir, "code.wasm"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	if got := core.Hash(code); got != hash {
		return nil, fmt.Errorf("code %s is corrupted: hash is %s", hash, got)
	}

	meta, err := m.Metadata(hash)
	if err != nil {
		return nil, err
	}
	return &ContractCode{Hash: hash, Code: code, UpdateTime: meta.UpdateTime}, nil
}

// Metadata 读取元数据
func (m *Manager) Metadata(hash string) (*ContractMetadata, error) {
	data, err := os.ReadFile(filepath.Join(m.getCodeDir(hash), "metadata.json"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta ContractMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// List 列出所有已保存代码的元数据, 按哈希排序
func (m *Manager) List() ([]ContractMetadata, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}
	var out []ContractMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := m.Metadata(e.Name())
		if err != nil {
			slog.Warn("skipping code directory", "dir", e.Name(), "error", err)
			continue
		}
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out, nil
}

// getCodeDir 获取代码目录路径
func (m *Manager) getCodeDir(hash string) string {
	return filepath.Join(m.rootDir, hash)
}

// saveCodeFiles 保存代码相关文件
func (m *Manager) saveCodeFiles(c *ContractCode) error {
	dir := m.getCodeDir(c.Hash)

	if err := os.WriteFile(filepath.Join(dir, "code.wasm"), c.Code, 0644); err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}

	metadata := ContractMetadata{
		Hash:       c.Hash,
		Size:       len(c.Code),
		UpdateTime: c.UpdateTime,
	}
	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// 元数据最后写入, 它的存在表示代码完整
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), metadataBytes, 0644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}
