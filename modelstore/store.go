package modelstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// Store 是模型制品的版本化存储，构建在 core.Store 之上。
//
// 键布局：
//   - {name}:v:{N}    第 N 版制品（JSON 编码）
//   - {name}:current  当前生效的版本号
//
// 发布协议是"先写后切"：新版本完整写入后才把 current 指过去。
// 任何一步失败都让 current 保持原值，读方永远只能看到完整的制品。
type Store struct {
	Backend core.Store

	// Name 制品名，决定键前缀；为空时取默认 "recommender"
	Name string
}

const defaultArtifactName = "recommender"

func (s *Store) name() string {
	if s.Name == "" {
		return defaultArtifactName
	}
	return s.Name
}

func (s *Store) versionKey(version int64) string {
	return fmt.Sprintf("%s:v:%d", s.name(), version)
}

func (s *Store) currentKey() string {
	return s.name() + ":current"
}

// CurrentVersion 返回当前生效的版本号；从未发布过返回 (0, nil)。
func (s *Store) CurrentVersion(ctx context.Context) (int64, error) {
	data, err := s.Backend.Get(ctx, s.currentKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	version, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("modelstore: corrupt version pointer %q", string(data)))
	}
	return version, nil
}

// Load 返回当前生效的制品；从未训练过返回 (nil, nil) —— 不是错误，
// 由上层降级为热度推荐。
func (s *Store) Load(ctx context.Context) (*Artifact, error) {
	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, nil
	}
	return s.LoadVersion(ctx, version)
}

// LoadVersion 按版本号读取制品（用于回滚/排障）。
func (s *Store) LoadVersion(ctx context.Context, version int64) (*Artifact, error) {
	data, err := s.Backend.Get(ctx, s.versionKey(version))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelUnavailable,
				fmt.Sprintf("modelstore: artifact version %d not found", version))
		}
		return nil, err
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("modelstore: decode artifact v%d: %w", version, err)
	}
	return &artifact, nil
}

// Save 发布一个新制品：分配下一个版本号，先写制品体，再切 current。
// 返回发布后的版本号。
func (s *Store) Save(ctx context.Context, artifact *Artifact) (int64, error) {
	current, err := s.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}
	next := current + 1

	artifact.Name = s.name()
	artifact.Version = next

	data, err := json.Marshal(artifact)
	if err != nil {
		return 0, fmt.Errorf("modelstore: encode artifact: %w", err)
	}

	// 先写完整制品
	if err := s.Backend.Set(ctx, s.versionKey(next), data); err != nil {
		return 0, fmt.Errorf("modelstore: write artifact v%d: %w", next, err)
	}
	// 再切版本指针；这一步失败时 current 仍指向旧版本
	if err := s.Backend.Set(ctx, s.currentKey(), []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, fmt.Errorf("modelstore: swap current to v%d: %w", next, err)
	}
	return next, nil
}
