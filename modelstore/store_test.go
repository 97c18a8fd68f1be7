package modelstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/store"
)

// failingStore 在写入指定 key 时失败，用于验证先写后切协议
type failingStore struct {
	*store.MemoryStore
	failKeySuffix string
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	if f.failKeySuffix != "" && strings.HasSuffix(key, f.failKeySuffix) {
		return errors.New("simulated write failure")
	}
	return f.MemoryStore.Set(ctx, key, value, ttl...)
}

func testArtifact() *Artifact {
	return &Artifact{
		CreatedAt:  time.Now().UTC(),
		Vocabulary: map[string]float64{"scifi": 1.5},
		BookVectors: map[string]map[string]float64{
			"b1": {"scifi": 1.0},
		},
		Books:        []*core.Book{{ID: "b1", Title: "Dune"}},
		Interactions: map[string]map[string]float64{"u1": {"b1": 5}},
		FavoriteSeed: map[string]string{"u1": "b1"},
	}
}

// TestStore_LoadNeverTrained 测试从未训练过返回 (nil, nil)
func TestStore_LoadNeverTrained(t *testing.T) {
	s := &Store{Backend: store.NewMemoryStore()}

	artifact, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("从未训练过不应该报错: %v", err)
	}
	if artifact != nil {
		t.Error("从未训练过应该返回 nil 制品")
	}
}

// TestStore_SaveAndLoad 测试版本分配与往返一致性
func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := &Store{Backend: store.NewMemoryStore(), Name: "test"}

	v1, err := s.Save(ctx, testArtifact())
	if err != nil {
		t.Fatalf("发布制品失败: %v", err)
	}
	if v1 != 1 {
		t.Errorf("首个版本期望 1，实际得到 %d", v1)
	}

	v2, err := s.Save(ctx, testArtifact())
	if err != nil {
		t.Fatalf("发布第二个制品失败: %v", err)
	}
	if v2 != 2 {
		t.Errorf("第二个版本期望 2，实际得到 %d", v2)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("加载制品失败: %v", err)
	}
	if loaded.Version != 2 {
		t.Errorf("Load 应该返回最新版本 2，实际得到 %d", loaded.Version)
	}
	if loaded.Vocabulary["scifi"] != 1.5 {
		t.Error("词表在往返后不一致")
	}
	if loaded.FavoriteSeed["u1"] != "b1" {
		t.Error("收藏种子在往返后不一致")
	}

	// 旧版本仍可按号读取（回滚路径）
	old, err := s.LoadVersion(ctx, 1)
	if err != nil {
		t.Fatalf("按版本号读取失败: %v", err)
	}
	if old.Version != 1 {
		t.Errorf("期望版本 1，实际得到 %d", old.Version)
	}
}

// TestStore_SwapFailureKeepsCurrent 测试切指针失败时当前版本保持不变
func TestStore_SwapFailureKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	backend := &failingStore{MemoryStore: store.NewMemoryStore()}
	s := &Store{Backend: backend, Name: "test"}

	if _, err := s.Save(ctx, testArtifact()); err != nil {
		t.Fatalf("首次发布失败: %v", err)
	}

	// 第二次发布时让 current 指针写入失败
	backend.failKeySuffix = ":current"
	if _, err := s.Save(ctx, testArtifact()); err == nil {
		t.Fatal("切指针失败时 Save 应该报错")
	}

	backend.failKeySuffix = ""
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("加载制品失败: %v", err)
	}
	if loaded.Version != 1 {
		t.Errorf("失败的发布不应该改变当前版本，期望 1，实际得到 %d", loaded.Version)
	}
}

// TestStore_LoadMissingVersion 测试缺失版本报 MODEL_UNAVAILABLE
func TestStore_LoadMissingVersion(t *testing.T) {
	s := &Store{Backend: store.NewMemoryStore()}

	_, err := s.LoadVersion(context.Background(), 42)
	if !core.IsModelUnavailable(err) {
		t.Errorf("期望 MODEL_UNAVAILABLE 错误，实际得到 %v", err)
	}
}

// TestArtifact_Factorization 测试隐因子还原与空制品弃权
func TestArtifact_Factorization(t *testing.T) {
	a := testArtifact()
	if a.Factorization() != nil {
		t.Error("无隐因子的制品应该返回 nil 分解")
	}

	a.UserFactors = map[string][]float64{"u1": {1}}
	a.ItemFactors = map[string][]float64{"b1": {2}}
	a.Rank = 1
	f := a.Factorization()
	if f == nil || f.Rank != 1 {
		t.Fatalf("分解还原不正确: %+v", f)
	}
	if pred := f.Predict("u1"); pred["b1"] != 2 {
		t.Errorf("还原后的分解预测期望 2，实际得到 %f", pred["b1"])
	}
}
