package store

import (
	"context"
	"testing"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// TestMemoryStore_BasicOps 测试基本读写与 NOT_FOUND 语义
func TestMemoryStore_BasicOps(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("缺失的 key 期望 NOT_FOUND 错误，实际得到 %v", err)
	}

	if err := m.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	got, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("期望 v1，实际得到 %s", got)
	}

	if err := m.Delete(ctx, "k1"); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := m.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Error("删除后读取应该报 NOT_FOUND")
	}
}

// TestMemoryStore_BatchOps 测试批量读写：缺失的 key 被静默跳过
func TestMemoryStore_BatchOps(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := m.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("批量写入失败: %v", err)
	}

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("批量读取失败: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("期望 2 个命中，实际得到 %d 个", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("批量读取结果不正确: %v", got)
	}
}

// TestMemoryStore_SortedSet 测试有序集合：分数降序、同分按成员升序
func TestMemoryStore_SortedSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	m.ZAdd(ctx, "trending", 100, "b2")
	m.ZAdd(ctx, "trending", 200, "b1")
	m.ZAdd(ctx, "trending", 100, "b3")
	m.ZAdd(ctx, "trending", 100, "b0")

	members, err := m.ZRange(ctx, "trending", 0, -1)
	if err != nil {
		t.Fatalf("ZRange 失败: %v", err)
	}
	want := []string{"b1", "b0", "b2", "b3"}
	if len(members) != len(want) {
		t.Fatalf("期望 %d 个成员，实际得到 %d 个", len(want), len(members))
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("第 %d 个成员期望 %s，实际得到 %s", i, want[i], members[i])
		}
	}

	// 截取前 2 个
	top, _ := m.ZRange(ctx, "trending", 0, 1)
	if len(top) != 2 || top[0] != "b1" || top[1] != "b0" {
		t.Errorf("TopK 期望 [b1, b0]，实际得到 %v", top)
	}

	score, err := m.ZScore(ctx, "trending", "b1")
	if err != nil || score != 200 {
		t.Errorf("ZScore 期望 200，实际得到 %f (err=%v)", score, err)
	}
	if _, err := m.ZScore(ctx, "trending", "ghost"); !core.IsStoreNotFound(err) {
		t.Error("未知成员的 ZScore 应该报 NOT_FOUND")
	}
}

// TestMemoryStore_ScoreUpdate 测试重复 ZAdd 更新分数
func TestMemoryStore_ScoreUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	m.ZAdd(ctx, "k", 1, "a")
	m.ZAdd(ctx, "k", 10, "a")

	score, err := m.ZScore(ctx, "k", "a")
	if err != nil || score != 10 {
		t.Errorf("更新后的分数期望 10，实际得到 %f", score)
	}
}
