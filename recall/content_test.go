package recall

import (
	"context"
	"math"
	"testing"

	"github.com/Marwan-ELsayed12/Grad/core"
)

func testContentScorer() *ContentScorer {
	// 手工构造的 L2 归一化向量：b1 与 b2 部分重叠，b3 正交
	return &ContentScorer{
		Vectors: map[string]map[string]float64{
			"b1": {"scifi": 0.8, "desert": 0.6},
			"b2": {"scifi": 0.6, "empire": 0.8},
			"b3": {"romance": 1.0},
		},
	}
}

// TestContentScorer_SimilarBooks 测试相似召回的核心契约
func TestContentScorer_SimilarBooks(t *testing.T) {
	s := testContentScorer()
	ctx := context.Background()

	items, err := s.SimilarBooks(ctx, "b1", 10)
	if err != nil {
		t.Fatalf("相似召回失败: %v", err)
	}

	// b3 与 b1 正交（相似度 0），不应该出现；b1 自身也不出现
	if len(items) != 1 {
		t.Fatalf("期望 1 个结果，实际得到 %d 个", len(items))
	}
	if items[0].ID != "b2" {
		t.Errorf("期望召回 b2，实际得到 %s", items[0].ID)
	}
	if items[0].Score <= 0 || items[0].Score > 1 {
		t.Errorf("余弦相似度应该落在 (0,1]，实际得到 %f", items[0].Score)
	}
}

// TestContentScorer_UnknownBook 测试未知图书报 NOT_FOUND
func TestContentScorer_UnknownBook(t *testing.T) {
	s := testContentScorer()

	_, err := s.SimilarBooks(context.Background(), "ghost", 10)
	if err == nil {
		t.Fatal("未知图书应该报错而不是静默返回")
	}
	if !core.IsNotFound(err) {
		t.Errorf("期望 NOT_FOUND 错误，实际得到 %v", err)
	}
}

// TestContentScorer_KClamp 测试 k 被钳制到 MaxK
func TestContentScorer_KClamp(t *testing.T) {
	s := testContentScorer()
	s.MaxK = 1
	s.Vectors["b4"] = map[string]float64{"scifi": 1.0}

	items, err := s.SimilarBooks(context.Background(), "b1", 100)
	if err != nil {
		t.Fatalf("相似召回失败: %v", err)
	}
	if len(items) > 1 {
		t.Errorf("k 应该被钳制到 MaxK=1，实际返回 %d 个", len(items))
	}
}

// TestCosineSimilarity 测试余弦相似度的边界
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]float64
		want float64
	}{
		{"完全一致", map[string]float64{"x": 0.6, "y": 0.8}, map[string]float64{"x": 0.6, "y": 0.8}, 1.0},
		{"正交", map[string]float64{"x": 1}, map[string]float64{"y": 1}, 0.0},
		{"零向量", map[string]float64{}, map[string]float64{"x": 1}, 0.0},
		{"部分重叠", map[string]float64{"x": 1}, map[string]float64{"x": 0.6, "y": 0.8}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("期望 %f，实际得到 %f", tt.want, got)
			}
		})
	}
}
