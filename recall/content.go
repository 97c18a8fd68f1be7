package recall

import (
	"context"
	"fmt"
	"math"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// ContentScorer 是基于内容的打分源（Content-Based Recommendation）。
//
// 核心思想："读者喜欢具有某些内容特征的书，推荐具有相似特征的其他书"
//
// 数据来自已拟合的内容特征空间（TF-IDF 向量，见 feature 包）：
// 向量已 L2 归一化，余弦相似度落在 [0,1]，1 = 内容一致，0 = 正交。
type ContentScorer struct {
	// Vectors 图书 ID -> 内容特征向量（来自模型制品，本训练版本内不可变）
	Vectors map[string]map[string]float64

	// MaxK 单次查询返回的相似图书上限，<=0 时取默认 50
	MaxK int
}

const (
	defaultMaxK     = 50
	defaultContentK = 10
)

func (s *ContentScorer) Name() string {
	return "recall.content"
}

// SimilarBooks 返回与指定图书内容最相似的 TopK 其他图书。
//
// 契约：
//   - bookID 不在特征空间中 → NOT_FOUND 错误（绝不静默返回占位结果）
//   - 自身永远不出现在结果里
//   - k 被钳制到 MaxK；k<=0 时取默认 10
//   - 相似度降序，同分按图书 ID 升序
func (s *ContentScorer) SimilarBooks(ctx context.Context, bookID string, k int) ([]*core.Item, error) {
	source, ok := s.Vectors[bookID]
	if !ok {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeNotFound,
			fmt.Sprintf("recall: book %q not in fitted feature space", bookID))
	}

	maxK := s.MaxK
	if maxK <= 0 {
		maxK = defaultMaxK
	}
	if k <= 0 {
		k = defaultContentK
	}
	if k > maxK {
		k = maxK
	}

	out := make([]*core.Item, 0, len(s.Vectors))
	for otherID, vec := range s.Vectors {
		if otherID == bookID {
			continue // 排除自相似
		}
		score := CosineSimilarity(source, vec)
		if score <= 0 {
			continue
		}
		it := core.NewItem(otherID)
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}

	core.SortItems(out)
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Recall 实现 Source 接口：以 rctx.BookID 为种子做相似图书召回。
func (s *ContentScorer) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.BookID == "" {
		return nil, nil
	}
	return s.SimilarBooks(ctx, rctx.BookID, defaultContentK)
}

// CosineSimilarity 计算两个稀疏特征向量的余弦相似度。
// 向量各分量非负时结果落在 [0,1]；任一向量为零向量时返回 0。
func CosineSimilarity(a, b map[string]float64) float64 {
	// 遍历较小的向量即可得到点积
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for k, valA := range small {
		if valB, ok := large[k]; ok {
			dot += valA * valB
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
