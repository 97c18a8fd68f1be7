package recall

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/model"
	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// CollaborativeScorer 是基于隐因子模型的协同过滤打分源。
//
// 核心思想：把用户的交互行投影到训练好的隐因子空间，
// 重建该用户对全量图书的预测交互强度（离线分解，在线查表点积）。
//
// 冷启动语义（软失败，不是错误）：
//   - 用户没有任何交互历史 → 空结果
//   - 用户在训练之后才出现（不在训练矩阵中）→ 同样走空结果路径
//
// 混排器必须用其他打分源补偿冷启动用户。
type CollaborativeScorer struct {
	// Factors 训练好的隐因子分解（来自模型制品）
	Factors *model.Factorization

	// Interactions 训练时的交互矩阵行，用于排除已强交互的图书
	Interactions map[string]map[string]float64

	// StrongThreshold 强交互阈值（评分等价量），<=0 时取默认 4.0
	StrongThreshold float64
}

const (
	defaultStrongThreshold = 4.0
	defaultCFK             = 10
)

func (s *CollaborativeScorer) Name() string {
	return "recall.cf"
}

// PredictForUser 返回用户对所有未强交互图书的预测亲和度，
// 按全局最大值归一化到 [0,1]。冷启动返回空 map，不返回错误。
func (s *CollaborativeScorer) PredictForUser(ctx context.Context, userID string) (map[string]float64, error) {
	if s.Factors == nil || userID == "" {
		return map[string]float64{}, nil
	}

	predictions := s.Factors.Predict(userID)
	if len(predictions) == 0 {
		// 冷启动：用户不在训练矩阵中
		return map[string]float64{}, nil
	}

	threshold := s.StrongThreshold
	if threshold <= 0 {
		threshold = defaultStrongThreshold
	}
	interacted := s.Interactions[userID]

	// 重建强度无上界，按全量预测的最大值归一化到 [0,1] 再参与混排。
	// 注意归一化基准取排除之前的最大值：排除强交互后只剩残差噪声时，
	// 不能把噪声放大成满分信号。
	var max float64
	for _, score := range predictions {
		if score > max {
			max = score
		}
	}
	if max <= 0 {
		return map[string]float64{}, nil
	}

	out := make(map[string]float64, len(predictions))
	for bookID, score := range predictions {
		if score <= 0 {
			continue
		}
		// 已强交互的书不再推荐
		if interacted != nil && interacted[bookID] >= threshold {
			continue
		}
		out[bookID] = score / max
	}
	return out, nil
}

// Recommend 返回排序后的 TopK 协同推荐（确定性顺序：分数降序、ID 升序）。
func (s *CollaborativeScorer) Recommend(ctx context.Context, userID string, k int) ([]*core.Item, error) {
	scores, err := s.PredictForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = defaultCFK
	}

	out := make([]*core.Item, 0, len(scores))
	for bookID, score := range scores {
		it := core.NewItem(bookID)
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: "cf", Source: "recall"})
		out = append(out, it)
	}
	core.SortItems(out)
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Recall 实现 Source 接口。
func (s *CollaborativeScorer) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	return s.Recommend(ctx, rctx.UserID, defaultCFK)
}
