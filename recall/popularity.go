package recall

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// PopularityScorer 是热度打分源：全局的、与用户无关的趋势排行，
// 既是混排的一路信号，也是模型缺失时的兜底。
//
// 综合热度 = 浏览量×0.4 + 评分数×0.3 + 购买数×0.3，
// 有均分时再乘 (均分/满分)。零评论/零订单的书保留在榜上（计 0 分），
// 绝不从排行中丢弃。
//
// 综合值无上界，参与混排前做 min-max 归一化到 [0,1]
// （与余弦相似度同一量纲，归一化方式的取舍见 DESIGN.md）。
//
// 读取路径：
//   - 如果配置了 Store + Key，优先读有序集合（离线任务维护的 trending 榜）
//   - 否则从图书快照现算
type PopularityScorer struct {
	// Books 图书快照（含聚合计数），现算路径的数据源
	Books []*core.Book

	// Store / Key 可选的 trending 有序集合（仅全局榜，带类别约束时现算）
	Store core.KeyValueStore
	Key   string

	// 各计数的权重，全为 0 时取默认 0.4 / 0.3 / 0.3
	ViewWeight     float64
	RatingWeight   float64
	PurchaseWeight float64

	// MaxRating 满分，<=0 时取默认 5
	MaxRating float64
}

const defaultPopularityK = 10

func (s *PopularityScorer) Name() string {
	return "recall.popularity"
}

// Scores 返回 min-max 归一化后的热度分（图书 ID -> [0,1]）。
// genre 非空时只统计带该类别标签的书。
func (s *PopularityScorer) Scores(ctx context.Context, genre string) (map[string]float64, error) {
	raw := s.rawScores(genre)
	normalizeMinMax(raw)
	return raw, nil
}

// TopBooks 返回热度 TopK。全局榜优先走有序集合快路径，降级为现算。
func (s *PopularityScorer) TopBooks(ctx context.Context, genre string, k int) ([]*core.Item, error) {
	if k <= 0 {
		k = defaultPopularityK
	}

	if genre == "" && s.Store != nil && s.Key != "" {
		if items := s.fromSortedSet(ctx, k); len(items) > 0 {
			return items, nil
		}
	}

	scores, err := s.Scores(ctx, genre)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Item, 0, len(scores))
	for bookID, score := range scores {
		it := core.NewItem(bookID)
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	core.SortItems(out)
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Recall 实现 Source 接口。
func (s *PopularityScorer) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	genre := ""
	if rctx != nil {
		genre = rctx.Genre
	}
	return s.TopBooks(ctx, genre, defaultPopularityK)
}

func (s *PopularityScorer) rawScores(genre string) map[string]float64 {
	viewW, ratingW, purchaseW := s.ViewWeight, s.RatingWeight, s.PurchaseWeight
	if viewW == 0 && ratingW == 0 && purchaseW == 0 {
		viewW, ratingW, purchaseW = 0.4, 0.3, 0.3
	}
	maxRating := s.MaxRating
	if maxRating <= 0 {
		maxRating = 5
	}

	out := make(map[string]float64, len(s.Books))
	for _, book := range s.Books {
		if genre != "" && !book.HasGenre(genre) {
			continue
		}
		score := float64(book.ViewCount)*viewW +
			float64(book.RatingCount)*ratingW +
			float64(book.PurchaseCount)*purchaseW
		if book.AvgRating > 0 {
			score *= book.AvgRating / maxRating
		}
		out[book.ID] = score
	}
	return out
}

// fromSortedSet 从 trending 有序集合读 TopK；集合为空或读取失败时返回 nil，
// 由调用方降级到现算路径。
func (s *PopularityScorer) fromSortedSet(ctx context.Context, k int) []*core.Item {
	members, err := s.Store.ZRange(ctx, s.Key, 0, int64(k)-1)
	if err != nil || len(members) == 0 {
		return nil
	}

	scores := make(map[string]float64, len(members))
	for _, member := range members {
		score, err := s.Store.ZScore(ctx, s.Key, member)
		if err != nil {
			score = 0
		}
		scores[member] = score
	}
	normalizeMinMax(scores)

	out := make([]*core.Item, 0, len(members))
	for _, member := range members {
		it := core.NewItem(member)
		it.Score = scores[member]
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		it.PutLabel("popularity_path", utils.Label{Value: "sorted_set", Source: "recall"})
		out = append(out, it)
	}
	core.SortItems(out)
	return out
}

// normalizeMinMax 把分数就地归一化到 [0,1]。
// 全部同分时统一记 1（榜上有名即有效信号）；空 map 安全。
func normalizeMinMax(scores map[string]float64) {
	if len(scores) == 0 {
		return
	}
	first := true
	var min, max float64
	for _, v := range scores {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		for k := range scores {
			scores[k] = 1
		}
		return
	}
	for k, v := range scores {
		scores[k] = (v - min) / (max - min)
	}
}
