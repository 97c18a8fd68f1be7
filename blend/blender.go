package blend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pipeline"
	"github.com/Marwan-ELsayed12/Grad/pkg/conv"
	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// ContentSource 是混排器消费的内容打分接口（由 recall.ContentScorer 实现）。
type ContentSource interface {
	SimilarBooks(ctx context.Context, bookID string, k int) ([]*core.Item, error)
}

// AffinitySource 是协同打分接口（由 recall.CollaborativeScorer 实现）。
type AffinitySource interface {
	PredictForUser(ctx context.Context, userID string) (map[string]float64, error)
}

// TrendSource 是热度打分接口（由 recall.PopularityScorer 实现）。
type TrendSource interface {
	Scores(ctx context.Context, genre string) (map[string]float64, error)
	TopBooks(ctx context.Context, genre string, k int) ([]*core.Item, error)
}

// 推荐理由文案：从贡献占比最大的打分源带出。
const (
	ReasonContent       = "Based on book content similarity"
	ReasonCollaborative = "Based on similar users' preferences"
	ReasonPopularity    = "Popular among readers"
)

// Blender 把三路打分源按固定权重混排为一个推荐列表。
//
// 合并策略是加法：同一本书的各路贡献相加（不取 max、不取平均），
// 被两路推荐的书在单路分数相同时必然排在只被一路推荐的书前面。
//
// 弃权语义：某路打分源失败或给出空结果时视为弃权，剩余权重重新归一，
// 失败记录为标签，绝不让单路故障打断整次混排。
// 空结果是合法答案（全新用户、无已训练模型），绝不报错。
type Blender struct {
	Content       ContentSource
	Collaborative AffinitySource
	Popularity    TrendSource

	// Books 是本模型版本的目录快照：结果里的每本书都必须在快照中
	Books map[string]*core.Book

	// Seeds 用户 -> 最近收藏的图书，PERSONALIZED 的内容种子
	Seeds map[string]string

	// Interactions 训练时交互行，用于把已强交互的书排除出个性化结果
	Interactions    map[string]map[string]float64
	StrongThreshold float64

	Weights Weights

	// MaxN 单次请求返回上限，<=0 时取默认 50
	MaxN int
}

const (
	defaultN    = 10
	defaultMaxN = 50
)

// Recommend 是混排的唯一入口。
// 主体从 rctx 读取：PERSONALIZED 用 UserID，SIMILAR 用 BookID，GENRE 用 Genre。
func (b *Blender) Recommend(ctx context.Context, rctx *core.RecommendContext, kind Kind, n int) ([]*core.Item, error) {
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	maxN := b.MaxN
	if maxN <= 0 {
		maxN = defaultMaxN
	}
	if n <= 0 {
		n = defaultN
	}
	if n > maxN {
		n = maxN
	}

	switch kind {
	case KindSimilar:
		return b.similar(ctx, rctx, n)
	case KindTrending:
		return b.trending(ctx, "", n)
	case KindGenre:
		return b.trending(ctx, rctx.Genre, n)
	case KindPersonalized:
		return b.personalized(ctx, rctx, n)
	default:
		return nil, core.NewDomainError(core.ModuleBlend, core.ErrorCodeInvalidInput,
			fmt.Sprintf("blend: unknown recommendation kind %q", kind))
	}
}

// similar 只用内容打分源：未知图书按 ContentScorer 契约报 NOT_FOUND。
func (b *Blender) similar(ctx context.Context, rctx *core.RecommendContext, n int) ([]*core.Item, error) {
	if b.Content == nil || rctx.BookID == "" {
		return nil, core.NewDomainError(core.ModuleBlend, core.ErrorCodeInvalidInput,
			"blend: similar recommendation requires a source book id")
	}
	items, err := b.Content.SimilarBooks(ctx, rctx.BookID, n)
	if err != nil {
		return nil, err
	}

	reason := ReasonContent
	if src, ok := b.Books[rctx.BookID]; ok && src.Title != "" {
		reason = "Similar to " + src.Title
	}
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if !b.inSnapshot(it.ID) {
			continue
		}
		it.Reason = reason
		out = append(out, it)
	}
	return out, nil
}

// trending 只用热度打分源（genre 为空时是全局榜）。
func (b *Blender) trending(ctx context.Context, genre string, n int) ([]*core.Item, error) {
	if b.Popularity == nil {
		return []*core.Item{}, nil
	}
	items, err := b.Popularity.TopBooks(ctx, genre, n)
	if err != nil {
		return []*core.Item{}, nil
	}
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if !b.inSnapshot(it.ID) {
			continue
		}
		it.Reason = ReasonPopularity
		out = append(out, it)
	}
	return out, nil
}

// personalized 并发调起三路打分源并做加权合并。
func (b *Blender) personalized(ctx context.Context, rctx *core.RecommendContext, n int) ([]*core.Item, error) {
	userID := rctx.UserID

	var (
		collabScores  map[string]float64
		contentScores map[string]float64
		popScores     map[string]float64

		collabErr, contentErr, popErr error
	)
	seedID := b.Seeds[userID]

	// 三路打分互不依赖，并发执行；单路失败降级为弃权，不中断整体。
	// 每个 goroutine 只写自己的变量，标签在 Wait 之后统一记录。
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if b.Collaborative == nil || userID == "" {
			return nil
		}
		scores, err := b.Collaborative.PredictForUser(gctx, userID)
		if err != nil {
			collabErr = err
			return nil
		}
		collabScores = scores
		return nil
	})
	g.Go(func() error {
		if b.Content == nil || seedID == "" {
			return nil
		}
		items, err := b.Content.SimilarBooks(gctx, seedID, b.maxN())
		if err != nil {
			contentErr = err
			return nil
		}
		scores := make(map[string]float64, len(items))
		for _, it := range items {
			scores[it.ID] = it.Score
		}
		contentScores = scores
		return nil
	})
	g.Go(func() error {
		if b.Popularity == nil {
			return nil
		}
		scores, err := b.Popularity.Scores(gctx, "")
		if err != nil {
			popErr = err
			return nil
		}
		popScores = scores
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if collabErr != nil {
		rctx.PutLabel("scorer_error", utils.Label{Value: "cf:" + collabErr.Error(), Source: "blend"})
	}
	if contentErr != nil {
		rctx.PutLabel("scorer_error", utils.Label{Value: "content:" + contentErr.Error(), Source: "blend"})
	}
	if popErr != nil {
		rctx.PutLabel("scorer_error", utils.Label{Value: "popularity:" + popErr.Error(), Source: "blend"})
	}

	weights := b.weights().Rescale(len(collabScores) > 0, len(contentScores) > 0, len(popScores) > 0)

	// 加法合并，逐书记录每路贡献
	type contribution struct {
		collab, content, popularity float64
	}
	contribs := make(map[string]*contribution)
	add := func(bookID string) *contribution {
		c, ok := contribs[bookID]
		if !ok {
			c = &contribution{}
			contribs[bookID] = c
		}
		return c
	}
	for bookID, score := range collabScores {
		add(bookID).collab = score * weights.Collaborative
	}
	for bookID, score := range contentScores {
		add(bookID).content = score * weights.Content
	}
	for bookID, score := range popScores {
		add(bookID).popularity = score * weights.Popularity
	}

	threshold := b.StrongThreshold
	if threshold <= 0 {
		threshold = 4.0
	}
	interacted := b.Interactions[userID]

	out := make([]*core.Item, 0, len(contribs))
	for bookID, c := range contribs {
		// 结果里的书必须存在于本版本的目录快照
		if !b.inSnapshot(bookID) {
			continue
		}
		// 种子本身与已强交互的书不再推荐
		if bookID == seedID {
			continue
		}
		if interacted != nil && interacted[bookID] >= threshold {
			continue
		}

		it := core.NewItem(bookID)
		it.Score = c.collab + c.content + c.popularity
		it.Reason = dominantReason(c.collab, c.content, c.popularity)
		if c.collab > 0 {
			it.PutLabel("recall_source", utils.Label{Value: "cf", Source: "blend"})
		}
		if c.content > 0 {
			it.PutLabel("recall_source", utils.Label{Value: "content", Source: "blend"})
		}
		if c.popularity > 0 {
			it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "blend"})
		}
		out = append(out, it)
	}

	core.SortItems(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// dominantReason 带出贡献占比最大一路的理由；同分时按协同 > 内容 > 热度。
func dominantReason(collab, content, popularity float64) string {
	switch {
	case collab >= content && collab >= popularity && collab > 0:
		return ReasonCollaborative
	case content >= popularity && content > 0:
		return ReasonContent
	default:
		return ReasonPopularity
	}
}

func (b *Blender) inSnapshot(bookID string) bool {
	if b.Books == nil {
		return true
	}
	_, ok := b.Books[bookID]
	return ok
}

func (b *Blender) weights() Weights {
	if b.Weights.Total() == 0 {
		return DefaultWeights()
	}
	return b.Weights
}

func (b *Blender) maxN() int {
	if b.MaxN <= 0 {
		return defaultMaxN
	}
	return b.MaxN
}

// Node 接口实现：混排器可以直接作为 Pipeline 的召回节点，
// 推荐类型从 rctx.Scene 读取，返回条数从 rctx.Params["count"] 读取。

func (b *Blender) Name() string {
	return "blend.hybrid"
}

func (b *Blender) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (b *Blender) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	kind := KindPersonalized
	if rctx != nil && rctx.Scene != "" {
		if k, ok := ParseKind(rctx.Scene); ok {
			kind = k
		}
	}
	n := defaultN
	if rctx != nil {
		n = int(conv.ConfigGetInt64(rctx.Params, "count", defaultN))
	}
	return b.Recommend(ctx, rctx, kind, n)
}
