package service

import (
	"context"
	"sync/atomic"

	"github.com/Marwan-ELsayed12/Grad/blend"
	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/modelstore"
	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
	"github.com/Marwan-ELsayed12/Grad/recall"
	"github.com/Marwan-ELsayed12/Grad/train"
)

// Recommender 是推荐服务门面：持有当前生效的模型制品，
// 对外提供推荐查询和重训练两个入口。
//
// 并发模型：制品通过 atomic.Pointer 发布，查询侧无锁读取；
// Retrain 在后台完成训练后一次性切换，进行中的查询继续使用旧制品。
//
// 降级语义：尚无已训练制品时不报错，退化为基于在线目录的热度推荐；
// 连目录也没有时返回空列表。
type Recommender struct {
	Trainer *train.Trainer
	Store   *modelstore.Store

	// Catalog 在线目录（降级模式的数据源），可以与 Trainer.Catalog 相同
	Catalog core.CatalogProvider

	// Weights 混排默认权重，零值时取 blend.DefaultWeights
	Weights blend.Weights

	// MaxN 单次请求返回上限，<=0 时取默认 50
	MaxN int

	current atomic.Pointer[modelstore.Artifact]
}

// Request 是一次推荐查询。
type Request struct {
	Kind   blend.Kind
	UserID string // PERSONALIZED
	BookID string // SIMILAR
	Genre  string // GENRE
	N      int

	// Weights 请求级权重覆盖（可选），用于线上 A/B 调参
	Weights *blend.Weights
}

// Reload 从存储加载当前生效的制品并切换。
// 从未训练过时清空当前制品（进入降级模式），不报错。
func (r *Recommender) Reload(ctx context.Context) error {
	artifact, err := r.Store.Load(ctx)
	if err != nil {
		return err
	}
	r.current.Store(artifact)
	return nil
}

// Retrain 触发一轮训练；成功后新制品立即生效。
// 训练失败时当前制品保持不变，错误原样上报。
func (r *Recommender) Retrain(ctx context.Context) (int64, error) {
	version, err := r.Trainer.Retrain(ctx)
	if err != nil {
		return 0, err
	}
	artifact, err := r.Store.LoadVersion(ctx, version)
	if err != nil {
		return 0, err
	}
	r.current.Store(artifact)
	return version, nil
}

// Current 返回当前生效的制品；尚无制品时返回 nil。
func (r *Recommender) Current() *modelstore.Artifact {
	return r.current.Load()
}

// Recommendations 执行一次推荐查询。
func (r *Recommender) Recommendations(ctx context.Context, req Request) ([]*core.Item, error) {
	artifact := r.current.Load()
	if artifact == nil {
		return r.degraded(ctx, req)
	}

	blender := r.blenderFor(artifact, req)
	rctx := &core.RecommendContext{
		UserID: req.UserID,
		BookID: req.BookID,
		Genre:  req.Genre,
		Scene:  string(req.Kind),
	}
	return blender.Recommend(ctx, rctx, req.Kind, req.N)
}

// blenderFor 用制品内容装配一个混排器。制品不可变，装配是纯引用传递。
func (r *Recommender) blenderFor(artifact *modelstore.Artifact, req Request) *blend.Blender {
	weights := r.Weights
	if req.Weights != nil {
		weights = *req.Weights
	}
	if weights.Total() == 0 {
		weights = blend.DefaultWeights()
	}

	factors := artifact.Factorization()

	return &blend.Blender{
		Content: &recall.ContentScorer{
			Vectors: artifact.BookVectors,
			MaxK:    r.MaxN,
		},
		Collaborative: &recall.CollaborativeScorer{
			Factors:      factors,
			Interactions: artifact.Interactions,
		},
		Popularity: &recall.PopularityScorer{
			Books: artifact.Books,
		},
		Books:        artifact.BooksByID(),
		Seeds:        artifact.FavoriteSeed,
		Interactions: artifact.Interactions,
		Weights:      weights,
		MaxN:         r.MaxN,
	}
}

// degraded 是无制品时的降级路径：基于在线目录的热度推荐。
// SIMILAR 类查询需要特征空间，此时报 MODEL_UNAVAILABLE。
func (r *Recommender) degraded(ctx context.Context, req Request) ([]*core.Item, error) {
	// 相似推荐离了特征空间无从谈起
	if req.Kind == blend.KindSimilar {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelUnavailable,
			"service: no trained model for similarity recommendation")
	}

	if r.Catalog == nil {
		return []*core.Item{}, nil
	}
	books, err := r.Catalog.Books(ctx)
	if err != nil || len(books) == 0 {
		return []*core.Item{}, nil
	}

	scorer := &recall.PopularityScorer{Books: books}
	genre := ""
	if req.Kind == blend.KindGenre {
		genre = req.Genre
	}
	items, err := scorer.TopBooks(ctx, genre, req.N)
	if err != nil {
		return []*core.Item{}, nil
	}
	for _, it := range items {
		it.Reason = blend.ReasonPopularity
		it.PutLabel("degraded", utils.Label{Value: "no_model", Source: "service"})
	}
	return items, nil
}
