package train

import (
	"context"
	"fmt"
	"time"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/feature"
	"github.com/Marwan-ELsayed12/Grad/model"
	"github.com/Marwan-ELsayed12/Grad/modelstore"
)

// Trainer 执行完整的离线训练流程并发布新制品：
//
//	快照拉取 -> 内容特征拟合 -> 交互矩阵 -> 隐因子分解 -> 种子计算 -> 发布
//
// 失败语义：任何一步失败都整体中止，已发布的版本保持不变，
// 错误以 TRAINING_FAILURE 上报给调用方（绝不吞掉）。
// 行为快照为空不是失败：协同那一路训练出空分解，打分时弃权。
type Trainer struct {
	Catalog  core.CatalogProvider
	Activity core.ActivityProvider
	Store    *modelstore.Store

	// Vectorizer / NMF 超参，零值时各自取默认
	Vectorizer *feature.Vectorizer
	NMF        *model.NMF
}

// failure 把底层错误包装为 TRAINING_FAILURE 领域错误。
func failure(step string, err error) error {
	return core.NewDomainError(core.ModuleTrain, core.ErrorCodeTrainingFailure,
		fmt.Sprintf("train: %s: %v", step, err))
}

// Retrain 执行一轮训练并发布，返回新版本号。
func (t *Trainer) Retrain(ctx context.Context) (int64, error) {
	books, err := t.Catalog.Books(ctx)
	if err != nil {
		return 0, failure("load catalog snapshot", err)
	}
	if len(books) == 0 {
		// 空目录训练不出任何可用制品
		return 0, core.NewDomainError(core.ModuleTrain, core.ErrorCodeTrainingFailure,
			"train: catalog snapshot is empty")
	}

	activities, err := t.Activity.Activities(ctx)
	if err != nil {
		return 0, failure("load activity snapshot", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, failure("canceled", err)
	}

	builder := &feature.Builder{Vectorizer: t.Vectorizer}
	if builder.Vectorizer == nil {
		builder.Vectorizer = feature.NewVectorizer()
	}
	vectors := builder.BuildContent(books)
	if err := ctx.Err(); err != nil {
		return 0, failure("canceled", err)
	}

	interactions := builder.BuildInteractions(books, activities)

	nmf := t.NMF
	if nmf == nil {
		nmf = &model.NMF{}
	}
	factors := nmf.Fit(interactions)
	if err := ctx.Err(); err != nil {
		return 0, failure("canceled", err)
	}

	artifact := &modelstore.Artifact{
		CreatedAt:    time.Now().UTC(),
		Vocabulary:   builder.Vectorizer.Vocabulary,
		BookVectors:  vectors,
		Books:        books,
		BookIndex:    interactions.BookIndex,
		Interactions: interactions.Rows,
		FavoriteSeed: feature.FavoriteSeeds(books, activities),
	}
	if factors != nil {
		artifact.UserFactors = factors.UserFactors
		artifact.ItemFactors = factors.ItemFactors
		artifact.Rank = factors.Rank
	}

	version, err := t.Store.Save(ctx, artifact)
	if err != nil {
		return 0, failure("publish artifact", err)
	}
	return version, nil
}
