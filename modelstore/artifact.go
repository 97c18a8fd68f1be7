package modelstore

import (
	"time"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/model"
)

// Artifact 是一次训练的完整产物：打分所需的全部数据的一致快照。
//
// 不可变约定：制品发布后只读，调整混排权重不需要重新生成制品。
// 打分路径上的所有查询（词表、向量、隐因子、目录、交互行、种子）
// 都来自同一个制品，因此同版本内相互一致。
type Artifact struct {
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Vocabulary 词项 -> IDF 权重（内容特征空间的定义）
	Vocabulary map[string]float64 `json:"vocabulary"`

	// BookVectors 图书 ID -> L2 归一化的 TF-IDF 向量
	BookVectors map[string]map[string]float64 `json:"book_vectors"`

	// UserFactors / ItemFactors 隐因子分解的两半（协同打分用）
	UserFactors map[string][]float64 `json:"user_factors"`
	ItemFactors map[string][]float64 `json:"item_factors"`
	Rank        int                  `json:"rank"`

	// Books 训练时的目录快照（含热度计数）
	Books []*core.Book `json:"books"`

	// BookIndex 本训练版本的列索引空间（排序后的图书 ID）。
	// 跨版本不稳定，严禁作为外键持久化到其他实体。
	BookIndex []string `json:"book_index"`

	// Interactions 训练时的交互矩阵行（用户 -> 图书 -> 强度）
	Interactions map[string]map[string]float64 `json:"interactions"`

	// FavoriteSeed 用户 -> 最近收藏的图书（个性化推荐的内容种子）
	FavoriteSeed map[string]string `json:"favorite_seed"`
}

// Factorization 把隐因子两半还原为可预测的分解对象。
// 制品里没有任何隐因子（行为快照为空时训练）则返回 nil，协同那一路弃权。
func (a *Artifact) Factorization() *model.Factorization {
	if len(a.UserFactors) == 0 || len(a.ItemFactors) == 0 {
		return nil
	}
	return &model.Factorization{
		Rank:        a.Rank,
		UserFactors: a.UserFactors,
		ItemFactors: a.ItemFactors,
	}
}

// BooksByID 把目录快照索引成 map，方便成员资格检查和标题查询。
func (a *Artifact) BooksByID() map[string]*core.Book {
	out := make(map[string]*core.Book, len(a.Books))
	for _, b := range a.Books {
		if b != nil {
			out[b.ID] = b
		}
	}
	return out
}
