package filter

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// InteractedFilter 过滤掉用户已经强交互过的图书（高评分 / 已购买 / 已收藏）。
// 交互矩阵来自训练快照：和模型同版本，保证过滤口径与训练口径一致。
type InteractedFilter struct {
	// Interactions 用户 -> 图书 -> 交互强度
	Interactions map[string]map[string]float64

	// Threshold 强交互阈值（评分等价量），<=0 时取默认 4.0
	Threshold float64
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	row := f.Interactions[rctx.UserID]
	if row == nil {
		return false, nil
	}

	threshold := f.Threshold
	if threshold <= 0 {
		threshold = 4.0
	}
	return row[item.ID] >= threshold, nil
}
