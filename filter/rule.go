package filter

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器，用于运营侧按需下线结果，
// 无需改代码发版。表达式命中（求值为 true）的图书会被过滤掉。
//
// 示例：
//   - `item.meta.price > 100.0` → 下线高价图书
//   - `label.recall_source == "popularity" && item.score < 0.1` → 下线低分热榜项
type RuleFilter struct {
	// Expr CEL 表达式，空表达式不过滤任何结果
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误时保留结果，宁可多推不可误杀
		return false, nil
	}
	return matched, nil
}
