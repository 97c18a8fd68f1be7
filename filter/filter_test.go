package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// TestInteractedFilter 测试强交互过滤
func TestInteractedFilter(t *testing.T) {
	f := &InteractedFilter{
		Interactions: map[string]map[string]float64{
			"u1": {"b1": 5, "b2": 3},
		},
	}
	rctx := &core.RecommendContext{UserID: "u1"}
	ctx := context.Background()

	tests := []struct {
		name   string
		rctx   *core.RecommendContext
		bookID string
		want   bool
	}{
		{"强交互被过滤", rctx, "b1", true},
		{"弱交互保留", rctx, "b2", false},
		{"未交互保留", rctx, "b3", false},
		{"匿名请求不过滤", &core.RecommendContext{}, "b1", false},
		{"无历史用户不过滤", &core.RecommendContext{UserID: "u2"}, "b1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, tt.rctx, core.NewItem(tt.bookID))
			if err != nil {
				t.Fatalf("过滤判断失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("期望 %v，实际得到 %v", tt.want, got)
			}
		})
	}
}

// TestRuleFilter 测试 CEL 规则过滤
func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1"}
	ctx := context.Background()

	expensive := core.NewItem("b1")
	expensive.Meta["price"] = 120.0
	cheap := core.NewItem("b2")
	cheap.Meta["price"] = 30.0

	f := &RuleFilter{Expr: "item.meta.price > 100.0"}

	got, err := f.ShouldFilter(ctx, rctx, expensive)
	if err != nil {
		t.Fatalf("规则过滤失败: %v", err)
	}
	if !got {
		t.Error("高价图书应该命中规则被过滤")
	}

	got, err = f.ShouldFilter(ctx, rctx, cheap)
	if err != nil {
		t.Fatalf("规则过滤失败: %v", err)
	}
	if got {
		t.Error("低价图书不应该被过滤")
	}

	// 空表达式不过滤；表达式错误时保留结果
	empty := &RuleFilter{}
	if got, _ := empty.ShouldFilter(ctx, rctx, cheap); got {
		t.Error("空表达式不应该过滤任何结果")
	}
	broken := &RuleFilter{Expr: "this is not a valid expression !!!"}
	if got, _ := broken.ShouldFilter(ctx, rctx, cheap); got {
		t.Error("表达式错误时应该保留结果")
	}
}

type alwaysFilter struct{ err error }

func (f *alwaysFilter) Name() string { return "filter.always" }
func (f *alwaysFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, _ *core.Item) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

// TestFilterNode 测试组合过滤节点：任一命中即过滤，错误不中断流程
func TestFilterNode(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: "u1"}
	items := []*core.Item{core.NewItem("b1"), core.NewItem("b2")}

	// 过滤器报错时该过滤器被跳过，物品保留
	n := &FilterNode{Filters: []Filter{&alwaysFilter{err: errors.New("boom")}}}
	out, err := n.Process(ctx, rctx, items)
	if err != nil {
		t.Fatalf("过滤节点失败: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("过滤器错误时应该保留全部物品，实际剩 %d 个", len(out))
	}

	// 命中过滤器的物品被移除并打标
	n = &FilterNode{Filters: []Filter{
		&InteractedFilter{Interactions: map[string]map[string]float64{"u1": {"b1": 5}}},
	}}
	out, err = n.Process(ctx, rctx, items)
	if err != nil {
		t.Fatalf("过滤节点失败: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b2" {
		t.Fatalf("期望只剩 b2，实际得到 %v", out)
	}
	if lbl, ok := items[0].Labels["filtered"]; !ok || lbl.Source != "filter.interacted" {
		t.Error("被过滤的物品应该带 filtered 标签并记录来源")
	}
}
