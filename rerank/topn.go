package rerank

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在混排之后截取前 N 本图书。
//
// 使用场景：
//   - 混排后只返回 Top 10/20/50 个结果
//   - 控制推荐结果数量
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        blender,                  // 混排召回
//	        &filter.FilterNode{...},  // 过滤
//	        &rerank.TopNNode{N: 20},  // 截取 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要保留的图书数量（Top N）
	// 如果 N <= 0 或 N > len(items)，则返回所有图书（不截断）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
