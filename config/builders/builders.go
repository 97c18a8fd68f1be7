// Package builders 注册内置 Node 的配置构建器。
// 在入口处 import _ ".../config/builders" 即可启用配置驱动的 Pipeline。
package builders

import (
	"fmt"

	"github.com/Marwan-ELsayed12/Grad/config"
	"github.com/Marwan-ELsayed12/Grad/filter"
	"github.com/Marwan-ELsayed12/Grad/pipeline"
	"github.com/Marwan-ELsayed12/Grad/pkg/conv"
	"github.com/Marwan-ELsayed12/Grad/rerank"
)

func init() {
	config.Register("blend.hybrid", BuildBlendNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildBlendNode 仅做类型占位：混排节点需要模型制品（特征空间、隐因子、
// 目录快照），无法单从配置构建，应在代码中装配后注入 Pipeline。
func BuildBlendNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("blend.hybrid requires a loaded model artifact; assemble it in code and inject into the pipeline")
}

// BuildFilterNode 从配置构建组合过滤节点。
//
// 配置示例：
//
//	type: filter
//	config:
//	  filters:
//	    - type: rule
//	      expr: 'item.meta.price > 100.0'
//	    - type: interacted
//	      threshold: 4.0
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		case "interacted":
			// 交互矩阵来自模型制品，配置只声明阈值；矩阵在代码中注入
			filters = append(filters, &filter.InteractedFilter{
				Threshold: conv.ConfigGetFloat64(filterMap, "threshold", 0),
			})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildTopNNode 从配置构建 Top-N 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
