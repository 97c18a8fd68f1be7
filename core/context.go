package core

import "github.com/Marwan-ELsayed12/Grad/pkg/utils"

// RecommendContext 承载一次推荐请求的主体信息，贯穿整个链路透传。
// 不同推荐类型读取不同字段：PERSONALIZED 读 UserID，SIMILAR 读 BookID，
// GENRE 读 Genre。Scene 可携带推荐类型，供配置驱动的 Pipeline 使用。
type RecommendContext struct {
	UserID string // 使用 string 类型（通用，支持所有 ID 格式）
	BookID string // SIMILAR 的源图书
	Genre  string // GENRE 的类别标签
	Scene  string // 场景/推荐类型，如 "personalized" / "trending"

	// Labels 是请求级标签，可驱动过滤与观测
	// 例如：冷启动用户、降级模式等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（价格上限、排除清单等，由过滤规则消费）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
