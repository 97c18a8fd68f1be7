package blend

import "strings"

// Kind 是推荐类型：主体随类型变化（用户 / 源图书 / 类别）。
type Kind string

const (
	KindPersonalized Kind = "personalized" // 主体：用户
	KindSimilar      Kind = "similar"      // 主体：源图书
	KindTrending     Kind = "trending"     // 无主体，全局热榜
	KindGenre        Kind = "genre"        // 主体：类别标签
)

// ParseKind 解析推荐类型（大小写不敏感，兼容 "PERSONALIZED" 风格）。
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(s)) {
	case KindPersonalized:
		return KindPersonalized, true
	case KindSimilar:
		return KindSimilar, true
	case KindTrending:
		return KindTrending, true
	case KindGenre:
		return KindGenre, true
	}
	return "", false
}

// Weights 是混排权重策略：每路打分源的贡献乘以各自权重后相加。
// 权重之和是配置常量；调整权重不需要重新训练。
//
// 历史上存在两套并行的混排实现（模型制品驱动 0.6/0.4 两路版
// 与 SQL 聚合驱动 0.4/0.3/0.3 三路版），这里统一为一个可插拔权重集
// 的混排器，默认取三路版（取舍见 DESIGN.md）。
type Weights struct {
	Collaborative float64 `json:"collaborative" yaml:"collaborative"`
	Content       float64 `json:"content" yaml:"content"`
	Popularity    float64 `json:"popularity" yaml:"popularity"`
}

// DefaultWeights 返回默认权重：协同 0.4 / 内容 0.3 / 热度 0.3。
func DefaultWeights() Weights {
	return Weights{Collaborative: 0.4, Content: 0.3, Popularity: 0.3}
}

// Total 返回配置的权重总和。
func (w Weights) Total() float64 {
	return w.Collaborative + w.Content + w.Popularity
}

// Rescale 在部分打分源弃权时重新归一：激活的权重按比例放大，
// 使其总和仍等于配置常量。全部弃权时返回零值。
func (w Weights) Rescale(collabActive, contentActive, popActive bool) Weights {
	var activeSum float64
	if collabActive {
		activeSum += w.Collaborative
	}
	if contentActive {
		activeSum += w.Content
	}
	if popActive {
		activeSum += w.Popularity
	}
	if activeSum == 0 {
		return Weights{}
	}

	scale := w.Total() / activeSum
	out := Weights{}
	if collabActive {
		out.Collaborative = w.Collaborative * scale
	}
	if contentActive {
		out.Content = w.Content * scale
	}
	if popActive {
		out.Popularity = w.Popularity * scale
	}
	return out
}
