// Package grad 是图书商城的混合推荐引擎。
//
// 设计要点：
//   - 三路打分（协同 / 内容 / 热度）按固定权重加法混排，单路故障弃权降级
//   - 模型制品不可变：一次训练发布一个版本，打分路径全部读同版本快照
//   - Pipeline 可组合：混排召回 → 过滤 → 截断，各 Node 可插拔扩展
//   - Labels 全链路透传，支持 explain / 观测 / 规则过滤
package grad

import "github.com/Marwan-ELsayed12/Grad/pipeline"

// 轻量 facade：便于直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
