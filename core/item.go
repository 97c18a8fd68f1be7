package core

import (
	"sort"

	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// Item 是推荐链路中的统一承载结构：图书 ID、混合分数、推荐理由、标签。
// Score 用于排序决策；Reason 是面向用户的解释文案；Labels 用于观测与策略驱动。
type Item struct {
	ID     string // 图书 ID
	Score  float64
	Reason string
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// SortItems 对结果做确定性排序：分数降序，分数相同时按图书 ID 升序。
// 所有召回/混排结果统一走这里，保证同样的输入得到同样的顺序。
func SortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
