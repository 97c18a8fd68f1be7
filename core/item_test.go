package core

import (
	"testing"

	"github.com/Marwan-ELsayed12/Grad/pkg/utils"
)

// TestSortItems 测试确定性排序：分数降序，同分按图书 ID 升序
func TestSortItems(t *testing.T) {
	items := []*Item{
		{ID: "b3", Score: 0.5},
		{ID: "b1", Score: 0.5},
		{ID: "b2", Score: 0.9},
		{ID: "b4", Score: 0.1},
	}

	SortItems(items)

	want := []string{"b2", "b1", "b3", "b4"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("第 %d 个期望 %s，实际得到 %s", i, id, items[i].ID)
		}
	}
}

// TestItem_PutLabel 测试同名 Label 按默认规则累积
func TestItem_PutLabel(t *testing.T) {
	it := NewItem("b1")

	it.PutLabel("recall_source", utils.Label{Value: "cf", Source: "recall"})
	it.PutLabel("recall_source", utils.Label{Value: "content", Source: "blend"})

	lbl := it.Labels["recall_source"]
	if lbl.Value != "cf|content" {
		t.Errorf("Value 期望 cf|content，实际得到 %q", lbl.Value)
	}
	if lbl.Source != "recall,blend" {
		t.Errorf("Source 期望 recall,blend，实际得到 %q", lbl.Source)
	}
}

// TestGetDomainError 测试领域错误的识别与分类
func TestGetDomainError(t *testing.T) {
	err := NewDomainError(ModuleRecall, ErrorCodeNotFound, "book not found")

	if !IsNotFound(err) {
		t.Error("应该识别为 NOT_FOUND")
	}
	if IsTrainingFailure(err) {
		t.Error("不应该识别为 TRAINING_FAILURE")
	}
	if GetDomainError(nil) != nil {
		t.Error("nil 错误应该返回 nil")
	}

	de := GetDomainError(err)
	if de == nil || de.Module != ModuleRecall {
		t.Errorf("模块归属不正确: %+v", de)
	}
}
