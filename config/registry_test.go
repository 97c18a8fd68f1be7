package config_test

import (
	"context"
	"testing"

	"github.com/Marwan-ELsayed12/Grad/config"
	_ "github.com/Marwan-ELsayed12/Grad/config/builders"
	"github.com/Marwan-ELsayed12/Grad/core"
	"github.com/Marwan-ELsayed12/Grad/pipeline"
)

func testConfig() *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "bookstore"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{
			Type: "filter",
			Config: map[string]interface{}{
				"filters": []interface{}{
					map[string]interface{}{"type": "rule", "expr": `item.score > 0.5`},
				},
			},
		},
		{
			Type:   "rerank.topn",
			Config: map[string]interface{}{"n": 1},
		},
	}
	return cfg
}

// TestValidatePipelineConfig 测试节点类型校验
func TestValidatePipelineConfig(t *testing.T) {
	if err := config.ValidatePipelineConfig(testConfig()); err != nil {
		t.Errorf("内置节点类型应该通过校验: %v", err)
	}

	bad := &pipeline.Config{}
	bad.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "recall.magic"}}
	if err := config.ValidatePipelineConfig(bad); err == nil {
		t.Error("未注册的节点类型应该校验失败")
	}
}

// TestBuildPipelineFromConfig 测试配置驱动的 Pipeline 构建与执行
func TestBuildPipelineFromConfig(t *testing.T) {
	p, err := testConfig().BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("构建 Pipeline 失败: %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("期望 2 个节点，实际得到 %d 个", len(p.Nodes))
	}

	// 规则过滤掉高分项后，TopN 截断到 1 个
	high := core.NewItem("b1")
	high.Score = 0.9
	low1 := core.NewItem("b2")
	low1.Score = 0.3
	low2 := core.NewItem("b3")
	low2.Score = 0.2

	out, err := p.Run(context.Background(), &core.RecommendContext{},
		[]*core.Item{high, low1, low2})
	if err != nil {
		t.Fatalf("Pipeline 执行失败: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b2" {
		t.Errorf("期望过滤+截断后剩 [b2]，实际得到 %v", out)
	}
}

// TestSupportedTypes 测试已注册类型列表
func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	want := map[string]bool{"blend.hybrid": false, "filter": false, "rerank.topn": false}
	for _, tp := range types {
		if _, ok := want[tp]; ok {
			want[tp] = true
		}
	}
	for tp, seen := range want {
		if !seen {
			t.Errorf("内置类型 %s 未注册", tp)
		}
	}
}
