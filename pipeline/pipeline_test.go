package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Marwan-ELsayed12/Grad/core"
)

type appendNode struct {
	id  string
	err error
}

func (n *appendNode) Name() string { return "test.append" }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

// TestPipeline_Run 测试 Node 链的顺序执行与错误短路
func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{}

	p := &Pipeline{Nodes: []Node{
		&appendNode{id: "b1"},
		&appendNode{id: "b2"},
	}}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		t.Fatalf("Pipeline 执行失败: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b1" || items[1].ID != "b2" {
		t.Errorf("期望顺序 [b1, b2]，实际得到 %v", items)
	}

	p = &Pipeline{Nodes: []Node{
		&appendNode{id: "b1"},
		&appendNode{err: errors.New("node failed")},
		&appendNode{id: "b3"},
	}}
	if _, err := p.Run(ctx, rctx, nil); err == nil {
		t.Error("节点失败应该短路整个 Pipeline")
	}
}

// TestLoadFromYAML 测试 YAML 配置解析
func TestLoadFromYAML(t *testing.T) {
	content := `
pipeline:
  name: bookstore
  nodes:
    - type: filter
      config:
        filters:
          - type: rule
            expr: 'item.score > 0.5'
    - type: rerank.topn
      config:
        n: 20
`
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("解析 YAML 失败: %v", err)
	}
	if cfg.Pipeline.Name != "bookstore" {
		t.Errorf("期望名称 bookstore，实际得到 %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("期望 2 个节点，实际得到 %d 个", len(cfg.Pipeline.Nodes))
	}
	if cfg.Pipeline.Nodes[1].Type != "rerank.topn" {
		t.Errorf("第二个节点类型期望 rerank.topn，实际得到 %q", cfg.Pipeline.Nodes[1].Type)
	}
}

// TestNodeFactory 测试未注册类型报错
func TestNodeFactory(t *testing.T) {
	f := NewNodeFactory()
	if _, err := f.Build("unknown.type", nil); err == nil {
		t.Error("未注册的节点类型应该报错")
	}

	f.Register("test.append", func(_ map[string]interface{}) (Node, error) {
		return &appendNode{id: "b1"}, nil
	})
	node, err := f.Build("test.append", nil)
	if err != nil {
		t.Fatalf("构建节点失败: %v", err)
	}
	if node.Name() != "test.append" {
		t.Errorf("节点名称不正确: %q", node.Name())
	}
}
