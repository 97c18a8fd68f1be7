package recall

import (
	"context"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// Source 表示一个可复用的打分/召回源（内容/协同/热度）。
// 你可以把它理解为“可并发 fan-out 的策略单元”：混排器按权重合并各 Source 的输出。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
