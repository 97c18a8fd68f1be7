package core

import (
	"context"
	"strings"
	"time"
)

// Book 是图书目录的快照记录。ID 不可变；内容字段由外部目录管理维护。
// 聚合计数（浏览/评分/购买/均分）由外部统计任务维护，热度召回只读。
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Price       float64  `json:"price"`

	ViewCount     int64   `json:"view_count"`
	RatingCount   int64   `json:"rating_count"`
	PurchaseCount int64   `json:"purchase_count"`
	AvgRating     float64 `json:"avg_rating"` // 0 表示暂无评分
}

// Content 拼接用于内容特征的文本：标题 + 作者 + 描述 + 类别标签。
func (b *Book) Content() string {
	parts := make([]string, 0, 4+len(b.Genres))
	parts = append(parts, b.Title, b.Author, b.Description)
	parts = append(parts, b.Genres...)
	return strings.Join(parts, " ")
}

// HasGenre 判断图书是否带有指定类别标签（大小写不敏感）。
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// UserActivity 是一条 (用户, 图书) 的交互记录，由浏览/购买事件在外部维护，
// 训练时只读消费。InteractionScore 是标量交互强度（评分等价量，0-5）。
type UserActivity struct {
	UserID           string    `json:"user_id"`
	BookID           string    `json:"book_id"`
	ViewCount        int64     `json:"view_count"`
	Favorite         bool      `json:"is_favorite"`
	InteractionScore float64   `json:"interaction_score"`
	LastViewed       time.Time `json:"last_viewed"`
}

// CatalogProvider 提供图书目录快照（外部协作方，如 CRUD 层的只读查询）。
// 实现方保证返回的是一次一致性读取的结果；训练过程中目录的并发写入
// 按快照时机取舍，不要求线性一致。
type CatalogProvider interface {
	Books(ctx context.Context) ([]*Book, error)
}

// ActivityProvider 提供用户行为快照（外部协作方）。
type ActivityProvider interface {
	Activities(ctx context.Context) ([]*UserActivity, error)
}
