package feature

import (
	"sort"

	"github.com/Marwan-ELsayed12/Grad/core"
)

// InteractionMatrix 是用户-图书交互强度的稀疏矩阵。
// 行列索引空间在每次训练时从当前观测到的用户/图书重建，
// 跨训练版本不稳定，严禁作为外键持久化到其他实体。
type InteractionMatrix struct {
	// Rows 用户 ID -> 图书 ID -> 交互强度
	Rows map[string]map[string]float64

	// UserIndex / BookIndex 是排序后的行/列索引空间（本训练版本内有效）
	UserIndex []string
	BookIndex []string
}

// Row 返回某个用户的交互行；不存在时返回 nil（冷启动）。
func (m *InteractionMatrix) Row(userID string) map[string]float64 {
	if m == nil {
		return nil
	}
	return m.Rows[userID]
}

// Builder 把原始图书/行为快照变换为内容特征空间与交互矩阵。
// 纯变换，无副作用；产物在一个训练版本的生命周期内复用。
type Builder struct {
	Vectorizer *Vectorizer
}

func NewBuilder() *Builder {
	return &Builder{Vectorizer: NewVectorizer()}
}

// BuildContent 在图书目录上拟合词表，并为每本书生成内容特征向量。
func (b *Builder) BuildContent(books []*core.Book) map[string]map[string]float64 {
	if b.Vectorizer == nil {
		b.Vectorizer = NewVectorizer()
	}

	corpus := make([]string, 0, len(books))
	for _, book := range books {
		corpus = append(corpus, book.Content())
	}
	b.Vectorizer.Fit(corpus)

	vectors := make(map[string]map[string]float64, len(books))
	for _, book := range books {
		vectors[book.ID] = b.Vectorizer.Transform(book.Content())
	}
	return vectors
}

// BuildInteractions 从行为快照构建交互矩阵。
// 引用未知图书的行为记录被静默丢弃（不是错误）：行为流和目录快照
// 来自两个外部协作方，允许短暂不一致。
func (b *Builder) BuildInteractions(books []*core.Book, activities []*core.UserActivity) *InteractionMatrix {
	known := make(map[string]struct{}, len(books))
	for _, book := range books {
		known[book.ID] = struct{}{}
	}

	rows := make(map[string]map[string]float64)
	for _, act := range activities {
		if act.UserID == "" || act.BookID == "" {
			continue
		}
		if _, ok := known[act.BookID]; !ok {
			continue
		}
		if rows[act.UserID] == nil {
			rows[act.UserID] = make(map[string]float64)
		}
		rows[act.UserID][act.BookID] = act.InteractionScore
	}

	userIndex := make([]string, 0, len(rows))
	for userID := range rows {
		userIndex = append(userIndex, userID)
	}
	sort.Strings(userIndex)

	bookIndex := make([]string, 0, len(books))
	for _, book := range books {
		bookIndex = append(bookIndex, book.ID)
	}
	sort.Strings(bookIndex)

	return &InteractionMatrix{
		Rows:      rows,
		UserIndex: userIndex,
		BookIndex: bookIndex,
	}
}

// FavoriteSeeds 计算每个用户最近一次收藏的图书，作为个性化推荐的内容种子。
// 引用未知图书的收藏同样被丢弃。
func FavoriteSeeds(books []*core.Book, activities []*core.UserActivity) map[string]string {
	known := make(map[string]struct{}, len(books))
	for _, book := range books {
		known[book.ID] = struct{}{}
	}

	type seed struct {
		bookID string
		at     int64
	}
	latest := make(map[string]seed)
	for _, act := range activities {
		if !act.Favorite {
			continue
		}
		if _, ok := known[act.BookID]; !ok {
			continue
		}
		at := act.LastViewed.UnixNano()
		cur, ok := latest[act.UserID]
		// 时间相同取 ID 较小者，保证确定性
		if !ok || at > cur.at || (at == cur.at && act.BookID < cur.bookID) {
			latest[act.UserID] = seed{bookID: act.BookID, at: at}
		}
	}

	out := make(map[string]string, len(latest))
	for userID, s := range latest {
		out[userID] = s.bookID
	}
	return out
}
