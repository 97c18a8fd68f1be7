package model

import (
	"math/rand"

	"github.com/Marwan-ELsayed12/Grad/feature"
)

// NMF 是非负矩阵分解模型：把用户-图书交互矩阵分解为
// 用户隐因子矩阵 W 与图书隐因子矩阵 H，预测强度 = W[u] · H[i]。
//
// 工程约定：
//   - Rank 是配置常量，不从数据推导（过大时收敛到 min(用户数, 图书数)）
//   - 固定随机种子 + 固定迭代次数 + 有序遍历，同样的输入得到同样的分解
//   - 每个训练版本重新分解一次，在线只做向量点积查表
type NMF struct {
	// Rank 隐因子维度，<=0 时取默认 64
	Rank int

	// Iterations 乘法更新迭代次数，<=0 时取默认 100
	Iterations int

	// Seed 随机种子，0 时取默认 42
	Seed int64
}

const (
	defaultRank       = 64
	defaultIterations = 100
	defaultSeed       = 42
	nmfEps            = 1e-9
)

// Factorization 是一次分解的产物：按 ID 索引的用户/图书隐向量。
// 字段可直接序列化进模型制品。
type Factorization struct {
	Rank        int                  `json:"rank"`
	UserFactors map[string][]float64 `json:"user_factors"`
	ItemFactors map[string][]float64 `json:"item_factors"`
}

// Fit 在交互矩阵上训练分解。矩阵为空（无任何交互）时返回空分解，
// 调用方据此走冷启动路径。
func (m *NMF) Fit(mat *feature.InteractionMatrix) *Factorization {
	out := &Factorization{
		UserFactors: make(map[string][]float64),
		ItemFactors: make(map[string][]float64),
	}
	if mat == nil || len(mat.UserIndex) == 0 || len(mat.BookIndex) == 0 {
		return out
	}

	nU := len(mat.UserIndex)
	nI := len(mat.BookIndex)

	rank := m.Rank
	if rank <= 0 {
		rank = defaultRank
	}
	if rank > nU {
		rank = nU
	}
	if rank > nI {
		rank = nI
	}
	out.Rank = rank

	iterations := m.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}
	seed := m.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	// 构建稠密矩阵 V（行列顺序来自排序后的索引空间，保证确定性）
	v := make([][]float64, nU)
	for ui, userID := range mat.UserIndex {
		v[ui] = make([]float64, nI)
		row := mat.Rows[userID]
		for ii, bookID := range mat.BookIndex {
			v[ui][ii] = row[bookID]
		}
	}

	rng := rand.New(rand.NewSource(seed))
	w := randomMatrix(rng, nU, rank)
	h := randomMatrix(rng, rank, nI)

	// 乘法更新：
	//   H ← H ⊙ (WᵀV) / (WᵀWH)
	//   W ← W ⊙ (VHᵀ) / (WHHᵀ)
	for iter := 0; iter < iterations; iter++ {
		wt := transpose(w)
		wtv := matMul(wt, v)
		wtwh := matMul(matMul(wt, w), h)
		for i := range h {
			for j := range h[i] {
				h[i][j] *= wtv[i][j] / (wtwh[i][j] + nmfEps)
			}
		}

		ht := transpose(h)
		vht := matMul(v, ht)
		whht := matMul(w, matMul(h, ht))
		for i := range w {
			for j := range w[i] {
				w[i][j] *= vht[i][j] / (whht[i][j] + nmfEps)
			}
		}
	}

	for ui, userID := range mat.UserIndex {
		out.UserFactors[userID] = w[ui]
	}
	for ii, bookID := range mat.BookIndex {
		col := make([]float64, rank)
		for r := 0; r < rank; r++ {
			col[r] = h[r][ii]
		}
		out.ItemFactors[bookID] = col
	}
	return out
}

// Predict 重建某个用户对所有图书的预测交互强度。
// 用户不在训练矩阵中（冷启动/训练后新增）时返回 nil。
func (f *Factorization) Predict(userID string) map[string]float64 {
	if f == nil {
		return nil
	}
	userVec, ok := f.UserFactors[userID]
	if !ok {
		return nil
	}

	out := make(map[string]float64, len(f.ItemFactors))
	for bookID, itemVec := range f.ItemFactors {
		out[bookID] = dotProduct(userVec, itemVec)
	}
	return out
}

// dotProduct 计算两个向量的点积
func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.Float64() + nmfEps
		}
	}
	return m
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for i := range out {
		out[i] = make([]float64, len(m))
		for j := range m {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func matMul(a, b [][]float64) [][]float64 {
	rows := len(a)
	inner := len(b)
	cols := 0
	if inner > 0 {
		cols = len(b[0])
	}
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for k := 0; k < inner && k < len(a[i]); k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out
}
