package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vectorizer 是 TF-IDF 文本向量化器，用于把图书内容文本映射为稀疏特征向量。
//
// 约定：
//   - 词表在一次训练中 Fit 一次，之后所有 Transform 复用同一词表；
//     新词表会使旧向量失效，必须整体重建
//   - 词表大小受 MaxFeatures 限制（按文档频率取 Top，频率相同按字典序），
//     保证同样的语料得到同样的词表
//   - 支持 unigram + bigram，内置英文停用词
//   - Transform 输出 L2 归一化向量，余弦相似度天然落在 [0,1]
type Vectorizer struct {
	// MaxFeatures 词表上限，<=0 时取默认 5000
	MaxFeatures int

	// Bigrams 是否加入二元词组特征
	Bigrams bool

	// Vocabulary 词 -> IDF 权重，Fit 后填充；可直接序列化进模型制品
	Vocabulary map[string]float64
}

const defaultMaxFeatures = 5000

// NewVectorizer 创建默认配置的向量化器（词表 5000，带 bigram）。
func NewVectorizer() *Vectorizer {
	return &Vectorizer{MaxFeatures: defaultMaxFeatures, Bigrams: true}
}

// Fit 在语料上拟合词表与 IDF 权重。
// IDF 使用平滑公式 ln((1+n)/(1+df)) + 1，避免除零并压缩极端权重。
func (v *Vectorizer) Fit(docs []string) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.tokenize(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}

	// 词表截断：按 df 降序、词典序升序，保证确定性
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	n := float64(len(docs))
	v.Vocabulary = make(map[string]float64, len(terms))
	for _, term := range terms {
		v.Vocabulary[term] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
}

// Transform 将文本转换为稀疏 TF-IDF 向量（L2 归一化）。
// 必须在 Fit（或从制品恢复 Vocabulary）之后调用；词表外的词被忽略。
func (v *Vectorizer) Transform(doc string) map[string]float64 {
	if len(v.Vocabulary) == 0 {
		return map[string]float64{}
	}

	tf := make(map[string]float64)
	for _, term := range v.tokenize(doc) {
		if _, ok := v.Vocabulary[term]; ok {
			tf[term]++
		}
	}

	var norm float64
	for term, count := range tf {
		w := count * v.Vocabulary[term]
		tf[term] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range tf {
			tf[term] /= norm
		}
	}
	return tf
}

// tokenize 分词：小写化、按非字母数字切分、去停用词，可选拼接 bigram。
func (v *Vectorizer) tokenize(doc string) []string {
	words := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	unigrams := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		unigrams = append(unigrams, w)
	}

	if !v.Bigrams {
		return unigrams
	}
	out := make([]string, 0, len(unigrams)*2)
	out = append(out, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		out = append(out, unigrams[i]+" "+unigrams[i+1])
	}
	return out
}

// stopWords 是英文停用词表（常见功能词，特征里只会带来噪声）。
var stopWords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "did", "do",
		"does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "if", "in", "into", "is", "it", "its", "itself",
		"just", "me", "more", "most", "my", "myself", "no", "nor", "not",
		"now", "of", "off", "on", "once", "only", "or", "other", "our",
		"ours", "out", "over", "own", "same", "she", "should", "so", "some",
		"such", "than", "that", "the", "their", "theirs", "them", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "will", "with",
		"you", "your", "yours", "yourself",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
