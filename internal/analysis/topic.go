package analysis

import (
	"math"
	"sort"
	"strings"
)

// 权重小于该值视为零，用于"无法归类"判定。
const zeroWeightEps = 1e-9

// TopicModel 是一次语料级主题拟合的产物：k 个主题在全词表上的权重向量。
// k 在拟合前固定，拟合后不随单篇文档变化；改 k 必须全量重拟合。
type TopicModel struct {
	K          int
	Vocabulary []string  // 按字典序排列，保证确定性
	Centroids  [][]float64 // k x |V|，单位向量；空主题为全零
	Converged  bool      // 迭代预算内是否收敛（不收敛只是告警，不中断）
	Iterations int

	vocabIndex map[string]int
	idf        []float64
}

// FitTopics 在整个语料上一次性拟合 k 个主题。
// 文档向量取平滑 TF-IDF 并单位化，聚类用余弦相似度的确定性 k-means：
// 首个质心取 seed 对非空文档数取模所指的文档，其余质心按最远点法则依次选出，
// 迭代上限由配置给定。相同语料 + 相同配置必然得到逐项相同的权重。
func FitTopics(corpus [][]string, opts Options) (*TopicModel, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	k := opts.TopicCount

	// 1. 建词表与文档频次（只统计非空文档）
	df := make(map[string]int)
	nonEmpty := make([]int, 0, len(corpus))
	for i, doc := range corpus {
		if len(doc) == 0 {
			continue
		}
		nonEmpty = append(nonEmpty, i)
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	model := &TopicModel{
		K:          k,
		Vocabulary: vocab,
		Centroids:  make([][]float64, k),
		Converged:  true,
		vocabIndex: make(map[string]int, len(vocab)),
		idf:        make([]float64, len(vocab)),
	}
	for i := range model.Centroids {
		model.Centroids[i] = make([]float64, len(vocab))
	}
	for i, term := range vocab {
		model.vocabIndex[term] = i
		// 平滑 IDF，避免全量出现的词权重归零
		n := float64(len(nonEmpty))
		model.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	// 语料为空（或全部是空文档）时没有可聚的东西，所有文档都将是未归类
	if len(nonEmpty) == 0 || len(vocab) == 0 {
		return model, nil
	}

	// 2. 向量化非空文档
	vecs := make([][]float64, len(nonEmpty))
	for i, docIdx := range nonEmpty {
		vecs[i] = model.vectorize(corpus[docIdx])
	}

	// 3. 确定性播种：seed 指定首个质心，其余按最远点选取
	seedCount := k
	if seedCount > len(vecs) {
		seedCount = len(vecs)
	}
	first := int(opts.TopicFitSeed % int64(len(vecs)))
	if first < 0 {
		first += len(vecs)
	}
	centroids := make([][]float64, 0, seedCount)
	centroids = append(centroids, append([]float64(nil), vecs[first]...))
	for len(centroids) < seedCount {
		bestIdx := 0
		bestDist := -1.0
		for i := range vecs {
			d := 1.0
			for _, c := range centroids {
				dist := 1.0 - dot(vecs[i], c)
				if dist < d {
					d = dist
				}
			}
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		centroids = append(centroids, append([]float64(nil), vecs[bestIdx]...))
	}

	// 4. 有界迭代的 k-means，余弦相似度归属，平局取较小主题号
	assign := make([]int, len(vecs))
	for i := range assign {
		assign[i] = -1
	}
	converged := false
	iters := 0
	for iter := 0; iter < opts.TopicFitMaxIterations; iter++ {
		iters = iter + 1
		changed := false
		for i, v := range vecs {
			best := 0
			bestScore := -1.0
			for c := range centroids {
				s := dot(v, centroids[c])
				if s > bestScore {
					bestScore = s
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			converged = true
			break
		}
		// 重算质心：成员均值后单位化；空簇保留旧质心
		for c := range centroids {
			sum := make([]float64, len(vocab))
			count := 0
			for i, v := range vecs {
				if assign[i] != c {
					continue
				}
				for j := range v {
					sum[j] += v[j]
				}
				count++
			}
			if count == 0 {
				continue
			}
			for j := range sum {
				sum[j] /= float64(count)
			}
			normalizeUnit(sum)
			centroids[c] = sum
		}
	}

	for i, c := range centroids {
		model.Centroids[i] = c
	}
	model.Converged = converged
	model.Iterations = iters
	return model, nil
}

// Assign 把单篇文档投影到固定的主题空间，返回长度为 k 的隶属度权重。
// 权重非负且总和为 1；文档为空或与词表无交集时全零（未归类），不强行塞给某个主题。
func (m *TopicModel) Assign(tokens []string) []float64 {
	weights := make([]float64, m.K)
	if len(tokens) == 0 || len(m.Vocabulary) == 0 {
		return weights
	}
	v := m.vectorize(tokens)
	var sum float64
	for i, c := range m.Centroids {
		s := dot(v, c)
		if s < 0 {
			s = 0
		}
		weights[i] = s
		sum += s
	}
	if sum < zeroWeightEps {
		for i := range weights {
			weights[i] = 0
		}
		return weights
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// TopTerms 返回某主题权重最高的前 n 个词，权重相同按字典序。
func (m *TopicModel) TopTerms(topicID, n int) []string {
	if topicID < 0 || topicID >= m.K {
		return nil
	}
	c := m.Centroids[topicID]
	idx := make([]int, 0, len(c))
	for i, w := range c {
		if w > zeroWeightEps {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		if c[idx[a]] != c[idx[b]] {
			return c[idx[a]] > c[idx[b]]
		}
		return m.Vocabulary[idx[a]] < m.Vocabulary[idx[b]]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	terms := make([]string, len(idx))
	for i, j := range idx {
		terms[i] = m.Vocabulary[j]
	}
	return terms
}

// Label 返回主题的人类可读标签：权重最高的前三个词用 "/" 连接。
func (m *TopicModel) Label(topicID int) string {
	terms := m.TopTerms(topicID, 3)
	if len(terms) == 0 {
		return "（空主题）"
	}
	return strings.Join(terms, "/")
}

// vectorize 把词元序列转为单位化的 TF-IDF 向量。
func (m *TopicModel) vectorize(tokens []string) []float64 {
	v := make([]float64, len(m.Vocabulary))
	for _, tok := range tokens {
		if i, ok := m.vocabIndex[tok]; ok {
			v[i]++
		}
	}
	for i := range v {
		if v[i] > 0 {
			v[i] = v[i] * m.idf[i]
		}
	}
	normalizeUnit(v)
	return v
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalizeUnit 原地把向量归一化为单位长度，零向量保持不变。
func normalizeUnit(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum <= 0 {
		return
	}
	den := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] *= den
	}
}
