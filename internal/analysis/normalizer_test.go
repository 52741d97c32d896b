package analysis

import (
	"reflect"
	"testing"
)

func TestNormalizeBasic(t *testing.T) {
	n := NewNormalizer(DefaultOptions())

	tokens := n.Normalize("Great culture, flexible hours!! 100% recommend.")
	want := []string{"great", "culture", "flexible", "hours", "recommend"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("分词结果不符, got %v, want %v", tokens, want)
	}
}

func TestNormalizeEmptyAndNoise(t *testing.T) {
	n := NewNormalizer(DefaultOptions())

	if got := n.Normalize(""); len(got) != 0 {
		t.Fatalf("空文本应返回空序列, got %v", got)
	}
	// 纯标点与数字清洗后没有剩余词元
	if got := n.Normalize("!!! 123 ... 456"); len(got) != 0 {
		t.Fatalf("纯噪声文本应返回空序列, got %v", got)
	}
}

func TestNormalizeStopwordsAndMinLength(t *testing.T) {
	opts := DefaultOptions()
	opts.Stopwords = []string{"Company"} // 配置追加的停用词不区分大小写
	n := NewNormalizer(opts)

	tokens := n.Normalize("The company is a great place to work")
	for _, tok := range tokens {
		if tok == "the" || tok == "is" || tok == "a" || tok == "to" {
			t.Fatalf("停用词 %q 未被过滤, tokens: %v", tok, tokens)
		}
		if tok == "company" {
			t.Fatalf("配置追加的停用词未被过滤, tokens: %v", tokens)
		}
		if len(tok) < opts.MinTokenLength {
			t.Fatalf("长度不足的词元 %q 未被过滤", tok)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := NewNormalizer(DefaultOptions())
	text := "Work-life balance is great; management... not so much (IMO)."

	first := n.Normalize(text)
	second := n.Normalize(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("相同输入两次分词结果不一致: %v vs %v", first, second)
	}
}
