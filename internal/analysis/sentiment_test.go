package analysis

import (
	"math"
	"testing"
)

func TestScoreEmptyTokens(t *testing.T) {
	s := NewScorer(DefaultOptions())

	got := s.Score(nil)
	if got.Score != 0 || got.Label != LabelNeutral {
		t.Fatalf("空序列应返回 {0, neutral}, got %+v", got)
	}
}

func TestScoreKnownValues(t *testing.T) {
	s := NewScorer(DefaultOptions())

	// great=0.8, growth=0.5, management 不在词典中
	got := s.Score([]string{"great", "management", "growth"})
	want := (0.8 + 0.5) / 3.0
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("得分不符, got %v, want %v", got.Score, want)
	}
	if got.Label != LabelPositive {
		t.Fatalf("标签不符, got %s, want %s", got.Label, LabelPositive)
	}

	// terrible=-0.9, poor=-0.6, pay/management 不在词典中
	got = s.Score([]string{"terrible", "pay", "poor", "management"})
	want = (-0.9 - 0.6) / 4.0
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("得分不符, got %v, want %v", got.Score, want)
	}
	if got.Label != LabelNegative {
		t.Fatalf("标签不符, got %s, want %s", got.Label, LabelNegative)
	}
}

func TestScoreNegationFlips(t *testing.T) {
	s := NewScorer(DefaultOptions())

	// 否定词在窗口内：great 的极性翻转并减半
	got := s.Score([]string{"not", "great"})
	want := (-0.8 * 0.5) / 2.0
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("否定后得分不符, got %v, want %v", got.Score, want)
	}
	if got.Label != LabelNegative {
		t.Fatalf("标签不符, got %s, want %s", got.Label, LabelNegative)
	}
}

func TestScoreNegationWindow(t *testing.T) {
	s := NewScorer(DefaultOptions())

	// 否定词与极性词相隔两个词元，超出回看窗口，不再翻转
	beyond := s.Score([]string{"not", "team", "office", "great"})
	within := s.Score([]string{"not", "only", "great"})
	if beyond.Score <= 0 {
		t.Fatalf("窗口外的否定词不应生效, got %v", beyond.Score)
	}
	if within.Score >= 0 {
		t.Fatalf("窗口内的否定词应翻转极性, got %v", within.Score)
	}
}

func TestScoreBounded(t *testing.T) {
	s := NewScorer(DefaultOptions())

	inputs := [][]string{
		{"amazing", "excellent", "perfect", "outstanding"},
		{"terrible", "horrible", "worst", "toxic"},
		{"great", "terrible", "good", "bad", "unmapped"},
	}
	for _, tokens := range inputs {
		got := s.Score(tokens)
		if got.Score < -1 || got.Score > 1 {
			t.Fatalf("得分越界: tokens=%v, score=%v", tokens, got.Score)
		}
	}
}

func TestLabelThresholds(t *testing.T) {
	opts := DefaultOptions()
	opts.PositiveThreshold = 0.5
	opts.NegativeThreshold = -0.5
	s := NewScorer(opts)

	// good=0.5，得分恰好等于阈值时不算 positive
	got := s.Score([]string{"good"})
	if got.Label != LabelNeutral {
		t.Fatalf("等于阈值应判 neutral, got %s (score %v)", got.Label, got.Score)
	}

	opts.PositiveThreshold = 0.4
	s = NewScorer(opts)
	got = s.Score([]string{"good"})
	if got.Label != LabelPositive {
		t.Fatalf("超过阈值应判 positive, got %s (score %v)", got.Label, got.Score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(DefaultOptions())
	tokens := []string{"great", "culture", "terrible", "management", "not", "bad"}

	first := s.Score(tokens)
	second := s.Score(tokens)
	if first != second {
		t.Fatalf("相同输入两次打分不一致: %+v vs %+v", first, second)
	}
}
