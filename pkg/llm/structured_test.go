package llm

import (
	"errors"
	"fmt"
	"testing"
)

type suggestion struct {
	Sessions int     `json:"recommended_sessions_per_week"`
	Hours    float64 `json:"recommended_hours_per_session"`
	Reason   string  `json:"reasoning"`
}

func TestExtractJSONPlain(t *testing.T) {
	raw := `{"recommended_sessions_per_week": 3, "recommended_hours_per_session": 1.5, "reasoning": "分散学习"}`

	got, err := ExtractJSON[suggestion](raw, nil)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if got.Sessions != 3 || got.Hours != 1.5 {
		t.Errorf("解析结果不符: %+v", got)
	}
}

func TestExtractJSONWithCodeFence(t *testing.T) {
	raw := "以下是建议:\n```json\n{\"recommended_sessions_per_week\": 2, \"recommended_hours_per_session\": 2, \"reasoning\": \"ok\"}\n```\n希望有帮助"

	got, err := ExtractJSON[suggestion](raw, nil)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if got.Sessions != 2 {
		t.Errorf("Sessions 期望 2, 实际 %d", got.Sessions)
	}
}

func TestExtractJSONNestedBraces(t *testing.T) {
	raw := `{"reasoning": "outer", "detail": {"inner": "嵌套 {花括号} 字符串"}, "recommended_sessions_per_week": 4}`

	got, err := ExtractJSON[suggestion](raw, nil)
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if got.Sessions != 4 {
		t.Errorf("Sessions 期望 4, 实际 %d", got.Sessions)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON[suggestion]("这里没有任何 JSON", nil)
	if !errors.Is(err, ErrInvalidOutput) {
		t.Errorf("期望 ErrInvalidOutput, 实际 %v", err)
	}
}

func TestExtractJSONValidatorRejects(t *testing.T) {
	raw := `{"recommended_sessions_per_week": 0}`

	_, err := ExtractJSON[suggestion](raw, func(s suggestion) error {
		if s.Sessions < 1 {
			return fmt.Errorf("每周学习次数必须为正数")
		}
		return nil
	})
	if !errors.Is(err, ErrInvalidOutput) {
		t.Errorf("期望校验失败返回 ErrInvalidOutput, 实际 %v", err)
	}
}

func TestExtractJSONUnbalanced(t *testing.T) {
	_, err := ExtractJSON[suggestion](`{"reasoning": "截断的输出`, nil)
	if !errors.Is(err, ErrInvalidOutput) {
		t.Errorf("期望 ErrInvalidOutput, 实际 %v", err)
	}
}
