package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator 在 JSON 提取后对解析结果做结构校验
// 合法返回 nil，否则返回描述性错误
type Validator[T any] func(T) error

// ExtractJSON 从模型原始文本输出中提取类型为 T 的 JSON 对象
// 兼容 markdown 代码围栏、前后附加文字和嵌套花括号
// validator 非 nil 时对提取结果做校验
func ExtractJSON[T any](raw string, validator Validator[T]) (T, error) {
	var zero T

	cleaned := stripCodeFences(raw)
	jsonStr := extractJSONBlock(cleaned)
	if jsonStr == "" {
		return zero, fmt.Errorf("%w: 响应中未找到 JSON 对象", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: 校验失败: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// stripCodeFences 去除 markdown 代码围栏（```json ... ``` 或 ``` ... ```）
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// extractJSONBlock 找到文本中第一个配平的 { ... } 块
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
