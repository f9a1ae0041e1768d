package service

import (
	_ "embed"
	"strings"
)

//go:embed documents/practice_scenarios.txt
var practiceScenariosRaw string

// Scenario 一个沟通演练场景
type Scenario struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CharacterName string `json:"character_name"`
}

// loadScenarios 解析内置场景文件
// 每个场景以 "Scenario N: 标题" 开头，正文中 "Your colleague X," 或
// "Your teammate X," 标出扮演角色的名字
func loadScenarios() []Scenario {
	var scenarios []Scenario

	blocks := strings.Split(practiceScenariosRaw, "Scenario ")[1:]
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		_, title, ok := strings.Cut(lines[0], ":")
		if !ok {
			continue
		}
		description := strings.TrimSpace(strings.Join(lines[1:], "\n"))

		scenarios = append(scenarios, Scenario{
			Title:         strings.TrimSpace(title),
			Description:   description,
			CharacterName: extractCharacterName(description),
		})
	}
	return scenarios
}

func extractCharacterName(description string) string {
	for _, marker := range []string{"Your colleague ", "Your teammate "} {
		if _, after, ok := strings.Cut(description, marker); ok {
			if name, _, found := strings.Cut(after, ","); found {
				return strings.TrimSpace(name)
			}
		}
	}
	return "Someone"
}
