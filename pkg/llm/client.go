package llm

import (
	"context"
	"errors"
	"fmt"

	"skillpath/backend/config"
)

var (
	ErrUnavailable   = errors.New("文本生成服务不可用")
	ErrTimeout       = errors.New("文本生成请求超时")
	ErrInvalidOutput = errors.New("文本生成输出格式无效")
)

// GenerateRequest 一次文本生成调用的参数
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil 时使用提供方默认值
	MaxTokens    *int     // nil 时使用配置默认值
}

// Client 对接外部大模型文本生成服务
// 所有使用方只依赖该接口，便于测试时注入假实现
type Client interface {
	// Generate 发送提示词并返回原始文本回复
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Available 探测服务是否可达（用于启动时健康检查）
	Available(ctx context.Context) bool
}

// NewClient 按配置创建对应提供方的客户端
func NewClient(cfg *config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "openrouter":
		return newOpenRouterClient(cfg), nil
	case "gemini":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("不支持的 llm.provider: %s", cfg.Provider)
	}
}
