package session

import "context"

// Store 按键存取会话状态（导师对话历史、演练会话等）
// 值为序列化后的 JSON 文档；Update 保证同一 key 的读改写串行执行，
// 替代进程内裸 map 的并发隐患
type Store interface {
	// Get 返回键对应的值，不存在时返回空串且无错误
	Get(ctx context.Context, key string) (string, error)

	// Update 以读改写方式更新键值：fn 收到当前值（可能为空串），
	// 返回新值；返回空串表示删除该键
	Update(ctx context.Context, key string, fn func(current string) (string, error)) error

	// Delete 删除键，键不存在时为空操作
	Delete(ctx context.Context, key string) error

	// Close 停止后台清理并释放资源
	Close() error
}
