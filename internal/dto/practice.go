package dto

// ── 沟通演练 ──

// PracticeStartRequest 开始演练请求
type PracticeStartRequest struct {
	UserID string `json:"user_id"`
}

// PracticeButton 前端操作按钮
type PracticeButton struct {
	Text   string `json:"text"`
	Action string `json:"action"` // yes | no | exit
}

// PracticeResponse 演练回复（场景提议时带按钮）
type PracticeResponse struct {
	Response string           `json:"response"`
	Buttons  []PracticeButton `json:"buttons,omitempty"`
}

// PracticeRespondRequest 演练对话请求
type PracticeRespondRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message" binding:"required"`
}
