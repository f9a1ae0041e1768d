package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"skillpath/backend/internal/model"
	"skillpath/backend/internal/repository"
	"skillpath/backend/internal/search"
	"skillpath/backend/pkg/llm"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock TimelineRepository ──

type mockTimelineRepo struct {
	timelines map[string]*model.Timeline
}

func newMockTimelineRepo() *mockTimelineRepo {
	return &mockTimelineRepo{timelines: make(map[string]*model.Timeline)}
}

func (m *mockTimelineRepo) Create(_ context.Context, timeline *model.Timeline) error {
	stored := *timeline
	m.timelines[timeline.TimelineID] = &stored
	return nil
}

func (m *mockTimelineRepo) GetByID(_ context.Context, id string) (*model.Timeline, error) {
	if tl, ok := m.timelines[id]; ok {
		copied := *tl
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimelineRepo) ListByUser(_ context.Context, userID string) ([]model.Timeline, error) {
	var result []model.Timeline
	for _, tl := range m.timelines {
		if tl.UserID == userID {
			result = append(result, *tl)
		}
	}
	return result, nil
}

func (m *mockTimelineRepo) Update(_ context.Context, timeline *model.Timeline) error {
	stored := *timeline
	m.timelines[timeline.TimelineID] = &stored
	return nil
}

// ── Mock ProofRepository ──

type mockProofRepo struct {
	proofs map[string]*model.ProofRecord
}

func newMockProofRepo() *mockProofRepo {
	return &mockProofRepo{proofs: make(map[string]*model.ProofRecord)}
}

func (m *mockProofRepo) Create(_ context.Context, proof *model.ProofRecord) error {
	m.proofs[proof.ProofID] = proof
	return nil
}

func (m *mockProofRepo) GetByID(_ context.Context, id string) (*model.ProofRecord, error) {
	if p, ok := m.proofs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProofRepo) ListByEvent(_ context.Context, eventID string) ([]model.ProofRecord, error) {
	var result []model.ProofRecord
	for _, p := range m.proofs {
		if p.EventID == eventID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProofRepo) ListByUser(_ context.Context, userID string) ([]model.ProofRecord, error) {
	var result []model.ProofRecord
	for _, p := range m.proofs {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProofRepo) Update(_ context.Context, proof *model.ProofRecord) error {
	m.proofs[proof.ProofID] = proof
	return nil
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:     newMockUserRepo(),
		Timeline: newMockTimelineRepo(),
		Proof:    newMockProofRepo(),
	}
}

// ── Fake LLM Client ──

// fakeLLM 按脚本逐条返回响应，err 非空时所有调用失败
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []llm.GenerateRequest
}

func (f *fakeLLM) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req)
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", llm.ErrUnavailable
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeLLM) Available(_ context.Context) bool {
	return f.err == nil
}

// ── Fake Search Index ──

type fakeIndex struct {
	results []search.Result
	queries []string
	size    int
}

func (f *fakeIndex) Add(_ context.Context, _ string, _ map[string]any) error {
	f.size++
	return nil
}

func (f *fakeIndex) Search(_ context.Context, query string, k int) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if k > 0 && len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

func (f *fakeIndex) Size(_ context.Context) (int, error) { return f.size, nil }

func (f *fakeIndex) Close() error { return nil }

// errIndex 所有检索调用均失败
type errIndex struct{}

func (errIndex) Add(_ context.Context, _ string, _ map[string]any) error { return errIndexDown }

func (errIndex) Search(_ context.Context, _ string, _ int) ([]search.Result, error) {
	return nil, errIndexDown
}

func (errIndex) Size(_ context.Context) (int, error) { return 0, errIndexDown }

func (errIndex) Close() error { return nil }

var errIndexDown = errors.New("索引不可用")
