package mock

import (
	context "context"
	reflect "reflect"

	guildconfig "github.com/slotwarden/slotbot/internal/domain/guildconfig"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// Ensure mocks base method.
func (m *MockRepository) Ensure(ctx context.Context, cfg *guildconfig.Config) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Ensure", ctx, cfg)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Ensure indicates an expected call of Ensure.
func (mr *MockRepositoryMockRecorder) Ensure(ctx, cfg any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Ensure", reflect.TypeOf((*MockRepository)(nil).Ensure), ctx, cfg)
}

// Update mocks base method.
func (m *MockRepository) Update(ctx context.Context, guildID string, changes []guildconfig.Change) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, guildID, changes)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Update indicates an expected call of Update.
func (mr *MockRepositoryMockRecorder) Update(ctx, guildID, changes any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockRepository)(nil).Update), ctx, guildID, changes)
}
