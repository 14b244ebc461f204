package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	invites "github.com/slotwarden/slotbot/internal/domain/invites"
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

// Credit mocks base method.
func (m *MockRepository) Credit(ctx context.Context, userID string, guildID string, amount int64, now time.Time) (*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Credit", ctx, userID, guildID, amount, now)
	ret0, _ := ret[0].(*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Credit indicates an expected call of Credit.
func (mr *MockRepositoryMockRecorder) Credit(ctx, userID, guildID, amount, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Credit", reflect.TypeOf((*MockRepository)(nil).Credit), ctx, userID, guildID, amount, now)
}

// Debit mocks base method.
func (m *MockRepository) Debit(ctx context.Context, userID string, guildID string, amount int64, now time.Time) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Debit", ctx, userID, guildID, amount, now)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Debit indicates an expected call of Debit.
func (mr *MockRepositoryMockRecorder) Debit(ctx, userID, guildID, amount, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Debit", reflect.TypeOf((*MockRepository)(nil).Debit), ctx, userID, guildID, amount, now)
}

// Ensure mocks base method.
func (m *MockRepository) Ensure(ctx context.Context, userID string, guildID string, now time.Time) (*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Ensure", ctx, userID, guildID, now)
	ret0, _ := ret[0].(*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Ensure indicates an expected call of Ensure.
func (mr *MockRepositoryMockRecorder) Ensure(ctx, userID, guildID, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Ensure", reflect.TypeOf((*MockRepository)(nil).Ensure), ctx, userID, guildID, now)
}

// Refund mocks base method.
func (m *MockRepository) Refund(ctx context.Context, userID string, guildID string, amount int64, now time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Refund", ctx, userID, guildID, amount, now)
	ret0, _ := ret[0].(error)
	return ret0
}

// Refund indicates an expected call of Refund.
func (mr *MockRepositoryMockRecorder) Refund(ctx, userID, guildID, amount, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Refund", reflect.TypeOf((*MockRepository)(nil).Refund), ctx, userID, guildID, amount, now)
}

// Top mocks base method.
func (m *MockRepository) Top(ctx context.Context, guildID string, limit int) ([]*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Top", ctx, guildID, limit)
	ret0, _ := ret[0].([]*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Top indicates an expected call of Top.
func (mr *MockRepositoryMockRecorder) Top(ctx, guildID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Top", reflect.TypeOf((*MockRepository)(nil).Top), ctx, guildID, limit)
}
