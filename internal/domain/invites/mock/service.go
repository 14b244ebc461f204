package mock

import (
	context "context"
	reflect "reflect"

	invites "github.com/slotwarden/slotbot/internal/domain/invites"
	gomock "go.uber.org/mock/gomock"
)

// MockService is a mock of Service interface.
type MockService struct {
	ctrl     *gomock.Controller
	recorder *MockServiceMockRecorder
	isgomock struct{}
}

// MockServiceMockRecorder is the mock recorder for MockService.
type MockServiceMockRecorder struct {
	mock *MockService
}

// NewMockService creates a new mock instance.
func NewMockService(ctrl *gomock.Controller) *MockService {
	mock := &MockService{ctrl: ctrl}
	mock.recorder = &MockServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockService) EXPECT() *MockServiceMockRecorder {
	return m.recorder
}

// Balance mocks base method.
func (m *MockService) Balance(ctx context.Context, userID string, guildID string) (*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", ctx, userID, guildID)
	ret0, _ := ret[0].(*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Balance indicates an expected call of Balance.
func (mr *MockServiceMockRecorder) Balance(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockService)(nil).Balance), ctx, userID, guildID)
}

// Credit mocks base method.
func (m *MockService) Credit(ctx context.Context, userID string, guildID string, amount int64) (*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Credit", ctx, userID, guildID, amount)
	ret0, _ := ret[0].(*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Credit indicates an expected call of Credit.
func (mr *MockServiceMockRecorder) Credit(ctx, userID, guildID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Credit", reflect.TypeOf((*MockService)(nil).Credit), ctx, userID, guildID, amount)
}

// Debit mocks base method.
func (m *MockService) Debit(ctx context.Context, userID string, guildID string, amount int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Debit", ctx, userID, guildID, amount)
	ret0, _ := ret[0].(error)
	return ret0
}

// Debit indicates an expected call of Debit.
func (mr *MockServiceMockRecorder) Debit(ctx, userID, guildID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Debit", reflect.TypeOf((*MockService)(nil).Debit), ctx, userID, guildID, amount)
}

// Refund mocks base method.
func (m *MockService) Refund(ctx context.Context, userID string, guildID string, amount int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Refund", ctx, userID, guildID, amount)
	ret0, _ := ret[0].(error)
	return ret0
}

// Refund indicates an expected call of Refund.
func (mr *MockServiceMockRecorder) Refund(ctx, userID, guildID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Refund", reflect.TypeOf((*MockService)(nil).Refund), ctx, userID, guildID, amount)
}

// TopN mocks base method.
func (m *MockService) TopN(ctx context.Context, guildID string, n int) ([]*invites.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TopN", ctx, guildID, n)
	ret0, _ := ret[0].([]*invites.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TopN indicates an expected call of TopN.
func (mr *MockServiceMockRecorder) TopN(ctx, guildID, n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TopN", reflect.TypeOf((*MockService)(nil).TopN), ctx, guildID, n)
}
