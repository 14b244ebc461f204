package mock

import (
	context "context"
	reflect "reflect"

	period "github.com/slotwarden/slotbot/internal/domain/period"
	slots "github.com/slotwarden/slotbot/internal/domain/slots"
	usage "github.com/slotwarden/slotbot/internal/domain/usage"
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

// Compact mocks base method.
func (m *MockService) Compact(ctx context.Context, kind period.Kind) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compact", ctx, kind)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Compact indicates an expected call of Compact.
func (mr *MockServiceMockRecorder) Compact(ctx, kind any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compact", reflect.TypeOf((*MockService)(nil).Compact), ctx, kind)
}

// Current mocks base method.
func (m *MockService) Current(ctx context.Context, userID string, guildID string, kind period.Kind, category slots.Category) (usage.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Current", ctx, userID, guildID, kind, category)
	ret0, _ := ret[0].(usage.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Current indicates an expected call of Current.
func (mr *MockServiceMockRecorder) Current(ctx, userID, guildID, kind, category any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Current", reflect.TypeOf((*MockService)(nil).Current), ctx, userID, guildID, kind, category)
}

// RecordUsage mocks base method.
func (m *MockService) RecordUsage(ctx context.Context, userID string, guildID string, kind period.Kind, category slots.Category) (usage.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordUsage", ctx, userID, guildID, kind, category)
	ret0, _ := ret[0].(usage.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RecordUsage indicates an expected call of RecordUsage.
func (mr *MockServiceMockRecorder) RecordUsage(ctx, userID, guildID, kind, category any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordUsage", reflect.TypeOf((*MockService)(nil).RecordUsage), ctx, userID, guildID, kind, category)
}
