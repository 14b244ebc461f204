package mock

import (
	context "context"
	reflect "reflect"

	penalty "github.com/slotwarden/slotbot/internal/domain/penalty"
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

// ApplyInfraction mocks base method.
func (m *MockService) ApplyInfraction(ctx context.Context, userID string, guildID string) (penalty.Outcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ApplyInfraction", ctx, userID, guildID)
	ret0, _ := ret[0].(penalty.Outcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ApplyInfraction indicates an expected call of ApplyInfraction.
func (mr *MockServiceMockRecorder) ApplyInfraction(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ApplyInfraction", reflect.TypeOf((*MockService)(nil).ApplyInfraction), ctx, userID, guildID)
}

// Get mocks base method.
func (m *MockService) Get(ctx context.Context, userID string, guildID string) (*penalty.Record, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, userID, guildID)
	ret0, _ := ret[0].(*penalty.Record)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockServiceMockRecorder) Get(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockService)(nil).Get), ctx, userID, guildID)
}

// Reset mocks base method.
func (m *MockService) Reset(ctx context.Context, userID string, guildID string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Reset", ctx, userID, guildID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Reset indicates an expected call of Reset.
func (mr *MockServiceMockRecorder) Reset(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reset", reflect.TypeOf((*MockService)(nil).Reset), ctx, userID, guildID)
}
