package mock

import (
	context "context"
	reflect "reflect"

	guildconfig "github.com/slotwarden/slotbot/internal/domain/guildconfig"
	period "github.com/slotwarden/slotbot/internal/domain/period"
	slots "github.com/slotwarden/slotbot/internal/domain/slots"
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

// Get mocks base method.
func (m *MockService) Get(ctx context.Context, guildID string) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, guildID)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockServiceMockRecorder) Get(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockService)(nil).Get), ctx, guildID)
}

// LimitFor mocks base method.
func (m *MockService) LimitFor(ctx context.Context, guildID string, kind period.Kind, category slots.Category) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LimitFor", ctx, guildID, kind, category)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LimitFor indicates an expected call of LimitFor.
func (mr *MockServiceMockRecorder) LimitFor(ctx, guildID, kind, category any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LimitFor", reflect.TypeOf((*MockService)(nil).LimitFor), ctx, guildID, kind, category)
}

// SetAutoRole mocks base method.
func (m *MockService) SetAutoRole(ctx context.Context, guildID string, enabled bool) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetAutoRole", ctx, guildID, enabled)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetAutoRole indicates an expected call of SetAutoRole.
func (mr *MockServiceMockRecorder) SetAutoRole(ctx, guildID, enabled any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetAutoRole", reflect.TypeOf((*MockService)(nil).SetAutoRole), ctx, guildID, enabled)
}

// SetFreeLimits mocks base method.
func (m *MockService) SetFreeLimits(ctx context.Context, guildID string, herePerDay int) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetFreeLimits", ctx, guildID, herePerDay)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetFreeLimits indicates an expected call of SetFreeLimits.
func (mr *MockServiceMockRecorder) SetFreeLimits(ctx, guildID, herePerDay any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetFreeLimits", reflect.TypeOf((*MockService)(nil).SetFreeLimits), ctx, guildID, herePerDay)
}

// SetLogsChannel mocks base method.
func (m *MockService) SetLogsChannel(ctx context.Context, guildID string, channelID string) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetLogsChannel", ctx, guildID, channelID)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetLogsChannel indicates an expected call of SetLogsChannel.
func (mr *MockServiceMockRecorder) SetLogsChannel(ctx, guildID, channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetLogsChannel", reflect.TypeOf((*MockService)(nil).SetLogsChannel), ctx, guildID, channelID)
}

// SetRole mocks base method.
func (m *MockService) SetRole(ctx context.Context, guildID string, name string, color string) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetRole", ctx, guildID, name, color)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetRole indicates an expected call of SetRole.
func (mr *MockServiceMockRecorder) SetRole(ctx, guildID, name, color any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetRole", reflect.TypeOf((*MockService)(nil).SetRole), ctx, guildID, name, color)
}

// SetVIPLimits mocks base method.
func (m *MockService) SetVIPLimits(ctx context.Context, guildID string, herePerDay int, everyonePerWeek int) (*guildconfig.Config, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetVIPLimits", ctx, guildID, herePerDay, everyonePerWeek)
	ret0, _ := ret[0].(*guildconfig.Config)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetVIPLimits indicates an expected call of SetVIPLimits.
func (mr *MockServiceMockRecorder) SetVIPLimits(ctx, guildID, herePerDay, everyonePerWeek any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetVIPLimits", reflect.TypeOf((*MockService)(nil).SetVIPLimits), ctx, guildID, herePerDay, everyonePerWeek)
}
