package mock

import (
	context "context"
	reflect "reflect"

	enforcement "github.com/slotwarden/slotbot/internal/domain/enforcement"
	slots "github.com/slotwarden/slotbot/internal/domain/slots"
	gomock "go.uber.org/mock/gomock"
)

// MockProvisioner is a mock of Provisioner interface.
type MockProvisioner struct {
	ctrl     *gomock.Controller
	recorder *MockProvisionerMockRecorder
	isgomock struct{}
}

// MockProvisionerMockRecorder is the mock recorder for MockProvisioner.
type MockProvisionerMockRecorder struct {
	mock *MockProvisioner
}

// NewMockProvisioner creates a new mock instance.
func NewMockProvisioner(ctrl *gomock.Controller) *MockProvisioner {
	mock := &MockProvisioner{ctrl: ctrl}
	mock.recorder = &MockProvisionerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProvisioner) EXPECT() *MockProvisionerMockRecorder {
	return m.recorder
}

// AddRole mocks base method.
func (m *MockProvisioner) AddRole(ctx context.Context, guildID string, userID string, roleID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddRole", ctx, guildID, userID, roleID)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddRole indicates an expected call of AddRole.
func (mr *MockProvisionerMockRecorder) AddRole(ctx, guildID, userID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddRole", reflect.TypeOf((*MockProvisioner)(nil).AddRole), ctx, guildID, userID, roleID)
}

// CreateChannel mocks base method.
func (m *MockProvisioner) CreateChannel(ctx context.Context, guildID string, spec enforcement.ChannelSpec) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateChannel", ctx, guildID, spec)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateChannel indicates an expected call of CreateChannel.
func (mr *MockProvisionerMockRecorder) CreateChannel(ctx, guildID, spec any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateChannel", reflect.TypeOf((*MockProvisioner)(nil).CreateChannel), ctx, guildID, spec)
}

// CreateRole mocks base method.
func (m *MockProvisioner) CreateRole(ctx context.Context, guildID string, name string, color string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateRole", ctx, guildID, name, color)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateRole indicates an expected call of CreateRole.
func (mr *MockProvisionerMockRecorder) CreateRole(ctx, guildID, name, color any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateRole", reflect.TypeOf((*MockProvisioner)(nil).CreateRole), ctx, guildID, name, color)
}

// DeleteChannel mocks base method.
func (m *MockProvisioner) DeleteChannel(ctx context.Context, channelID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteChannel", ctx, channelID)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteChannel indicates an expected call of DeleteChannel.
func (mr *MockProvisionerMockRecorder) DeleteChannel(ctx, channelID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteChannel", reflect.TypeOf((*MockProvisioner)(nil).DeleteChannel), ctx, channelID)
}

// FindRole mocks base method.
func (m *MockProvisioner) FindRole(ctx context.Context, guildID string, name string) (string, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindRole", ctx, guildID, name)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// FindRole indicates an expected call of FindRole.
func (mr *MockProvisionerMockRecorder) FindRole(ctx, guildID, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindRole", reflect.TypeOf((*MockProvisioner)(nil).FindRole), ctx, guildID, name)
}

// RemoveRole mocks base method.
func (m *MockProvisioner) RemoveRole(ctx context.Context, guildID string, userID string, roleID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveRole", ctx, guildID, userID, roleID)
	ret0, _ := ret[0].(error)
	return ret0
}

// RemoveRole indicates an expected call of RemoveRole.
func (mr *MockProvisionerMockRecorder) RemoveRole(ctx, guildID, userID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveRole", reflect.TypeOf((*MockProvisioner)(nil).RemoveRole), ctx, guildID, userID, roleID)
}

// MockNotifier is a mock of Notifier interface.
type MockNotifier struct {
	ctrl     *gomock.Controller
	recorder *MockNotifierMockRecorder
	isgomock struct{}
}

// MockNotifierMockRecorder is the mock recorder for MockNotifier.
type MockNotifierMockRecorder struct {
	mock *MockNotifier
}

// NewMockNotifier creates a new mock instance.
func NewMockNotifier(ctrl *gomock.Controller) *MockNotifier {
	mock := &MockNotifier{ctrl: ctrl}
	mock.recorder = &MockNotifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNotifier) EXPECT() *MockNotifierMockRecorder {
	return m.recorder
}

// Notify mocks base method.
func (m *MockNotifier) Notify(ctx context.Context, channelID string, content string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Notify", ctx, channelID, content)
	ret0, _ := ret[0].(error)
	return ret0
}

// Notify indicates an expected call of Notify.
func (mr *MockNotifierMockRecorder) Notify(ctx, channelID, content any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Notify", reflect.TypeOf((*MockNotifier)(nil).Notify), ctx, channelID, content)
}

// MockIndexer is a mock of Indexer interface.
type MockIndexer struct {
	ctrl     *gomock.Controller
	recorder *MockIndexerMockRecorder
	isgomock struct{}
}

// MockIndexerMockRecorder is the mock recorder for MockIndexer.
type MockIndexerMockRecorder struct {
	mock *MockIndexer
}

// NewMockIndexer creates a new mock instance.
func NewMockIndexer(ctrl *gomock.Controller) *MockIndexer {
	mock := &MockIndexer{ctrl: ctrl}
	mock.recorder = &MockIndexerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIndexer) EXPECT() *MockIndexerMockRecorder {
	return m.recorder
}

// Remove mocks base method.
func (m *MockIndexer) Remove(ctx context.Context, userID string, guildID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", ctx, userID, guildID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Remove indicates an expected call of Remove.
func (mr *MockIndexerMockRecorder) Remove(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockIndexer)(nil).Remove), ctx, userID, guildID)
}

// Upsert mocks base method.
func (m *MockIndexer) Upsert(ctx context.Context, slot *slots.Slot) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, slot)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert.
func (mr *MockIndexerMockRecorder) Upsert(ctx, slot any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockIndexer)(nil).Upsert), ctx, slot)
}

// MockActivityLog is a mock of ActivityLog interface.
type MockActivityLog struct {
	ctrl     *gomock.Controller
	recorder *MockActivityLogMockRecorder
	isgomock struct{}
}

// MockActivityLogMockRecorder is the mock recorder for MockActivityLog.
type MockActivityLogMockRecorder struct {
	mock *MockActivityLog
}

// NewMockActivityLog creates a new mock instance.
func NewMockActivityLog(ctrl *gomock.Controller) *MockActivityLog {
	mock := &MockActivityLog{ctrl: ctrl}
	mock.recorder = &MockActivityLogMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockActivityLog) EXPECT() *MockActivityLogMockRecorder {
	return m.recorder
}

// Recent mocks base method.
func (m *MockActivityLog) Recent(ctx context.Context, guildID string, limit int) ([]enforcement.Entry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Recent", ctx, guildID, limit)
	ret0, _ := ret[0].([]enforcement.Entry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Recent indicates an expected call of Recent.
func (mr *MockActivityLogMockRecorder) Recent(ctx, guildID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Recent", reflect.TypeOf((*MockActivityLog)(nil).Recent), ctx, guildID, limit)
}

// Record mocks base method.
func (m *MockActivityLog) Record(ctx context.Context, entry enforcement.Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// Record indicates an expected call of Record.
func (mr *MockActivityLogMockRecorder) Record(ctx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockActivityLog)(nil).Record), ctx, entry)
}
