package mock

import (
	context "context"
	reflect "reflect"
	time "time"

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

// AwardPoints mocks base method.
func (m *MockService) AwardPoints(ctx context.Context, userID string, guildID string, delta int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AwardPoints", ctx, userID, guildID, delta)
	ret0, _ := ret[0].(error)
	return ret0
}

// AwardPoints indicates an expected call of AwardPoints.
func (mr *MockServiceMockRecorder) AwardPoints(ctx, userID, guildID, delta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AwardPoints", reflect.TypeOf((*MockService)(nil).AwardPoints), ctx, userID, guildID, delta)
}

// Expire mocks base method.
func (m *MockService) Expire(ctx context.Context, now time.Time) ([]*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Expire", ctx, now)
	ret0, _ := ret[0].([]*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Expire indicates an expected call of Expire.
func (mr *MockServiceMockRecorder) Expire(ctx, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Expire", reflect.TypeOf((*MockService)(nil).Expire), ctx, now)
}

// Issue mocks base method.
func (m *MockService) Issue(ctx context.Context, req slots.IssueRequest) (*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Issue", ctx, req)
	ret0, _ := ret[0].(*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Issue indicates an expected call of Issue.
func (mr *MockServiceMockRecorder) Issue(ctx, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Issue", reflect.TypeOf((*MockService)(nil).Issue), ctx, req)
}

// ListActive mocks base method.
func (m *MockService) ListActive(ctx context.Context, guildID string, order slots.Order, limit int) ([]*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListActive", ctx, guildID, order, limit)
	ret0, _ := ret[0].([]*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListActive indicates an expected call of ListActive.
func (mr *MockServiceMockRecorder) ListActive(ctx, guildID, order, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListActive", reflect.TypeOf((*MockService)(nil).ListActive), ctx, guildID, order, limit)
}

// LookupActive mocks base method.
func (m *MockService) LookupActive(ctx context.Context, userID string, guildID string) (*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LookupActive", ctx, userID, guildID)
	ret0, _ := ret[0].(*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LookupActive indicates an expected call of LookupActive.
func (mr *MockServiceMockRecorder) LookupActive(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LookupActive", reflect.TypeOf((*MockService)(nil).LookupActive), ctx, userID, guildID)
}

// Revoke mocks base method.
func (m *MockService) Revoke(ctx context.Context, userID string, guildID string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Revoke", ctx, userID, guildID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Revoke indicates an expected call of Revoke.
func (mr *MockServiceMockRecorder) Revoke(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Revoke", reflect.TypeOf((*MockService)(nil).Revoke), ctx, userID, guildID)
}

// Stats mocks base method.
func (m *MockService) Stats(ctx context.Context, guildID string) (*slots.Stats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stats", ctx, guildID)
	ret0, _ := ret[0].(*slots.Stats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Stats indicates an expected call of Stats.
func (mr *MockServiceMockRecorder) Stats(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stats", reflect.TypeOf((*MockService)(nil).Stats), ctx, guildID)
}

// SweepExpired mocks base method.
func (m *MockService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SweepExpired", ctx, now)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SweepExpired indicates an expected call of SweepExpired.
func (mr *MockServiceMockRecorder) SweepExpired(ctx, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SweepExpired", reflect.TypeOf((*MockService)(nil).SweepExpired), ctx, now)
}

// TopByPoints mocks base method.
func (m *MockService) TopByPoints(ctx context.Context, guildID string, limit int) ([]*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TopByPoints", ctx, guildID, limit)
	ret0, _ := ret[0].([]*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TopByPoints indicates an expected call of TopByPoints.
func (mr *MockServiceMockRecorder) TopByPoints(ctx, guildID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TopByPoints", reflect.TypeOf((*MockService)(nil).TopByPoints), ctx, guildID, limit)
}
