package mock

import (
	context "context"
	reflect "reflect"

	period "github.com/slotwarden/slotbot/internal/domain/period"
	slots "github.com/slotwarden/slotbot/internal/domain/slots"
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

// Count mocks base method.
func (m *MockRepository) Count(ctx context.Context, userID string, guildID string, kind period.Kind, periodKey string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Count", ctx, userID, guildID, kind, periodKey)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Count indicates an expected call of Count.
func (mr *MockRepositoryMockRecorder) Count(ctx, userID, guildID, kind, periodKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Count", reflect.TypeOf((*MockRepository)(nil).Count), ctx, userID, guildID, kind, periodKey)
}

// DeleteStale mocks base method.
func (m *MockRepository) DeleteStale(ctx context.Context, kind period.Kind, currentKey string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteStale", ctx, kind, currentKey)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteStale indicates an expected call of DeleteStale.
func (mr *MockRepositoryMockRecorder) DeleteStale(ctx, kind, currentKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteStale", reflect.TypeOf((*MockRepository)(nil).DeleteStale), ctx, kind, currentKey)
}

// Increment mocks base method.
func (m *MockRepository) Increment(ctx context.Context, userID string, guildID string, kind period.Kind, periodKey string) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Increment", ctx, userID, guildID, kind, periodKey)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Increment indicates an expected call of Increment.
func (mr *MockRepositoryMockRecorder) Increment(ctx, userID, guildID, kind, periodKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Increment", reflect.TypeOf((*MockRepository)(nil).Increment), ctx, userID, guildID, kind, periodKey)
}

// MockLimits is a mock of Limits interface.
type MockLimits struct {
	ctrl     *gomock.Controller
	recorder *MockLimitsMockRecorder
	isgomock struct{}
}

// MockLimitsMockRecorder is the mock recorder for MockLimits.
type MockLimitsMockRecorder struct {
	mock *MockLimits
}

// NewMockLimits creates a new mock instance.
func NewMockLimits(ctrl *gomock.Controller) *MockLimits {
	mock := &MockLimits{ctrl: ctrl}
	mock.recorder = &MockLimitsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLimits) EXPECT() *MockLimitsMockRecorder {
	return m.recorder
}

// LimitFor mocks base method.
func (m *MockLimits) LimitFor(ctx context.Context, guildID string, kind period.Kind, category slots.Category) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LimitFor", ctx, guildID, kind, category)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LimitFor indicates an expected call of LimitFor.
func (mr *MockLimitsMockRecorder) LimitFor(ctx, guildID, kind, category any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LimitFor", reflect.TypeOf((*MockLimits)(nil).LimitFor), ctx, guildID, kind, category)
}
