package mock

import (
	context "context"
	reflect "reflect"
	time "time"

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

// AddPoints mocks base method.
func (m *MockRepository) AddPoints(ctx context.Context, userID string, guildID string, delta int64, now time.Time) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddPoints", ctx, userID, guildID, delta, now)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AddPoints indicates an expected call of AddPoints.
func (mr *MockRepositoryMockRecorder) AddPoints(ctx, userID, guildID, delta, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddPoints", reflect.TypeOf((*MockRepository)(nil).AddPoints), ctx, userID, guildID, delta, now)
}

// Delete mocks base method.
func (m *MockRepository) Delete(ctx context.Context, userID string, guildID string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, userID, guildID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Delete indicates an expected call of Delete.
func (mr *MockRepositoryMockRecorder) Delete(ctx, userID, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRepository)(nil).Delete), ctx, userID, guildID)
}

// DeleteExpired mocks base method.
func (m *MockRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteExpired", ctx, now)
	ret0, _ := ret[0].([]*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteExpired indicates an expected call of DeleteExpired.
func (mr *MockRepositoryMockRecorder) DeleteExpired(ctx, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteExpired", reflect.TypeOf((*MockRepository)(nil).DeleteExpired), ctx, now)
}

// FindActive mocks base method.
func (m *MockRepository) FindActive(ctx context.Context, userID string, guildID string, now time.Time) (*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindActive", ctx, userID, guildID, now)
	ret0, _ := ret[0].(*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindActive indicates an expected call of FindActive.
func (mr *MockRepositoryMockRecorder) FindActive(ctx, userID, guildID, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindActive", reflect.TypeOf((*MockRepository)(nil).FindActive), ctx, userID, guildID, now)
}

// InsertIfNoneActive mocks base method.
func (m *MockRepository) InsertIfNoneActive(ctx context.Context, slot *slots.Slot, now time.Time) (*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertIfNoneActive", ctx, slot, now)
	ret0, _ := ret[0].(*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// InsertIfNoneActive indicates an expected call of InsertIfNoneActive.
func (mr *MockRepositoryMockRecorder) InsertIfNoneActive(ctx, slot, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertIfNoneActive", reflect.TypeOf((*MockRepository)(nil).InsertIfNoneActive), ctx, slot, now)
}

// ListActive mocks base method.
func (m *MockRepository) ListActive(ctx context.Context, guildID string, now time.Time, order slots.Order, limit int) ([]*slots.Slot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListActive", ctx, guildID, now, order, limit)
	ret0, _ := ret[0].([]*slots.Slot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListActive indicates an expected call of ListActive.
func (mr *MockRepositoryMockRecorder) ListActive(ctx, guildID, now, order, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListActive", reflect.TypeOf((*MockRepository)(nil).ListActive), ctx, guildID, now, order, limit)
}

// Stats mocks base method.
func (m *MockRepository) Stats(ctx context.Context, guildID string, now time.Time) (*slots.Stats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stats", ctx, guildID, now)
	ret0, _ := ret[0].(*slots.Stats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Stats indicates an expected call of Stats.
func (mr *MockRepositoryMockRecorder) Stats(ctx, guildID, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stats", reflect.TypeOf((*MockRepository)(nil).Stats), ctx, guildID, now)
}
