package mock

import (
	context "context"
	reflect "reflect"

	period "github.com/slotwarden/slotbot/internal/domain/period"
	gomock "go.uber.org/mock/gomock"
)

// MockMaintainer is a mock of Maintainer interface.
type MockMaintainer struct {
	ctrl     *gomock.Controller
	recorder *MockMaintainerMockRecorder
	isgomock struct{}
}

// MockMaintainerMockRecorder is the mock recorder for MockMaintainer.
type MockMaintainerMockRecorder struct {
	mock *MockMaintainer
}

// NewMockMaintainer creates a new mock instance.
func NewMockMaintainer(ctrl *gomock.Controller) *MockMaintainer {
	mock := &MockMaintainer{ctrl: ctrl}
	mock.recorder = &MockMaintainerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMaintainer) EXPECT() *MockMaintainerMockRecorder {
	return m.recorder
}

// Compact mocks base method.
func (m *MockMaintainer) Compact(ctx context.Context, kind period.Kind) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compact", ctx, kind)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Compact indicates an expected call of Compact.
func (mr *MockMaintainerMockRecorder) Compact(ctx, kind any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compact", reflect.TypeOf((*MockMaintainer)(nil).Compact), ctx, kind)
}

// Sweep mocks base method.
func (m *MockMaintainer) Sweep(ctx context.Context) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Sweep", ctx)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Sweep indicates an expected call of Sweep.
func (mr *MockMaintainerMockRecorder) Sweep(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Sweep", reflect.TypeOf((*MockMaintainer)(nil).Sweep), ctx)
}
