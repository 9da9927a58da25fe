package visa

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type MockDevice struct {
	mock.Mock
}

var _ Device = (*MockDevice)(nil)

func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

func (m *MockDevice) Write(cmd string) error {
	args := m.Called(cmd)
	return args.Error(0)
}

func (m *MockDevice) Query(cmd string) (string, error) {
	args := m.Called(cmd)
	return args.String(0), args.Error(1)
}

func (m *MockDevice) Timeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockDevice) SetTimeout(timeout time.Duration) error {
	args := m.Called(timeout)
	return args.Error(0)
}

func (m *MockDevice) Close() error {
	args := m.Called()
	return args.Error(0)
}
