package pilot_discovery

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistrar struct{ mock.Mock }

func (m *mockRegistrar) register(instance, service, domain string, port int, txt []string, ifaces []net.Interface, ttl uint32) (Service, error) {
	ret := m.Called(instance, service, domain, port, txt, ttl)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Service), ret.Error(1)
}

type mockService struct{ mock.Mock }

func (s *mockService) Shutdown() { s.Called() }

func testInfo() Info {
	return Info{Target: "wizwiki-7500eco", MACSuffix: "aabbcc", Port: 8080, Pins: []string{"a", "b", "c", "d"}}
}

func TestAdvertise(t *testing.T) {
	reg := &mockRegistrar{}
	svc := &mockService{}
	txt := []string{"path=/index", "target=wizwiki-7500eco", "pins=a,b,c,d"}
	reg.On("register", "wizwiki-7500eco-aabbcc", "_http._tcp", "local.", 8080, txt, uint32(120)).Return(svc, nil).Once()
	svc.On("Shutdown").Return().Once()

	a := NewAdvertiserWithRegister(Config{TTL: 2 * time.Minute}, reg.register)
	require.NoError(t, a.Advertise(context.Background(), testInfo()))
	assert.Equal(t, "wizwiki-7500eco-aabbcc", a.Instance())

	require.NoError(t, a.Stop())
	require.NoError(t, a.Stop())
	assert.Empty(t, a.Instance())

	reg.AssertExpectations(t)
	svc.AssertExpectations(t)
}

func TestAdvertiseReplacesRunning(t *testing.T) {
	reg := &mockRegistrar{}
	first := &mockService{}
	second := &mockService{}
	reg.On("register", "bench", ServiceType, Domain, DefaultPort, mock.Anything, uint32(0)).Return(first, nil).Once()
	reg.On("register", "bench", ServiceType, Domain, DefaultPort, mock.Anything, uint32(0)).Return(second, nil).Once()
	first.On("Shutdown").Return().Once()

	a := NewAdvertiserWithRegister(Config{Instance: "bench"}, reg.register)
	info := testInfo()
	info.Port = 0
	require.NoError(t, a.Advertise(context.Background(), info))
	require.NoError(t, a.Advertise(context.Background(), info))

	reg.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Shutdown")
}

func TestAdvertiseError(t *testing.T) {
	reg := &mockRegistrar{}
	reg.On("register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no multicast interface"))

	a := NewAdvertiserWithRegister(Config{}, reg.register)
	err := a.Advertise(context.Background(), testInfo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no multicast interface")
	assert.Empty(t, a.Instance())
}

func TestAdvertiseCancelled(t *testing.T) {
	reg := &mockRegistrar{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAdvertiserWithRegister(Config{}, reg.register)
	assert.ErrorIs(t, a.Advertise(ctx, testInfo()), context.Canceled)
	reg.AssertNotCalled(t, "register")
}

func TestInstanceName(t *testing.T) {
	assert.Equal(t, "board", InstanceName(Info{Target: "board"}))
	long := InstanceName(Info{Target: strings.Repeat("x", 70), MACSuffix: "aabbcc"})
	assert.Len(t, long, MaxInstanceNameLen)
}

func TestEncodeTXT(t *testing.T) {
	assert.Equal(t, []string{"path=/userio", "target=t", "pins=a"}, EncodeTXT(Info{Target: "t", Path: "userio", Pins: []string{"a"}}))
}
