package handlers

import (
	"context"
	"net/http"

	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockIngest struct {
	err      error
	uploads  []models.DeviceReading
	recordID string
}

func (m *mockIngest) Upload(ctx context.Context, r models.DeviceReading) (models.ReadingRecord, error) {
	m.uploads = append(m.uploads, r)
	if m.err != nil {
		return models.ReadingRecord{}, m.err
	}
	return models.ReadingRecord{ID: m.recordID, DeviceReading: r}, nil
}

type mockMonitoring struct {
	devices   []models.Device
	listErr   error
	state     models.ReadingRecord
	stateErr  error
	lastState int
}

func (m *mockMonitoring) ListDevices(ctx context.Context) ([]models.Device, error) {
	return m.devices, m.listErr
}

func (m *mockMonitoring) GetDeviceState(ctx context.Context, deviceID int) (models.ReadingRecord, error) {
	m.lastState = deviceID
	return m.state, m.stateErr
}

type mockReadingLog struct {
	resp       []models.ReadingRecord
	err        error
	lastFilter service.ReadingFilter
	calls      int
}

func (m *mockReadingLog) List(ctx context.Context, f service.ReadingFilter) ([]models.ReadingRecord, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

const testAPIKey = "device-key"

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, testAPIKey, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeader(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
