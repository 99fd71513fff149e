package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/plant-monitor-service/pkg/plant/mocks"
	_ "liyu1981.xyz/plant-monitor-service/pkg/testing"

	"liyu1981.xyz/plant-monitor-service/pkg/auth"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/db"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
	"liyu1981.xyz/plant-monitor-service/pkg/sheets"
	"liyu1981.xyz/plant-monitor-service/pkg/uploads"
)

func setupTestServer(t *testing.T) *RestfulServer {
	dbInstance, err := db.NewInstance(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)

	wb, err := sheets.NewWorkbook(t.TempDir())
	require.NoError(t, err)

	uploadsDir := t.TempDir()
	files, err := uploads.NewDir(uploadsDir)
	require.NoError(t, err)

	loc, err := plant.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	p := &plant.Plant{
		Db:       *dbInstance,
		Store:    wb,
		Files:    files,
		SourceID: "plants",
		Location: loc,
	}
	p.WithDefaultServices()

	rs := &RestfulServer{
		Server:     gin.Default(),
		Plant:      p,
		UploadsDir: uploadsDir,
		// default we use no limiter, if need, later assign it rs.RateLimiterStore = plant.NewRateLimiterStore(...)
	}

	rs.Setup()

	return rs
}

func serve(rs *RestfulServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path, name, photoName string) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if name != "" {
		require.NoError(t, mw.WriteField("name", name))
	}
	if photoName != "" {
		part, err := mw.CreateFormFile("photo", photoName)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type registerResponse struct {
	Outcome models.PairingOutcome `json:"outcome"`
	Device  models.Device         `json:"device"`
}

func registerDevice(t *testing.T, rs *RestfulServer, mac string) registerResponse {
	w := serve(rs, jsonRequest("POST", "/devices/register", gin.H{"mac": mac}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp registerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer(t)

	w := serve(rs, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPlantLifecycle(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := serve(rs, multipartRequest(t, "POST", "/plants", "Basil", "basil.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Basil", created.DisplayName)
	assert.True(t, strings.HasPrefix(created.PhotoReference, uploads.URLPrefix))
	require.NotNil(t, created.DeviceIdentifier)

	photo := serve(rs, httptest.NewRequest("GET", created.PhotoReference, nil))
	assert.Equal(t, http.StatusOK, photo.Code)
	assert.Equal(t, "image-bytes", photo.Body.String())

	w = serve(rs, httptest.NewRequest("GET", fmt.Sprintf("/plants/%d", created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.Identifier(), got.Identifier())

	w = serve(rs, multipartRequest(t, "PUT", fmt.Sprintf("/plants/%d", created.ID), "Sweet Basil", ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Sweet Basil", updated.DisplayName)
	assert.Equal(t, created.PhotoReference, updated.PhotoReference)

	w = serve(rs, httptest.NewRequest("GET", "/plants", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = serve(rs, httptest.NewRequest("DELETE", fmt.Sprintf("/plants/%d", created.ID), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(rs, httptest.NewRequest("GET", fmt.Sprintf("/plants/%d", created.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePlant_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	// name is required
	w := serve(rs, multipartRequest(t, "POST", "/plants", "", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// only image uploads are accepted
	w = serve(rs, multipartRequest(t, "POST", "/plants", "Basil", "basil.exe"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/plants/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/plants/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterDevice(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	w := serve(rs, multipartRequest(t, "POST", "/plants", "Basil", ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var manual models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manual))

	first := registerDevice(t, rs, "aa:bb:cc:dd:ee:ff")
	assert.Equal(t, models.PairingPairedExisting, first.Outcome)
	assert.Equal(t, manual.ID, first.Device.ID)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", first.Device.Identifier())

	second := registerDevice(t, rs, "AA:BB:CC:DD:EE:FF")
	assert.Equal(t, models.PairingAlreadyPaired, second.Outcome)

	third := registerDevice(t, rs, "11:22:33:44:55:66")
	assert.Equal(t, models.PairingCreatedNew, third.Outcome)
	assert.Equal(t, "Plant-5566", third.Device.DisplayName)

	w = serve(rs, jsonRequest("POST", "/devices/register", gin.H{"mac": "zz"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, jsonRequest("POST", "/devices/register", gin.H{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandDelivery(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	mac := "AA:BB:CC:DD:EE:01"
	device := registerDevice(t, rs, mac).Device

	w := serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/command", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(rs, jsonRequest("POST", fmt.Sprintf("/plants/%d/commands", device.ID), gin.H{"kind": 1, "value": 30}))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/command", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":1,"value":30}`, w.Body.String())

	w = serve(rs, jsonRequest("POST", fmt.Sprintf("/plants/%d/watering", device.ID), gin.H{"threshold": 40, "enabled": true}))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	// both settings were sent in sequence; only the last survives
	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/command", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":4,"value":1}`, w.Body.String())

	w = serve(rs, jsonRequest("POST", "/devices/"+mac+"/command/ack", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true}`, w.Body.String())

	w = serve(rs, jsonRequest("POST", "/devices/"+mac+"/command/ack", nil))
	assert.JSONEq(t, `{"acknowledged":false}`, w.Body.String())

	w = serve(rs, jsonRequest("POST", fmt.Sprintf("/plants/%d/water", device.ID), nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/command", nil))
	assert.JSONEq(t, `{"kind":3,"value":1}`, w.Body.String())
}

func TestCommand_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	device := registerDevice(t, rs, "AA:BB:CC:DD:EE:02").Device

	w := serve(rs, jsonRequest("POST", fmt.Sprintf("/plants/%d/commands", device.ID), gin.H{"kind": 9, "value": 1}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, jsonRequest("POST", fmt.Sprintf("/plants/%d/watering", device.ID), gin.H{"threshold": 140}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, jsonRequest("POST", "/plants/999/commands", gin.H{"kind": 1, "value": 1}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetDelivery(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	mac := "AA:BB:CC:DD:EE:03"
	device := registerDevice(t, rs, mac).Device

	w := serve(rs, httptest.NewRequest("POST", fmt.Sprintf("/plants/%d/reset", device.ID), nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reset":true}`, w.Body.String())

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/reset", nil))
	assert.JSONEq(t, `{"reset":false}`, w.Body.String())

	// unknown units are never blocked
	w = serve(rs, httptest.NewRequest("GET", "/devices/FF:FF:FF:FF:FF:FF/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reset":false}`, w.Body.String())
}

func TestDevicePollsWithLowercaseMAC(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	mac := "aa:bb:cc:dd:ee:06"
	resp := registerDevice(t, rs, mac)
	assert.Equal(t, models.PairingCreatedNew, resp.Outcome)
	assert.Equal(t, "AA:BB:CC:DD:EE:06", resp.Device.Identifier())

	again := registerDevice(t, rs, "aabbccddee06")
	assert.Equal(t, models.PairingAlreadyPaired, again.Outcome)
	assert.Equal(t, resp.Device.ID, again.Device.ID)

	w := serve(rs, httptest.NewRequest("POST", fmt.Sprintf("/plants/%d/water", resp.Device.ID), nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/command", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":3,"value":1}`, w.Body.String())

	w = serve(rs, jsonRequest("POST", "/devices/"+mac+"/command/ack", nil))
	assert.JSONEq(t, `{"acknowledged":true}`, w.Body.String())

	w = serve(rs, httptest.NewRequest("POST", fmt.Sprintf("/plants/%d/reset", resp.Device.ID), nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/"+mac+"/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reset":true}`, w.Body.String())
}

func TestTelemetry(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)

	mac := "AA:BB:CC:DD:EE:04"
	device := registerDevice(t, rs, mac).Device

	now := time.Date(2025, 8, 20, 4, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	for _, row := range [][]string{
		{plant.FormatTimestamp(now.Add(-40*day), rs.Plant.Location), "20", "50"},
		{plant.FormatTimestamp(now.Add(-8*day), rs.Plant.Location), "24", ""},
		{plant.FormatTimestamp(now.Add(-2*day), rs.Plant.Location), "", "60"},
	} {
		require.NoError(t, rs.Plant.Store.AppendRow("plants", mac, row))
	}

	base := fmt.Sprintf("/plants/%d/telemetry", device.ID)

	query := url.Values{}
	query.Set("start", now.Add(-10*day).Format(time.RFC3339))
	query.Set("end", now.Format(time.RFC3339))
	w := serve(rs, httptest.NewRequest("GET", base+"?"+query.Encode(), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var readings []models.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 2)
	assert.True(t, readings[0].Timestamp.Equal(now.Add(-8*day)))
	assert.Nil(t, readings[1].Temperature)

	query.Set("fill", "ffill")
	w = serve(rs, httptest.NewRequest("GET", base+"?"+query.Encode(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 2)
	require.NotNil(t, readings[1].Temperature)
	assert.Equal(t, 24.0, *readings[1].Temperature)

	w = serve(rs, httptest.NewRequest("GET", base+"?limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 2)
	assert.True(t, readings[0].Timestamp.Equal(now.Add(-8*day)))
	assert.True(t, readings[1].Timestamp.Equal(now.Add(-2*day)))

	w = serve(rs, httptest.NewRequest("GET", base, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 1)
	assert.True(t, readings[0].Timestamp.Equal(now.Add(-2*day)))

	w = serve(rs, httptest.NewRequest("GET", base+"?start=2025-08-01", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(rs, httptest.NewRequest("GET", base+"?start=yesterday&end=today", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceRateLimit(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	rs.RateLimiterStore = plant.NewRateLimiterStore(0, 1)

	w := serve(rs, httptest.NewRequest("GET", "/devices/AA:BB/command", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/AA:BB/command", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = serve(rs, httptest.NewRequest("GET", "/devices/CC:DD/command", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestControlRequiresToken(t *testing.T) {
	common.SetTestLoggerNop()

	secret := []byte("test-secret")
	rs := setupTestServer(t)
	rs.JWTSecret = secret
	rs.Server = gin.Default()
	rs.Setup()

	w := serve(rs, httptest.NewRequest("GET", "/plants", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.IssueJWT("gardener", time.Hour, secret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/plants", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(rs, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// device routes stay open
	w = serve(rs, httptest.NewRequest("GET", "/devices/AA:BB/command", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer(t)
	registerDevice(t, rs, "AA:BB:CC:DD:EE:05")

	w := serve(rs, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `plant_registrations_total{outcome="CREATED_NEW"}`)
}

func TestErrorStatusMapping(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	p := (&plant.Plant{}).WithServices(plant.ServiceOpts{Registry: registry, Mailbox: plant.NewMailbox()})

	rs := &RestfulServer{Server: gin.Default(), Plant: p}
	rs.Setup()

	registry.EXPECT().List().Return(nil, common.ExternalError("list devices", errors.New("disk I/O error"))).Times(1)
	registry.EXPECT().GetByID(uint(7)).Return(nil, common.NotFoundf("device 7")).Times(1)
	registry.EXPECT().RegisterAuto("AA:BB").Return(nil, models.PairingOutcome(""), common.Conflictf("mac taken")).Times(1)

	w := serve(rs, httptest.NewRequest("GET", "/plants", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"external"`)

	w = serve(rs, httptest.NewRequest("GET", "/plants/7", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(rs, jsonRequest("POST", "/devices/register", gin.H{"mac": "AA:BB"}))
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(common.Validationf("bad")))
}
