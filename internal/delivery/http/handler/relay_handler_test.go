package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"search-and-destroy/internal/domain/auth"
	deviceDomain "search-and-destroy/internal/domain/device"
	userDomain "search-and-destroy/internal/domain/user"
	"search-and-destroy/internal/logger"
	"search-and-destroy/internal/middleware"
	deviceUsecase "search-and-destroy/internal/usecase/device"
	"search-and-destroy/internal/usecase/relay"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type memDirectory struct {
	mu      sync.Mutex
	devices map[uuid.UUID]*deviceDomain.Device
}

func newMemDirectory() *memDirectory {
	return &memDirectory{devices: make(map[uuid.UUID]*deviceDomain.Device)}
}

func (d *memDirectory) Create(ctx context.Context, dev *deviceDomain.Device) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dev.ID == uuid.Nil {
		dev.ID = uuid.New()
	}
	copied := *dev
	d.devices[dev.ID] = &copied
	return nil
}

func (d *memDirectory) GetByID(ctx context.Context, id uuid.UUID) (*deviceDomain.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.devices[id]
	if !ok {
		return nil, deviceDomain.ErrDeviceNotFound
	}
	copied := *dev
	return &copied, nil
}

func (d *memDirectory) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]deviceDomain.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []deviceDomain.Device
	for _, dev := range d.devices {
		if dev.OwnerID != nil && *dev.OwnerID == ownerID {
			out = append(out, *dev)
		}
	}
	return out, nil
}

func (d *memDirectory) ListAll(ctx context.Context) ([]deviceDomain.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []deviceDomain.Device
	for _, dev := range d.devices {
		out = append(out, *dev)
	}
	return out, nil
}

func (d *memDirectory) UpdateState(ctx context.Context, id uuid.UUID, state deviceDomain.State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.devices[id]
	if !ok {
		return deviceDomain.ErrDeviceNotFound
	}
	dev.State = state
	return nil
}

func (d *memDirectory) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	dev, ok := d.devices[id]
	if !ok {
		return deviceDomain.ErrDeviceNotFound
	}
	dev.Latitude = lat
	dev.Longitude = lon
	return nil
}

func (d *memDirectory) Delete(ctx context.Context, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.devices[id]; !ok {
		return deviceDomain.ErrDeviceNotFound
	}
	delete(d.devices, id)
	return nil
}

type fakeTransport struct {
	mu         sync.Mutex
	calls      int
	sendErr    error
	statusBody string
}

func (t *fakeTransport) SendCommand(ctx context.Context, address string, cmd deviceDomain.Command) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return t.sendErr
}

func (t *fakeTransport) QueryStatus(ctx context.Context, address string) (string, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return t.statusBody, nil
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// asCaller injects a verified identity the way AuthMiddleware would.
func asCaller(ac auth.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetAuthContext(c, ac)
		c.Next()
	}
}

func testRouter(dir *memDirectory, transport *fakeTransport, ac auth.Context) *gin.Engine {
	router := gin.New()

	deviceHandler := NewDeviceHandler(deviceUsecase.NewService(dir))
	relayHandler := NewRelayHandler(relay.NewService(dir, transport))

	v1 := router.Group("/api/v1")
	deviceHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(asCaller(ac))
	deviceHandler.RegisterRoutes(protected)
	relayHandler.RegisterRoutes(protected)

	return router
}

func seed(dir *memDirectory, ownerID uuid.UUID) *deviceDomain.Device {
	dev := &deviceDomain.Device{
		ID:      uuid.New(),
		Brand:   "Samsung",
		IMEI:    "490154203237518",
		Serial:  "SN-1",
		Address: "10.0.0.7",
		OwnerID: &ownerID,
		State:   deviceDomain.StateOff,
	}
	dir.devices[dev.ID] = dev
	return dev
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPowerOnEndpoint(t *testing.T) {
	dir := newMemDirectory()
	transport := &fakeTransport{}
	ownerID := uuid.New()
	dev := seed(dir, ownerID)

	router := testRouter(dir, transport, auth.Context{UserID: ownerID, Role: userDomain.RoleUser})

	w := get(router, "/api/v1/devices/"+dev.ID.String()+"/power-on")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Message == "" {
		t.Fatalf("expected success message, got %+v", resp)
	}
}

func TestRelayEndpointsForeignCallerGets403(t *testing.T) {
	dir := newMemDirectory()
	transport := &fakeTransport{}
	dev := seed(dir, uuid.New())

	router := testRouter(dir, transport, auth.Context{UserID: uuid.New(), Role: userDomain.RoleUser})

	for _, path := range []string{"/power-on", "/power-off", "/wipe", "/status"} {
		w := get(router, "/api/v1/devices/"+dev.ID.String()+path)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", path, w.Code)
		}
	}
	if transport.callCount() != 0 {
		t.Fatalf("forbidden requests reached the transport: %d calls", transport.callCount())
	}
}

func TestRelayEndpointsUnknownDeviceGets404(t *testing.T) {
	dir := newMemDirectory()
	transport := &fakeTransport{}
	router := testRouter(dir, transport, auth.Context{UserID: uuid.New(), Role: userDomain.RoleAdmin})

	w := get(router, "/api/v1/devices/"+uuid.New().String()+"/power-off")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if transport.callCount() != 0 {
		t.Fatalf("not-found request reached the transport")
	}
}

func TestStatusEndpointClassifiesBody(t *testing.T) {
	dir := newMemDirectory()
	transport := &fakeTransport{statusBody: "Status: ON"}
	ownerID := uuid.New()
	dev := seed(dir, ownerID)

	router := testRouter(dir, transport, auth.Context{UserID: ownerID, Role: userDomain.RoleUser})

	w := get(router, "/api/v1/devices/"+dev.ID.String()+"/status")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Data.State != "encendido" {
		t.Fatalf("expected encendido, got %q", resp.Data.State)
	}
}

func TestUnreachableDeviceGets500(t *testing.T) {
	dir := newMemDirectory()
	transport := &fakeTransport{sendErr: deviceDomain.ErrDeviceUnreachable}
	ownerID := uuid.New()
	dev := seed(dir, ownerID)

	router := testRouter(dir, transport, auth.Context{UserID: ownerID, Role: userDomain.RoleUser})

	w := get(router, "/api/v1/devices/"+dev.ID.String()+"/wipe")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	// Cached state must survive the failed command.
	time.Sleep(50 * time.Millisecond)
	stored, _ := dir.GetByID(context.Background(), dev.ID)
	if stored.State != deviceDomain.StateOff {
		t.Fatalf("cached state changed on failed command: %s", stored.State)
	}
}

func TestListDevicesEmptyGets404(t *testing.T) {
	dir := newMemDirectory()
	router := testRouter(dir, &fakeTransport{}, auth.Context{UserID: uuid.New(), Role: userDomain.RoleUser})

	w := get(router, "/api/v1/devices")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty device list, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListDevicesAdminScopedOwner(t *testing.T) {
	dir := newMemDirectory()
	ownerID := uuid.New()
	seed(dir, ownerID)

	router := testRouter(dir, &fakeTransport{}, auth.Context{UserID: uuid.New(), Role: userDomain.RoleAdmin})

	w := get(router, "/api/v1/devices?owner="+ownerID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Scoping to a user with no devices reports the not-found condition.
	w = get(router, "/api/v1/devices?owner="+uuid.New().String())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for zero-device owner, got %d", w.Code)
	}
}

func TestReportLocationValidation(t *testing.T) {
	dir := newMemDirectory()
	dev := seed(dir, uuid.New())
	router := testRouter(dir, &fakeTransport{}, auth.Context{})

	w := get(router, "/api/v1/devices/"+dev.ID.String()+"/report-location?lat=25.67&lon=-100.31")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	stored, _ := dir.GetByID(context.Background(), dev.ID)
	if stored.Latitude != 25.67 || stored.Longitude != -100.31 {
		t.Fatalf("location not stored: %+v", stored)
	}

	w = get(router, "/api/v1/devices/"+dev.ID.String()+"/report-location?lat=25.67")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing coordinate, got %d", w.Code)
	}

	w = get(router, "/api/v1/devices/"+dev.ID.String()+"/report-location?lat=abc&lon=1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad coordinate, got %d", w.Code)
	}
}
