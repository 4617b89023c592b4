package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"price-quoter/src/contract"
	"price-quoter/src/form"
	"price-quoter/src/logger"
	"price-quoter/src/models"
	"price-quoter/src/view"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type fakePricer struct {
	mu       sync.Mutex
	formID   int64
	requests int
	forgets  int
	err      error
}

func (p *fakePricer) ProcessPriceRequest(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formID++
	p.requests++
	return p.err
}

func (p *fakePricer) ProcessForgetProposals(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forgets++
	return p.err
}

func (p *fakePricer) FormID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.formID
}

type testEnv struct {
	server  *APIServer
	board   *view.Board
	form    *form.Form
	catalog *contract.Catalog
	pricer  *fakePricer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		board: view.NewBoard([]string{"top", "bottom"}, 1024),
		form: form.NewForm([]models.MFieldPreset{
			{ID: "amount", Value: "10"},
			{ID: "currency", Value: "USD"},
		}),
		catalog: contract.NewCatalog(models.MTradingConfig{
			Form:  "risefall",
			Forms: map[string]map[string]string{"risefall": {"CALL": "Rise"}, "digits": {"DIGITEVEN": "Even"}},
		}),
		pricer: &fakePricer{},
	}
	cfg := &models.MConfig{Host: "127.0.0.1", Port: 0, LogLevel: "INFO"}
	env.server = NewAPIServer(cfg, logger.NewNop(), Dependencies{
		Board:    env.board,
		Form:     env.form,
		Selector: env.catalog,
		Pricer:   env.pricer,
	})
	t.Cleanup(func() { env.server.Stop(context.Background()) })
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

// -----------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["socket_connected"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestPutFormTriggersPriceRequest(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPut, "/api/form", `{"form":"digits","form_name":"evenodd","fields":{"amount":{"value":"abc"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}

	var body struct {
		Errors map[string]string `json:"errors"`
		FormID int64             `json:"form_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FormID != 1 || env.pricer.requests != 1 {
		t.Errorf("form id = %d, requests = %d", body.FormID, env.pricer.requests)
	}
	if body.Errors["amount"] == "" {
		t.Errorf("invalid amount not reported: %v", body.Errors)
	}
	if env.catalog.Form() != "digits" || env.catalog.FormName() != "evenodd" {
		t.Errorf("form = %s/%s", env.catalog.Form(), env.catalog.FormName())
	}
	if f, _ := env.form.Field("amount"); f.Value != "abc" {
		t.Errorf("amount = %q", f.Value)
	}
}

func TestPutFormRejectsUnknownForm(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, http.MethodPut, "/api/form", `{"form":"lookbacks"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/api/form", `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if env.pricer.requests != 0 {
		t.Error("rejected change must not request prices")
	}
}

func TestForgetReportsTransportErrors(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(t, http.MethodPost, "/api/forget", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	env.pricer.err = errors.New("socket not connected")
	if rec := env.do(t, http.MethodPost, "/api/forget", ""); rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSlotRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.board.ApplySlot("top", models.MSlotView{
		Visible:         true,
		PurchaseVisible: true,
		Purchase:        map[string]string{"purchase-id": "p1", "ask-price": "5.2"},
	})

	rec := env.do(t, http.MethodGet, "/api/slots", "")
	var state models.MBoardState
	json.Unmarshal(rec.Body.Bytes(), &state)
	if len(state.Slots) != 2 || !state.Slots["top"].Visible {
		t.Errorf("slots = %+v", state.Slots)
	}

	if rec := env.do(t, http.MethodGet, "/api/slots/middle", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing slot status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/slots/top/purchase", "")
	var purchase struct {
		Visible    bool              `json:"visible"`
		Attributes map[string]string `json:"attributes"`
	}
	json.Unmarshal(rec.Body.Bytes(), &purchase)
	if !purchase.Visible || purchase.Attributes["purchase-id"] != "p1" {
		t.Errorf("purchase = %+v", purchase)
	}

	if rec := env.do(t, http.MethodGet, "/api/quotes/top/latest", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("quote log disabled status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/form", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://127.0.0.1:3000" {
		t.Errorf("preflight = %d %v", rec.Code, rec.Header())
	}
}

// -----------------------------------------------------------------------------

func TestWebSocketReceivesBoardUpdates(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() models.MBoardState {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var state models.MBoardState
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return state
	}

	if initial := read(); initial.Type != "INITIAL" || len(initial.Slots) != 2 {
		t.Fatalf("initial = %+v", initial)
	}

	cmd, _ := json.Marshal(models.MSubscribeCommand{Command: "subscribe", Slots: []string{"top"}, ViewportWidth: 480})
	if err := conn.WriteMessage(websocket.TextMessage, cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	if narrowed := read(); len(narrowed.Slots) != 1 {
		t.Fatalf("subscribe reply = %+v", narrowed)
	}
	if env.board.ViewportWidth() != 480 {
		t.Errorf("viewport = %d", env.board.ViewportWidth())
	}

	env.board.ApplySlot("top", models.MSlotView{Visible: true, Heading: "Rise"})
	update := read()
	if update.Type != "UPDATE" || update.Slots["top"].Heading != "Rise" || len(update.Slots) != 1 {
		t.Errorf("update = %+v", update)
	}
}
