package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mgi25/news-market-game-updated/internal/config"
	"github.com/mgi25/news-market-game-updated/internal/domain"
	"github.com/mgi25/news-market-game-updated/internal/engine"
	"github.com/mgi25/news-market-game-updated/internal/service"
	"github.com/mgi25/news-market-game-updated/internal/store"
)

const adminPassword = "secret"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	instruments, err := domain.NewInstrumentSet([]domain.Instrument{
		{Ticker: "NVX", Name: "Novatrix Systems", Sector: "Tech", StartPrice: 100},
		{Ticker: "QBT", Name: "Qubitron Labs", Sector: "Tech", StartPrice: 50},
		{Ticker: "MRB", Name: "Meridian Bank", Sector: "Banking", StartPrice: 80},
	})
	if err != nil {
		t.Fatal(err)
	}

	catalogue, err := domain.NewCatalogue([]domain.NewsEvent{
		{
			ID:        "tech-rally",
			Headline:  "Tech rally headline",
			Direction: domain.DirectionUp,
			Intensity: domain.IntensityHigh,
			Sectors:   []string{"Tech"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	eng := engine.New(cfg, instruments, engine.NewSource(7))
	players := store.NewPlayerStore(cfg.StartCashCents)

	marketSvc := service.NewMarketService(eng, players, instruments)
	tradeSvc := service.NewTradeService(eng, players)
	adminSvc := service.NewAdminService(eng, players, catalogue, engine.NewSource(0), adminPassword)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(marketSvc, tradeSvc, adminSvc, logger)
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestBootstrapEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/bootstrap", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Companies []domain.Instrument `json:"companies"`
		Sectors   []string            `json:"sectors"`
	}
	decodeBody(t, rec, &body)
	if len(body.Companies) != 3 || len(body.Sectors) != 2 {
		t.Errorf("unexpected bootstrap: %d companies, %d sectors", len(body.Companies), len(body.Sectors))
	}
}

func TestStateEndpoint_RedactionByViewer(t *testing.T) {
	r := newTestRouter(t)

	// Open a round so the impact map carries real levels.
	rec := doJSON(t, r, http.MethodPost, "/api/admin/trigger",
		map[string]string{"password": adminPassword, "news_id": "tech-rally"})
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger failed: %d %s", rec.Code, rec.Body.String())
	}

	var presenter struct {
		Status    string            `json:"status"`
		ImpactMap map[string]string `json:"impact_map"`
	}
	rec = doJSON(t, r, http.MethodGet, "/api/state", nil)
	decodeBody(t, rec, &presenter)
	if presenter.Status != "REACTION" {
		t.Fatalf("expected REACTION, got %q", presenter.Status)
	}
	if presenter.ImpactMap["NVX"] != "DIRECT" {
		t.Errorf("presenter must see DIRECT, got %q", presenter.ImpactMap["NVX"])
	}

	var player struct {
		ImpactMap map[string]string `json:"impact_map"`
		Portfolio map[string]any    `json:"portfolio"`
		News      map[string]any    `json:"news"`
	}
	rec = doJSON(t, r, http.MethodGet, "/api/state?player=alice", nil)
	decodeBody(t, rec, &player)
	for tkr, lvl := range player.ImpactMap {
		if lvl != "NONE" {
			t.Errorf("%s: player must see NONE, got %q", tkr, lvl)
		}
	}
	if player.Portfolio == nil {
		t.Error("player view must include a portfolio")
	}
	for _, forbidden := range []string{"direction", "intensity", "sectors", "tickers"} {
		if _, ok := player.News[forbidden]; ok {
			t.Errorf("player news leaks %q", forbidden)
		}
	}
}

func TestTradeEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/trade",
		map[string]any{"player": "alice", "ticker": "NVX", "side": "BUY", "qty": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var result struct {
		FillPrice float64 `json:"fill_price"`
		Fee       float64 `json:"fee"`
	}
	decodeBody(t, rec, &result)
	if result.FillPrice <= 0 || result.Fee <= 0 {
		t.Errorf("unexpected fill: %+v", result)
	}
}

func TestTradeEndpoint_ErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			"unknown ticker",
			map[string]any{"player": "alice", "ticker": "ZZZ", "side": "BUY", "qty": 1},
			http.StatusNotFound, "unknown_ticker",
		},
		{
			"invalid side",
			map[string]any{"player": "alice", "ticker": "NVX", "side": "HOLD", "qty": 1},
			http.StatusBadRequest, "invalid_side",
		},
		{
			"invalid quantity",
			map[string]any{"player": "alice", "ticker": "NVX", "side": "BUY", "qty": 0},
			http.StatusBadRequest, "invalid_quantity",
		},
		{
			"missing player",
			map[string]any{"player": "", "ticker": "NVX", "side": "BUY", "qty": 1},
			http.StatusBadRequest, "validation_error",
		},
		{
			"insufficient cash",
			map[string]any{"player": "alice", "ticker": "NVX", "side": "BUY", "qty": 1_000_000},
			http.StatusConflict, "insufficient_cash",
		},
		{
			"insufficient holdings",
			map[string]any{"player": "alice", "ticker": "NVX", "side": "SELL", "qty": 99},
			http.StatusConflict, "insufficient_holdings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/trade", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			var body struct {
				Error string `json:"error"`
			}
			decodeBody(t, rec, &body)
			if body.Error != tt.wantCode {
				t.Errorf("expected error code %q, got %q", tt.wantCode, body.Error)
			}
		})
	}
}

func TestTradeEndpoint_RejectsBadContentType(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/trade",
		strings.NewReader(`{"player":"alice","ticker":"NVX","side":"BUY","qty":1}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTradeEndpoint_RejectsMalformedJSON(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/trade", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTradeEndpoint_RejectsUnknownFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/trade",
		map[string]any{"player": "alice", "ticker": "NVX", "side": "BUY", "qty": 1, "bogus": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestAdminEndpoints_RequirePassword(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path string
		body map[string]string
	}{
		{"/api/admin/login", map[string]string{"password": "wrong"}},
		{"/api/admin/trigger", map[string]string{"password": "wrong", "news_id": "tech-rally"}},
		{"/api/admin/random", map[string]string{"password": "wrong"}},
		{"/api/admin/reset", map[string]string{"password": "wrong"}},
	}
	for _, tt := range tests {
		rec := doJSON(t, r, http.MethodPost, tt.path, tt.body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tt.path, rec.Code)
		}
	}
}

func TestAdminLogin(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/admin/login", map[string]string{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminTrigger_UnknownNews(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/admin/trigger",
		map[string]string{"password": adminPassword, "news_id": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminNews_CarriesOperatorFields(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/admin/news", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		News []domain.NewsEvent `json:"news"`
	}
	decodeBody(t, rec, &body)
	if len(body.News) != 1 || body.News[0].Direction != domain.DirectionUp {
		t.Errorf("operator news must keep direction: %+v", body.News)
	}
}

func TestAdminRandomAndReset(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/admin/random", map[string]string{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("random: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var random struct {
		NewsID string `json:"news_id"`
	}
	decodeBody(t, rec, &random)
	if random.NewsID != "tech-rally" {
		t.Errorf("expected the only event selected, got %q", random.NewsID)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/admin/reset", map[string]string{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", rec.Code)
	}

	var state struct {
		Round  int    `json:"round"`
		Status string `json:"status"`
	}
	rec = doJSON(t, r, http.MethodGet, "/api/admin/state", nil)
	decodeBody(t, rec, &state)
	if state.Round != 0 || state.Status != "IDLE" {
		t.Errorf("expected round 0 IDLE after reset, got %d %s", state.Round, state.Status)
	}
}
