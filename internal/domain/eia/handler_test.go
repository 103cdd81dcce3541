package eia

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adolbicare/clinic/internal/domain/billing"
	"github.com/adolbicare/clinic/internal/platform/auth"
	"github.com/adolbicare/clinic/internal/platform/websocket"
)

type testServer struct {
	e        *echo.Echo
	provider *stubProvider
	contexts *Broadcaster
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	provider := &stubProvider{reply: "ok"}
	hub := websocket.NewHub(zerolog.Nop())
	contexts := NewBroadcaster(NewMemoryContextStore(), hub, zerolog.Nop())
	dispatcher := newDispatcher(provider)
	widgets := NewWidgets(contexts, dispatcher, time.Hour, zerolog.Nop())
	summaries := NewSummaryBuilder(Sources{Claims: claimList{list[*billing.Claim]{items: []*billing.Claim{
		{ClaimNumber: "CLM-7", Status: billing.StatusDenied, Amount: 300},
	}}}})

	e := echo.New()
	h := NewHandler(contexts, dispatcher, widgets, summaries, websocket.NewHandler(hub, nil))
	h.RegisterRoutes(e.Group("/api/v1"))
	return &testServer{e: e, provider: provider, contexts: contexts}
}

func (s *testServer) do(t *testing.T, method, path, body, session string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: "user-1", Name: "Dana Ortiz", Roles: []string{"therapist"}}))
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandler_ContextRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/eia/context", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ModuleDashboard, decode[Snapshot](t, rec).Module)

	rec = s.do(t, http.MethodPut, "/api/v1/eia/context", `{"module":"crisis","data":{"activeCrisis":2}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[Snapshot](t, rec)
	assert.Equal(t, "Crisis Management", got.Page)

	rec = s.do(t, http.MethodGet, "/api/v1/eia/context", "", "")
	assert.Equal(t, float64(2), decode[Snapshot](t, rec).Data["activeCrisis"])

	// another tab of the same user keeps its own context
	rec = s.do(t, http.MethodGet, "/api/v1/eia/context", "", "tab-2")
	assert.Equal(t, ModuleDashboard, decode[Snapshot](t, rec).Module)
}

func TestHandler_SetContextRequiresModule(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPut, "/api/v1/eia/context", `{"page":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RefreshContext(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/eia/context/refresh", `{"module":"billing"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[Snapshot](t, rec)
	assert.Equal(t, "Billing & Claims", got.Page)
	assert.Equal(t, float64(1), got.Data["deniedClaims"])
	assert.Equal(t, "Claim #CLM-7", got.Data["recentClaim"])
}

func TestHandler_Greeting(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPut, "/api/v1/eia/context", `{"module":"billing","page":"Billing & Claims","data":{"totalClaims":5}}`, "")

	rec := s.do(t, http.MethodGet, "/api/v1/eia/greeting", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	g := decode[greetingResponse](t, rec)
	assert.Equal(t, ModuleBilling, g.Module)
	assert.Contains(t, g.Message, "• Total Claims: 5")
}

func TestHandler_Guidance(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/eia/guidance/referrals", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admissions & Referrals", decode[Guidance](t, rec).Title)
}

func TestHandler_GenerateDocument(t *testing.T) {
	s := newTestServer(t)
	s.provider.reply = "TREATMENT PLAN"

	rec := s.do(t, http.MethodPost, "/api/v1/eia/documents/generate",
		`{"documentType":"treatment_plan","clientData":{"name":"Ana Diaz"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[GeneratedDocument](t, rec)
	assert.True(t, doc.Success)
	assert.Equal(t, "TREATMENT PLAN", doc.Content)
	assert.Equal(t, "Dana Ortiz", doc.GeneratedBy)
}

func TestHandler_GenerateDocumentErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/eia/documents/generate", `{"documentType":"memo"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.provider.err = errors.New("connection refused")
	rec = s.do(t, http.MethodPost, "/api/v1/eia/documents/generate", `{"documentType":"service_note"}`, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to generate document. Please try again.")
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.NotContains(t, rec.Body.String(), ErrGeneration.Error())
}

func TestHandler_Chat(t *testing.T) {
	s := newTestServer(t)
	s.provider.reply = "Use H2017."

	rec := s.do(t, http.MethodPost, "/api/v1/eia/chat", `{"message":"code?","context":{"module":"services","page":"Service Delivery"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Use H2017.", decode[chatResponse](t, rec).Response)
	assert.Contains(t, s.provider.last[0].Content, "- Module: services")

	rec = s.do(t, http.MethodPost, "/api/v1/eia/chat", `{"message":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.provider.err = errors.New("down")
	rec = s.do(t, http.MethodPost, "/api/v1/eia/chat", `{"message":"hi"}`, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to get response from EIA. Please try again.")
}

func TestHandler_ChatAssistant(t *testing.T) {
	s := newTestServer(t)
	s.provider.reply = ""

	rec := s.do(t, http.MethodPost, "/api/v1/eia/chat-assistant", `{"message":"hi","context":"intake"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	reply := decode[AssistantReply](t, rec)
	assert.Equal(t, "I'm sorry, I couldn't process that request.", reply.Reply)
	assert.Len(t, s.provider.last, 3)
}

func TestHandler_WidgetLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/eia/widget/open", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[WidgetView](t, rec)
	assert.True(t, v.Open)
	require.Len(t, v.Messages, 1)

	s.do(t, http.MethodPut, "/api/v1/eia/context", `{"module":"staff"}`, "")

	s.provider.reply = "Renew the license."
	rec = s.do(t, http.MethodPost, "/api/v1/eia/widget/messages", `{"message":"who expires?"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renew the license.", decode[Message](t, rec).Content)

	rec = s.do(t, http.MethodGet, "/api/v1/eia/widget/messages", "", "")
	v = decode[WidgetView](t, rec)
	require.Len(t, v.Messages, 4)
	assert.Equal(t, NavigationNotice(ModuleStaff, "Staff Management"), v.Messages[1].Content)

	rec = s.do(t, http.MethodPost, "/api/v1/eia/widget/close", "", "")
	v = decode[WidgetView](t, rec)
	assert.False(t, v.Open)
	assert.Len(t, v.Messages, 4)

	rec = s.do(t, http.MethodPost, "/api/v1/eia/widget/reset", "", "")
	assert.Empty(t, decode[WidgetView](t, rec).Messages)
}

func TestHandler_WidgetMessageErrors(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/eia/widget/messages", `{"message":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/eia/widget/messages", `{"message":"hi"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrWidgetClosed.Error())

	s.do(t, http.MethodPost, "/api/v1/eia/widget/open", "", "")
	s.provider.err = errors.New("down")
	rec = s.do(t, http.MethodPost, "/api/v1/eia/widget/messages", `{"message":"hi"}`, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to get response from EIA. Please try again.")
}

func TestHTTPError_InFlightIsConflict(t *testing.T) {
	assert.Equal(t, http.StatusConflict, httpError(ErrChatInFlight).Code)
	assert.Equal(t, http.StatusConflict, httpError(ErrWidgetClosed).Code)
	assert.Equal(t, http.StatusBadGateway, httpError(ErrGeneration).Code)
	assert.Equal(t, "Failed to generate document. Please try again.", httpError(ErrGeneration).Message)
	assert.Equal(t, "Failed to get response from EIA. Please try again.", httpError(fmt.Errorf("%w: timeout", ErrChatFailed)).Message)
	assert.Equal(t, http.StatusInternalServerError, httpError(errors.New("x")).Code)
}

func TestSessionID_FallsBackToCaller(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: "user-9"}))
	assert.Equal(t, "user-9", sessionID(e.NewContext(req, httptest.NewRecorder())))

	req.Header.Set(SessionHeader, "tab-1")
	assert.Equal(t, "tab-1", sessionID(e.NewContext(req, httptest.NewRecorder())))
}
