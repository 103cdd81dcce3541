package eia

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/auth"
	"github.com/adolbicare/clinic/internal/platform/websocket"
)

// SessionHeader lets one caller keep several assistant sessions apart, for
// example one per browser tab. Without it the caller's id is the session.
const SessionHeader = "X-EIA-Session"

type Handler struct {
	contexts   *Broadcaster
	dispatcher *Dispatcher
	widgets    *Widgets
	summaries  *SummaryBuilder
	ws         *websocket.Handler
}

func NewHandler(contexts *Broadcaster, dispatcher *Dispatcher, widgets *Widgets, summaries *SummaryBuilder, ws *websocket.Handler) *Handler {
	return &Handler{contexts: contexts, dispatcher: dispatcher, widgets: widgets, summaries: summaries, ws: ws}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/eia")
	g.POST("/documents/generate", h.GenerateDocument)
	g.POST("/chat", h.Chat)
	g.POST("/chat-assistant", h.ChatAssistant)

	g.GET("/context", h.GetContext)
	g.PUT("/context", h.SetContext)
	g.POST("/context/refresh", h.RefreshContext)
	g.GET("/greeting", h.Greeting)
	g.GET("/guidance/:module", h.Guidance)

	g.POST("/widget/open", h.OpenWidget)
	g.POST("/widget/close", h.CloseWidget)
	g.POST("/widget/reset", h.ResetWidget)
	g.GET("/widget/messages", h.WidgetMessages)
	g.POST("/widget/messages", h.SendWidgetMessage)

	if h.ws != nil {
		g.GET("/ws", h.Stream)
	}
}

func sessionID(c echo.Context) string {
	if id := c.Request().Header.Get(SessionHeader); id != "" {
		return id
	}
	return auth.UserIDFromContext(c.Request().Context())
}

// Messages shown to the user when the model backend fails. The cause is
// logged, never returned.
const (
	generationFailedMessage = "Failed to generate document. Please try again."
	chatFailedMessage       = "Failed to get response from EIA. Please try again."
)

// httpError maps assistant failures onto the shared error classes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrGeneration):
		return apperr.HTTP(apperr.Upstream(generationFailedMessage, err))
	case errors.Is(err, ErrChatFailed):
		return apperr.HTTP(apperr.Upstream(chatFailedMessage, err))
	case errors.Is(err, ErrChatInFlight), errors.Is(err, ErrWidgetClosed):
		return apperr.HTTP(apperr.Conflict(err.Error()))
	case errors.Is(err, ErrEmptyMessage):
		return apperr.HTTP(apperr.Invalid("%s", err.Error()))
	}
	return apperr.HTTP(err)
}

func (h *Handler) GenerateDocument(c echo.Context) error {
	var req DocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, _ := auth.IdentityFromContext(c.Request().Context())
	doc, err := h.dispatcher.GenerateDocument(c.Request().Context(), req, id.DisplayName())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return httpError(ErrEmptyMessage)
	}
	reply, err := h.dispatcher.Chat(c.Request().Context(), req.Message, req.Context)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chatResponse{Response: reply, Timestamp: time.Now().UTC()})
}

type assistantRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

func (h *Handler) ChatAssistant(c echo.Context) error {
	var req assistantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return httpError(ErrEmptyMessage)
	}
	reply, err := h.dispatcher.ChatAssistant(c.Request().Context(), req.Message, req.Context)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *Handler) GetContext(c echo.Context) error {
	s, err := h.contexts.Current(c.Request().Context(), sessionID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) SetContext(c echo.Context) error {
	var s Snapshot
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if s.Module == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "module is required")
	}
	if s.Page == "" {
		s.Page = PageTitle(s.Module)
	}
	stored, err := h.contexts.SetContext(c.Request().Context(), sessionID(c), s.Module, s.Page, s.Data)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stored)
}

type refreshRequest struct {
	Module string `json:"module"`
	Page   string `json:"page"`
}

// RefreshContext recomputes the module summary server-side and makes it the
// session context.
func (h *Handler) RefreshContext(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Module == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "module is required")
	}
	if req.Page == "" {
		req.Page = PageTitle(req.Module)
	}
	ctx := c.Request().Context()
	data, err := h.summaries.Summarize(ctx, req.Module)
	if err != nil {
		return httpError(err)
	}
	stored, err := h.contexts.SetContext(ctx, sessionID(c), req.Module, req.Page, data)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stored)
}

type greetingResponse struct {
	Module  string `json:"module"`
	Page    string `json:"page"`
	Message string `json:"message"`
}

func (h *Handler) Greeting(c echo.Context) error {
	s, err := h.contexts.Current(c.Request().Context(), sessionID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, greetingResponse{
		Module:  s.Module,
		Page:    s.Page,
		Message: Compose(s.Module, s.Page, s.Data),
	})
}

func (h *Handler) Guidance(c echo.Context) error {
	return c.JSON(http.StatusOK, GuidanceFor(c.Param("module")))
}

func (h *Handler) OpenWidget(c echo.Context) error {
	v, err := h.widgets.Open(c.Request().Context(), sessionID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) CloseWidget(c echo.Context) error {
	return c.JSON(http.StatusOK, h.widgets.Close(sessionID(c)))
}

func (h *Handler) ResetWidget(c echo.Context) error {
	return c.JSON(http.StatusOK, h.widgets.Reset(sessionID(c)))
}

func (h *Handler) WidgetMessages(c echo.Context) error {
	return c.JSON(http.StatusOK, h.widgets.View(sessionID(c)))
}

type widgetMessageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) SendWidgetMessage(c echo.Context) error {
	var req widgetMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reply, err := h.widgets.Send(c.Request().Context(), sessionID(c), req.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reply)
}

// Stream upgrades to a websocket carrying this session's context events.
func (h *Handler) Stream(c echo.Context) error {
	return h.ws.Serve(c, websocket.SessionTopic(sessionID(c)))
}
