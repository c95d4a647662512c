package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/middleware"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"github.com/pu-ac-cn/ticketapp/internal/view"
	"github.com/pu-ac-cn/ticketapp/pkg/response"
)

// APIHandler JSON API 处理器
type APIHandler struct {
	sessions service.SessionManager
	auth     service.AuthService
	tickets  service.TicketService
	renderer *view.Renderer
}

// NewAPIHandler 创建 API 处理器
func NewAPIHandler(sessions service.SessionManager, auth service.AuthService, tickets service.TicketService, renderer *view.Renderer) *APIHandler {
	return &APIHandler{
		sessions: sessions,
		auth:     auth,
		tickets:  tickets,
		renderer: renderer,
	}
}

// AuthResponse 登录注册结果
type AuthResponse struct {
	Session  *model.Session `json:"session"`
	Notices  []string       `json:"notices"`
	Redirect string         `json:"redirect"`
}

// SessionResponse 当前会话
type SessionResponse struct {
	LoggedIn bool           `json:"logged_in"`
	Session  *model.Session `json:"session"`
}

// TicketListResponse 工单列表，html 为渲染好的网格片段
type TicketListResponse struct {
	Tickets []model.Ticket `json:"tickets"`
	HTML    string         `json:"html,omitempty"`
}

// RequireSession 要求档案中存在会话
func (h *APIHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := h.sessions.IsLoggedIn(c.Request.Context(), middleware.ProfileID(c))
		if err != nil {
			logError(c, "读取会话失败", err)
			response.Error(c, response.CodeServerError)
			c.Abort()
			return
		}
		if !ok {
			response.ErrorWithMsg(c, response.CodeUnauthenticated, service.MsgUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Session 查询当前会话
// GET /api/v1/session
func (h *APIHandler) Session(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		logError(c, "读取会话失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	response.Success(c, SessionResponse{LoggedIn: session != nil, Session: session})
}

// Submit 登录或注册
// POST /api/v1/auth/login, POST /api/v1/auth/signup
func (h *APIHandler) Submit(c *gin.Context) {
	var creds service.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidFormat, "参数错误: "+err.Error())
		return
	}

	mode := service.ModeFromPath(c.Request.URL.Path)
	result, err := h.auth.Submit(c.Request.Context(), middleware.ProfileID(c), mode, creds, cookieWriter(c))
	if err != nil {
		logError(c, "保存会话失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	if !result.OK() {
		response.ErrorWithData(c, response.CodeValidationFailed, result.FieldErrors)
		return
	}

	response.SuccessWithMsg(c, strings.Join(result.Notices, " "), AuthResponse{
		Session:  result.Session,
		Notices:  result.Notices,
		Redirect: result.Redirect,
	})
}

// Logout 登出
// POST /api/v1/auth/logout
func (h *APIHandler) Logout(c *gin.Context) {
	result, err := h.auth.Logout(c.Request.Context(), middleware.ProfileID(c), cookieWriter(c))
	if err != nil {
		logError(c, "清除会话失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	response.SuccessWithMsg(c, service.MsgLoggedOut, AuthResponse{
		Notices:  result.Notices,
		Redirect: result.Redirect,
	})
}

// Dashboard 仪表盘统计
// GET /api/v1/dashboard
func (h *APIHandler) Dashboard(c *gin.Context) {
	stats, err := h.tickets.Stats(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		logError(c, "读取工单失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	response.Success(c, stats)
}

// ListTickets 工单列表，?format=html 时附带渲染后的网格
// GET /api/v1/tickets
func (h *APIHandler) ListTickets(c *gin.Context) {
	ctx := c.Request.Context()
	profile := middleware.ProfileID(c)

	if _, err := h.tickets.SeedIfEmpty(ctx, profile); err != nil {
		logError(c, "写入示例工单失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	tickets, err := h.tickets.List(ctx, profile)
	if err != nil {
		logError(c, "读取工单失败", err)
		response.Error(c, response.CodeServerError)
		return
	}

	resp := TicketListResponse{Tickets: tickets}
	if c.Query("format") == "html" {
		html, err := h.renderer.GridHTML(tickets)
		if err != nil {
			logError(c, "渲染工单失败", err)
			response.Error(c, response.CodeServerError)
			return
		}
		resp.HTML = html
	}
	response.Success(c, resp)
}

// GetTicket 查询单个工单
// GET /api/v1/tickets/:id
func (h *APIHandler) GetTicket(c *gin.Context) {
	ticket, err := h.tickets.Get(c.Request.Context(), middleware.ProfileID(c), c.Param("id"))
	if err != nil {
		h.ticketError(c, err, service.MsgTicketLoadFailed)
		return
	}
	response.Success(c, ticket)
}

// CreateTicket 创建工单
// POST /api/v1/tickets
func (h *APIHandler) CreateTicket(c *gin.Context) {
	var input model.TicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidFormat, "参数错误: "+err.Error())
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), middleware.ProfileID(c), input)
	if err != nil {
		h.ticketError(c, err, "")
		return
	}
	response.SuccessWithMsg(c, service.MsgTicketCreated, ticket)
}

// UpdateTicket 更新工单
// PUT /api/v1/tickets/:id
func (h *APIHandler) UpdateTicket(c *gin.Context) {
	var input model.TicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidFormat, "参数错误: "+err.Error())
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), middleware.ProfileID(c), c.Param("id"), input)
	if err != nil {
		h.ticketError(c, err, service.MsgUpdateFailed)
		return
	}
	response.SuccessWithMsg(c, service.MsgTicketUpdated, ticket)
}

// DeleteTicket 删除工单，需要 ?confirm=true
// DELETE /api/v1/tickets/:id
func (h *APIHandler) DeleteTicket(c *gin.Context) {
	answer, _ := strconv.ParseBool(c.Query("confirm"))

	confirmed, err := h.tickets.Delete(c.Request.Context(), middleware.ProfileID(c), c.Param("id"), service.Confirmed(answer))
	if err != nil {
		logError(c, "删除工单失败", err)
		response.Error(c, response.CodeServerError)
		return
	}
	if !confirmed {
		response.ErrorWithMsg(c, response.CodeConfirmRequired, service.DeletePrompt)
		return
	}
	response.SuccessWithMsg(c, service.MsgTicketDeleted, nil)
}

// ticketError 工单错误转业务码
func (h *APIHandler) ticketError(c *gin.Context, err error, notFoundMsg string) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithData(c, response.CodeValidationFailed, verrs)
	case errors.Is(err, service.ErrTicketNotFound):
		response.ErrorWithMsg(c, response.CodeTicketNotFound, notFoundMsg)
	default:
		logError(c, "工单操作失败", err)
		response.Error(c, response.CodeServerError)
	}
}

// NotFound 未知接口
func (h *APIHandler) NotFound(c *gin.Context) {
	response.Error(c, response.CodeNotFound)
}
