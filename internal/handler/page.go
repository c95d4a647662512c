package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/ticketapp/internal/middleware"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/service"
	"github.com/pu-ac-cn/ticketapp/internal/view"
)

// PageHandler 页面处理器
type PageHandler struct {
	sessions service.SessionManager
	auth     service.AuthService
	tickets  service.TicketService
	guard    service.RouteGuard
}

// NewPageHandler 创建页面处理器
func NewPageHandler(sessions service.SessionManager, auth service.AuthService, tickets service.TicketService, guard service.RouteGuard) *PageHandler {
	return &PageHandler{
		sessions: sessions,
		auth:     auth,
		tickets:  tickets,
		guard:    guard,
	}
}

// render 补齐会话与提示后渲染页面
func (h *PageHandler) render(c *gin.Context, status int, name string, page *view.Page) {
	session, err := h.sessions.Get(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		logError(c, "读取会话失败", err)
	}
	page.Session = session
	page.Path = c.Request.URL.Path
	page.Notices = append(takeNotices(c), page.Notices...)
	c.HTML(status, name, page)
}

func (h *PageHandler) redirect(c *gin.Context, target string, notices ...string) {
	setNotices(c, notices...)
	c.Redirect(http.StatusSeeOther, target)
}

func (h *PageHandler) fail(c *gin.Context, msg string, err error) {
	logError(c, msg, err)
	c.String(http.StatusInternalServerError, "Something went wrong. Please retry.")
}

// activate 受保护页面的会话检查，未登录时跳转登录页并返回 false
func (h *PageHandler) activate(c *gin.Context) bool {
	decision, err := h.guard.Activate(c.Request.Context(), middleware.ProfileID(c), c.Request.URL.Path)
	if err != nil {
		h.fail(c, "检查会话失败", err)
		return false
	}
	if !decision.Allowed {
		h.redirect(c, decision.Redirect, decision.Notice)
		return false
	}
	return true
}

// Landing 首页
// GET /
func (h *PageHandler) Landing(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageLanding, &view.Page{})
}

// AuthPage 登录 / 注册页，模式由路径决定
// GET /auth/login, GET /auth/signup
func (h *PageHandler) AuthPage(c *gin.Context) {
	mode := service.ModeFromPath(c.Request.URL.Path)
	auth := view.NewAuthView(mode)
	h.render(c, http.StatusOK, view.PageAuth, &view.Page{Title: auth.Labels.Title, Auth: auth})
}

// AuthSubmit 提交登录 / 注册表单
// POST /auth/login, POST /auth/signup
func (h *PageHandler) AuthSubmit(c *gin.Context) {
	mode := service.ModeFromPath(c.Request.URL.Path)

	var creds service.Credentials
	_ = c.ShouldBind(&creds)

	result, err := h.auth.Submit(c.Request.Context(), middleware.ProfileID(c), mode, creds, cookieWriter(c))
	if err != nil {
		h.fail(c, "保存会话失败", err)
		return
	}
	if !result.OK() {
		auth := view.NewAuthView(mode)
		auth.Email = creds.Email
		auth.Errors = result.FieldErrors
		h.render(c, http.StatusUnprocessableEntity, view.PageAuth, &view.Page{Title: auth.Labels.Title, Auth: auth})
		return
	}
	h.redirect(c, result.Redirect, result.Notices...)
}

// Logout 登出
// POST /auth/logout
func (h *PageHandler) Logout(c *gin.Context) {
	result, err := h.auth.Logout(c.Request.Context(), middleware.ProfileID(c), cookieWriter(c))
	if err != nil {
		h.fail(c, "清除会话失败", err)
		return
	}
	h.redirect(c, result.Redirect, result.Notices...)
}

// Dashboard 仪表盘
// GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	stats, err := h.tickets.Stats(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		h.fail(c, "读取工单失败", err)
		return
	}
	h.render(c, http.StatusOK, view.PageDashboard, view.Dashboard(stats))
}

// renderTickets 工单页，首次访问写入示例工单
func (h *PageHandler) renderTickets(c *gin.Context, status int, form *view.TicketForm) {
	ctx := c.Request.Context()
	profile := middleware.ProfileID(c)

	if _, err := h.tickets.SeedIfEmpty(ctx, profile); err != nil {
		h.fail(c, "写入示例工单失败", err)
		return
	}
	tickets, err := h.tickets.List(ctx, profile)
	if err != nil {
		h.fail(c, "读取工单失败", err)
		return
	}
	h.render(c, status, view.PageTickets, view.Tickets(tickets, form))
}

// Tickets 工单列表，?new=1 时打开新建弹窗
// GET /tickets
func (h *PageHandler) Tickets(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	form := view.CreateForm()
	form.Open = c.Query("new") != ""
	h.renderTickets(c, http.StatusOK, form)
}

// EditTicket 打开编辑弹窗
// GET /tickets/:id/edit
func (h *PageHandler) EditTicket(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	ctx := c.Request.Context()
	profile := middleware.ProfileID(c)

	if _, err := h.tickets.SeedIfEmpty(ctx, profile); err != nil {
		h.fail(c, "写入示例工单失败", err)
		return
	}
	ticket, err := h.tickets.Get(ctx, profile, c.Param("id"))
	if errors.Is(err, service.ErrTicketNotFound) {
		h.redirect(c, service.TicketsPath, service.MsgTicketLoadFailed)
		return
	}
	if err != nil {
		h.fail(c, "读取工单失败", err)
		return
	}
	h.renderTickets(c, http.StatusOK, view.EditForm(ticket))
}

// CreateTicket 提交新建表单
// POST /tickets
func (h *PageHandler) CreateTicket(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	var input model.TicketInput
	_ = c.ShouldBind(&input)

	_, err := h.tickets.Create(c.Request.Context(), middleware.ProfileID(c), input)
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		form := view.CreateForm()
		form.Values = input
		form.Errors = verrs
		form.Open = true
		h.renderTickets(c, http.StatusUnprocessableEntity, form)
	case err != nil:
		h.fail(c, "创建工单失败", err)
	default:
		h.redirect(c, service.TicketsPath, service.MsgTicketCreated)
	}
}

// UpdateTicket 提交编辑表单
// POST /tickets/:id
func (h *PageHandler) UpdateTicket(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	id := c.Param("id")
	var input model.TicketInput
	_ = c.ShouldBind(&input)

	_, err := h.tickets.Update(c.Request.Context(), middleware.ProfileID(c), id, input)
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		form := view.EditForm(&model.Ticket{ID: id})
		form.Values = input
		form.Errors = verrs
		h.renderTickets(c, http.StatusUnprocessableEntity, form)
	case errors.Is(err, service.ErrTicketNotFound):
		h.redirect(c, service.TicketsPath, service.MsgUpdateFailed)
	case err != nil:
		h.fail(c, "更新工单失败", err)
	default:
		h.redirect(c, service.TicketsPath, service.MsgTicketUpdated)
	}
}

// DeleteTicket 删除工单，表单字段 confirm=yes 表示用户已确认
// POST /tickets/:id/delete
func (h *PageHandler) DeleteTicket(c *gin.Context) {
	if !h.activate(c) {
		return
	}
	confirm := service.Confirmed(c.PostForm("confirm") == "yes")

	confirmed, err := h.tickets.Delete(c.Request.Context(), middleware.ProfileID(c), c.Param("id"), confirm)
	if err != nil {
		h.fail(c, "删除工单失败", err)
		return
	}
	if !confirmed {
		h.redirect(c, service.TicketsPath)
		return
	}
	h.redirect(c, service.TicketsPath, service.MsgTicketDeleted)
}

// Navigate 受保护链接的跳转
// GET /go?to=/dashboard
func (h *PageHandler) Navigate(c *gin.Context) {
	target := safeTarget(c.Query("to"))

	decision, err := h.guard.Navigate(c.Request.Context(), middleware.ProfileID(c), target)
	if err != nil {
		h.fail(c, "检查会话失败", err)
		return
	}
	if !decision.Allowed {
		setNotices(c, decision.Notice)
	}
	c.Redirect(http.StatusFound, decision.Redirect)
}

// NotFound 404 页面
func (h *PageHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, view.PageNotFound, &view.Page{Title: "Not Found"})
}
