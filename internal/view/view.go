// Package view 页面渲染：模板加载、工单卡片与仪表盘数据
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/service"
)

// 模板名
const (
	PageLanding   = "landing"
	PageAuth      = "auth"
	PageDashboard = "dashboard"
	PageTickets   = "tickets"
	PageNotFound  = "notfound"
	PartialGrid   = "ticket_grid"
)

// EmptyGridMessage 没有工单时的占位文案
const EmptyGridMessage = "No tickets yet. Create one."

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML 转义 & < >，结果只用于元素内容
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Card 工单卡片
type Card struct {
	ID          string
	Title       template.HTML
	Status      model.TicketStatus
	Description template.HTML
}

// Cards 把工单列表映射为卡片，顺序不变
func Cards(tickets []model.Ticket) []Card {
	cards := make([]Card, 0, len(tickets))
	for _, t := range tickets {
		cards = append(cards, Card{
			ID:          t.ID,
			Title:       template.HTML(EscapeHTML(t.Title)),
			Status:      t.Status,
			Description: template.HTML(EscapeHTML(t.Description)),
		})
	}
	return cards
}

// AuthView 登录 / 注册页
type AuthView struct {
	Mode   service.AuthMode
	Labels service.AuthLabels
	Email  string
	Errors model.ValidationErrors
}

// NewAuthView 按模式生成页面文案
func NewAuthView(mode service.AuthMode) *AuthView {
	return &AuthView{Mode: mode, Labels: mode.Labels()}
}

// TicketForm 工单弹窗
type TicketForm struct {
	Heading string
	Action  string
	Values  model.TicketInput
	Errors  model.ValidationErrors
	Open    bool
}

// CreateForm 新建工单表单
func CreateForm() *TicketForm {
	return &TicketForm{
		Heading: "Create Ticket",
		Action:  service.TicketsPath,
	}
}

// EditForm 编辑工单表单，预填当前值
func EditForm(t *model.Ticket) *TicketForm {
	return &TicketForm{
		Heading: "Edit Ticket",
		Action:  service.TicketsPath + "/" + t.ID,
		Values: model.TicketInput{
			Title:       t.Title,
			Status:      string(t.Status),
			Description: t.Description,
		},
		Open: true,
	}
}

// Page 模板数据
type Page struct {
	Title    string
	Path     string
	Session  *model.Session
	Notices  []string
	Auth     *AuthView
	Stats    model.TicketStats
	Cards    []Card
	Form     *TicketForm
	Statuses []model.TicketStatus
}

// LoggedIn 控制登出按钮与登录链接的显示
func (p *Page) LoggedIn() bool {
	return p.Session != nil
}

// Dashboard 仪表盘页数据
func Dashboard(stats model.TicketStats) *Page {
	return &Page{Title: "Dashboard", Path: service.DashboardPath, Stats: stats}
}

// Tickets 工单页数据
func Tickets(tickets []model.Ticket, form *TicketForm) *Page {
	if form == nil {
		form = CreateForm()
	}
	return &Page{
		Title:    "Tickets",
		Path:     service.TicketsPath,
		Cards:    Cards(tickets),
		Form:     form,
		Statuses: model.TicketStatuses,
	}
}

// Renderer 页面渲染器
type Renderer struct {
	tmpl *template.Template
}

// New 从文件系统的 templates/ 目录加载全部模板
func New(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("加载模板失败: %w", err)
	}
	for _, name := range []string{PageLanding, PageAuth, PageDashboard, PageTickets, PageNotFound, PartialGrid} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("缺少模板: %s", name)
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template 供 gin.SetHTMLTemplate 使用
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Render 渲染整页
func (r *Renderer) Render(w io.Writer, name string, page *Page) error {
	return r.tmpl.ExecuteTemplate(w, name, page)
}

// RenderGrid 渲染工单网格，空列表时渲染占位卡片
func (r *Renderer) RenderGrid(w io.Writer, tickets []model.Ticket) error {
	return r.tmpl.ExecuteTemplate(w, PartialGrid, Cards(tickets))
}

// GridHTML 以字符串形式返回工单网格
func (r *Renderer) GridHTML(tickets []model.Ticket) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderGrid(&buf, tickets); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var funcMap = template.FuncMap{
	"statusLabel": func(s model.TicketStatus) string {
		return strings.ReplaceAll(string(s), "_", " ")
	},
	"fieldError": func(errs model.ValidationErrors, field string) string {
		return errs[field]
	},
	"emptyGrid": func() string { return EmptyGridMessage },
}
