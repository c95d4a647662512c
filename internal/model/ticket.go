package model

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// TicketStatus 工单状态
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusClosed     TicketStatus = "closed"
)

// 字段长度限制（按字符计）
const (
	TitleMinLength       = 3
	DescriptionMaxLength = 1000
)

// TicketStatuses 全部合法状态，按展示顺序
var TicketStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusClosed}

// Valid 检查状态是否合法
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Ticket 工单
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Status      TicketStatus `json:"status"`
	Description string       `json:"description"`
}

// TicketInput 创建 / 编辑表单提交的字段
type TicketInput struct {
	Title       string `json:"title" form:"title"`
	Status      string `json:"status" form:"status"`
	Description string `json:"description" form:"description"`
}

// Normalize 去掉标题和描述首尾空白，状态保持原样
func (in TicketInput) Normalize() TicketInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate 校验表单，所有字段错误一次性返回
func (in TicketInput) Validate() error {
	errs := ValidationErrors{}

	switch n := utf8.RuneCountInString(in.Title); {
	case n == 0:
		errs["title"] = "Title is required"
	case n < TitleMinLength:
		errs["title"] = "Title must be 3+ characters"
	}

	if !TicketStatus(in.Status).Valid() {
		errs["status"] = "Select a valid status"
	}

	if utf8.RuneCountInString(in.Description) > DescriptionMaxLength {
		errs["description"] = "Description too long"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply 用表单覆盖工单的三个可变字段
func (in TicketInput) Apply(t *Ticket) {
	t.Title = in.Title
	t.Status = TicketStatus(in.Status)
	t.Description = in.Description
}

// TicketStats 仪表盘统计
type TicketStats struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
}

// CountTickets 统计总数、open 数与 closed 数
func CountTickets(tickets []Ticket) TicketStats {
	stats := TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case StatusOpen:
			stats.Open++
		case StatusClosed:
			stats.Resolved++
		}
	}
	return stats
}

// SampleTickets 首次使用时写入的示例工单
func SampleTickets() []Ticket {
	return []Ticket{
		{ID: "t1", Title: "Sample open ticket", Status: StatusOpen, Description: "A sample open ticket"},
		{ID: "t2", Title: "Sample in progress", Status: StatusInProgress, Description: "Work in progress"},
		{ID: "t3", Title: "Sample closed", Status: StatusClosed, Description: "Resolved ticket"},
	}
}

// ValidationErrors 字段名到错误信息的映射
type ValidationErrors map[string]string

// Error 实现 error 接口，按字段名排序保证输出稳定
func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "表单校验失败: " + strings.Join(parts, "; ")
}
