// Package model 数据模型定义
package model

import "strings"

// 本地存储中的记录名
const (
	SessionKey = "ticketapp_session"
	TicketsKey = "ticketapp_tickets"
)

// Session 本地会话记录
// Token 只是随机串，服务端不做任何校验
type Session struct {
	Email string `json:"email"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// DisplayNameFromEmail 取邮箱 @ 之前的部分作为显示名
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
