package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
)

// ErrTicketNotFound 工单不存在
var ErrTicketNotFound = errors.New("工单不存在")

// 提示消息
const (
	MsgTicketCreated    = "Ticket created."
	MsgTicketUpdated    = "Ticket updated."
	MsgTicketDeleted    = "Ticket deleted."
	MsgTicketLoadFailed = "Failed to load ticket. Please retry."
	MsgUpdateFailed     = "Failed to update ticket."
	DeletePrompt        = "Delete this ticket?"
)

// Confirmer 删除前的用户确认
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc 函数适配器
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm 实现 Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Confirmed 固定回答的确认器
func Confirmed(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return answer })
}

// IDGenerator 工单 ID 生成器
type IDGenerator func() string

// NewTicketID 默认 ID 生成器
func NewTicketID() string {
	return "t-" + uuid.NewString()
}

// TicketService 工单接口
// 每个操作都重新读取整张列表，不跨调用缓存；并发写入后写覆盖先写。
type TicketService interface {
	List(ctx context.Context, profile string) ([]model.Ticket, error)
	Get(ctx context.Context, profile, id string) (*model.Ticket, error)
	Create(ctx context.Context, profile string, input model.TicketInput) (*model.Ticket, error)
	Update(ctx context.Context, profile, id string, input model.TicketInput) (*model.Ticket, error)
	// Delete 确认后删除；返回用户是否确认
	Delete(ctx context.Context, profile, id string, confirm Confirmer) (bool, error)
	// SeedIfEmpty 工单记录不存在时写入示例数据
	SeedIfEmpty(ctx context.Context, profile string) (bool, error)
	Stats(ctx context.Context, profile string) (model.TicketStats, error)
}

type ticketService struct {
	store *storage.Adapter
	newID IDGenerator
}

// NewTicketService 创建工单服务
func NewTicketService(store *storage.Adapter, newID IDGenerator) TicketService {
	if newID == nil {
		newID = NewTicketID
	}
	return &ticketService{store: store, newID: newID}
}

func (s *ticketService) load(ctx context.Context, profile string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	found, err := s.store.Load(ctx, profile, model.TicketsKey, &tickets)
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.Ticket{}, nil
	}
	return tickets, nil
}

func (s *ticketService) save(ctx context.Context, profile string, tickets []model.Ticket) error {
	return s.store.Save(ctx, profile, model.TicketsKey, tickets)
}

// List 列出工单，最新的在前
func (s *ticketService) List(ctx context.Context, profile string) ([]model.Ticket, error) {
	return s.load(ctx, profile)
}

// Get 按 ID 获取工单
func (s *ticketService) Get(ctx context.Context, profile, id string) (*model.Ticket, error) {
	tickets, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			t := tickets[i]
			return &t, nil
		}
	}
	return nil, ErrTicketNotFound
}

// Create 校验通过后插入到列表最前
func (s *ticketService) Create(ctx context.Context, profile string, input model.TicketInput) (*model.Ticket, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	tickets, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}

	ticket := model.Ticket{ID: s.newID()}
	input.Apply(&ticket)

	tickets = append([]model.Ticket{ticket}, tickets...)
	if err := s.save(ctx, profile, tickets); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Update 原位覆盖三个可变字段
func (s *ticketService) Update(ctx context.Context, profile, id string, input model.TicketInput) (*model.Ticket, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	tickets, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		input.Apply(&tickets[i])
		if err := s.save(ctx, profile, tickets); err != nil {
			return nil, err
		}
		t := tickets[i]
		return &t, nil
	}
	return nil, ErrTicketNotFound
}

// Delete 删除第一条匹配的工单，不存在时仍然写回原列表
func (s *ticketService) Delete(ctx context.Context, profile, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return false, nil
	}

	tickets, err := s.load(ctx, profile)
	if err != nil {
		return true, err
	}

	for i := range tickets {
		if tickets[i].ID == id {
			tickets = append(tickets[:i], tickets[i+1:]...)
			break
		}
	}
	if err := s.save(ctx, profile, tickets); err != nil {
		return true, err
	}
	return true, nil
}

// SeedIfEmpty 只看原始记录是否存在，空列表 [] 不会重新写入示例
func (s *ticketService) SeedIfEmpty(ctx context.Context, profile string) (bool, error) {
	exists, err := s.store.Exists(ctx, profile, model.TicketsKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.save(ctx, profile, model.SampleTickets()); err != nil {
		return false, err
	}
	return true, nil
}

// Stats 仪表盘统计
func (s *ticketService) Stats(ctx context.Context, profile string) (model.TicketStats, error) {
	tickets, err := s.load(ctx, profile)
	if err != nil {
		return model.TicketStats{}, err
	}
	return model.CountTickets(tickets), nil
}
