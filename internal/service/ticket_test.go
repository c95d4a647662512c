package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/pu-ac-cn/ticketapp/internal/model"
	"github.com/pu-ac-cn/ticketapp/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 顺序 ID 生成器
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t-%d", n)
	}
}

func setupTickets(t *testing.T) (TicketService, *storage.Adapter, *storage.MemoryBackend) {
	store, backend := newTestStore()
	return NewTicketService(store, sequentialIDs()), store, backend
}

func seeded(t *testing.T) (TicketService, *storage.MemoryBackend) {
	svc, _, backend := setupTickets(t)
	ok, err := svc.SeedIfEmpty(context.Background(), "p")
	require.NoError(t, err)
	require.True(t, ok)
	return svc, backend
}

func rawTickets(t *testing.T, backend *storage.MemoryBackend) string {
	v, _, err := backend.Get(context.Background(), "p", model.TicketsKey)
	require.NoError(t, err)
	return v
}

func TestTicketService_SeedIfEmpty(t *testing.T) {
	svc, _, backend := setupTickets(t)
	ctx := context.Background()

	ok, err := svc.SeedIfEmpty(ctx, "p")
	require.NoError(t, err)
	assert.True(t, ok)

	// 第二次调用不重复写入
	ok, err = svc.SeedIfEmpty(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, model.SampleTickets(), list)

	// 删空之后的 [] 仍算存在
	for _, tk := range model.SampleTickets() {
		_, err := svc.Delete(ctx, "p", tk.ID, Confirmed(true))
		require.NoError(t, err)
	}
	assert.Equal(t, "[]", rawTickets(t, backend))
	ok, err = svc.SeedIfEmpty(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTicketService_SeedSkipsMalformed(t *testing.T) {
	svc, _, backend := setupTickets(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "p", model.TicketsKey, "oops"))

	ok, err := svc.SeedIfEmpty(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTicketService_ListEmpty(t *testing.T) {
	svc, _, _ := setupTickets(t)
	list, err := svc.List(context.Background(), "p")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTicketService_Create(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "p", model.TicketInput{Title: "  VPN down ", Status: "open", Description: " office "})
	require.NoError(t, err)
	assert.Equal(t, "t-1", created.ID)
	assert.Equal(t, "VPN down", created.Title)
	assert.Equal(t, "office", created.Description)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, *created, list[0])
	assert.Equal(t, "t1", list[1].ID)
}

func TestTicketService_CreateInvalid(t *testing.T) {
	svc, backend := seeded(t)
	ctx := context.Background()
	before := rawTickets(t, backend)

	_, err := svc.Create(ctx, "p", model.TicketInput{Title: "ab", Status: "pending"})
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "status")
	assert.Equal(t, before, rawTickets(t, backend))
}

func TestTicketService_Get(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	tk, err := svc.Get(ctx, "p", "t2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, tk.Status)

	_, err = svc.Get(ctx, "p", "missing")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketService_UpdateStatus(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "p", "t1", model.TicketInput{Title: "Sample open ticket", Status: "closed", Description: "A sample open ticket"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, updated.Status)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "t1", list[0].ID, "位置不变")
	assert.Equal(t, model.StatusClosed, list[0].Status)
	assert.Equal(t, model.SampleTickets()[1:], list[1:], "其余记录不受影响")
}

func TestTicketService_UpdateOverwritesAllFields(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "p", "t2", model.TicketInput{Title: "Renamed", Status: "open", Description: ""})
	require.NoError(t, err)

	tk, err := svc.Get(ctx, "p", "t2")
	require.NoError(t, err)
	assert.Equal(t, model.Ticket{ID: "t2", Title: "Renamed", Status: model.StatusOpen, Description: ""}, *tk)
}

func TestTicketService_UpdateNotFound(t *testing.T) {
	svc, backend := seeded(t)
	ctx := context.Background()
	before := rawTickets(t, backend)

	_, err := svc.Update(ctx, "p", "gone", model.TicketInput{Title: "Valid", Status: "open"})
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Equal(t, before, rawTickets(t, backend))
}

func TestTicketService_UpdateInvalid(t *testing.T) {
	svc, backend := seeded(t)
	before := rawTickets(t, backend)

	_, err := svc.Update(context.Background(), "p", "t1", model.TicketInput{Title: "x", Status: "open"})
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, before, rawTickets(t, backend))
}

func TestTicketService_Delete(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	var prompt string
	confirmed, err := svc.Delete(ctx, "p", "t2", ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return true
	}))
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, DeletePrompt, prompt)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t3"}, []string{list[0].ID, list[1].ID})
}

func TestTicketService_DeleteCancelled(t *testing.T) {
	svc, backend := seeded(t)
	before := rawTickets(t, backend)

	confirmed, err := svc.Delete(context.Background(), "p", "t1", Confirmed(false))
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, before, rawTickets(t, backend))

	confirmed, err = svc.Delete(context.Background(), "p", "t1", nil)
	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestTicketService_DeleteMissing(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	confirmed, err := svc.Delete(ctx, "p", "nope", Confirmed(true))
	require.NoError(t, err)
	assert.True(t, confirmed)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestTicketService_DeleteFirstMatchOnly(t *testing.T) {
	svc, _, backend := setupTickets(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "p", model.TicketsKey,
		`[{"id":"dup","title":"one","status":"open"},{"id":"dup","title":"two","status":"open"}]`))

	_, err := svc.Delete(ctx, "p", "dup", Confirmed(true))
	require.NoError(t, err)

	list, err := svc.List(ctx, "p")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "two", list[0].Title)
}

func TestTicketService_Stats(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, model.TicketStats{Total: 3, Open: 1, Resolved: 1}, stats)

	_, err = svc.Create(ctx, "p", model.TicketInput{Title: "Another", Status: "open"})
	require.NoError(t, err)
	stats, err = svc.Stats(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, model.TicketStats{Total: 4, Open: 2, Resolved: 1}, stats)
}

// 其他调用方在两次操作之间写入的数据不会丢失
func TestTicketService_RereadsStorage(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	a := NewTicketService(store, sequentialIDs())
	b := NewTicketService(store, func() string { return "b-1" })

	_, err := a.Create(ctx, "p", model.TicketInput{Title: "From A", Status: "open"})
	require.NoError(t, err)
	_, err = b.Create(ctx, "p", model.TicketInput{Title: "From B", Status: "open"})
	require.NoError(t, err)

	list, err := a.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-1", "t-1"}, []string{list[0].ID, list[1].ID})
}

func TestTicketService_ProfilesIsolated(t *testing.T) {
	svc, _, _ := setupTickets(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", model.TicketInput{Title: "Alice only", Status: "open"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewTicketID(t *testing.T) {
	a, b := NewTicketID(), NewTicketID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^t-[0-9a-f-]{36}$`, a)
}
