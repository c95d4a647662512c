package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		input  TicketInput
		fields []string
	}{
		{"合法输入", TicketInput{Title: "Printer", Status: "open"}, nil},
		{"标题为空", TicketInput{Title: "", Status: "open"}, []string{"title"}},
		{"标题过短", TicketInput{Title: "ab", Status: "closed"}, []string{"title"}},
		{"标题恰好 3 个字符", TicketInput{Title: "abc", Status: "closed"}, nil},
		{"多字节标题按字符计", TicketInput{Title: "打印机", Status: "open"}, nil},
		{"状态非法", TicketInput{Title: "Printer", Status: "done"}, []string{"status"}},
		{"状态为空", TicketInput{Title: "Printer", Status: ""}, []string{"status"}},
		{"描述过长", TicketInput{Title: "Printer", Status: "open", Description: strings.Repeat("x", 1001)}, []string{"description"}},
		{"描述恰好 1000 字符", TicketInput{Title: "Printer", Status: "open", Description: strings.Repeat("x", 1000)}, nil},
		{"全部错误同时返回", TicketInput{Title: "a", Status: "x", Description: strings.Repeat("y", 1001)}, []string{"title", "status", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			verrs, ok := err.(ValidationErrors)
			if assert.True(t, ok, "期望 ValidationErrors") {
				assert.Len(t, verrs, len(tt.fields))
				for _, f := range tt.fields {
					assert.Contains(t, verrs, f)
				}
			}
		})
	}
}

func TestTicketInput_ValidateMessages(t *testing.T) {
	err := TicketInput{Title: "", Status: "x"}.Validate().(ValidationErrors)
	assert.Equal(t, "Title is required", err["title"])
	assert.Equal(t, "Select a valid status", err["status"])

	err = TicketInput{Title: "ab", Status: "open"}.Validate().(ValidationErrors)
	assert.Equal(t, "Title must be 3+ characters", err["title"])
}

func TestTicketInput_Normalize(t *testing.T) {
	in := TicketInput{Title: "  Printer  ", Status: " open", Description: "\n jam \n"}.Normalize()
	assert.Equal(t, "Printer", in.Title)
	assert.Equal(t, " open", in.Status, "状态不做裁剪")
	assert.Equal(t, "jam", in.Description)
}

func TestCountTickets(t *testing.T) {
	stats := CountTickets(SampleTickets())
	assert.Equal(t, TicketStats{Total: 3, Open: 1, Resolved: 1}, stats)
	assert.Equal(t, TicketStats{}, CountTickets(nil))
}

func TestSampleTickets(t *testing.T) {
	samples := SampleTickets()
	assert.Len(t, samples, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, []string{samples[0].ID, samples[1].ID, samples[2].ID})
	assert.Equal(t, []TicketStatus{StatusOpen, StatusInProgress, StatusClosed},
		[]TicketStatus{samples[0].Status, samples[1].Status, samples[2].Status})
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{"title": "Title is required", "status": "Select a valid status"}
	assert.Equal(t, "表单校验失败: status: Select a valid status; title: Title is required", err.Error())
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "random", DisplayNameFromEmail("random@x.com"))
	assert.Equal(t, "noatsign", DisplayNameFromEmail("noatsign"))
	assert.Equal(t, "", DisplayNameFromEmail("@x.com"))
}
