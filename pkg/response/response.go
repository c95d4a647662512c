// Package response 统一 JSON 响应
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 标准响应结构
// 字段顺序：code -> msg -> data
type Response struct {
	Code int         `json:"code"` // 业务状态码，0 表示成功
	Msg  string      `json:"msg"`  // 响应消息
	Data interface{} `json:"data"` // 响应数据
}

// 业务错误码
const (
	CodeSuccess = 0 // 操作成功

	// 参数错误 10xxx
	CodeInvalidRequest   = 10001 // 请求参数无效
	CodeInvalidFormat    = 10002 // 参数格式错误
	CodeMissingParam     = 10003 // 必填参数缺失
	CodeValidationFailed = 10004 // 表单校验失败
	CodeConfirmRequired  = 10005 // 操作需要确认

	// 认证错误 20xxx
	CodeUnauthenticated = 20002 // 未登录或会话已失效

	// 资源不存在 40xxx
	CodeTicketNotFound = 40001 // 工单不存在
	CodeNotFound       = 40004 // 接口不存在

	// 服务器错误 90xxx
	CodeServerError = 90001 // 服务器内部错误
	CodeUnavailable = 90002 // 服务暂时不可用
)

// 错误码对应的消息
var codeMessages = map[int]string{
	CodeSuccess:          "操作成功",
	CodeInvalidRequest:   "请求参数无效",
	CodeInvalidFormat:    "参数格式错误",
	CodeMissingParam:     "必填参数缺失",
	CodeValidationFailed: "表单校验失败",
	CodeConfirmRequired:  "删除操作需要确认",
	CodeUnauthenticated:  "未登录或会话已失效",
	CodeTicketNotFound:   "工单不存在",
	CodeNotFound:         "接口不存在",
	CodeServerError:      "服务器内部错误，请稍后重试",
	CodeUnavailable:      "服务暂时不可用",
}

// Message 错误码对应的默认消息
func Message(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "未知错误"
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  codeMessages[CodeSuccess],
		Data: data,
	})
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  msg,
		Data: data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  Message(code),
		Data: nil,
	})
}

// ErrorWithMsg 错误响应（自定义消息）
func ErrorWithMsg(c *gin.Context, code int, msg string) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}

// ErrorWithData 错误响应（附带数据，如字段错误）
func ErrorWithData(c *gin.Context, code int, data interface{}) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  Message(code),
		Data: data,
	})
}

// codeToHTTPStatus 业务错误码转 HTTP 状态码
func codeToHTTPStatus(code int) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code == CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case code >= 10000 && code < 20000:
		return http.StatusBadRequest
	case code == CodeUnauthenticated:
		return http.StatusUnauthorized
	case code >= 20000 && code < 30000:
		return http.StatusForbidden
	case code >= 40000 && code < 50000:
		return http.StatusNotFound
	case code == CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
