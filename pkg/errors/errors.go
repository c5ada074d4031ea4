package errors

import (
	"errors"
	"strings"
)

// ErrRegistryNotReady 车站登记簿尚未完成初始化
// 调用方应提示稍后重试，而不是同步等待初始化完成
var ErrRegistryNotReady = errors.New("车站登记簿尚未就绪，请稍后重试")

// ValidationErrors 聚合的校验错误
// 一次提交的全部问题汇总后整体返回，任何一条存在都不落库
type ValidationErrors struct {
	Items []string
}

// Add 追加一条校验错误
func (v *ValidationErrors) Add(message string) {
	v.Items = append(v.Items, message)
}

// HasErrors 是否存在校验错误
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Items) > 0
}

// Error 实现 error 接口，逐条换行拼接
func (v *ValidationErrors) Error() string {
	return strings.Join(v.Items, "\n")
}

// AsValidation 判断 err 是否为聚合校验错误
func AsValidation(err error) (*ValidationErrors, bool) {
	var v *ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
