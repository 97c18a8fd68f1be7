package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误语义约定：
//   - 冷启动（用户/图书无历史数据）不是错误，返回空结果
//   - 模型未训练（MODEL_UNAVAILABLE）由上层降级为热度推荐
//   - 训练失败（TRAINING_FAILURE）必须上报给 Retrain 调用方，不得吞掉
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "TRAINING_FAILURE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "model"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"         // 资源不存在（未知图书/用户 ID）
	ErrorCodeNotSupported     = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeModelUnavailable = "MODEL_UNAVAILABLE" // 尚无已训练的模型制品
	ErrorCodeTrainingFailure  = "TRAINING_FAILURE"  // 训练中止，已发布版本保持不变
	ErrorCodeInvalidInput     = "INVALID_INPUT"     // 输入无效
)

// 模块名称常量
const (
	ModuleStore  = "store"  // 存储模块
	ModuleModel  = "model"  // 模型/制品模块
	ModuleRecall = "recall" // 召回/打分模块
	ModuleBlend  = "blend"  // 混排模块
	ModuleTrain  = "train"  // 训练模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsModelUnavailable 检查错误是否为 MODEL_UNAVAILABLE
func IsModelUnavailable(err error) bool {
	return hasCode(err, ErrorCodeModelUnavailable)
}

// IsTrainingFailure 检查错误是否为 TRAINING_FAILURE
func IsTrainingFailure(err error) bool {
	return hasCode(err, ErrorCodeTrainingFailure)
}
