package domain

// Result — единый ответ операций движка для слоя представления.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded формирует успешный результат.
func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// ResultFromError формирует неуспешный результат. Для ошибок вне таксономии
// сообщение не раскрывает деталей инфраструктуры.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	if ruleErr, ok := AsRuleError(err); ok {
		return Result{Success: false, Message: ruleErr.Message}
	}
	return Result{Success: false, Message: "Something went wrong. Please try again."}
}
