package platform

// StatusActive статус базы, доступной для запросов
const StatusActive = "active"

// DatabaseInstance запись реестра баз данных платформы
type DatabaseInstance struct {
	Type         string `json:"type"`
	ReferenceID  int64  `json:"reference_id"`
	DatabaseName string `json:"database_name"`
	Status       string `json:"status"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
