package domain

import (
	"net/url"
	"strings"
)

// Backend описывает один экземпляр Pi-hole, данные которого агрегируются
// неизменяем на время жизни процесса, владелец - конфигурация
type Backend struct {
	Name     string
	Address  *url.URL
	Password string
	Enabled  bool
	// Link разрешает отдавать адрес бэкенда клиенту дашборда
	Link bool
}

// Hostname возвращает имя хоста из адреса в нижнем регистре (без порта)
func (b *Backend) Hostname() string {
	if b == nil || b.Address == nil {
		return ""
	}
	return strings.ToLower(b.Address.Hostname())
}

// Endpoint собирает абсолютный URL метода API бэкенда
func (b *Backend) Endpoint(path string, query url.Values) string {
	u := b.Address.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// SelfHostnames собирает множество хостов всех переданных бэкендов
// используется для отбрасывания запросов, которые бэкенды делают друг к другу
func SelfHostnames(backends []*Backend) map[string]struct{} {
	hosts := make(map[string]struct{}, len(backends))
	for _, b := range backends {
		if h := b.Hostname(); h != "" {
			hosts[h] = struct{}{}
		}
	}
	return hosts
}
