package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// blockedStatuses - статусы Pi-hole, которые считаются блокировкой
// все остальные статусы (FORWARDED, CACHE, ...) считаются разрешенными
var blockedStatuses = map[string]struct{}{
	"GRAVITY":                {},
	"REGEX":                  {},
	"DENYLIST":               {},
	"EXTERNAL_BLOCKED_IP":    {},
	"EXTERNAL_BLOCKED_NULL":  {},
	"EXTERNAL_BLOCKED_NXRA":  {},
	"GRAVITY_CNAME":          {},
	"REGEX_CNAME":            {},
	"DENYLIST_CNAME":         {},
	"DBBUSY":                 {},
	"SPECIAL_DOMAIN":         {},
	"EXTERNAL_BLOCKED_EDE15": {},
}

// IsBlockedStatus сравнивает статус без учета регистра
func IsBlockedStatus(status string) bool {
	_, ok := blockedStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}

// RawQuery - запись журнала запросов в том виде, в котором ее отдает /api/queries
// отсутствующие поля остаются нулевыми: domain и upstream пустые, id и time - nil
type RawQuery struct {
	ID        *int64          `json:"id"`
	Domain    string          `json:"domain"`
	Status    string          `json:"status"`
	Time      json.RawMessage `json:"time"`
	Timestamp json.RawMessage `json:"timestamp"`
	Upstream  string          `json:"upstream"`
}

// QueriesResponse - тело ответа /api/queries
type QueriesResponse struct {
	Queries []RawQuery `json:"queries"`
}

// EventTime возвращает time, а если его нет (null, 0, "") - timestamp
func (q RawQuery) EventTime() json.RawMessage {
	if !isEmptyJSONValue(q.Time) {
		return q.Time
	}
	if !isEmptyJSONValue(q.Timestamp) {
		return q.Timestamp
	}
	return nil
}

// QueryRecord - нормализованная запись, которую видит клиент дашборда
// timestamp дублирует time для старых клиентов
type QueryRecord struct {
	ID        *int64          `json:"id"`
	Domain    string          `json:"domain"`
	Blocked   bool            `json:"blocked"`
	Time      json.RawMessage `json:"time"`
	Timestamp json.RawMessage `json:"timestamp"`
	Upstream  string          `json:"upstream"`
}

func isEmptyJSONValue(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return true
	}
	switch string(v) {
	case "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		return f == 0
	}
	return false
}
