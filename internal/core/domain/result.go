package domain

import (
	"encoding/json"
	"errors"
)

// BackendResult - результат одного бэкенда в рамках одного вызова агрегации
// либо успех с непрозрачным JSON документом, либо ошибка; частично заполненным не бывает
type BackendResult struct {
	Payload json.RawMessage
	Err     error
}

func Success(payload json.RawMessage) BackendResult {
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return BackendResult{Payload: payload}
}

func Failure(err error) BackendResult {
	if err == nil {
		err = errors.New("unknown backend failure")
	}
	return BackendResult{Err: err}
}

func (r BackendResult) OK() bool { return r.Err == nil }

// MarshalJSON отдает payload как есть, а ошибку - в виде {"error": "..."}
func (r BackendResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err.Error()})
	}
	if len(r.Payload) == 0 {
		return []byte("null"), nil
	}
	return r.Payload, nil
}
