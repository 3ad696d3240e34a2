package domain

import "errors"

var (
	// ErrAuthFailed - общая ошибка аутентификации на бэкенде
	ErrAuthFailed = errors.New("authentication failed")
	// ErrIncorrectCredential - бэкенд ответил 401 на логин
	ErrIncorrectCredential = errors.New("incorrect credential")
	// ErrMalformedAuthResponse - 200 без sid и без признака отсутствия пароля
	ErrMalformedAuthResponse = errors.New("malformed auth response")
	// ErrSessionExpired - бэкенд ответил 401 на чтение, сессия недействительна
	ErrSessionExpired = errors.New("session expired")
	// ErrUnexpectedStatus - любой другой не-2xx ответ
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrInvalidBackend - дескриптор бэкенда непригоден (ошибка вне изоляции одного бэкенда)
	ErrInvalidBackend = errors.New("invalid backend descriptor")
)
