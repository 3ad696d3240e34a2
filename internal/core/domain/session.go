package domain

// SessionKind различает состояния сессии бэкенда
type SessionKind int

const (
	// SessionAbsent - аутентификации не было или сессия сброшена
	SessionAbsent SessionKind = iota
	// SessionNoAuth - бэкенд сообщил, что пароль не установлен
	SessionNoAuth
	// SessionToken - обычная сессия с идентификатором
	SessionToken
)

func (k SessionKind) String() string {
	switch k {
	case SessionNoAuth:
		return "no-auth"
	case SessionToken:
		return "token"
	default:
		return "absent"
	}
}

// Session - токен сессии одного бэкенда, хранится только в памяти (или в общем redis)
// никогда не сериализуется в ответы API
type Session struct {
	Kind SessionKind
	SID  string
}

func NoAuthSession() Session { return Session{Kind: SessionNoAuth} }

func TokenSession(sid string) Session { return Session{Kind: SessionToken, SID: sid} }

func (s Session) IsAbsent() bool { return s.Kind == SessionAbsent }

func (s Session) RequiresAuth() bool { return s.Kind != SessionNoAuth }

// HeaderValue возвращает значение для заголовка X-FTL-SID
// false означает, что заголовок ставить не нужно
func (s Session) HeaderValue() (string, bool) {
	if s.Kind != SessionToken || s.SID == "" {
		return "", false
	}
	return s.SID, true
}

// String не раскрывает идентификатор сессии, чтобы его нельзя было случайно залогировать
func (s Session) String() string { return s.Kind.String() }
