package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/athebyme/pidash/internal/core/app"
	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/test/mocks"
	"github.com/golang/mock/gomock"
)

type fetcherDeps struct {
	sessions *mocks.MockSessionStore
	auth     *mocks.MockAuthenticator
	client   *mocks.MockBackendClient
}

func newTestFetcher(t *testing.T) (*app.Fetcher, fetcherDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := fetcherDeps{
		sessions: mocks.NewMockSessionStore(ctrl),
		auth:     mocks.NewMockAuthenticator(ctrl),
		client:   mocks.NewMockBackendClient(ctrl),
	}
	return app.NewFetcher(deps.sessions, deps.auth, deps.client, quietLogger(ctrl)), deps
}

func TestFetcher_Fetch_UsesCachedSession(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	session := domain.TokenSession("abc")
	op := domain.SummaryOperation()

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(session, nil)
	deps.client.EXPECT().Read(gomock.Any(), backend, op, session).Return(json.RawMessage(`{"ok":true}`), nil)

	res := fetcher.Fetch(context.Background(), backend, op)
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if string(res.Payload) != `{"ok":true}` {
		t.Errorf("unexpected payload: %s", res.Payload)
	}
}

func TestFetcher_Fetch_LogsInWhenSessionAbsent(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	session := domain.TokenSession("fresh")
	op := domain.SummaryOperation()

	gomock.InOrder(
		deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.Session{}, nil),
		deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(session, nil),
		deps.sessions.EXPECT().Set(gomock.Any(), "pi1", session).Return(nil),
		deps.client.EXPECT().Read(gomock.Any(), backend, op, session).Return(json.RawMessage(`{}`), nil),
	)

	if res := fetcher.Fetch(context.Background(), backend, op); !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
}

func TestFetcher_Fetch_ReauthenticatesOnceOnExpiredSession(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	stale := domain.TokenSession("stale")
	fresh := domain.TokenSession("fresh")
	op := domain.QueriesOperation(10)

	gomock.InOrder(
		deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(stale, nil),
		deps.client.EXPECT().Read(gomock.Any(), backend, op, stale).
			Return(nil, fmt.Errorf("read: %w", domain.ErrSessionExpired)),
		deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(fresh, nil).Times(1),
		deps.sessions.EXPECT().Set(gomock.Any(), "pi1", fresh).Return(nil),
		deps.client.EXPECT().Read(gomock.Any(), backend, op, fresh).Return(json.RawMessage(`{"queries":[]}`), nil),
	)

	if res := fetcher.Fetch(context.Background(), backend, op); !res.OK() {
		t.Fatalf("expected success after re-authentication, got %v", res.Err)
	}
}

func TestFetcher_Fetch_SecondExpiryIsFailure(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	op := domain.SummaryOperation()

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.TokenSession("stale"), nil)
	deps.client.EXPECT().Read(gomock.Any(), backend, op, gomock.Any()).
		Return(nil, domain.ErrSessionExpired).Times(2)
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(domain.TokenSession("fresh"), nil).Times(1)
	deps.sessions.EXPECT().Set(gomock.Any(), "pi1", gomock.Any()).Return(nil)

	res := fetcher.Fetch(context.Background(), backend, op)
	if res.OK() {
		t.Fatal("expected failure after second expiry")
	}
	if !errors.Is(res.Err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", res.Err)
	}
}

func TestFetcher_Fetch_RejectedCredentialSkipsRead(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.Session{}, nil)
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(domain.Session{}, domain.ErrIncorrectCredential)
	deps.client.EXPECT().Read(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res := fetcher.Fetch(context.Background(), backend, domain.SummaryOperation())
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !errors.Is(res.Err, domain.ErrAuthFailed) || !errors.Is(res.Err, domain.ErrIncorrectCredential) {
		t.Errorf("expected auth failure wrapping incorrect credential, got %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "pi1") {
		t.Errorf("error should name the backend: %v", res.Err)
	}
}

func TestFetcher_Fetch_NoAuthNeverReauthenticates(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "open", "http://open.local")
	op := domain.SummaryOperation()

	deps.sessions.EXPECT().Get(gomock.Any(), "open").Return(domain.NoAuthSession(), nil)
	deps.client.EXPECT().Read(gomock.Any(), backend, op, domain.NoAuthSession()).
		Return(nil, domain.ErrSessionExpired).Times(1)
	deps.auth.EXPECT().Authenticate(gomock.Any(), gomock.Any()).Times(0)

	if res := fetcher.Fetch(context.Background(), backend, op); res.OK() {
		t.Fatal("expected failure")
	}
}

func TestFetcher_Fetch_NonAuthErrorIsNotRetried(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	op := domain.SummaryOperation()
	boom := errors.New("connection refused")

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.TokenSession("abc"), nil)
	deps.client.EXPECT().Read(gomock.Any(), backend, op, gomock.Any()).Return(nil, boom).Times(1)

	res := fetcher.Fetch(context.Background(), backend, op)
	if !errors.Is(res.Err, boom) {
		t.Errorf("expected transport error, got %v", res.Err)
	}
}

func TestFetcher_Fetch_ReauthenticationFailure(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	op := domain.SummaryOperation()

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.TokenSession("stale"), nil)
	deps.client.EXPECT().Read(gomock.Any(), backend, op, gomock.Any()).Return(nil, domain.ErrSessionExpired).Times(1)
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(domain.Session{}, domain.ErrIncorrectCredential)

	res := fetcher.Fetch(context.Background(), backend, op)
	if !errors.Is(res.Err, domain.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", res.Err)
	}
}

func TestFetcher_EnsureSession_StoreErrorTreatedAsAbsent(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.Session{}, errors.New("redis down"))
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(domain.NoAuthSession(), nil)
	deps.sessions.EXPECT().Set(gomock.Any(), "pi1", domain.NoAuthSession()).Return(errors.New("redis down"))

	session, err := fetcher.EnsureSession(context.Background(), backend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Kind != domain.SessionNoAuth {
		t.Errorf("expected no-auth session, got %s", session)
	}
}

func TestFetcher_EnsureSession_AbsentLoginResultIsMalformed(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.Session{}, nil)
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).Return(domain.Session{}, nil)

	_, err := fetcher.EnsureSession(context.Background(), backend)
	if !errors.Is(err, domain.ErrMalformedAuthResponse) {
		t.Errorf("expected ErrMalformedAuthResponse, got %v", err)
	}
}

func TestFetcher_ConcurrentLoginsAreShared(t *testing.T) {
	fetcher, deps := newTestFetcher(t)
	backend := newBackend(t, "pi1", "http://pi1.local")
	release := make(chan struct{})
	entered := make(chan struct{}, 1)

	deps.sessions.EXPECT().Get(gomock.Any(), "pi1").Return(domain.Session{}, nil).Times(2)
	deps.auth.EXPECT().Authenticate(gomock.Any(), backend).DoAndReturn(
		func(context.Context, *domain.Backend) (domain.Session, error) {
			entered <- struct{}{}
			<-release
			return domain.TokenSession("shared"), nil
		},
	).MaxTimes(2).MinTimes(1)
	deps.sessions.EXPECT().Set(gomock.Any(), "pi1", domain.TokenSession("shared")).Return(nil).MinTimes(1).MaxTimes(2)

	var wg sync.WaitGroup
	sessions := make([]domain.Session, 2)
	for i := range sessions {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := fetcher.EnsureSession(context.Background(), backend)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			sessions[i] = s
		}()
	}
	<-entered
	close(release)
	wg.Wait()

	for _, s := range sessions {
		if s.SID != "shared" {
			t.Errorf("expected shared session, got %q", s.SID)
		}
	}
}
