package app_test

import (
	"net/url"
	"testing"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/test/mocks"
	"github.com/golang/mock/gomock"
)

// quietLogger принимает любые вызовы логгера, With возвращает тот же мок
func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().With(gomock.Any()).Return(l).AnyTimes()
	l.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	l.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return l
}

func newBackend(t *testing.T, name, rawURL string) *domain.Backend {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", rawURL, err)
	}
	return &domain.Backend{Name: name, Address: u, Password: "secret", Enabled: true}
}
