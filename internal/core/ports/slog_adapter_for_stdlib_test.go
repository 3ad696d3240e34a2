package ports_test

import (
	"testing"

	"github.com/athebyme/pidash/internal/core/ports"
	"github.com/athebyme/pidash/internal/test/mocks"
	"github.com/golang/mock/gomock"
)

func TestNewStdLogger_ForwardsAsWarn(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn("TLS handshake error from 10.0.0.1:5000: EOF").Times(1)

	std := ports.NewStdLogger(logger)
	std.Println("http: TLS handshake error from 10.0.0.1:5000: EOF")
	std.Println("   ")
}
