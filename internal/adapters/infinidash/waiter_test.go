package infinidash

import (
	"net/http"
	"sync/atomic"
	"time"

	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

func (s *ClientTestSuite) statusSequence(statuses ...string) http.HandlerFunc {
	var calls int32
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) > len(statuses) {
			n = int32(len(statuses))
		}
		summary := testSummary()
		summary.DashStatus = statuses[n-1]
		s.respondDashes(summary)(w, r)
	}
}

func (s *ClientTestSuite) TestWaitUntilAvailableSucceeds() {
	s.handler = s.statusSequence("CREATING", "CREATING", "AVAILABLE")

	dash, err := s.client.WaitUntilAvailable(s.ctx, "dash-0123456789abcdef0", 2*time.Second)

	s.Require().NoError(err)
	s.Equal("dash-0123456789abcdef0", dash.ID)
}

func (s *ClientTestSuite) TestWaitUntilAvailableToleratesNotFound() {
	var calls int32
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			s.respondDashes()(w, r)
			return
		}
		s.respondDashes(testSummary())(w, r)
	}

	dash, err := s.client.WaitUntilAvailable(s.ctx, "dash-0123456789abcdef0", 2*time.Second)

	s.Require().NoError(err)
	s.Equal("dash-0123456789abcdef0", dash.ID)
}

func (s *ClientTestSuite) TestWaitUntilAvailableTimesOut() {
	s.handler = s.statusSequence("CREATING")

	_, err := s.client.WaitUntilAvailable(s.ctx, "dash-0123456789abcdef0", 50*time.Millisecond)

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeWaitTimeout), "got code %s", apperrors.GetCode(err))

	msg, suggestion, userFacing := apperrors.GetUserFacingMessage(err)
	s.True(userFacing)
	s.Contains(msg, "timed out")
	s.Contains(suggestion, "wait_timeout")
}

func (s *ClientTestSuite) TestWaitUntilAvailableFailsOnDeleting() {
	s.handler = s.statusSequence("DELETING")

	_, err := s.client.WaitUntilAvailable(s.ctx, "dash-0123456789abcdef0", 2*time.Second)

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodePlatformAPIError))
	s.Contains(err.Error(), "deleting")
}
