package infinidash

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
	"github.com/infinidash-io/dash-manager/mocks"
)

type ClientTestSuite struct {
	suite.Suite
	server      *httptest.Server
	handler     http.HandlerFunc
	client      *Client
	mockLimiter *mocks.MockRateLimiter
	mockLogger  *mocks.MockLogger
	ctx         context.Context
	cancel      context.CancelFunc
}

func (s *ClientTestSuite) SetupTest() {
	s.mockLimiter = new(mocks.MockRateLimiter)
	s.mockLogger = new(mocks.MockLogger)
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)

	s.mockLimiter.On("Wait", mock.Anything, mock.Anything).Maybe().Return(nil)
	s.mockLogger.On("Debugf", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	s.mockLogger.On("Infof", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()
	s.mockLogger.On("Warnf", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))

	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	s.client = NewClient(awsCfg, s.mockLogger,
		WithEndpoint(s.server.URL),
		WithRateLimiter(s.mockLimiter),
		WithMaxRetries(0),
		WithPollInterval(10*time.Millisecond),
	)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func serviceError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"__type": errType, "message": message})
}

func (s *ClientTestSuite) respondDashes(dashes ...DashSummary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		json.NewEncoder(w).Encode(DescribeDashesOutput{Dashes: dashes})
	}
}

func testSummary() DashSummary {
	return DashSummary{
		DashId:      "dash-0123456789abcdef0",
		DashArn:     "arn:aws:dash:us-east-1:148830907657:infiniDash:888d9b58:dashName/InfinidashRawks",
		DashName:    "InfinidashRawks",
		DashStatus:  "AVAILABLE",
		CreatedTime: "2017-11-03 23:46:44.841000",
		DashConfig:  map[string]any{"ReplicaCount": float64(3)},
		Tags:        map[string]string{"Env": "prod"},
	}
}

func (s *ClientTestSuite) TestDescribeDashMapsResponse() {
	var gotTarget, gotAuth string
	var gotBody DescribeDashesInput

	s.handler = func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get("X-Amz-Target")
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		s.respondDashes(testSummary())(w, r)
	}

	dash, err := s.client.DescribeDash(s.ctx, "dash-0123456789abcdef0")

	s.Require().NoError(err)
	s.Equal("Infinidash_20210625.DescribeDashes", gotTarget)
	s.Contains(gotAuth, "AWS4-HMAC-SHA256")
	s.Equal([]string{"dash-0123456789abcdef0"}, gotBody.DashIds)
	s.Equal("dash-0123456789abcdef0", dash.ID)
	s.Equal(domain.StatusAvailable, dash.Status, "status should be normalized to lower case")
	s.Equal("2017-11-03 23:46:44.841000", dash.CreatedTime)
	s.Equal(map[string]any{"ReplicaCount": float64(3)}, dash.Config)
}

func (s *ClientTestSuite) TestDescribeDashEmptyResponseIsNotFound() {
	s.handler = s.respondDashes()

	_, err := s.client.DescribeDash(s.ctx, "dash-missing")

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeResourceNotFound))
}

func (s *ClientTestSuite) TestDescribeDashNotFoundError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, http.StatusBadRequest, "com.amazonaws.dash#DashNotFoundException", "Dash dash-missing does not exist")
	}

	_, err := s.client.DescribeDash(s.ctx, "dash-missing")

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodeResourceNotFound), "got code %s", apperrors.GetCode(err))
}

func (s *ClientTestSuite) TestDescribeDashByName() {
	var gotBody DescribeDashesInput
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		s.respondDashes(testSummary())(w, r)
	}

	dash, err := s.client.DescribeDashByName(s.ctx, "InfinidashRawks")

	s.Require().NoError(err)
	s.Equal([]string{"InfinidashRawks"}, gotBody.DashNames)
	s.Empty(gotBody.DashIds)
	s.Equal("InfinidashRawks", dash.Name)
}

func (s *ClientTestSuite) TestCreateDash() {
	var gotTarget string
	var gotBody CreateDashInput

	s.handler = func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get("X-Amz-Target")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", contentType)
		json.NewEncoder(w).Encode(CreateDashOutput{Dash: testSummary()})
	}

	dash, err := s.client.CreateDash(s.ctx, ports.CreateDashInput{
		Name:   "InfinidashRawks",
		Config: map[string]any{"ReplicaCount": float64(3)},
		Tags:   map[string]string{"Env": "prod"},
	})

	s.Require().NoError(err)
	s.Equal("Infinidash_20210625.CreateDash", gotTarget)
	s.Equal("InfinidashRawks", gotBody.DashName)
	s.Equal(map[string]any{"ReplicaCount": float64(3)}, gotBody.DashConfig)
	s.Equal("dash-0123456789abcdef0", dash.ID)
	s.NotEmpty(dash.ARN)
}

func (s *ClientTestSuite) TestCreateDashAccessDenied() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, http.StatusForbidden, "AccessDeniedException", "not authorized to perform dash:CreateDash")
	}

	_, err := s.client.CreateDash(s.ctx, ports.CreateDashInput{Name: "InfinidashRawks"})

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodePlatformAuth))
	s.Contains(err.Error(), "not authorized", "upstream message must survive")
}

func (s *ClientTestSuite) TestDeleteDash() {
	var gotBody DeleteDashInput
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte("{}"))
	}

	err := s.client.DeleteDash(s.ctx, "dash-0123456789abcdef0")

	s.Require().NoError(err)
	s.Equal("dash-0123456789abcdef0", gotBody.DashId)
}

func (s *ClientTestSuite) TestThrottlingIsRetried() {
	var calls int32
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			serviceError(w, http.StatusBadRequest, ErrCodeThrottling, "Rate exceeded")
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte("{}"))
	}

	WithMaxRetries(2)(s.client)

	err := s.client.DeleteDash(s.ctx, "dash-0123456789abcdef0")

	s.Require().NoError(err)
	s.EqualValues(2, atomic.LoadInt32(&calls))
}

func (s *ClientTestSuite) TestServerErrorSurfacesAsAPIError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		serviceError(w, http.StatusInternalServerError, "InternalFailureException", "internal failure")
	}

	err := s.client.DeleteDash(s.ctx, "dash-0123456789abcdef0")

	s.Require().Error(err)
	s.True(apperrors.Is(err, apperrors.CodePlatformAPIError))
}

func (s *ClientTestSuite) TestTagDashSkipsEmptyTags() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Fail("no request expected for empty tag set")
	}

	s.NoError(s.client.TagDash(s.ctx, "dash-0123456789abcdef0", nil))
	s.NoError(s.client.UntagDash(s.ctx, "dash-0123456789abcdef0", nil))
}

func (s *ClientTestSuite) TestTagDash() {
	var gotBody TagDashInput
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte("{}"))
	}

	err := s.client.TagDash(s.ctx, "dash-0123456789abcdef0", map[string]string{"Env": "prod"})

	s.Require().NoError(err)
	s.Equal(map[string]string{"Env": "prod"}, gotBody.Tags)
}
