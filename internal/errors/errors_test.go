package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/battlebrain/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "enemy not found",
			expected: "NOT_FOUND: enemy not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapKeepsCode() {
	base := errors.Unavailable("catalog down").WithMeta("status", 503)
	wrapped := errors.Wrap(base, "lookup failed")

	s.Equal(errors.CodeUnavailable, wrapped.Code)
	s.Equal(503, wrapped.Meta["status"])
	s.True(errors.IsUnavailable(wrapped))
	s.ErrorIs(wrapped, errors.Unavailable(""))
}

func (s *ErrorsTestSuite) TestWrapForeignError() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrapf(baseErr, "failed to reach %s", "predictor")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to reach predictor", errors.GetMessage(wrapped))
	s.Equal(baseErr, wrapped.Unwrap())
	s.Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	wrapped := errors.WrapWithCode(fmt.Errorf("eof"), errors.CodeDataLoss, "slot unreadable")
	s.Equal(errors.CodeDataLoss, errors.GetCode(wrapped))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestFromHTTPStatus() {
	s.Equal(errors.CodeOK, errors.FromHTTPStatus(http.StatusOK))
	s.Equal(errors.CodeNotFound, errors.FromHTTPStatus(http.StatusNotFound))
	s.Equal(errors.CodeInvalidArgument, errors.FromHTTPStatus(http.StatusUnprocessableEntity))
	s.Equal(errors.CodeDeadlineExceeded, errors.FromHTTPStatus(http.StatusGatewayTimeout))
	s.Equal(errors.CodeUnavailable, errors.FromHTTPStatus(http.StatusInternalServerError))
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("partyHp", "Party HP must be 1 or higher.").
		Fieldf("enemyAc", "must be at least %d", 1).
		RequiredField("catalog.base_url")

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields := errors.ValidationFields(err)
	s.Equal([]string{"Party HP must be 1 or higher."}, fields["partyHp"])
	s.Equal([]string{"is required"}, fields["catalog.base_url"])
	s.Contains(err.Error(), "enemyAc: must be at least 1")
}

func (s *ErrorsTestSuite) TestValidationBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
	s.Nil(errors.ValidationFields(errors.NotFound("x")))
}

func (s *ErrorsTestSuite) TestValidateHelpers() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", "   ", vb)
	errors.ValidateEnum("driver", "mongo", []string{"memory", "sqlite"}, vb)
	errors.ValidateEnum("other", "memory", []string{"memory", "sqlite"}, vb)

	fields := errors.ValidationFields(vb.Build())
	s.Len(fields, 2)
	s.Equal([]string{"must be one of: memory, sqlite"}, fields["driver"])
}
