package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		err  error
		kind Kind
	}{
		{&TransportError{Provider: "p", Err: cause}, KindTransport},
		{&UpstreamError{Provider: "p", StatusCode: 502}, KindUpstream},
		{&DecodeError{Provider: "p", Err: cause}, KindDecode},
		{&ResponseShapeError{Provider: "p", Path: "choices[0]"}, KindResponseShape},
		{Invalid("file", "required"), KindValidation},
		{cause, KindInternal},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("outer: %w", tc.err)
		assert.Equal(t, tc.kind, KindOf(wrapped), tc.err.Error())
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("dial tcp")
	assert.ErrorIs(t, &TransportError{Provider: "p", Err: cause}, cause)
	assert.ErrorIs(t, &DecodeError{Provider: "p", Err: cause}, cause)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "groq: upstream returned status 500", (&UpstreamError{Provider: "groq", StatusCode: 500}).Error())
	assert.Equal(t, "gemini: unexpected response shape: missing candidates[0]", (&ResponseShapeError{Provider: "gemini", Path: "candidates[0]"}).Error())
	assert.Equal(t, "file: file is required", Invalid("file", "file is required").Error())
}
