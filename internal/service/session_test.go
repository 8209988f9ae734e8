package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophcheck-server/internal/mocks"
	"github.com/dtroode/gophcheck-server/internal/model"
	"github.com/dtroode/gophcheck-server/internal/testutil"
	"github.com/dtroode/gophcheck-server/internal/token"
)

func newTestSigner(t *testing.T) *token.Signer {
	t.Helper()
	signer, err := token.NewSigner("session-secret")
	require.NoError(t, err)
	return signer
}

func TestSession_IssueAndVerify(t *testing.T) {
	s := NewSession(newTestSigner(t), "4242", false, LoginLimit{}, testutil.MakeNoopLogger())

	tok, err := s.Issue(context.Background(), " 4242\n", "10.0.0.1")
	require.NoError(t, err)

	_, err = uuid.Parse(tok.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok.Value, tok.ID+"."))

	id, err := s.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, tok.ID, id)

	other, err := s.Issue(context.Background(), "4242", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, tok.ID, other.ID)
}

func TestSession_Verify_Tampered(t *testing.T) {
	s := NewSession(newTestSigner(t), "4242", false, LoginLimit{}, testutil.MakeNoopLogger())

	tok, err := s.Issue(context.Background(), "4242", "10.0.0.1")
	require.NoError(t, err)

	for i := range tok.Value {
		if tok.Value[i] == '.' {
			continue
		}
		b := []byte(tok.Value)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		_, err := s.Verify(string(b))
		assert.ErrorIs(t, err, model.ErrInvalidToken, "position %d", i)
	}
}

func TestSession_Verify_Malformed(t *testing.T) {
	s := NewSession(newTestSigner(t), "4242", false, LoginLimit{}, testutil.MakeNoopLogger())

	tok, err := s.Issue(context.Background(), "4242", "10.0.0.1")
	require.NoError(t, err)
	_, sig, _ := strings.Cut(tok.Value, ".")

	for _, value := range []string{
		"",
		"no-dot",
		"." + sig,
		tok.ID + ".",
		tok.Value + ".extra",
		tok.ID + "." + strings.ToUpper(sig),
	} {
		_, err := s.Verify(value)
		assert.ErrorIs(t, err, model.ErrInvalidToken, value)
	}

	rotated, err := token.NewSigner("rotated-secret")
	require.NoError(t, err)
	_, err = NewSession(rotated, "4242", false, LoginLimit{}, testutil.MakeNoopLogger()).Verify(tok.Value)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestSession_Issue_Credentials(t *testing.T) {
	tests := []struct {
		name       string
		pin        string
		demoMode   bool
		credential string
		wantErr    error
	}{
		{name: "match", pin: "4242", credential: "4242"},
		{name: "configured pin is trimmed", pin: " 4242 ", credential: "4242"},
		{name: "mismatch", pin: "4242", credential: "4243", wantErr: model.ErrInvalidCredential},
		{name: "prefix", pin: "4242", credential: "424", wantErr: model.ErrInvalidCredential},
		{name: "empty credential", pin: "4242", credential: "   ", wantErr: model.ErrInvalidFormat},
		{name: "no pin without demo mode", pin: "", credential: "anything", wantErr: model.ErrInvalidCredential},
		{name: "no pin in demo mode", pin: "", demoMode: true, credential: "anything"},
		{name: "demo mode ignored when pin set", pin: "4242", demoMode: true, credential: "anything", wantErr: model.ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(newTestSigner(t), tt.pin, tt.demoMode, LoginLimit{}, testutil.MakeNoopLogger())

			tok, err := s.Issue(context.Background(), tt.credential, "10.0.0.1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tok.Value)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tok.Value)
		})
	}
}

func TestSession_Issue_LoginLimit(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lg := testutil.MakeNoopLogger()
	limiter := NewLimiter(testutil.NewMemoryCounterStore(), time.Minute, 2*time.Minute, lg).
		WithClock(func() time.Time { return current })

	s := NewSession(newTestSigner(t), "4242", false, LoginLimit{Limiter: limiter, PerIP: 3}, lg)

	for i := 0; i < 3; i++ {
		_, err := s.Issue(ctx, "0000", "10.0.0.1")
		assert.ErrorIs(t, err, model.ErrInvalidCredential)
	}

	_, err := s.Issue(ctx, "4242", "10.0.0.1")
	assert.ErrorIs(t, err, model.ErrRateLimited)

	_, err = s.Issue(ctx, "4242", "10.0.0.2")
	assert.NoError(t, err)

	current = current.Add(2*time.Minute + time.Second)
	_, err = s.Issue(ctx, "4242", "10.0.0.1")
	assert.NoError(t, err)
}

func TestSession_Issue_LoginLimitUnavailable(t *testing.T) {
	counters := mocks.NewCounterStore(t)
	counters.On("Bump", mock.Anything, "login:10.0.0.1", mock.Anything, mock.Anything, 10, 2*time.Minute).
		Return(model.Counter{}, errors.New("redis down"))

	lg := testutil.MakeNoopLogger()
	limiter := NewLimiter(counters, time.Minute, 2*time.Minute, lg)
	s := NewSession(newTestSigner(t), "4242", false, LoginLimit{Limiter: limiter, PerIP: 10}, lg)

	_, err := s.Issue(context.Background(), "4242", "10.0.0.1")
	assert.NoError(t, err)
}

type failingSigner struct{}

func (failingSigner) Sign(string) (string, error) { return "", errors.New("boom") }
func (failingSigner) Verify(string, string) bool  { return false }

func TestSession_Issue_SignerError(t *testing.T) {
	s := NewSession(failingSigner{}, "4242", false, LoginLimit{}, testutil.MakeNoopLogger())

	_, err := s.Issue(context.Background(), "4242", "10.0.0.1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredential)
}
