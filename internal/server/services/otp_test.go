package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/server/config"
	"github.com/passvault/passvault/internal/timex"
)

func newOtpService(t *testing.T, rm *fakeRepoManager, mailer *fakeMailer, clock timex.Clock) *OtpService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewOtpService(db, rm, mailer, clock, cfg)
}

func TestOtpRequest_Success(t *testing.T) {
	rm := &fakeRepoManager{o: &fakeOtpsRepo{}}
	mailer := &fakeMailer{}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	s := newOtpService(t, rm, mailer, timex.FixedClock{Instant: now})

	if err := s.Request(context.Background(), "alice@x.com"); err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "alice@x.com" || mailer.sent[0].Subject != "Verification OTP" {
		t.Fatalf("unexpected mail: %+v", mailer.sent[0])
	}

	if len(rm.o.created) != 1 {
		t.Fatalf("expected one stored challenge, got %d", len(rm.o.created))
	}
	challenge := rm.o.created[0]
	if challenge.Email != "alice@x.com" || challenge.Used {
		t.Fatalf("unexpected challenge: %+v", challenge)
	}
	if len(challenge.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", challenge.Code)
	}
	if !strings.Contains(mailer.sent[0].Body, challenge.Code) {
		t.Fatal("mail body must carry the stored code")
	}
	if !challenge.ExpirationTime.Equal(now.Add(5 * time.Minute)) {
		t.Fatalf("expected 5-minute expiry, got %v", challenge.ExpirationTime)
	}
}

func TestOtpRequest_MailFailureStoresNothing(t *testing.T) {
	rm := &fakeRepoManager{o: &fakeOtpsRepo{}}
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}

	s := newOtpService(t, rm, mailer, timex.RealClock{})

	if err := s.Request(context.Background(), "alice@x.com"); err == nil {
		t.Fatal("expected error when mail dispatch fails")
	}
	if len(rm.o.created) != 0 {
		t.Fatal("challenge must not be stored when mail fails")
	}
}

func TestOtpVerify_Success(t *testing.T) {
	rm := &fakeRepoManager{o: &fakeOtpsRepo{}}

	s := newOtpService(t, rm, &fakeMailer{}, timex.RealClock{})

	if err := s.Verify(context.Background(), "alice@x.com", "123456"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if len(rm.o.consumed) != 1 || rm.o.consumed[0] != [2]string{"alice@x.com", "123456"} {
		t.Fatalf("unexpected consume calls: %v", rm.o.consumed)
	}
}

func TestOtpVerify_InvalidOrExpired(t *testing.T) {
	rm := &fakeRepoManager{o: &fakeOtpsRepo{consumeErr: common.ErrorNotFound}}

	s := newOtpService(t, rm, &fakeMailer{}, timex.RealClock{})

	err := s.Verify(context.Background(), "alice@x.com", "123456")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("expected ErrorInvalidCredentials, got %v", err)
	}
}

func TestOtpVerify_RepoFault(t *testing.T) {
	rm := &fakeRepoManager{o: &fakeOtpsRepo{consumeErr: errors.New("db down")}}

	s := newOtpService(t, rm, &fakeMailer{}, timex.RealClock{})

	err := s.Verify(context.Background(), "alice@x.com", "123456")
	if err == nil || errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("storage faults must not look like bad credentials, got %v", err)
	}
}
