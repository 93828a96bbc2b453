package session_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jrsteele09/go-portfolio-client/session"
	sessionrepofakes "github.com/jrsteele09/go-portfolio-client/session/repofakes"
	"github.com/stretchr/testify/require"
)

const (
	testEmail      = "admin@example.com"
	testOtherEmail = "editor@example.com"
)

func TestNew_StartsLoggedOutWithoutPersistedState(t *testing.T) {
	s := session.New(sessionrepofakes.NewFakePersister())

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
}

func TestNew_RestoresPersistedState(t *testing.T) {
	p := sessionrepofakes.NewFakePersisterWith(session.Snapshot{
		IsAuthenticated: true,
		User:            &session.User{Email: testEmail},
		Token:           "legacy-token",
	})

	s := session.New(p)

	require.True(t, s.IsAuthenticated())
	require.Equal(t, testEmail, s.User().Email)
	require.Equal(t, "legacy-token", s.Snapshot().Token)
}

func TestNew_DropsUserFromUnauthenticatedSnapshot(t *testing.T) {
	p := sessionrepofakes.NewFakePersisterWith(session.Snapshot{
		IsAuthenticated: false,
		User:            &session.User{Email: testEmail},
	})

	s := session.New(p)

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
}

func TestNew_LoadFailureStartsLoggedOut(t *testing.T) {
	p := sessionrepofakes.NewFakePersister()
	p.FailLoad(errors.New("corrupt"))

	s := session.New(p)

	require.False(t, s.IsAuthenticated())
}

func TestNew_NilPersister(t *testing.T) {
	s := session.New(nil)
	s.Login(session.User{Email: testEmail})
	require.True(t, s.IsAuthenticated())
}

func TestLogin_SetsAuthenticatedAndPersists(t *testing.T) {
	p := sessionrepofakes.NewFakePersister()
	s := session.New(p)

	s.Login(session.User{Email: testEmail})

	require.True(t, s.IsAuthenticated())
	require.Equal(t, testEmail, s.User().Email)

	saved, err := p.Saved()
	require.NoError(t, err)
	require.True(t, saved.IsAuthenticated)
	require.Equal(t, testEmail, saved.User.Email)
}

func TestLogin_TwiceKeepsMostRecentUser(t *testing.T) {
	s := session.New(sessionrepofakes.NewFakePersister())

	s.Login(session.User{Email: testEmail})
	s.Login(session.User{Email: testOtherEmail})

	require.True(t, s.IsAuthenticated())
	require.Equal(t, testOtherEmail, s.User().Email)
}

func TestLogout_ClearsUserAndToken(t *testing.T) {
	p := sessionrepofakes.NewFakePersister()
	s := session.New(p)
	s.LoginWithToken(session.User{Email: testEmail}, "legacy-token")

	s.Logout()

	snap := s.Snapshot()
	require.False(t, snap.IsAuthenticated)
	require.Nil(t, snap.User)
	require.Empty(t, snap.Token)

	saved, err := p.Saved()
	require.NoError(t, err)
	require.Equal(t, session.Snapshot{}, saved)
}

func TestLogout_WhenLoggedOutLeavesStateUnchanged(t *testing.T) {
	s := session.New(sessionrepofakes.NewFakePersister())

	var notified int
	s.Subscribe(func(session.Snapshot) { notified++ })

	s.Logout()
	s.Logout()

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
	require.Zero(t, notified, "no change, no notification")
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := session.New(nil)
	s.Login(session.User{Email: testEmail})

	snap := s.Snapshot()
	snap.User.Email = "mutated@example.com"

	require.Equal(t, testEmail, s.User().Email)
}

func TestSaveFailureDoesNotBlockTransition(t *testing.T) {
	p := sessionrepofakes.NewFakePersister()
	p.FailSave(errors.New("disk full"))
	s := session.New(p)

	s.Login(session.User{Email: testEmail})
	require.True(t, s.IsAuthenticated())

	s.Logout()
	require.False(t, s.IsAuthenticated())
	require.Zero(t, p.SaveCount())
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	s := session.New(nil)

	var got []session.Snapshot
	unsubscribe := s.Subscribe(func(snap session.Snapshot) {
		got = append(got, snap)
	})

	s.Login(session.User{Email: testEmail})
	s.Logout()
	unsubscribe()
	s.Login(session.User{Email: testOtherEmail})

	require.Len(t, got, 2)
	require.True(t, got[0].IsAuthenticated)
	require.False(t, got[1].IsAuthenticated)
}

func TestSubscribe_ObservesStateAlreadyCommitted(t *testing.T) {
	s := session.New(nil)
	s.Login(session.User{Email: testEmail})

	var seenInside bool
	s.Subscribe(func(session.Snapshot) {
		seenInside = s.IsAuthenticated()
	})
	s.Logout()

	require.False(t, seenInside)
}

func TestConcurrentTransitions(t *testing.T) {
	s := session.New(sessionrepofakes.NewFakePersister())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Login(session.User{Email: testEmail})
		}()
		go func() {
			defer wg.Done()
			_ = s.IsAuthenticated()
			_ = s.User()
		}()
	}
	wg.Wait()
	s.Logout()

	require.False(t, s.IsAuthenticated())
}
