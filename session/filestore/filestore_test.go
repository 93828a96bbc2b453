package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-portfolio-client/session"
	"github.com/jrsteele09/go-portfolio-client/session/filestore"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	fs := filestore.New(t.TempDir())

	_, found, err := fs.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	fs := filestore.New(dir)

	err := fs.Save(session.Snapshot{IsAuthenticated: true, User: &session.User{Email: "admin@example.com"}})
	require.NoError(t, err)

	snap, found, err := filestore.New(dir).Load()
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, "admin@example.com", snap.User.Email)
}

func TestSave_WritesWebClientDocument(t *testing.T) {
	dir := t.TempDir()
	fs := filestore.New(dir)

	require.NoError(t, fs.Save(session.Snapshot{}))

	data, err := os.ReadFile(filepath.Join(dir, "auth-storage.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"state":{"isAuthenticated":false,"user":null},"version":0}`, string(data))
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth-storage.json"), []byte("{not json"), 0o600))

	_, _, err := filestore.New(dir).Load()
	require.ErrorContains(t, err, "[FileStore.Load] decode")
}

func TestLoad_IgnoresUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	doc := `{"state":{"isAuthenticated":true,"user":{"email":"a@b.c"}},"version":3}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth-storage.json"), []byte(doc), 0o600))

	_, found, err := filestore.New(dir).Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestClear(t *testing.T) {
	fs := filestore.New(t.TempDir())
	require.NoError(t, fs.Save(session.Snapshot{IsAuthenticated: true}))

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())

	_, found, err := fs.Load()
	require.NoError(t, err)
	require.False(t, found)
}

func TestStoreRoundTripThroughFile(t *testing.T) {
	dir := t.TempDir()

	s := session.New(filestore.New(dir))
	s.Login(session.User{Email: "admin@example.com"})

	restored := session.New(filestore.New(dir))
	require.True(t, restored.IsAuthenticated())
	require.Equal(t, "admin@example.com", restored.User().Email)

	restored.Logout()
	require.False(t, session.New(filestore.New(dir)).IsAuthenticated())
}
