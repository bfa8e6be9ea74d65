package files

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failWith  error
	lastTTL   time.Duration
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	s.lastTTL = expires
	return "https://files.test/" + key + "?sig=x", nil
}

func (s *fakeStorage) Driver() string { return "fake" }

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

func newService(t *testing.T) (*DefaultFileService, *fakeStorage) {
	t.Helper()
	st := newFakeStorage()
	return &DefaultFileService{Repo: memoryRepo.NewFileRepo(), Storage: st, MaxBytes: 1 << 20}, st
}

var (
	alice = models.Actor{UserID: "alice", Role: "user"}
	bob   = models.Actor{UserID: "bob", Role: "user"}
	admin = models.Actor{UserID: "root", Role: "admin"}
)

func upload(t *testing.T, svc *DefaultFileService, actor models.Actor, name string, body []byte) *models.File {
	t.Helper()
	f, err := svc.Upload(context.Background(), actor, UploadInput{Name: name, Size: int64(len(body)), Reader: bytes.NewReader(body)})
	require.NoError(t, err)
	return f
}

func TestUploadStoresObjectAndMetadata(t *testing.T) {
	svc, st := newService(t)

	f := upload(t, svc, alice, "notes/../Week 1.pdf", pdfBytes)

	assert.Equal(t, "Week 1.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, "alice", f.OwnerID)
	assert.Equal(t, "fake", f.Driver)
	assert.True(t, strings.HasPrefix(f.StorageKey, "files/"))
	assert.True(t, strings.HasSuffix(f.StorageKey, ".pdf"))
	assert.Equal(t, pdfBytes, st.objects[f.StorageKey], "sniffing must not consume the stream")

	got, err := svc.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.StorageKey, got.StorageKey)
}

func TestUploadRefinesTextByExtension(t *testing.T) {
	svc, _ := newService(t)

	md := upload(t, svc, alice, "README.md", []byte("# Title\n\nSome words here.\n"))
	assert.Equal(t, "text/markdown", md.ContentType)

	txt := upload(t, svc, alice, "notes.txt", []byte("plain words\n"))
	assert.Equal(t, "text/plain", txt.ContentType)
}

func TestUploadRejections(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, alice, UploadInput{Name: "big.pdf", Size: 2 << 20, Reader: bytes.NewReader(pdfBytes)})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	exe := append([]byte("MZ\x90\x00\x03\x00\x00\x00"), make([]byte, 64)...)
	_, err = svc.Upload(ctx, alice, UploadInput{Name: "setup.pdf", Size: int64(len(exe)), Reader: bytes.NewReader(exe)})
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed, "declared extension must not override the sniffed type")

	html := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	_, err = svc.Upload(ctx, alice, UploadInput{Name: "page.html", Size: int64(len(html)), Reader: bytes.NewReader(html)})
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	assert.Empty(t, st.objects)
}

func TestUploadStorageFailure(t *testing.T) {
	svc, st := newService(t)
	st.failWith = errors.New("bucket unreachable")

	_, err := svc.Upload(context.Background(), alice, UploadInput{Name: "a.pdf", Size: int64(len(pdfBytes)), Reader: bytes.NewReader(pdfBytes)})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestUploadWithoutStorage(t *testing.T) {
	svc := &DefaultFileService{Repo: memoryRepo.NewFileRepo()}
	_, err := svc.Upload(context.Background(), alice, UploadInput{Name: "a.pdf", Reader: bytes.NewReader(pdfBytes)})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newService(t)
	first := upload(t, svc, alice, "one.pdf", pdfBytes)
	time.Sleep(2 * time.Millisecond)
	second := upload(t, svc, bob, "two.pdf", pdfBytes)

	page, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Files, 1)
	assert.Equal(t, second.ID, page.Files[0].ID)

	page, err = svc.List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, first.ID, page.Files[0].ID)
	assert.Equal(t, 2, page.Page)
}

func TestDownloadURLClampsExpiry(t *testing.T) {
	svc, st := newService(t)
	f := upload(t, svc, alice, "a.pdf", pdfBytes)
	ctx := context.Background()

	link, err := svc.DownloadURL(ctx, f.ID, 0)
	require.NoError(t, err)
	assert.Contains(t, link.URL, f.StorageKey)
	assert.Equal(t, DefaultLinkExpiry, st.lastTTL)
	assert.WithinDuration(t, time.Now().Add(DefaultLinkExpiry), link.ExpiresAt, 5*time.Second)

	_, err = svc.DownloadURL(ctx, f.ID, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, MaxLinkExpiry, st.lastTTL)

	_, err = svc.DownloadURL(ctx, f.ID, time.Second)
	require.NoError(t, err)
	assert.Equal(t, MinLinkExpiry, st.lastTTL)

	_, err = svc.DownloadURL(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeletePermissions(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	f := upload(t, svc, alice, "a.pdf", pdfBytes)

	assert.ErrorIs(t, svc.Delete(ctx, bob, f.ID), ErrForbidden)
	assert.Contains(t, st.objects, f.StorageKey)

	require.NoError(t, svc.Delete(ctx, alice, f.ID))
	assert.NotContains(t, st.objects, f.StorageKey)
	_, err := svc.Get(ctx, f.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	g := upload(t, svc, bob, "b.pdf", pdfBytes)
	require.NoError(t, svc.Delete(ctx, admin, g.ID))

	assert.ErrorIs(t, svc.Delete(ctx, admin, "missing"), ErrFileNotFound)
}

func TestDeleteKeepsMetadataWhenStorageFails(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	f := upload(t, svc, alice, "a.pdf", pdfBytes)

	st.deleteErr = errors.New("timeout")
	assert.ErrorIs(t, svc.Delete(ctx, alice, f.ID), ErrStorageUnavailable)

	_, err := svc.Get(ctx, f.ID)
	assert.NoError(t, err)
}

func TestAllowed(t *testing.T) {
	for ct, want := range map[string]bool{
		"image/png":                 true,
		"image/jpeg":                true,
		"image/svg+xml":             false,
		"application/pdf":           true,
		"text/plain; charset=utf-8": true,
		"video/mp4":                 true,
		"application/x-msdownload":  false,
		"text/html":                 false,
		"":                          false,
	} {
		assert.Equal(t, want, Allowed(ct), ct)
	}
}
