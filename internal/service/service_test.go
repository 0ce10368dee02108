package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/hoaxify/internal/db/dbtest"
	"github.com/templui/hoaxify/internal/model"
	"github.com/templui/hoaxify/internal/repository"
	"github.com/templui/hoaxify/internal/storage"
	"golang.org/x/text/language"
)

type sentMail struct {
	Kind   string
	To     string
	Token  string
	Locale language.Tag
}

type fakeMailer struct {
	mu   sync.Mutex
	fail bool
	sent []sentMail
}

func (m *fakeMailer) SendAccountActivation(ctx context.Context, to, token string, locale language.Tag) error {
	return m.record(emailActivation, to, token, locale)
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, token string, locale language.Tag) error {
	return m.record(emailPasswordReset, to, token, locale)
}

func (m *fakeMailer) record(kind, to, token string, locale language.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Token: token, Locale: locale})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

// failingStorage is a LocalStorage whose Delete can be made to fail.
type failingStorage struct {
	*storage.LocalStorage
	mu         sync.Mutex
	failDelete bool
}

func (s *failingStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	fail := s.failDelete
	s.mu.Unlock()
	if fail {
		return errors.New("disk gone")
	}
	return s.LocalStorage.Delete(ctx, path)
}

func (s *failingStorage) setFailDelete(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = fail
}

type testEnv struct {
	db          *sqlx.DB
	uploadDir   string
	store       *failingStorage
	mailer      *fakeMailer
	users       repository.UserRepository
	tokens      repository.TokenRepository
	hoaxes      repository.HoaxRepository
	attachments repository.AttachmentRepository
	auth        *AuthService
	files       *FileService
	hoaxService *HoaxService
	userService *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := dbtest.New(t)
	uploadDir := t.TempDir()
	local, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)

	env := &testEnv{
		db:          database,
		uploadDir:   uploadDir,
		store:       &failingStorage{LocalStorage: local},
		mailer:      &fakeMailer{},
		users:       repository.NewUserRepository(database),
		tokens:      repository.NewTokenRepository(database),
		hoaxes:      repository.NewHoaxRepository(database),
		attachments: repository.NewAttachmentRepository(database),
	}

	hasher := NewBcryptHasher(4)
	env.auth = NewAuthService(env.users, env.tokens, hasher, time.Hour)
	env.files = NewFileService(env.attachments, env.store)
	env.hoaxService = NewHoaxService(database, env.hoaxes, env.attachments, env.users, env.files)
	env.userService = NewUserService(database, env.users, env.auth, env.hoaxService, env.files, env.mailer, hasher)
	return env
}

// registerActive registers a user through the service and activates it.
func (e *testEnv) registerActive(t *testing.T, username string) *model.User {
	t.Helper()
	ctx := context.Background()

	user, err := e.userService.Register(ctx, RegisterInput{
		Username: username,
		Email:    username + "@mail.com",
		Password: "P4ssword",
	}, language.English)
	require.NoError(t, err)
	require.NoError(t, e.userService.Activate(ctx, *user.ActivationToken))

	user, err = e.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	return user
}

func (e *testEnv) fileExists(t *testing.T, dir, filename string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(e.uploadDir, dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	require.NoError(t, err)
	return true
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func requireKind(t *testing.T, err error, kind Kind, key string) {
	t.Helper()
	require.Error(t, err)
	var serviceErr *Error
	require.ErrorAs(t, err, &serviceErr)
	require.Equal(t, kind, serviceErr.Kind)
	require.Equal(t, key, serviceErr.Message)
}
