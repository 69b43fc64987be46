package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"contacts_project/internal/domain"
	"contacts_project/internal/repository"
	"contacts_project/internal/utils"
	"contacts_project/internal/utils/blacklist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type fakeContactStore struct {
	contacts map[uint]*domain.Contact
	nextID   uint

	lastBirthdayStart time.Time
	lastBirthdayEnd   time.Time
}

func newFakeContactStore(seed ...domain.Contact) *fakeContactStore {
	s := &fakeContactStore{contacts: make(map[uint]*domain.Contact)}
	for _, c := range seed {
		contact := c
		s.nextID++
		contact.ID = s.nextID
		s.contacts[contact.ID] = &contact
	}
	return s
}

func (s *fakeContactStore) all() []domain.Contact {
	out := make([]domain.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakeContactStore) List(_ context.Context) ([]domain.Contact, error) {
	return s.all(), nil
}

func (s *fakeContactStore) FindByID(_ context.Context, id uint) (*domain.Contact, error) {
	if c, ok := s.contacts[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeContactStore) FindByEmail(_ context.Context, email string) (*domain.Contact, error) {
	for _, c := range s.contacts {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeContactStore) SearchByFirstName(_ context.Context, firstName string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range s.all() {
		if strings.Contains(strings.ToLower(c.FirstName), strings.ToLower(firstName)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeContactStore) SearchByLastName(_ context.Context, lastName string) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range s.all() {
		if strings.Contains(strings.ToLower(c.LastName), strings.ToLower(lastName)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeContactStore) Create(_ context.Context, contact *domain.Contact) error {
	s.nextID++
	contact.ID = s.nextID
	clone := *contact
	s.contacts[contact.ID] = &clone
	return nil
}

func (s *fakeContactStore) Update(_ context.Context, contact *domain.Contact) error {
	if _, ok := s.contacts[contact.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *contact
	s.contacts[contact.ID] = &clone
	return nil
}

func (s *fakeContactStore) Remove(_ context.Context, contact *domain.Contact) error {
	delete(s.contacts, contact.ID)
	return nil
}

func (s *fakeContactStore) UpcomingBirthdays(_ context.Context, start, end time.Time) ([]domain.Contact, error) {
	s.lastBirthdayStart, s.lastBirthdayEnd = start, end
	startKey, endKey := repository.MonthDayRange(start, end)

	var out []domain.Contact
	for _, c := range s.all() {
		key := c.Birthday.Format("01-02")
		var inWindow bool
		if startKey <= endKey {
			inWindow = key >= startKey && key < endKey
		} else {
			inWindow = key >= startKey || key < endKey
		}
		if inWindow {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type fakeBlacklist struct {
	tokens map[string]bool
	users  map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: make(map[string]bool), users: make(map[string]bool)}
}

func (b *fakeBlacklist) BanUser(_ context.Context, userID string, _ time.Duration) error {
	b.users[userID] = true
	return nil
}

func (b *fakeBlacklist) BanToken(_ context.Context, token string, _ time.Duration) error {
	b.tokens[token] = true
	return nil
}

func (b *fakeBlacklist) CheckUser(_ context.Context, userID string) error {
	if b.users[userID] {
		return blacklist.ErrUserBanned
	}
	return nil
}

func (b *fakeBlacklist) CheckToken(_ context.Context, token string) error {
	if b.tokens[token] {
		return blacklist.ErrTokenBlacklisted
	}
	return nil
}

type testEnv struct {
	store  *fakeContactStore
	users  *fakeUserStore
	bl     *fakeBlacklist
	router http.Handler
}

func newTestEnv(t *testing.T, seed ...domain.Contact) *testEnv {
	t.Helper()
	store := newFakeContactStore(seed...)
	users := newFakeUserStore()
	bl := newFakeBlacklist()
	router := NewRouter(Deps{
		Contacts:  store,
		Users:     users,
		Blacklist: bl,
		SecretKey: testSecret,
	})
	return &testEnv{store: store, users: users, bl: bl, router: router}
}

func (e *testEnv) seedUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:    string(role) + "@example.com",
		Password: "irrelevant",
		Role:     role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) bearer(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func (e *testEnv) do(t *testing.T, method, path, authorization string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}
