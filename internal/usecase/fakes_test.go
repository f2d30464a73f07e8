package usecase_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ErlanBelekov/mystery-threads/internal/domain"
)

type fakeUserRepo struct {
	create                 func(ctx context.Context, u *domain.User) (*domain.User, error)
	findByID               func(ctx context.Context, id string) (*domain.User, error)
	findByUsername         func(ctx context.Context, username string) (*domain.User, error)
	findByEmail            func(ctx context.Context, email string) (*domain.User, error)
	findByIdentifier       func(ctx context.Context, identifier string) (*domain.User, error)
	existsVerifiedUsername func(ctx context.Context, username string) (bool, error)
	replaceUnverified      func(ctx context.Context, u *domain.User) (*domain.User, error)
	markVerified           func(ctx context.Context, id string) error
	getAccepting           func(ctx context.Context, id string) (bool, error)
	setAccepting           func(ctx context.Context, id string, accepting bool) (bool, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.create(ctx, u)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByUsername(ctx, username)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findByIdentifier(ctx, identifier)
}

func (r *fakeUserRepo) ExistsVerifiedUsername(ctx context.Context, username string) (bool, error) {
	return r.existsVerifiedUsername(ctx, username)
}

func (r *fakeUserRepo) ReplaceUnverified(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.replaceUnverified(ctx, u)
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, id string) error {
	return r.markVerified(ctx, id)
}

func (r *fakeUserRepo) GetAcceptingMessages(ctx context.Context, id string) (bool, error) {
	return r.getAccepting(ctx, id)
}

func (r *fakeUserRepo) SetAcceptingMessages(ctx context.Context, id string, accepting bool) (bool, error) {
	return r.setAccepting(ctx, id, accepting)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

type fakeIssuer struct {
	issue func(u *domain.User) (string, error)
}

func (i *fakeIssuer) Issue(u *domain.User) (string, error) {
	return i.issue(u)
}

// memStore is an in-memory stand-in for both repositories, used where the
// tests need state to carry across several calls.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	messages []*domain.Message
	seq      int
	clock    time.Time
}

func newMemStore(users ...*domain.User) *memStore {
	s := &memStore{users: map[string]*domain.User{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) findUser(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) userRepo() *fakeUserRepo {
	return &fakeUserRepo{
		create: func(_ context.Context, u *domain.User) (*domain.User, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			for _, other := range s.users {
				if other.Email == u.Email {
					return nil, domain.ErrDuplicateEmail
				}
				if other.Username == u.Username {
					return nil, domain.ErrDuplicateUsername
				}
			}
			s.seq++
			created := *u
			created.ID = "user-" + strconv.Itoa(s.seq)
			s.users[created.ID] = &created
			return &created, nil
		},
		findByUsername: func(_ context.Context, username string) (*domain.User, error) {
			return s.findUser(func(u *domain.User) bool { return u.Username == username })
		},
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			return s.findUser(func(u *domain.User) bool { return u.Email == email })
		},
		findByIdentifier: func(_ context.Context, identifier string) (*domain.User, error) {
			return s.findUser(func(u *domain.User) bool { return u.Email == identifier || u.Username == identifier })
		},
		existsVerifiedUsername: func(_ context.Context, username string) (bool, error) {
			_, err := s.findUser(func(u *domain.User) bool { return u.Username == username && u.IsVerified })
			return err == nil, nil
		},
		markVerified: func(_ context.Context, id string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			u, ok := s.users[id]
			if !ok {
				return domain.ErrUserNotFound
			}
			u.IsVerified = true
			return nil
		},
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			u, ok := s.users[id]
			if !ok {
				return nil, domain.ErrUserNotFound
			}
			return u, nil
		},
		getAccepting: func(_ context.Context, id string) (bool, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			u, ok := s.users[id]
			if !ok {
				return false, domain.ErrUserNotFound
			}
			return u.IsAcceptingMessages, nil
		},
		setAccepting: func(_ context.Context, id string, accepting bool) (bool, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			u, ok := s.users[id]
			if !ok {
				return false, domain.ErrUserNotFound
			}
			u.IsAcceptingMessages = accepting
			return u.IsAcceptingMessages, nil
		},
	}
}

func (s *memStore) CreateForUsername(_ context.Context, username, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if !u.IsAcceptingMessages {
			return nil, domain.ErrNotAccepting
		}
		s.seq++
		s.clock = s.clock.Add(time.Second)
		m := &domain.Message{
			ID:        "00000000-0000-0000-0000-" + pad12(s.seq),
			UserID:    u.ID,
			Content:   content,
			CreatedAt: s.clock,
		}
		s.messages = append(s.messages, m)
		return m, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Message{}
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id && m.UserID == userID {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

func (s *memStore) count(userID string) int {
	msgs, _ := s.ListByUser(context.Background(), userID)
	return len(msgs)
}

func pad12(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 12 {
		s = "0" + s
	}
	return s
}
