package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zawamu/models"
	"zawamu/store"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, name, email, hashed string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := f.byEmail[email]; ok {
		return nil, store.ErrDuplicate
	}
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Password: hashed}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *models.User) {
	t.Helper()
	svc := NewService(newFakeUsers(), NewJWTManager("test-secret", time.Hour))
	u, err := svc.Register(context.Background(), "Admin", "admin@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return svc, u
}

func TestLoginIssuesToken(t *testing.T) {
	svc, u := newTestService(t)

	res, err := svc.Login(context.Background(), "Admin@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != u.ID.Hex() || res.User.Email != "admin@example.com" || res.User.Name != "Admin" {
		t.Fatalf("unexpected user summary %+v", res.User)
	}

	claims, err := svc.Tokens().Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != u.ID.Hex() {
		t.Fatalf("token subject = %s, want %s", claims.UserID, u.ID.Hex())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), "Other", "admin@example.com", "password"); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	svc := NewService(newFakeUsers(), NewJWTManager("s", time.Hour))
	if _, err := svc.Register(context.Background(), "", "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	_, u := newTestService(t)
	if u.Password == "hunter22" {
		t.Fatal("password stored in plain text")
	}
	if err := CheckPassword(u.Password, "hunter22"); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, u := newTestService(t)

	got, err := svc.Profile(context.Background(), u.ID.Hex())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if got.Email != u.Email {
		t.Fatalf("email = %s, want %s", got.Email, u.Email)
	}

	if _, err := svc.Profile(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
