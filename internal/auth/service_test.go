package auth_test

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockAuthRepository struct {
	users  map[string]*storedUser
	nextID int64

	// simulates a row appearing between the existence check and the insert
	staleExistsCheck bool
}

type storedUser struct {
	id           int64
	firstName    string
	lastName     string
	passwordHash string
	role         string
	status       string
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{users: make(map[string]*storedUser), nextID: 1}
}

func (m *mockAuthRepository) addUser(email, password, role, status string) int64 {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	id := m.nextID
	m.nextID++
	m.users[email] = &storedUser{
		id:           id,
		firstName:    "Test",
		lastName:     "User",
		passwordHash: string(hash),
		role:         role,
		status:       status,
	}
	return id
}

func (m *mockAuthRepository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, internal.ErrInvalidCredentials
	}
	return &auth.Credentials{
		UserID:       u.id,
		PasswordHash: u.passwordHash,
		Role:         u.role,
		Status:       u.status,
	}, nil
}

func (m *mockAuthRepository) GetSessionUser(userID int64) (*auth.SessionUser, error) {
	for email, u := range m.users {
		if u.id == userID {
			return &auth.SessionUser{
				ID:        u.id,
				FirstName: u.firstName,
				LastName:  u.lastName,
				Email:     email,
				Role:      u.role,
				Status:    u.status,
			}, nil
		}
	}
	return nil, internal.ErrInvalidToken
}

func (m *mockAuthRepository) CreateUser(firstName, lastName, email, passwordHash, role, status string) (int64, error) {
	if _, taken := m.users[email]; taken {
		return 0, internal.NewConflictError("email is already in use", internal.ErrCodeEmailTaken)
	}
	id := m.nextID
	m.nextID++
	m.users[email] = &storedUser{
		id:           id,
		firstName:    firstName,
		lastName:     lastName,
		passwordHash: passwordHash,
		role:         role,
		status:       status,
	}
	return id, nil
}

func (m *mockAuthRepository) EmailExists(email string) (bool, error) {
	if m.staleExistsCheck {
		return false, nil
	}
	_, ok := m.users[email]
	return ok, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockAuthRepository
		service *auth.Service
		logger  *slog.Logger
	)

	newTokenGen := func() *auth.JWTTokenGenerator {
		return auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(repo, newTokenGen(), bcrypt.MinCost, logger)
	})

	Describe("Register", func() {
		It("creates a worker as active", func() {
			u, err := service.Register(auth.RegisterDTO{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
				Password:  "supersecret",
				Role:      "worker",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal("worker"))
			Expect(u.Status).To(Equal("active"))
		})

		It("creates a responsable as pending", func() {
			u, err := service.Register(auth.RegisterDTO{
				FirstName: "Grace",
				LastName:  "Hopper",
				Email:     "grace@example.com",
				Password:  "supersecret",
				Role:      "responsable",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Status).To(Equal("pending"))
		})

		It("rejects self-registration as admin", func() {
			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Eve",
				LastName:  "Admin",
				Email:     "eve@example.com",
				Password:  "supersecret",
				Role:      "admin",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects a duplicate email", func() {
			repo.addUser("taken@example.com", "whatever1", "worker", "active")

			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "taken@example.com",
				Password:  "supersecret",
				Role:      "worker",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("surfaces a concurrent duplicate registration as a conflict", func() {
			repo.addUser("taken@example.com", "whatever1", "worker", "active")
			repo.staleExistsCheck = true

			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "taken@example.com",
				Password:  "supersecret",
				Role:      "worker",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("rejects a short password", func() {
			_, err := service.Register(auth.RegisterDTO{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
				Password:  "short",
				Role:      "worker",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			repo.addUser("worker@example.com", "correct-horse", "worker", "active")
			repo.addUser("pending@example.com", "correct-horse", "responsable", "pending")
		})

		It("returns tokens and the session user on valid credentials", func() {
			result, err := service.Authenticate(auth.LoginDTO{
				Email:    "worker@example.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(result.Tokens.RefreshToken).NotTo(BeEmpty())
			Expect(result.User.Email).To(Equal("worker@example.com"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "worker@example.com",
				Password: "wrong-password",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "correct-horse",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an account that is not active", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "pending@example.com",
				Password: "correct-horse",
			})
			Expect(err).To(Equal(internal.ErrUserInactive))
		})
	})

	Describe("RefreshTokens", func() {
		It("rotates the pair for an active account", func() {
			id := repo.addUser("worker@example.com", "correct-horse", "worker", "active")

			gen := newTokenGen()
			refresh, err := gen.GenerateRefreshToken(fmt.Sprintf("%d", id), "worker@example.com", "worker")
			Expect(err).NotTo(HaveOccurred())

			tokens, err := service.RefreshTokens(refresh)
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects refresh for a deactivated account", func() {
			id := repo.addUser("rejected@example.com", "correct-horse", "worker", "rejected")

			gen := newTokenGen()
			refresh, err := gen.GenerateRefreshToken(fmt.Sprintf("%d", id), "rejected@example.com", "worker")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(refresh)
			Expect(err).To(Equal(internal.ErrUserInactive))
		})

		It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("JWTTokenGenerator", func() {
		It("round-trips claims through an access token", func() {
			gen := newTokenGen()
			token, err := gen.GenerateAccessToken("42", "worker@example.com", "worker")
			Expect(err).NotTo(HaveOccurred())

			claims, err := gen.ValidateToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("42"))
			Expect(claims.Email).To(Equal("worker@example.com"))
			Expect(claims.Role).To(Equal("worker"))
		})

		It("rejects tokens signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator("other-access", "other-refresh", 15*time.Minute, 7*24*time.Hour)
			token, err := other.GenerateAccessToken("42", "worker@example.com", "worker")
			Expect(err).NotTo(HaveOccurred())

			_, err = newTokenGen().ValidateToken(token)
			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects expired tokens", func() {
			gen := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", -time.Minute, 7*24*time.Hour)
			token, err := gen.GenerateAccessToken("42", "worker@example.com", "worker")
			Expect(err).NotTo(HaveOccurred())

			_, err = newTokenGen().ValidateToken(token)
			Expect(err).To(Equal(internal.ErrTokenExpired))
		})
	})
})
