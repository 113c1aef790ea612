package user_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-management/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

const defaultAdminEmail = "admin@gmail.com"

type mockUserRepository struct {
	users   map[int64]*user.User
	deleted []int64
	nextID  int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*user.User), nextID: 1}
}

func (m *mockUserRepository) addUser(email, role, status string) *user.User {
	u := &user.User{
		ID:        m.nextID,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
	}
	m.users[u.ID] = u
	m.nextID++
	return u
}

func (m *mockUserRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepository) List() ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) ListByRole(role string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) UpdateProfile(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) UpdateStatus(id int64, status string) error {
	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Status = status
	return nil
}

func (m *mockUserRepository) DeleteCascade(id int64) error {
	if _, ok := m.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepository
		service *user.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, defaultAdminEmail, logger)
	})

	Describe("ListCandidates", func() {
		It("returns only workers", func() {
			repo.addUser(defaultAdminEmail, user.RoleAdmin, user.StatusActive)
			repo.addUser("resp@example.com", user.RoleResponsable, user.StatusActive)
			repo.addUser("w1@example.com", user.RoleWorker, user.StatusActive)
			repo.addUser("w2@example.com", user.RoleWorker, user.StatusPending)

			candidates, err := service.ListCandidates()
			Expect(err).NotTo(HaveOccurred())
			Expect(candidates).To(HaveLen(2))
			for _, c := range candidates {
				Expect(c.Role).To(Equal(user.RoleWorker))
			}
		})
	})

	Describe("UpdateProfile", func() {
		It("keeps fields that are not provided", func() {
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusActive)

			updated, err := service.UpdateProfile(u.ID, user.UpdateProfileDTO{FirstName: "Renamed"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FirstName).To(Equal("Renamed"))
			Expect(updated.LastName).To(Equal("User"))
			Expect(updated.Email).To(Equal("w1@example.com"))
		})

		It("rejects an email already held by another user", func() {
			repo.addUser("taken@example.com", user.RoleWorker, user.StatusActive)
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusActive)

			_, err := service.UpdateProfile(u.ID, user.UpdateProfileDTO{Email: "taken@example.com"})
			Expect(err).To(Equal(user.ErrEmailTaken))
		})

		It("rejects an empty update", func() {
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusActive)

			_, err := service.UpdateProfile(u.ID, user.UpdateProfileDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateStatus", func() {
		It("activates a pending account", func() {
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusPending)

			updated, err := service.UpdateStatus(u.ID, user.UpdateStatusDTO{Status: user.StatusActive})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(user.StatusActive))
		})

		It("rejects an unknown status", func() {
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusPending)

			_, err := service.UpdateStatus(u.ID, user.UpdateStatusDTO{Status: "suspended"})
			Expect(err).To(Equal(user.ErrInvalidStatus))
		})

		It("never changes the default admin", func() {
			admin := repo.addUser(defaultAdminEmail, user.RoleAdmin, user.StatusActive)

			_, err := service.UpdateStatus(admin.ID, user.UpdateStatusDTO{Status: user.StatusRejected})
			Expect(err).To(Equal(user.ErrProtectedAdmin))
			Expect(repo.users[admin.ID].Status).To(Equal(user.StatusActive))
		})
	})

	Describe("Delete", func() {
		It("removes the user through the cascade", func() {
			u := repo.addUser("w1@example.com", user.RoleWorker, user.StatusActive)

			Expect(service.Delete(u.ID)).To(Succeed())
			Expect(repo.deleted).To(ContainElement(u.ID))
			_, err := service.GetByID(u.ID)
			Expect(err).To(Equal(user.ErrNotFound))
		})

		It("never deletes the default admin", func() {
			admin := repo.addUser(defaultAdminEmail, user.RoleAdmin, user.StatusActive)

			err := service.Delete(admin.ID)
			Expect(err).To(Equal(user.ErrProtectedAdmin))
			Expect(repo.deleted).To(BeEmpty())
		})

		It("returns not found for an unknown user", func() {
			Expect(service.Delete(99)).To(Equal(user.ErrNotFound))
		})
	})
})
