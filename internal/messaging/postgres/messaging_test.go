package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/recruitment-management/internal/messaging"
)

func TestMessageRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MessageRepository Suite")
}

type SQLiteUser struct {
	ID        int64  `gorm:"primaryKey"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Email     string `gorm:"uniqueIndex"`
	Role      string
	Status    string
}

func (SQLiteUser) TableName() string { return "users" }

var _ = Describe("MessageRepository", func() {
	var (
		db   *gorm.DB
		repo messaging.Repository
	)

	alice := int64(1)
	bob := int64(2)
	carol := int64(3)

	send := func(from, to int64, content string, at time.Time) {
		m := &messaging.Message{SenderID: from, ReceiverID: to, Content: content, CreatedAt: at}
		Expect(repo.Create(m)).To(Succeed())
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &messaging.Message{})
		Expect(err).NotTo(HaveOccurred())

		for _, u := range []SQLiteUser{
			{ID: alice, FirstName: "Alice", LastName: "A", Email: "alice@example.com", Role: "worker"},
			{ID: bob, FirstName: "Bob", LastName: "B", Email: "bob@example.com", Role: "responsable"},
			{ID: carol, FirstName: "Carol", LastName: "C", Email: "carol@example.com", Role: "admin"},
		} {
			Expect(db.Create(&u).Error).To(Succeed())
		}

		repo = NewMessageRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ListThread", func() {
		It("should interleave both directions chronologically", func() {
			base := time.Now().Add(-time.Hour)
			send(alice, bob, "one", base)
			send(bob, alice, "two", base.Add(time.Minute))
			send(alice, bob, "three", base.Add(2*time.Minute))
			send(alice, carol, "other thread", base.Add(3*time.Minute))

			thread, err := repo.ListThread(alice, bob)
			Expect(err).NotTo(HaveOccurred())
			Expect(thread).To(HaveLen(3))
			Expect(thread[0].Content).To(Equal("one"))
			Expect(thread[2].Content).To(Equal("three"))
		})
	})

	Describe("MarkThreadRead", func() {
		It("should only flag messages from the given sender", func() {
			now := time.Now()
			send(bob, alice, "from bob", now)
			send(carol, alice, "from carol", now)

			Expect(repo.MarkThreadRead(alice, bob)).To(Succeed())

			count, err := repo.CountUnread(alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("ListConversations", func() {
		It("should group by correspondent with last message and unread count", func() {
			base := time.Now().Add(-time.Hour)
			send(alice, bob, "hello bob", base)
			send(bob, alice, "hi alice", base.Add(time.Minute))
			send(bob, alice, "you there?", base.Add(2*time.Minute))
			send(carol, alice, "admin notice", base.Add(3*time.Minute))

			conversations, err := repo.ListConversations(alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(conversations).To(HaveLen(2))

			// newest conversation first
			Expect(conversations[0].UserID).To(Equal(carol))
			Expect(conversations[0].LastMessage).To(Equal("admin notice"))
			Expect(conversations[0].UnreadCount).To(Equal(1))

			Expect(conversations[1].UserID).To(Equal(bob))
			Expect(conversations[1].LastMessage).To(Equal("you there?"))
			Expect(conversations[1].UnreadCount).To(Equal(2))
		})

		It("should list a correspondent once when both messages share a timestamp", func() {
			at := time.Now().Truncate(time.Second)
			send(alice, bob, "ping", at)
			send(bob, alice, "pong", at)

			conversations, err := repo.ListConversations(alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(conversations).To(HaveLen(1))
			Expect(conversations[0].UserID).To(Equal(bob))
			// the later insert wins the tie
			Expect(conversations[0].LastMessage).To(Equal("pong"))
		})

		It("should count a conversation with only outgoing messages as read", func() {
			send(alice, bob, "hello", time.Now())

			conversations, err := repo.ListConversations(alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(conversations).To(HaveLen(1))
			Expect(conversations[0].UnreadCount).To(BeZero())
		})
	})
})
