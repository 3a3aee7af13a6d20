package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/pixgram/backend/internal/models"
	"gorm.io/gorm"
)

// Store bundles every repository over one database handle. A Store returned
// by Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Follows       FollowRepository
	Posts         PostRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Stories       StoryRepository
	Conversations ConversationRepository
	Messages      MessageRepository
	Notifications NotificationRepository
	Hashtags      HashtagRepository
}

// NewStore wires the Postgres repositories over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Stories:       NewPostgresStoryRepository(db),
		Conversations: NewPostgresConversationRepository(db),
		Messages:      NewPostgresMessageRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
		Hashtags:      NewPostgresHashtagRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext returns a Store whose queries carry ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn inside a database transaction. Every repository
// reachable from tx shares it; fn must not use the outer Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// AutoMigrate creates or updates the relational schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostImage{},
		&models.Like{},
		&models.Comment{},
		&models.Story{},
		&models.StoryView{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.Hashtag{},
		&models.PostHashtag{},
	)
}

func offset(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query literally as a
// substring. Use it with ESCAPE '\'.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
