package store

import (
	"context"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialmux/cleanser/model"
)

// ContentStore persists one validated NormalizedContent aggregate.
type ContentStore interface {
	SaveNormalizedContent(ctx context.Context, cleaningId string, content *model.NormalizedContent) error
}

// GormContentStore writes the aggregate into the structured-data store. The
// whole aggregate is committed in one transaction so a partially stored
// cleaning run never becomes visible.
type GormContentStore struct {
	DB *gorm.DB
}

func NewGormContentStore(db *gorm.DB) *GormContentStore {
	return &GormContentStore{DB: db}
}

func (s *GormContentStore) SaveNormalizedContent(ctx context.Context, cleaningId string, content *model.NormalizedContent) error {
	for _, post := range content.Posts {
		stampPostChain(post, cleaningId, 0)
	}
	for _, user := range content.Users {
		user.CleaningId = cleaningId
	}
	for _, comment := range content.Comments {
		comment.CleaningId = cleaningId
	}
	for _, item := range content.Media {
		item.CleaningId = cleaningId
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Repost originals are persisted as their own rows, flattened out
		// of the interaction chain.
		posts := flattenPosts(content.Posts)
		if len(posts) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&posts).Error; err != nil {
				return err
			}
		}
		if len(content.Users) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&content.Users).Error; err != nil {
				return err
			}
		}
		if len(content.Comments) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&content.Comments).Error; err != nil {
				return err
			}
		}
		if len(content.Media) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&content.Media).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func stampPostChain(post *model.Post, cleaningId string, depth int) {
	// The chain is already depth-capped by the normalizer, the bound here
	// only guards against accidental cycles.
	if post == nil || depth > 32 {
		return
	}
	post.CleaningId = cleaningId
	stampPostChain(post.Interaction.OriginalPost, cleaningId, depth+1)
}

func flattenPosts(posts []*model.Post) []*model.Post {
	flattened := []*model.Post{}
	seen := map[string]bool{}
	var walk func(post *model.Post)
	walk = func(post *model.Post) {
		if post == nil || seen[post.Mid] {
			return
		}
		seen[post.Mid] = true
		flattened = append(flattened, post)
		walk(post.Interaction.OriginalPost)
	}
	for _, post := range posts {
		walk(post)
	}
	return flattened
}

// FakeContentStore records saved aggregates in memory for tests.
type FakeContentStore struct {
	mu       sync.Mutex
	Saved    map[string]*model.NormalizedContent
	FailSave bool
}

func NewFakeContentStore() *FakeContentStore {
	return &FakeContentStore{Saved: map[string]*model.NormalizedContent{}}
}

func (s *FakeContentStore) SaveNormalizedContent(ctx context.Context, cleaningId string, content *model.NormalizedContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave {
		return errors.New("storage error: content store unavailable")
	}
	// Deep copy so later mutation by the caller does not leak into what the
	// test observes as "persisted".
	var stored model.NormalizedContent
	if err := copier.CopyWithOption(&stored, content, copier.Option{DeepCopy: true}); err != nil {
		return errors.Wrap(err, "storage error: snapshot normalized content")
	}
	s.Saved[cleaningId] = &stored
	return nil
}
