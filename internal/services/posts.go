package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

// CreatePost stores a post with 1 to 10 images in submitted order and
// indexes the hashtags of its caption in the same transaction.
func (s *Service) CreatePost(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.PostDetail, error) {
	if len(req.Images) == 0 || len(req.Images) > models.MaxPostImages {
		return nil, fmt.Errorf("%w: a post needs between 1 and %d images, got %d", ErrInvalidInput, models.MaxPostImages, len(req.Images))
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	now := s.clock()
	post := &models.Post{
		Caption:   req.Caption,
		AuthorID:  authorID,
		CreatedAt: now,
	}
	for i, url := range req.Images {
		post.Images = append(post.Images, models.PostImage{ImageURL: url, OrderIndex: i, CreatedAt: now})
	}

	var detail *models.PostDetail
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(authorID); err != nil {
			return lookupErr(err, "user %d", authorID)
		}
		if err := tx.Posts.CreatePost(post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		tags, err := s.AssociateHashtags(tx, post.ID, post.Caption)
		if err != nil {
			return err
		}
		stored, err := tx.Posts.GetPostByID(post.ID)
		if err != nil {
			return lookupErr(err, "post %d", post.ID)
		}
		detail = &models.PostDetail{
			Post:            *stored,
			PrimaryImageURL: stored.PrimaryImageURL(),
			Hashtags:        tags,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetFeed returns posts by the viewer and everyone the viewer follows,
// newest first.
func (s *Service) GetFeed(ctx context.Context, viewerID uint, skip, limit int) ([]models.PostDetail, error) {
	skip, limit = page(skip, limit)
	repo := s.repo(ctx)
	posts, err := repo.Posts.GetFeed(viewerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return s.enrichPosts(repo, viewerID, posts)
}

func (s *Service) GetPost(ctx context.Context, viewerID, postID uint) (*models.PostDetail, error) {
	repo := s.repo(ctx)
	post, err := repo.Posts.GetPostByID(postID)
	if err != nil {
		return nil, lookupErr(err, "post %d", postID)
	}
	details, err := s.enrichPosts(repo, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) ListUserPosts(ctx context.Context, viewerID uint, username string, skip, limit int) ([]models.PostDetail, error) {
	repo := s.repo(ctx)
	author, err := repo.Users.GetUserByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "user %q", username)
	}
	skip, limit = page(skip, limit)
	posts, err := repo.Posts.GetPostsByAuthor(author.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("load posts of %q: %w", username, err)
	}
	return s.enrichPosts(repo, viewerID, posts)
}

// PostsByHashtag lists posts linked to a tag, newest first.
func (s *Service) PostsByHashtag(ctx context.Context, viewerID uint, name string, skip, limit int) ([]models.PostDetail, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	repo := s.repo(ctx)
	hashtag, err := repo.Hashtags.GetByName(name)
	if err != nil {
		return nil, lookupErr(err, "hashtag %q", name)
	}
	skip, limit = page(skip, limit)
	posts, err := repo.Posts.GetPostsByHashtag(hashtag.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("load posts for #%s: %w", name, err)
	}
	return s.enrichPosts(repo, viewerID, posts)
}

// DeletePost removes the caller's post with its likes, comments, images,
// notifications and hashtag links.
func (s *Service) DeletePost(ctx context.Context, callerID, postID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(postID)
		if err != nil {
			return lookupErr(err, "post %d", postID)
		}
		if post.AuthorID != callerID {
			return fmt.Errorf("delete post %d: %w", postID, ErrForbidden)
		}
		ids := []uint{postID}
		if err := tx.Hashtags.DetachPosts(ids); err != nil {
			return fmt.Errorf("detach hashtags: %w", err)
		}
		if err := tx.Posts.DeletePosts(ids); err != nil {
			return fmt.Errorf("delete post %d: %w", postID, err)
		}
		return nil
	})
}

// LikePost records a like. A second like by the same viewer is a conflict.
func (s *Service) LikePost(ctx context.Context, viewerID, postID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(postID)
		if err != nil {
			return lookupErr(err, "post %d", postID)
		}
		viewer, err := tx.Users.GetUserByID(viewerID)
		if err != nil {
			return lookupErr(err, "user %d", viewerID)
		}
		created, err := tx.Likes.CreateLike(&models.Like{
			UserID:    viewerID,
			PostID:    postID,
			CreatedAt: s.clock(),
		})
		if err != nil {
			return fmt.Errorf("create like: %w", err)
		}
		if !created {
			return fmt.Errorf("post %d already liked: %w", postID, ErrConflict)
		}
		return s.Notify(tx, Notice{
			ReceiverID:    post.AuthorID,
			SenderID:      &viewerID,
			Type:          models.NotificationLike,
			Message:       viewer.Username + " liked your post",
			RelatedPostID: &post.ID,
		})
	})
}

func (s *Service) UnlikePost(ctx context.Context, viewerID, postID uint) error {
	repo := s.repo(ctx)
	if _, err := repo.Posts.GetPostByID(postID); err != nil {
		return lookupErr(err, "post %d", postID)
	}
	deleted, err := repo.Likes.DeleteLike(postID, viewerID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if !deleted {
		return fmt.Errorf("like on post %d: %w", postID, ErrNotFound)
	}
	return nil
}

// AddComment stores a comment and notifies the post author.
func (s *Service) AddComment(ctx context.Context, authorID, postID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := s.check(req); err != nil {
		return nil, err
	}
	var comment *models.Comment
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(postID)
		if err != nil {
			return lookupErr(err, "post %d", postID)
		}
		author, err := tx.Users.GetUserByID(authorID)
		if err != nil {
			return lookupErr(err, "user %d", authorID)
		}
		comment = &models.Comment{
			Content:   req.Content,
			AuthorID:  authorID,
			PostID:    postID,
			CreatedAt: s.clock(),
		}
		if err := tx.Comments.CreateComment(comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		comment.Author = *author
		return s.Notify(tx, Notice{
			ReceiverID:       post.AuthorID,
			SenderID:         &authorID,
			Type:             models.NotificationComment,
			Message:          author.Username + " commented on your post",
			RelatedPostID:    &post.ID,
			RelatedCommentID: &comment.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments newest first.
func (s *Service) ListComments(ctx context.Context, postID uint, skip, limit int) ([]models.Comment, error) {
	repo := s.repo(ctx)
	if _, err := repo.Posts.GetPostByID(postID); err != nil {
		return nil, lookupErr(err, "post %d", postID)
	}
	skip, limit = page(skip, limit)
	comments, err := repo.Comments.GetCommentsByPostID(postID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// enrichPosts computes the viewer-relative fields of posts with one query per field.
func (s *Service) enrichPosts(repo *repositories.Store, viewerID uint, posts []models.Post) ([]models.PostDetail, error) {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likes, err := repo.Likes.GetLikesCountByPostIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := repo.Comments.GetCommentsCountByPostIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	liked, err := repo.Likes.GetLikedPostIDs(viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load liked posts: %w", err)
	}
	tags, err := repo.Hashtags.GetNamesForPosts(ids)
	if err != nil {
		return nil, fmt.Errorf("load hashtags: %w", err)
	}

	details := make([]models.PostDetail, 0, len(posts))
	for _, p := range posts {
		hashtags := tags[p.ID]
		if hashtags == nil {
			hashtags = []string{}
		}
		details = append(details, models.PostDetail{
			Post:            p,
			LikesCount:      likes[p.ID],
			CommentsCount:   comments[p.ID],
			IsLiked:         liked[p.ID],
			PrimaryImageURL: p.PrimaryImageURL(),
			Hashtags:        hashtags,
		})
	}
	return details, nil
}
