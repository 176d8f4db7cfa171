package database

import (
	"context"
	"fmt"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

func ListComments(ctx context.Context, reviewID uuid.UUID, p PageRequest) (types.CommentPage, error) {
	p.Sort = SortRecent

	db := state.Pool.WithContext(ctx)
	if err := reviewExists(db, reviewID); err != nil {
		return types.CommentPage{}, err
	}

	q, err := p.paginate(db.Model(&types.Comment{}).Preload("Author").Where("review_id = ?", reviewID), "comments")
	if err != nil {
		return types.CommentPage{}, err
	}

	var rows []types.Comment
	if err := q.Find(&rows).Error; err != nil {
		return types.CommentPage{}, err
	}

	return finish(p, rows, commentKey), nil
}

// CreateComment adds a comment or reply to a review. A reply's parent must be
// on the same review.
func CreateComment(ctx context.Context, reviewID uuid.UUID, authorID string, in types.CreateComment) (*types.Comment, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CreateComment")
	defer span.End()

	comment := types.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review types.Review
		if err := tx.Select("id", "author_id").First(&review, "id = ?", reviewID).Error; err != nil {
			return notFound(err)
		}

		var parent types.Comment
		if in.ParentID != nil {
			if err := tx.Select("id", "review_id", "author_id").First(&parent, "id = ?", *in.ParentID).Error; err != nil {
				return notFound(err)
			}

			if parent.ReviewID != reviewID {
				return fmt.Errorf("%w: parent comment belongs to another review", ErrInvalidInput)
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if err := bumpCounter(tx, &types.Review{}, reviewID, "comment_count", 1); err != nil {
			return err
		}

		if in.ParentID != nil {
			if err := notifyCommentReplied(tx, parent.ID, authorID, in.Content); err != nil {
				return err
			}

			// The parent's author already heard about it through the reply.
			if parent.AuthorID == review.AuthorID {
				return tx.Preload("Author").First(&comment, "id = ?", comment.ID).Error
			}
		}

		if err := notifyReviewCommented(tx, reviewID, authorID, in.Content); err != nil {
			return err
		}

		return tx.Preload("Author").First(&comment, "id = ?", comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteComment removes a comment and every reply beneath it, decrementing the
// review's counter by the number of rows removed.
func DeleteComment(ctx context.Context, commentID uuid.UUID, actorID string, isAdmin bool) (int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "DeleteComment")
	defer span.End()

	var removed int64

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment types.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			return notFound(err)
		}

		if comment.AuthorID != actorID && !isAdmin {
			return ErrForbidden
		}

		ids := []uuid.UUID{comment.ID}
		frontier := ids
		for len(frontier) > 0 {
			var children []uuid.UUID
			if err := tx.Model(&types.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}

			ids = append(ids, children...)
			frontier = children
		}

		res := tx.Where("id IN ?", ids).Delete(&types.Comment{})
		if res.Error != nil {
			return res.Error
		}

		removed = res.RowsAffected
		return bumpCounter(tx, &types.Review{}, comment.ReviewID, "comment_count", -int(removed))
	})

	return removed, err
}

func ListDiaryComments(ctx context.Context, diaryID uuid.UUID, viewerID string, p PageRequest) (types.DiaryCommentPage, error) {
	p.Sort = SortRecent

	db := state.Pool.WithContext(ctx)
	if _, err := visibleDiary(db, diaryID, viewerID); err != nil {
		return types.DiaryCommentPage{}, err
	}

	q, err := p.paginate(db.Model(&types.DiaryComment{}).Preload("Author").Where("diary_id = ?", diaryID), "diary_comments")
	if err != nil {
		return types.DiaryCommentPage{}, err
	}

	var rows []types.DiaryComment
	if err := q.Find(&rows).Error; err != nil {
		return types.DiaryCommentPage{}, err
	}

	return finish(p, rows, diaryCommentKey), nil
}

func CreateDiaryComment(ctx context.Context, diaryID uuid.UUID, authorID, content string) (*types.DiaryComment, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CreateDiaryComment")
	defer span.End()

	comment := types.DiaryComment{
		DiaryID:  diaryID,
		AuthorID: authorID,
		Content:  content,
	}

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := visibleDiary(tx, diaryID, authorID); err != nil {
			return err
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if err := bumpCounter(tx, &types.MusicDiary{}, diaryID, "comment_count", 1); err != nil {
			return err
		}

		if err := notifyDiaryCommented(tx, diaryID, authorID, content); err != nil {
			return err
		}

		return tx.Preload("Author").First(&comment, "id = ?", comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// DeleteDiaryComment may be called by the comment's author, the diary's author
// or an admin.
func DeleteDiaryComment(ctx context.Context, commentID uuid.UUID, actorID string, isAdmin bool) error {
	return state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment types.DiaryComment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			return notFound(err)
		}

		if comment.AuthorID != actorID && !isAdmin {
			var diary types.MusicDiary
			if err := tx.Select("id", "author_id").First(&diary, "id = ?", comment.DiaryID).Error; err != nil {
				return notFound(err)
			}

			if diary.AuthorID != actorID {
				return ErrForbidden
			}
		}

		res := tx.Delete(&types.DiaryComment{}, "id = ?", comment.ID)
		if res.Error != nil {
			return res.Error
		}

		return bumpCounter(tx, &types.MusicDiary{}, comment.DiaryID, "comment_count", -int(res.RowsAffected))
	})
}
