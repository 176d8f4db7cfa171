package database

import (
	"context"
	"fmt"

	"encore/constants"
	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preview cuts s to the notification preview length, marking the cut.
func Preview(s string) string {
	r := []rune(s)
	if len(r) <= constants.NotificationPreviewLength {
		return s
	}

	return string(r[:constants.NotificationPreviewLength]) + "..."
}

func actorName(tx *gorm.DB, actorID string) (string, error) {
	var actor types.User
	if err := tx.Select("id", "username", "display_name").First(&actor, "id = ?", actorID).Error; err != nil {
		return "", notFound(err)
	}

	return actor.Name(), nil
}

// notify inserts one notification unless the actor is the recipient.
func notify(tx *gorm.DB, recipientID, actorID string, typ types.NotificationType, relatedType types.RelatedType, relatedID string, title, message string) error {
	if recipientID == actorID {
		return nil
	}

	n := types.Notification{
		UserID:      recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		RelatedID:   &relatedID,
		RelatedType: &relatedType,
	}

	if actorID != "" {
		n.ActorID = &actorID
	}

	return tx.Create(&n).Error
}

func reviewLabel(r types.Review) string {
	if r.Title != "" {
		return Preview(r.Title)
	}

	return Preview(r.Content)
}

func notifyReviewLiked(tx *gorm.DB, reviewID uuid.UUID, actorID string) error {
	var review types.Review
	if err := tx.Select("id", "author_id", "title", "content").First(&review, "id = ?", reviewID).Error; err != nil {
		return notFound(err)
	}

	if review.AuthorID == actorID {
		return nil
	}

	name, err := actorName(tx, actorID)
	if err != nil {
		return err
	}

	return notify(tx, review.AuthorID, actorID, types.NotificationTypeLike, types.RelatedTypeReview, review.ID.String(),
		"New like on your review",
		fmt.Sprintf("%s liked your review \"%s\"", name, reviewLabel(review)),
	)
}

func notifyReviewCommented(tx *gorm.DB, reviewID uuid.UUID, actorID, content string) error {
	var review types.Review
	if err := tx.Select("id", "author_id").First(&review, "id = ?", reviewID).Error; err != nil {
		return notFound(err)
	}

	if review.AuthorID == actorID {
		return nil
	}

	name, err := actorName(tx, actorID)
	if err != nil {
		return err
	}

	return notify(tx, review.AuthorID, actorID, types.NotificationTypeComment, types.RelatedTypeReview, review.ID.String(),
		"New comment on your review",
		fmt.Sprintf("%s commented: %s", name, Preview(content)),
	)
}

func notifyCommentReplied(tx *gorm.DB, parentID uuid.UUID, actorID, content string) error {
	var parent types.Comment
	if err := tx.Select("id", "author_id", "review_id").First(&parent, "id = ?", parentID).Error; err != nil {
		return notFound(err)
	}

	if parent.AuthorID == actorID {
		return nil
	}

	name, err := actorName(tx, actorID)
	if err != nil {
		return err
	}

	return notify(tx, parent.AuthorID, actorID, types.NotificationTypeReply, types.RelatedTypeReview, parent.ReviewID.String(),
		"New reply to your comment",
		fmt.Sprintf("%s replied: %s", name, Preview(content)),
	)
}

func notifyDiaryLiked(tx *gorm.DB, diaryID uuid.UUID, actorID string) error {
	var diary types.MusicDiary
	if err := tx.Select("id", "author_id", "caption").First(&diary, "id = ?", diaryID).Error; err != nil {
		return notFound(err)
	}

	if diary.AuthorID == actorID {
		return nil
	}

	name, err := actorName(tx, actorID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%s liked your music diary", name)
	if diary.Caption != "" {
		msg += fmt.Sprintf(" \"%s\"", Preview(diary.Caption))
	}

	return notify(tx, diary.AuthorID, actorID, types.NotificationTypeLike, types.RelatedTypeDiary, diary.ID.String(),
		"New like on your music diary", msg,
	)
}

func notifyDiaryCommented(tx *gorm.DB, diaryID uuid.UUID, actorID, content string) error {
	var diary types.MusicDiary
	if err := tx.Select("id", "author_id").First(&diary, "id = ?", diaryID).Error; err != nil {
		return notFound(err)
	}

	if diary.AuthorID == actorID {
		return nil
	}

	name, err := actorName(tx, actorID)
	if err != nil {
		return err
	}

	return notify(tx, diary.AuthorID, actorID, types.NotificationTypeComment, types.RelatedTypeDiary, diary.ID.String(),
		"New comment on your music diary",
		fmt.Sprintf("%s commented: %s", name, Preview(content)),
	)
}

func notifyFollowed(tx *gorm.DB, followingID, followerID string) error {
	name, err := actorName(tx, followerID)
	if err != nil {
		return err
	}

	return notify(tx, followingID, followerID, types.NotificationTypeFollow, types.RelatedTypeUser, followerID,
		"New follower",
		fmt.Sprintf("%s started following you", name),
	)
}

func notifyBestReview(tx *gorm.DB, review types.Review) error {
	return notify(tx, review.AuthorID, "", types.NotificationTypeBestReview, types.RelatedTypeReview, review.ID.String(),
		"Your review was picked as a best review!",
		fmt.Sprintf("\"%s\" is now featured among the best reviews", reviewLabel(review)),
	)
}

type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
}

func ListNotifications(ctx context.Context, filter NotificationFilter, p PageRequest) (types.NotificationPage, error) {
	p.Sort = SortRecent

	q := state.Pool.WithContext(ctx).Model(&types.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}

	q, err := p.paginate(q, "notifications")
	if err != nil {
		return types.NotificationPage{}, err
	}

	var rows []types.Notification
	if err := q.Find(&rows).Error; err != nil {
		return types.NotificationPage{}, err
	}

	return finish(p, rows, notificationKey), nil
}

func UnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := state.Pool.WithContext(ctx).Model(&types.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationRead marks one of the user's notifications as read.
func MarkNotificationRead(ctx context.Context, userID string, id uuid.UUID) error {
	res := state.Pool.WithContext(ctx).Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", true)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	res := state.Pool.WithContext(ctx).Model(&types.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)

	return res.RowsAffected, res.Error
}

func DeleteNotification(ctx context.Context, userID string, id uuid.UUID) error {
	res := state.Pool.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Notification{})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
