package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base model to include ID as UUID
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Generates the ID in Go so every dialect gets the same value and timestamps
// survive a cursor round-trip at microsecond precision.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	if b.CreatedAt.IsZero() {
		b.CreatedAt = Now()
	} else {
		b.CreatedAt = b.CreatedAt.UTC().Truncate(time.Microsecond)
	}

	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	return nil
}

// Join rows only carry a creation time.
type JoinModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (j *JoinModel) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	if j.CreatedAt.IsZero() {
		j.CreatedAt = Now()
	}

	return nil
}

// Now is the clock used for stored timestamps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

type ReviewerLevel string

const (
	ReviewerLevelSeedling ReviewerLevel = "seedling"
	ReviewerLevelRegular  ReviewerLevel = "regular"
	ReviewerLevelExpert   ReviewerLevel = "expert"
	ReviewerLevelMaster   ReviewerLevel = "master"
)

type User struct {
	ID                 string        `gorm:"primaryKey" json:"id"`
	Username           string        `gorm:"uniqueIndex;not null" json:"username"`
	Email              *string       `gorm:"uniqueIndex" json:"-"`
	DisplayName        string        `gorm:"default:''" json:"display_name"`
	AvatarURL          string        `gorm:"default:''" json:"avatar_url"`
	Bio                string        `gorm:"type:text" json:"bio"`
	IsAdmin            bool          `gorm:"not null;default:false" json:"is_admin"`
	ReviewCount        int           `gorm:"not null;default:0" json:"review_count"`
	TotalLikesReceived int           `gorm:"not null;default:0" json:"total_likes_received"`
	BestReviewCount    int           `gorm:"not null;default:0" json:"best_review_count"`
	ReviewerLevel      ReviewerLevel `gorm:"not null;default:'seedling'" json:"reviewer_level"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Name shown in notification titles
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}

	return u.Username
}

type EventCategory string

const (
	EventCategoryFestival EventCategory = "festival"
	EventCategoryConcert  EventCategory = "concert"
	EventCategoryLive     EventCategory = "live"
	EventCategoryClub     EventCategory = "club"
	EventCategoryOther    EventCategory = "other"
)

type Event struct {
	BaseModel
	Name        string                     `gorm:"not null" json:"name"`
	Category    EventCategory              `gorm:"not null;index" json:"category"`
	StartDate   time.Time                  `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time                  `gorm:"not null" json:"end_date"`
	Venue       string                     `gorm:"default:''" json:"venue"`
	Location    string                     `gorm:"default:''" json:"location"`
	Description string                     `gorm:"type:text" json:"description"`
	ImageURL    string                     `gorm:"default:''" json:"image_url"`
	WebsiteURL  string                     `gorm:"default:''" json:"website_url"`
	Artists     datatypes.JSONSlice[string] `json:"artists"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type MediaItem struct {
	URL          string    `json:"url" validate:"required,url" msg:"Media URL must be a valid URL"`
	Type         MediaType `json:"type" validate:"required,oneof=image video" msg:"Media type must be image or video"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" validate:"omitempty,url" msg:"Thumbnail URL must be a valid URL"`
	Duration     float64   `json:"duration,omitempty" validate:"omitempty,min=0" msg:"Duration cannot be negative"`
}

type Review struct {
	BaseModel
	AuthorID          string                         `gorm:"not null;index" json:"author_id"`
	EventID           *uuid.UUID                     `gorm:"type:uuid;index" json:"event_id"`
	Title             string                         `gorm:"default:''" json:"title"`
	Content           string                         `gorm:"type:text;not null" json:"content"`
	OverallRating     int                            `gorm:"not null;check:overall_rating BETWEEN 1 AND 5" json:"overall_rating"`
	SoundRating       *int                           `json:"sound_rating"`
	PerformanceRating *int                           `json:"performance_rating"`
	VenueRating       *int                           `json:"venue_rating"`
	AtmosphereRating  *int                           `json:"atmosphere_rating"`
	MediaItems        datatypes.JSONSlice[MediaItem] `json:"media_items"`
	ImageURLs         datatypes.JSONSlice[string]    `json:"image_urls"` // legacy, derived from MediaItems
	Tags              datatypes.JSONSlice[string]    `json:"tags"`
	LikeCount         int                            `gorm:"not null;default:0;index" json:"like_count"`
	CommentCount      int                            `gorm:"not null;default:0" json:"comment_count"`
	HelpfulCount      int                            `gorm:"not null;default:0" json:"helpful_count"`
	IsBestReview      bool                           `gorm:"not null;default:false;index" json:"is_best_review"`
	BestReviewAt      *time.Time                     `json:"best_review_at"`
	Author            *User                          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Event             *Event                         `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

type ReviewLike struct {
	JoinModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_likes_pair"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_review_likes_pair;index"`
}

type ReviewBookmark struct {
	JoinModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_bookmarks_pair"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_review_bookmarks_pair;index"`
}

type ReviewHelpful struct {
	JoinModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_helpful_pair"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_review_helpful_pair;index"`
}

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

type ReviewReport struct {
	BaseModel
	ReviewID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_review_reports_pair" json:"review_id"`
	ReporterID string       `gorm:"not null;uniqueIndex:idx_review_reports_pair" json:"reporter_id"`
	Reason     string       `gorm:"type:text;not null" json:"reason"`
	Status     ReportStatus `gorm:"not null;default:'pending';index" json:"status"`
}

type Comment struct {
	BaseModel
	ReviewID uuid.UUID  `gorm:"type:uuid;not null;index" json:"review_id"`
	AuthorID string     `gorm:"not null;index" json:"author_id"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Content  string     `gorm:"type:text;not null" json:"content"`
	Author   *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

type Mood string

const (
	MoodExcited   Mood = "excited"
	MoodHappy     Mood = "happy"
	MoodEmotional Mood = "emotional"
	MoodChill     Mood = "chill"
	MoodNostalgic Mood = "nostalgic"
	MoodEnergetic Mood = "energetic"
)

type MusicDiary struct {
	BaseModel
	AuthorID     string                         `gorm:"not null;index" json:"author_id"`
	EventID      *uuid.UUID                     `gorm:"type:uuid;index" json:"event_id"`
	Caption      string                         `gorm:"type:text;default:''" json:"caption"`
	Location     string                         `gorm:"default:''" json:"location"`
	MediaItems   datatypes.JSONSlice[MediaItem] `json:"media_items"`
	Artists      datatypes.JSONSlice[string]    `json:"artists"`
	Setlist      datatypes.JSONSlice[string]    `json:"setlist"`
	MomentTags   datatypes.JSONSlice[string]    `json:"moment_tags"`
	Mood         Mood                           `gorm:"default:''" json:"mood"`
	LikeCount    int                            `gorm:"not null;default:0;index" json:"like_count"`
	CommentCount int                            `gorm:"not null;default:0" json:"comment_count"`
	ViewCount    int                            `gorm:"not null;default:0" json:"view_count"`
	IsPublic     bool                           `gorm:"not null;index" json:"is_public"` // no column default: gorm would swap an explicit false for it
	Author       *User                          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Event        *Event                         `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

type DiaryLike struct {
	JoinModel
	DiaryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_diary_likes_pair"`
	UserID  string    `gorm:"not null;uniqueIndex:idx_diary_likes_pair;index"`
}

type DiarySave struct {
	JoinModel
	DiaryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_diary_saves_pair"`
	UserID  string    `gorm:"not null;uniqueIndex:idx_diary_saves_pair;index"`
}

type DiaryComment struct {
	BaseModel
	DiaryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"diary_id"`
	AuthorID string    `gorm:"not null;index" json:"author_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

type Follow struct {
	JoinModel
	FollowerID  string `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID string `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
}

type NotificationType string

const (
	NotificationTypeLike       NotificationType = "like"
	NotificationTypeComment    NotificationType = "comment"
	NotificationTypeReply      NotificationType = "reply"
	NotificationTypeFollow     NotificationType = "follow"
	NotificationTypeBestReview NotificationType = "best_review"
)

type RelatedType string

const (
	RelatedTypeReview  RelatedType = "review"
	RelatedTypeDiary   RelatedType = "diary"
	RelatedTypeComment RelatedType = "comment"
	RelatedTypeUser    RelatedType = "user"
)

type Notification struct {
	BaseModel
	UserID      string           `gorm:"not null;index" json:"user_id"`
	ActorID     *string          `json:"actor_id"`
	Type        NotificationType `gorm:"not null" json:"type"`
	Title       string           `gorm:"not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	RelatedID   *string          `gorm:"index" json:"related_id"`
	RelatedType *RelatedType     `json:"related_type"`
	IsRead      bool             `gorm:"not null;default:false;index" json:"is_read"`
}

// History of best-review selections, one row per review ever selected.
type BestReviewAward struct {
	JoinModel
	ReviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AuthorID string    `gorm:"not null;index"`
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Event{},
		&Review{},
		&ReviewLike{},
		&ReviewBookmark{},
		&ReviewHelpful{},
		&ReviewReport{},
		&Comment{},
		&MusicDiary{},
		&DiaryLike{},
		&DiarySave{},
		&DiaryComment{},
		&Follow{},
		&Notification{},
		&BestReviewAward{},
	}
}
