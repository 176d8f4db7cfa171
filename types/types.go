package types

import (
	"time"

	"github.com/google/uuid"
)

type Response struct {
	Success bool              `json:"success" description:"Indicates if the request was successful"`
	Context map[string]string `json:"context,omitempty" description:"Context of the response"`
	Message *string           `json:"message,omitempty" description:"Message of the response"`
	JSON    any               `json:"json,omitempty" description:"JSON data of the response"`
}

type ApiError struct {
	Context map[string]string `json:"context,omitempty" description:"Context of the error. Usually used for validation error contexts"`
	Message string            `json:"message" description:"Message of the error"`
}

// Page is one page of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T     `json:"items" description:"Items on this page"`
	NextCursor *string `json:"next_cursor" description:"Cursor for the next page, null when this is the last page"`
}

type ReviewPage = Page[ReviewView]
type DiaryPage = Page[DiaryView]
type EventPage = Page[Event]
type CommentPage = Page[Comment]
type DiaryCommentPage = Page[DiaryComment]
type NotificationPage = Page[Notification]
type UserPage = Page[User]
type ReportPage = Page[ReviewReport]

// ReviewView is a review plus the viewer's own interaction state.
type ReviewView struct {
	Review
	Liked      bool `json:"liked" description:"Whether the viewer liked the review"`
	Bookmarked bool `json:"bookmarked" description:"Whether the viewer bookmarked the review"`
	Helpful    bool `json:"helpful" description:"Whether the viewer marked the review helpful"`
}

type DiaryView struct {
	MusicDiary
	Liked bool `json:"liked" description:"Whether the viewer liked the diary"`
	Saved bool `json:"saved" description:"Whether the viewer saved the diary"`
}

type EventDetail struct {
	Event
	ReviewCount   int64   `json:"review_count" description:"Number of reviews of the event"`
	AverageRating float64 `json:"average_rating" description:"Average overall rating, 0 without reviews"`
	DiaryCount    int64   `json:"diary_count" description:"Number of public diaries of the event"`
}

type UserProfile struct {
	User
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	Following      bool  `json:"following" description:"Whether the viewer follows this user"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
	Count int  `json:"like_count"`
}

type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

type HelpfulResponse struct {
	Helpful bool `json:"helpful"`
	Count   int  `json:"helpful_count"`
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}

type FollowResponse struct {
	Following bool `json:"following"`
}

type UnreadCount struct {
	Count int64 `json:"count"`
}

type BestReviewSummary struct {
	Selected     int `json:"selected" description:"Reviews currently marked best"`
	NewlyAwarded int `json:"newly_awarded" description:"Reviews selected for the first time"`
	UsersUpdated int `json:"users_updated" description:"Authors whose stats were recomputed"`
}

type ReconcileSummary struct {
	Reviews int64 `json:"reviews"`
	Diaries int64 `json:"diaries"`
}

type SearchResults struct {
	Events  []Event      `json:"events"`
	Reviews []Review     `json:"reviews"`
	Users   []User       `json:"users"`
	Diaries []MusicDiary `json:"diaries"`
}

type HomeFeed struct {
	UpcomingEvents []Event      `json:"upcoming_events"`
	BestReviews    []Review     `json:"best_reviews"`
	RecentDiaries  []MusicDiary `json:"recent_diaries"`
	TrendingTags   []string     `json:"trending_tags" description:"Most used review tags and diary moment tags"`
}

type HealthStatus struct {
	Database      string `json:"database"`
	Redis         string `json:"redis"`
	Authenticated bool   `json:"authenticated"`
}

type UploadResult struct {
	Name    string     `json:"name" description:"Original file name"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Item    *MediaItem `json:"item,omitempty"`
	Ready   bool       `json:"ready" description:"False when a video is still being processed"`
}

type UploadResponse struct {
	Results []UploadResult `json:"results"`
}

// Request bodies

type CreateEvent struct {
	Name        string        `json:"name" validate:"required,notblank,max=200" msg:"Name is required and must be at most 200 characters"`
	Category    EventCategory `json:"category" validate:"required,oneof=festival concert live club other" msg:"Category must be one of festival, concert, live, club, other"`
	StartDate   time.Time     `json:"start_date" validate:"required" msg:"Start date is required"`
	EndDate     time.Time     `json:"end_date" validate:"required,gtefield=StartDate" msg:"End date must not be before the start date"`
	Venue       string        `json:"venue" validate:"max=200" msg:"Venue must be at most 200 characters"`
	Location    string        `json:"location" validate:"max=200" msg:"Location must be at most 200 characters"`
	Description string        `json:"description" validate:"max=5000" msg:"Description must be at most 5000 characters"`
	ImageURL    string        `json:"image_url" validate:"omitempty,httporhttps" msg:"Image URL must be an http(s) URL"`
	WebsiteURL  string        `json:"website_url" validate:"omitempty,httporhttps" msg:"Website URL must be an http(s) URL"`
	Artists     []string      `json:"artists" validate:"max=100,dive,notblank" msg:"At most 100 artists" amsg:"Artist names cannot be blank"`
}

type CreateReview struct {
	EventID           *uuid.UUID  `json:"event_id"`
	Title             string      `json:"title" validate:"max=200" msg:"Title must be at most 200 characters"`
	Content           string      `json:"content" validate:"required,notblank,max=10000" msg:"Content is required and must be at most 10000 characters"`
	OverallRating     int         `json:"overall_rating" validate:"required,min=1,max=5" msg:"Overall rating must be between 1 and 5"`
	SoundRating       *int        `json:"sound_rating" validate:"omitempty,min=1,max=5" msg:"Sound rating must be between 1 and 5"`
	PerformanceRating *int        `json:"performance_rating" validate:"omitempty,min=1,max=5" msg:"Performance rating must be between 1 and 5"`
	VenueRating       *int        `json:"venue_rating" validate:"omitempty,min=1,max=5" msg:"Venue rating must be between 1 and 5"`
	AtmosphereRating  *int        `json:"atmosphere_rating" validate:"omitempty,min=1,max=5" msg:"Atmosphere rating must be between 1 and 5"`
	MediaItems        []MediaItem `json:"media_items" validate:"max=10,dive" msg:"At most 10 media items" amsg:"Invalid media item"`
	ImageURLs         []string    `json:"image_urls" validate:"max=10,dive,url" msg:"At most 10 image URLs" amsg:"Image URLs must be valid URLs"`
	Tags              []string    `json:"tags" validate:"max=20,dive,notblank,max=50" msg:"At most 20 tags" amsg:"Tags must be 1-50 characters"`
}

type CreateComment struct {
	Content  string     `json:"content" validate:"required,notblank,max=2000" msg:"Comment is required and must be at most 2000 characters"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CreateDiary struct {
	EventID    *uuid.UUID  `json:"event_id"`
	Caption    string      `json:"caption" validate:"max=2200" msg:"Caption must be at most 2200 characters"`
	Location   string      `json:"location" validate:"max=200" msg:"Location must be at most 200 characters"`
	MediaItems []MediaItem `json:"media_items" validate:"required,min=1,max=10,dive" msg:"Between 1 and 10 media items are required" amsg:"Invalid media item"`
	Artists    []string    `json:"artists" validate:"max=30,dive,notblank" msg:"At most 30 artists" amsg:"Artist names cannot be blank"`
	Setlist    []string    `json:"setlist" validate:"max=100,dive,notblank" msg:"At most 100 setlist entries" amsg:"Setlist entries cannot be blank"`
	MomentTags []string    `json:"moment_tags" validate:"max=20,dive,notblank" msg:"At most 20 moment tags" amsg:"Moment tags cannot be blank"`
	Mood       Mood        `json:"mood" validate:"omitempty,oneof=excited happy emotional chill nostalgic energetic" msg:"Unknown mood"`
	IsPublic   *bool       `json:"is_public"`
}

type UpdateProfile struct {
	Username    string `json:"username" validate:"required,nospaces,min=3,max=32" msg:"Username must be 3-32 characters without spaces"`
	DisplayName string `json:"display_name" validate:"max=64" msg:"Display name must be at most 64 characters"`
	Bio         string `json:"bio" validate:"max=500" msg:"Bio must be at most 500 characters"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,https" msg:"Avatar URL must be an https URL"`
}

type CreateReport struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000" msg:"A reason is required (at most 1000 characters)"`
}

type ResolveReport struct {
	Status ReportStatus `json:"status" validate:"required,oneof=resolved dismissed" msg:"Status must be resolved or dismissed"`
}

type SetAdmin struct {
	IsAdmin bool `json:"is_admin"`
}

type CreateDiaryComment struct {
	Content string `json:"content" validate:"required,notblank,max=1000" msg:"Comment is required and must be at most 1000 characters"`
}
