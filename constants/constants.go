package constants

const (
	ResourceNotFound    = `{"success":false,"message":"We couldn't find this resource anywhere. It may have been removed."}`
	EndpointNotFound    = `{"success":false,"message":"This endpoint doesn't exist. Check the path and try again."}`
	BadRequest          = `{"success":false,"message":"The request was malformed or contained invalid values."}`
	Forbidden           = `{"success":false,"message":"You're not allowed to do this."}`
	Unauthorized        = `{"success":false,"message":"You need to be signed in to do this. Did you forget your session token?"}`
	Conflict            = `{"success":false,"message":"This has already been done."}`
	InternalServerError = `{"success":false,"message":"Something went wrong on our end. Please try again."}`
	MethodNotAllowed    = `{"success":false,"message":"That method is not allowed for this endpoint."}`
	BodyRequired        = `{"success":false,"message":"A body is required for this endpoint."}`
	TooManyRequests     = `{"success":false,"message":"Slow down! You're sending requests too quickly."}`
)

const (
	// DefaultPageSize is used when a list request does not set a limit.
	DefaultPageSize = 20
	MaxPageSize     = 50

	DefaultSearchLimit = 5
	MaxSearchLimit     = 20

	// Comment and message bodies are cut to this many characters in notifications.
	NotificationPreviewLength = 50

	BestReviewLimit        = 20
	BestReviewMinContent   = 100
	BestReviewLongContent  = 200
	MaxMediaItems          = 10
	MaxUploadParts         = 10
	MaxImageSize           = 10 << 20
	MaxVideoSize           = 100 << 20
	DiaryViewWindowSeconds = 24 * 60 * 60
)
