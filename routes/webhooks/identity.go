package webhooks

import (
	"io"
	"net/http"
	"strings"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

func IdentityDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Identity Webhook",
		Description: "Receives signed user lifecycle events from the identity provider. `user.created` and `user.updated` " +
			"create or refresh the local user, `user.deleted` removes the user and their content. Other event types are " +
			"acknowledged and ignored. Requests with a missing or invalid signature get a 400.",
		Req:  types.IdentityEvent{},
		Resp: types.WebhookAck{},
	}
}

func badRequest(msg string) uapi.HttpResponse {
	return uapi.HttpResponse{
		Status: http.StatusBadRequest,
		Json:   types.ApiError{Message: msg},
	}
}

func IdentityRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return badRequest("Could not read the request body")
	}

	if err := api.VerifyWebhook(state.Config.Auth.WebhookSecret, r.Header, body); err != nil {
		state.Logger.Warn("Rejected identity webhook", zap.Error(err), zap.String("svixID", r.Header.Get("svix-id")))
		return badRequest("Invalid webhook signature")
	}

	var event types.IdentityEvent
	if err := jsonimpl.Unmarshal(body, &event); err != nil {
		return badRequest("Malformed event: " + err.Error())
	}

	ack := types.WebhookAck{Received: true, Type: event.Type}

	switch event.Type {
	case "user.created", "user.updated":
		var data types.IdentityUserData
		if err := jsonimpl.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
			return badRequest("Malformed user data")
		}

		user, err := database.UpsertUser(d.Context, IdentityUser(data))
		if err != nil {
			return api.ErrorResponse(err, r)
		}

		state.Logger.Info("Synced user from identity provider", zap.String("type", event.Type), zap.String("userID", user.ID))
		ack.Handled = true
	case "user.deleted":
		var data types.IdentityUserData
		if err := jsonimpl.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
			return badRequest("Malformed user data")
		}

		if err := database.DeleteUser(d.Context, data.ID); err != nil {
			return api.ErrorResponse(err, r)
		}

		state.Logger.Info("Deleted user from identity provider", zap.String("userID", data.ID))
		ack.Handled = true
	default:
		state.Logger.Debug("Ignoring identity webhook", zap.String("type", event.Type))
	}

	return uapi.HttpResponse{
		Json: ack,
	}
}

// IdentityUser maps a provider user record to the fields stored locally.
func IdentityUser(data types.IdentityUserData) database.IdentityUser {
	u := database.IdentityUser{
		ID:        data.ID,
		AvatarURL: data.ImageURL,
	}

	if data.Username != nil {
		u.Username = *data.Username
	}

	for _, e := range data.EmailAddresses {
		if data.PrimaryEmailAddressID != nil && e.ID == *data.PrimaryEmailAddressID {
			u.Email = e.EmailAddress
			break
		}
	}

	if u.Email == "" && len(data.EmailAddresses) > 0 {
		u.Email = data.EmailAddresses[0].EmailAddress
	}

	var name []string
	for _, part := range []*string{data.FirstName, data.LastName} {
		if part != nil && strings.TrimSpace(*part) != "" {
			name = append(name, strings.TrimSpace(*part))
		}
	}
	u.DisplayName = strings.Join(name, " ")

	if role, ok := data.PublicMetadata["role"].(string); ok {
		u.IsAdmin = role == "admin"
	}

	return u
}
