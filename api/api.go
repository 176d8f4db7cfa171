package api

import (
	"errors"
	"net/http"
	"strings"

	"encore/constants"
	"encore/reporting"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Any signed in user
	AuthTypeUser = "user"
	// Signed in user with the admin flag
	AuthTypeAdmin = "admin"

	// Security scheme id in the OpenAPI document
	SessionSecurity = "Session"

	sessionCookie = "__session"
)

type DefaultResponder struct{}

func (d DefaultResponder) New(err string, ctx map[string]string) any {
	return types.ApiError{
		Message: err,
		Context: ctx,
	}
}

// Sessions verifies session tokens. Setup builds it from the config when unset.
var Sessions *SessionVerifier

func sessionToken(req *http.Request) string {
	if h := req.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if c, err := req.Cookie(sessionCookie); err == nil {
		return c.Value
	}

	return ""
}

// identify resolves the session to a local user. ok is false when there is
// no usable session.
func identify(req *http.Request) (*types.User, bool, error) {
	token := sessionToken(req)
	if token == "" || Sessions == nil {
		return nil, false, nil
	}

	userID, err := Sessions.Verify(token)
	if err != nil {
		return nil, false, nil
	}

	var user types.User
	err = state.Pool.WithContext(req.Context()).
		Select("id", "username", "is_admin").
		First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return &user, true, nil
}

// Authorizes a request. Routes without auth types still read an optional
// session so handlers can personalise the response.
func Authorize(r uapi.Route, req *http.Request) (uapi.AuthData, uapi.HttpResponse, bool) {
	user, ok, err := identify(req)
	if err != nil {
		state.Logger.Error("Failed to load session user", zap.Error(err), zap.String("opId", r.OpId))
		reporting.CaptureError(err, req, r.OpId)
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusInternalServerError), false
	}

	if !ok {
		if len(r.Auth) == 0 || r.AuthOptional {
			return uapi.AuthData{}, uapi.HttpResponse{}, true
		}

		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	data := uapi.AuthData{
		TargetType: AuthTypeUser,
		ID:         user.ID,
		Authorized: true,
		IsAdmin:    user.IsAdmin,
	}

	for _, auth := range r.Auth {
		if auth.Type == AuthTypeAdmin && !user.IsAdmin {
			return uapi.AuthData{}, uapi.DefaultResponse(http.StatusForbidden), false
		}
	}

	return data, uapi.HttpResponse{}, true
}

func Setup() {
	if Sessions == nil {
		v, err := NewSessionVerifier(state.Config.Auth.SessionPublicKey, state.Config.Auth.Issuer)
		if err != nil {
			panic("Failed to load session public key: " + err.Error())
		}

		Sessions = v
	}

	uapi.SetupState(uapi.UAPIState{
		Logger:    state.Logger,
		Authorize: Authorize,
		AuthTypeMap: map[string]string{
			AuthTypeUser:  SessionSecurity,
			AuthTypeAdmin: SessionSecurity,
		},
		Context: state.Context,
		Constants: &uapi.UAPIConstants{
			ResourceNotFound:    constants.ResourceNotFound,
			BadRequest:          constants.BadRequest,
			Forbidden:           constants.Forbidden,
			Unauthorized:        constants.Unauthorized,
			InternalServerError: constants.InternalServerError,
			MethodNotAllowed:    constants.MethodNotAllowed,
			BodyRequired:        constants.BodyRequired,
			Conflict:            constants.Conflict,
			TooManyRequests:     constants.TooManyRequests,
		},
		DefaultResponder: DefaultResponder{},
		BaseSanityCheck: func(r uapi.Route) error {
			if !strings.Contains(r.OpId, ".") {
				return errors.New("opId must be <group>.<name>: " + r.OpId)
			}
			return nil
		},
		ReportPanic: func(r uapi.Route, req *http.Request, v any) {
			reporting.CapturePanic(v, req, r.OpId)
		},
	})
}
