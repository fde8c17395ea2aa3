package utils

import (
	"net/http"

	"shophub/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetEmailFromRequest(r *http.Request) string {
	ctx := r.Context()
	email, ok := ctx.Value(globals.EmailKey).(string)
	if !ok {
		return ""
	}
	return email
}
