package xhttp

import (
	"encoding/json"
)

const contentTypeJSON = "application/json; charset=utf-8"

// errorBody is the failure shape shared with the API envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteJSON(ctx *RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = StatusInternalServerError
		b, _ = json.Marshal(errorBody{Message: "Server error"})
	}
	ctx.Response.Header.Set("Content-Type", contentTypeJSON)
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func WriteJSONError(ctx *RequestCtx, status int, msg string) {
	WriteJSON(ctx, status, errorBody{Success: false, Message: msg})
}
