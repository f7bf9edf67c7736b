package b2bi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// notFoundPhrases mark a 400/404 description as "no matching item".
var notFoundPhrases = []string{
	"not found",
	"no match",
	"does not exist",
	"no records",
	"no such",
}

// Classify maps a response to nil (success) or an *Error.
//
//   - 2xx: success; a non-empty body must be well-formed JSON.
//   - 400/404: NotFound when the description reads as "no match" (or a 404
//     has no description), ValidationError otherwise.
//   - anything else: fatal.
func Classify(resp *ServiceResponse) error {
	status := resp.StatusCode

	switch {
	case status >= 200 && status <= 299:
		if len(strings.TrimSpace(string(resp.Body))) > 0 && !json.Valid(resp.Body) {
			return &Error{Kind: KindNormalization, HTTPStatus: status, Cause: ErrMalformedJSON}
		}

		return nil
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		apiErr := parseErrorBody(status, resp.Body)
		apiErr.Kind = KindValidation

		if isNotFoundDescription(status, apiErr.Description) {
			apiErr.Kind = KindNotFound
		}

		return apiErr
	default:
		apiErr := parseErrorBody(status, resp.Body)
		apiErr.Kind = KindFatal

		return apiErr
	}
}

func parseErrorBody(status int, body []byte) *Error {
	apiErr := &Error{HTTPStatus: status}

	if len(body) > 0 {
		var payload struct {
			ErrorCode        json.Number `json:"errorCode"`
			ErrorDescription string      `json:"errorDescription"`
		}

		err := json.Unmarshal(body, &payload)
		if err == nil {
			if code, convErr := payload.ErrorCode.Int64(); convErr == nil {
				apiErr.Code = int(code)
			}

			apiErr.Description = payload.ErrorDescription
		}
	}

	if apiErr.Code == 0 {
		apiErr.Code = status
	}

	return apiErr
}

func isNotFoundDescription(status int, description string) bool {
	if description == "" {
		return status == http.StatusNotFound
	}

	lower := strings.ToLower(description)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return false
}
