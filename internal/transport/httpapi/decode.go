package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"issuetracker/internal/domain/issue"
)

const maxBodyBytes = 1 << 20

var errUnsupportedBody = errors.New("unsupported request body")

// decodeBody reads a JSON object or an urlencoded form into issue.Values.
// A missing body decodes to empty Values. Bodies are read by hand because
// net/http only parses forms for POST, PUT and PATCH.
func decodeBody(w http.ResponseWriter, r *http.Request) (issue.Values, error) {
	if r.Body == nil {
		return issue.Values{}, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return issue.Values{}, nil
	}

	mediaType := ""
	if contentType := strings.TrimSpace(r.Header.Get("Content-Type")); contentType != "" {
		mediaType, _, err = mime.ParseMediaType(contentType)
		if err != nil {
			return nil, err
		}
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, err
		}
		return issue.FromURLValues(form), nil
	case "", "application/json", "text/plain":
		var values issue.Values
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, err
		}
		if values == nil {
			values = issue.Values{}
		}
		return values, nil
	default:
		return nil, errUnsupportedBody
	}
}
