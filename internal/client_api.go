package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var httpTimeout = 5 * time.Second

func apiFetchMessages(baseURL string) ([]Message, error) {
	var snapshot []Message
	if err := doJSONRequest(http.MethodGet, baseURL+"/messages", nil, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func apiSendMessage(baseURL, content, author string) (Message, error) {
	payload := appendMessageRequest{Content: content, Author: author}
	var created Message
	if err := doJSONRequest(http.MethodPost, baseURL+"/messages", payload, &created); err != nil {
		return Message{}, err
	}
	return created, nil
}

func apiTouchTyping(baseURL, author string) error {
	payload := touchTypingRequest{Author: author}
	return doJSONRequest(http.MethodPost, baseURL+"/typing", payload, nil)
}

func apiTypingStatus(baseURL, exclude string) ([]string, error) {
	endpoint := baseURL + "/typing"
	if exclude != "" {
		endpoint += "?exclude=" + url.QueryEscape(exclude)
	}
	var resp typingStatusResponse
	if err := doJSONRequest(http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.TypingAuthors, nil
}

// diffNewMessages picks the entries the client has not seen yet, purely by
// count. This leans entirely on the server log being append-only: the
// snapshot can only grow, and everything before seen is unchanged. A shorter
// snapshot means the server lost its history (restart without a durable
// store), in which case the whole snapshot is new again.
func diffNewMessages(seen int, snapshot []Message) []Message {
	if seen >= len(snapshot) {
		return nil
	}
	if seen < 0 {
		seen = 0
	}
	return snapshot[seen:]
}

func doJSONRequest(method, endpoint string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(buf)
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, readResponseError(resp.Body))
	}
	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func readResponseError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "request failed"
	}
	var parsed map[string]string
	if err := json.Unmarshal(data, &parsed); err == nil {
		if msg, ok := parsed["error"]; ok {
			return msg
		}
	}
	return strings.TrimSpace(string(data))
}

func normalizeBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "http", "https":
	case "":
		parsed.Scheme = "http"
	default:
		return "", fmt.Errorf("unsupported scheme %s", parsed.Scheme)
	}
	parsed.Path = ""
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimRight(parsed.String(), "/"), nil
}
