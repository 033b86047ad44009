package api

import "encoding/json"

// The backend's pagination envelope is not contractually fixed: a list may
// arrive as a bare array or nested under one of several conventional keys,
// and the total count may be missing entirely. These helpers normalize every
// accepted shape; an unrecognized shape is an empty result, never an error.

// listKeys are the wrapper keys accepted for list payloads, in probe order.
var listKeys = []string{"data", "items", "results", "cases", "quotes"}

// ExtractList pulls a []T out of a raw list response.
func ExtractList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}

	var bare []T
	if err := json.Unmarshal(raw, &bare); err == nil {
		if bare == nil {
			return []T{}
		}
		return bare
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return []T{}
	}
	for _, key := range listKeys {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		var list []T
		if err := json.Unmarshal(inner, &list); err == nil && list != nil {
			return list
		}
	}
	return []T{}
}

// ExtractTotal resolves the reported total for a list response, preferring
// "total", then "count", then "pagination.total", and finally falling back
// to the length of the page that was actually returned.
func ExtractTotal(raw json.RawMessage, fallbackLen int) int {
	var obj struct {
		Total      *int `json:"total"`
		Count      *int `json:"count"`
		Pagination struct {
			Total *int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		switch {
		case obj.Total != nil:
			return *obj.Total
		case obj.Count != nil:
			return *obj.Count
		case obj.Pagination.Total != nil:
			return *obj.Pagination.Total
		}
	}
	return fallbackLen
}

// DecodePage decodes a list body into a normalized page.
func DecodePage[T any](raw json.RawMessage) ([]T, int) {
	items := ExtractList[T](raw)
	return items, ExtractTotal(raw, len(items))
}
