package api

import (
	"bytes"
	"encoding/json"
)

// DefaultPageSize is used when a malformed list response leaves no page size
// to report and the caller did not request one.
const DefaultPageSize = 50

// Page is the normalized shape for list endpoints. The server answers list
// requests either with a bare JSON array or with a pagination envelope
// {results, count, page, page_size}; UnmarshalPage folds both (and anything
// malformed) into this one shape. Results is never nil and Count is the
// total across all pages, not the length of Results.
type Page[T any] struct {
	Results  []T `json:"results"`
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// payloadKind tags the three response shapes a list endpoint can produce.
type payloadKind int

const (
	payloadMalformed payloadKind = iota
	payloadArray
	payloadEnvelope
)

func classify(data []byte) payloadKind {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return payloadMalformed
	}
	switch trimmed[0] {
	case '[':
		return payloadArray
	case '{':
		return payloadEnvelope
	default:
		return payloadMalformed
	}
}

// UnmarshalPage normalizes a list response body into a Page. A bare array of
// N items becomes {array, N, 1, N} (defaultPageSize when the array is
// empty); an envelope keeps its own fields, with
// missing count/page/page_size defaulting to 0/1/len(results); anything else
// (null, a scalar, invalid JSON, an envelope without a usable results array)
// becomes an empty page reporting defaultPageSize. It never fails.
func UnmarshalPage[T any](data []byte, defaultPageSize int) Page[T] {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	switch classify(data) {
	case payloadArray:
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return emptyPage[T](defaultPageSize)
		}
		if items == nil {
			items = []T{}
		}
		pageSize := len(items)
		if pageSize == 0 {
			pageSize = defaultPageSize
		}
		return Page[T]{Results: items, Count: len(items), Page: 1, PageSize: pageSize}

	case payloadEnvelope:
		var env struct {
			Results  json.RawMessage `json:"results"`
			Count    *int            `json:"count"`
			Page     *int            `json:"page"`
			PageSize *int            `json:"page_size"`
		}
		if err := json.Unmarshal(data, &env); err != nil || env.Results == nil {
			return emptyPage[T](defaultPageSize)
		}
		var items []T
		if err := json.Unmarshal(env.Results, &items); err != nil {
			return emptyPage[T](defaultPageSize)
		}
		if items == nil {
			items = []T{}
		}
		page := Page[T]{Results: items, Count: 0, Page: 1, PageSize: len(items)}
		if env.Count != nil {
			page.Count = *env.Count
		}
		if env.Page != nil {
			page.Page = *env.Page
		}
		if env.PageSize != nil {
			page.PageSize = *env.PageSize
		} else if len(items) == 0 {
			page.PageSize = defaultPageSize
		}
		return page

	default:
		return emptyPage[T](defaultPageSize)
	}
}

// ToSlice is the last line of defense for consumers that only want the items:
// a bare array decodes to itself, an envelope decodes to its results, and
// anything else yields an empty slice. It never fails and never returns nil.
func ToSlice[T any](data []byte) []T {
	return UnmarshalPage[T](data, DefaultPageSize).Results
}

func emptyPage[T any](pageSize int) Page[T] {
	return Page[T]{Results: []T{}, Count: 0, Page: 1, PageSize: pageSize}
}
