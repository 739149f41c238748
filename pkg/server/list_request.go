package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/cardbinder/cardbinder/pkg/listing"
)

// ListRequest is the wire form of a list view query: free text search,
// structured filters, sort state and pagination.
type ListRequest struct {
	Query    string              `json:"query" schema:"query"`
	Sort     string              `json:"sort" schema:"sort"`
	Order    string              `json:"order" schema:"order"`
	Page     int                 `json:"page" schema:"page"`
	PageSize int                 `json:"pageSize" schema:"size,default:40"`
	Filters  []listing.Condition `json:"filters" schema:"-"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sanitize clamps pagination and fills sort defaults for the view.
func (s *ListRequest) Sanitize(defaults listing.Config) {
	s.Page = clamp(s.Page, 0, 10000)
	s.PageSize = clamp(s.PageSize, 1, 1000)
	if s.Sort == "" {
		s.Sort = defaults.DefaultSortField
	}
	if s.Order == "" {
		s.Order = string(defaults.DefaultSortOrder)
	}
}

// ToQuery converts the request into engine query state.
func (s *ListRequest) ToQuery() listing.Query {
	return listing.Query{
		Search:    s.Query,
		Filters:   s.Filters,
		SortField: s.Sort,
		SortOrder: listing.Order(s.Order).Sanitized(),
	}
}

// GetListRequest decodes a list query from the URL on GET and from the
// JSON body otherwise, then sanitizes it against the view defaults.
func GetListRequest(r *http.Request, defaults listing.Config) (*ListRequest, error) {
	sr := &ListRequest{}
	var err error
	if r.Method == http.MethodGet {
		err = listRequestFromQuery(r.URL.Query(), sr)
	} else {
		err = json.NewDecoder(r.Body).Decode(sr)
	}
	sr.Sanitize(defaults)
	return sr, err
}

func listRequestFromQuery(query url.Values, result *ListRequest) error {
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	result.Filters = decodeFiltersFromQuery(query)
	return nil
}

// decodeFiltersFromQuery collects structured filter conditions from
// repeated query parameters:
//
//	str=field:value    substring (or numeric range when value is min-max)
//	rng=field:min-max  numeric range
//	num=field:value    numeric equality
//	flag=field:true    boolean equality
//
// Malformed parameters are skipped rather than rejected.
func decodeFiltersFromQuery(query url.Values) []listing.Condition {
	conditions := make([]listing.Condition, 0)
	for _, key := range []string{"str", "rng"} {
		for _, v := range query[key] {
			field, value, ok := splitFilterParam(v)
			if !ok {
				continue
			}
			conditions = append(conditions, listing.Condition{Field: field, Value: value})
		}
	}
	for _, v := range query["num"] {
		field, value, ok := splitFilterParam(v)
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal([]byte(value), &n); err != nil {
			continue
		}
		conditions = append(conditions, listing.Condition{Field: field, Value: n})
	}
	for _, v := range query["flag"] {
		field, value, ok := splitFilterParam(v)
		if !ok {
			continue
		}
		conditions = append(conditions, listing.Condition{Field: field, Value: value == "true"})
	}
	return conditions
}

func splitFilterParam(v string) (string, string, bool) {
	field, value, found := strings.Cut(v, ":")
	field = strings.TrimSpace(field)
	value = strings.TrimSpace(value)
	if !found || field == "" || value == "" {
		return "", "", false
	}
	return field, value, true
}

// ListResponse is the envelope of every list endpoint.
type ListResponse struct {
	Items    any    `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
}

func paginate[T any](items []T, page, size int) []T {
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// respondList runs the engine over the view's entities and wraps the
// requested page in the response envelope.
func respondList[T any](sr *ListRequest, items []T, access listing.Accessor[T]) *ListResponse {
	processed := listing.Process(items, sr.ToQuery(), access)
	return &ListResponse{
		Items:    paginate(processed, sr.Page, sr.PageSize),
		Total:    len(processed),
		Page:     sr.Page,
		PageSize: sr.PageSize,
		Sort:     sr.Sort,
		Order:    sr.Order,
	}
}
