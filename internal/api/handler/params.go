package handler

import (
	"net/http"
	"strconv"
)

// listParams extracts ?page= and ?limit= query parameters. Repositories clamp
// the values; unparseable input falls back to zero and the defaults kick in.
func listParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
