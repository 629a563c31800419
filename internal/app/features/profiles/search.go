// internal/app/features/profiles/search.go
package profiles

import (
	"context"
	"net/http"
	"slices"
	"strings"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	profilestore "github.com/dalemusser/courtside/internal/app/store/profiles"
	"github.com/dalemusser/courtside/internal/app/system/inputval"
	"github.com/dalemusser/courtside/internal/app/system/paging"
	"github.com/dalemusser/courtside/internal/app/system/timeouts"
	"github.com/dalemusser/courtside/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeSearch finds complete player profiles.
// ?q= matches name or bio, ?position= the primary position, ?location= the
// exact location and ?court= (repeatable or comma separated) any preferred court.
// GET /profiles
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	f, res := parseSearch(r)
	if res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Profiles.Search(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to search profiles", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, searchResponse{Profiles: list})
}

func parseSearch(r *http.Request) (profilestore.SearchFilter, inputval.Result) {
	var res inputval.Result
	f := profilestore.SearchFilter{
		Query:    strings.TrimSpace(query.Get(r, "q")),
		Position: strings.TrimSpace(query.Get(r, "position")),
		Location: strings.TrimSpace(query.Get(r, "location")),
		Limit:    paging.ParseLimit(r, paging.PageSize),
	}
	if len(f.Query) > 100 {
		res.Add("q", "max", "Search text must be at most 100 characters.")
	}
	checkPosition(&res, "position", "Position", &f.Position)

	for _, raw := range r.URL.Query()["court"] {
		for _, c := range strings.Split(raw, ",") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if !slices.Contains(models.CourtTypes, c) {
				res.Add("court", "oneof", "Court must be one of: "+strings.Join(models.CourtTypes, ", ")+".")
				continue
			}
			f.Courts = append(f.Courts, c)
		}
	}
	return f, res
}
