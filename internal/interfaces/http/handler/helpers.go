package handler

import (
	"io"
	"strconv"

	"github.com/erp/purchasing/internal/application/validation"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PageDefaults holds the page size used when a list request omits per_page
type PageDefaults struct {
	PerPage    int
	MaxPerPage int
}

// readPayload reads the request body as a JSON object
func readPayload(c *gin.Context) (validation.Payload, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return validation.DecodePayload(body)
}

// parseID parses the :id path parameter. what names the resource in the error.
func parseID(c *gin.Context, what string) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewInvalidRequestError("%s id %s is not a valid id", what, raw)
	}
	return id, nil
}

// pageRequest reads page and per_page from the query string. Values that are
// not integers fall back to the defaults; per_page is capped at MaxPerPage.
// Out-of-range values are left for PageRequest.Validate to reject.
func pageRequest(c *gin.Context, d PageDefaults) shared.PageRequest {
	req := shared.PageRequest{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", d.PerPage),
	}
	if d.MaxPerPage > 0 && req.PerPage > d.MaxPerPage {
		req.PerPage = d.MaxPerPage
	}
	return req
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
