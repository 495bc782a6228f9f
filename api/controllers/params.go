package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lasgemelas/disfraces-backend/api/validators"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

const maxSearchLen = 120

func paginationFromQuery(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1000000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Page:   page,
		Limit:  limit,
		Search: validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen),
	}, nil
}

func parseIDParam(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "identificador inválido").
			WithDetails(map[string]string{"id": "must be a uuid"})
	}
	return id, nil
}
