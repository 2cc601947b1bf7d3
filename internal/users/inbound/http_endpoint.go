package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
	"github.com/shandysiswandi/faultline/internal/users/usecase"
)

const maxBodyBytes = 1 << 20

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Create(ctx context.Context, r *http.Request) (any, error) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	user, err := h.uc.Create(ctx, usecase.CreateInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return nil, err
	}

	return CreateUserResponse{User: toHTTPUser(user)}, nil
}

func (h *HTTPEndpoint) Get(ctx context.Context, _ *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := h.uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return toHTTPUser(user), nil
}

func (h *HTTPEndpoint) List(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	page, err := parseInt(query.Get("page"), "page")
	if err != nil {
		return nil, err
	}
	pageSize, err := parseInt(query.Get("page_size"), "page_size")
	if err != nil {
		return nil, err
	}

	result, err := h.uc.List(ctx, usecase.ListInput{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(result.Users))
	for _, user := range result.Users {
		users = append(users, toHTTPUser(user))
	}

	return ListUsersResponse{
		Users:    users,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

func (h *HTTPEndpoint) Update(ctx context.Context, r *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if req.Email == nil && req.Name == nil {
		return nil, pkgerror.NewValidation("nothing to update", "")
	}

	user, err := h.uc.Update(ctx, id, usecase.UpdateInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return nil, err
	}

	return toHTTPUser(user), nil
}

func (h *HTTPEndpoint) Delete(ctx context.Context, _ *http.Request) (any, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.uc.Delete(ctx, id); err != nil {
		return nil, err
	}

	return nil, nil
}

func parseID(ctx context.Context) (int64, error) {
	id, err := pkguid.ParseNumber(pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return 0, pkgerror.New(pkgerror.KindValidation, "invalid id",
			pkgerror.WithField("id"),
			pkgerror.WithCause(err),
		)
	}
	return id, nil
}

// parseInt reads an optional query integer. Empty means zero.
func parseInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerror.New(pkgerror.KindValidation, "invalid "+field,
			pkgerror.WithField(field),
			pkgerror.WithCause(err),
		)
	}
	return value, nil
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return pkgerror.NewValidation("empty request body", "")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
			sizeErr   *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return pkgerror.NewValidation("empty request body", "")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return pkgerror.New(pkgerror.KindValidation, typeErr.Field+" has the wrong type",
				pkgerror.WithField(typeErr.Field),
				pkgerror.WithCause(err),
			)
		case errors.As(err, &sizeErr):
			return pkgerror.New(pkgerror.KindValidation, "request body too large", pkgerror.WithCause(err))
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return pkgerror.New(pkgerror.KindValidation, "malformed request body", pkgerror.WithCause(err))
		default:
			return pkgerror.New(pkgerror.KindValidation, "invalid request body", pkgerror.WithCause(err))
		}
	}

	return nil
}
