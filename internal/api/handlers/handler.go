package handlers

import (
	"context"
	"net/http"

	"github.com/casperstation/operations-api-service/internal/config"
	"github.com/casperstation/operations-api-service/internal/services"
	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

type Handler struct {
	config   *config.Config
	services *services.Services
}

type paginationResponse struct {
	NextKey string `json:"next_key"`
}

type PublicResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResultWithPagination[T any](data T, pageToken string) *Result {
	res := &PublicResponse[T]{Data: data, Pagination: &paginationResponse{NextKey: pageToken}}
	return &Result{Data: res, Status: http.StatusOK}
}

func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	return &Handler{
		config:   cfg,
		services: services,
	}, nil
}

func parsePublicKeyQuery(request *http.Request, queryName string) (string, *types.Error) {
	pkHex := request.URL.Query().Get(queryName)
	if pkHex == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	if !utils.IsValidPublicKey(pkHex) {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return pkHex, nil
}

func parseOperationIdQuery(request *http.Request, queryName string) (string, *types.Error) {
	id := request.URL.Query().Get(queryName)
	if id == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	if !utils.IsValidOperationID(id) {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return id, nil
}
