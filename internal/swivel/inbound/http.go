package inbound

import (
	"context"

	"github.com/shandysiswandi/swivel/internal/pkg/router"
	"github.com/shandysiswandi/swivel/internal/swivel/entity"
	"github.com/shandysiswandi/swivel/internal/swivel/usecase"
)

type uc interface {
	Verify(ctx context.Context, in usecase.VerifyInput) (*entity.PrincipalResult, error)
	CanReach(ctx context.Context) bool
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/swivel/verify", end.Verify) // need authenticated
	r.GETPublic("/api/v1/swivel/reachability", end.Reachability)
}
