package inbound

import (
	"github.com/shandysiswandi/swivel/internal/pkg/router"
	"github.com/shandysiswandi/swivel/internal/swivel/usecase"
)

// HTTPEndpoint exposes the Swivel second-factor handlers.
type HTTPEndpoint struct {
	uc uc
}

// Verify checks a one-time code for the authenticated principal.
// @Summary Verify Swivel OTC
// @Description Sends the one-time code to the Swivel server for the principal carried by the bearer token.
// @Tags Swivel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verified principal"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Rejected by Swivel or no authenticated principal"
// @Failure 422 {object} router.errorResponse "Blank one-time code"
// @Failure 500 {object} router.errorResponse "Swivel url or shared secret not configured"
// @Failure 503 {object} router.errorResponse "Swivel server gave no usable answer"
// @Router /api/v1/swivel/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{OTC: req.OTC})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{PrincipalID: resp.PrincipalID}, nil
}

// Reachability reports whether the Swivel server answers its base URL.
// @Summary Probe Swivel server
// @Description Issues a GET to the configured Swivel URL. Diagnostic only, verification never depends on it.
// @Tags Swivel
// @Produce json
// @Success 200 {object} router.successResponse{data=ReachabilityResponse} "Probe result"
// @Router /api/v1/swivel/reachability [get]
func (h *HTTPEndpoint) Reachability(r *router.Request) (any, error) {
	return ReachabilityResponse{Reachable: h.uc.CanReach(r.Context())}, nil
}
