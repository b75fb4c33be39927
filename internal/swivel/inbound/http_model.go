package inbound

type VerifyRequest struct {
	OTC string `json:"otc"`
}

type VerifyResponse struct {
	PrincipalID string `json:"principal_id"`
}

func (VerifyResponse) Message() string {
	return "Second factor verified"
}

type ReachabilityResponse struct {
	Reachable bool `json:"reachable"`
}

func (r ReachabilityResponse) Message() string {
	if r.Reachable {
		return "Swivel server is reachable"
	}
	return "Swivel server is not reachable"
}
