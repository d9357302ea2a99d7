package directory

// ProviderResponse is the roster service's representation of one provider.
type ProviderResponse struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	ActiveWalks int    `json:"active_walks"`
}

type ProviderListResponse struct {
	Providers []ProviderResponse `json:"providers"`
}

type DirectoryErrorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}
