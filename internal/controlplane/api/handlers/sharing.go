package handlers

import (
	"net/http"

	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// SharingHandler serves file share listings.
type SharingHandler struct {
	store store.SharingStore
	links *links.Reverser
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(s store.SharingStore, lr *links.Reverser) *SharingHandler {
	if lr == nil {
		lr = links.New("")
	}
	return &SharingHandler{store: s, links: lr}
}

// NFSShareResponse is an NFS share row with its exported paths.
type NFSShareResponse struct {
	*models.NFSShare
	Paths []string `json:"nfs_paths"`
	links.ModelLinks
}

// ListNFSShares handles GET /api/v1/sharing/nfs.
func (h *SharingHandler) ListNFSShares(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "nfs_shares", h.store.ListNFSShares, func(s *models.NFSShare) (NFSShareResponse, error) {
		return NFSShareResponse{
			NFSShare:   s,
			Paths:      s.NFSPaths(),
			ModelLinks: h.links.Model("sharing", "nfs_share", s.ID),
		}, nil
	})
}
