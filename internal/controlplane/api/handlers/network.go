package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// laggGroupFilter restricts the member listing to one aggregation.
const laggGroupFilter = "lagg_interfacegroup__id"

// NetworkHandler serves interface and link aggregation listings.
type NetworkHandler struct {
	store store.NetworkStore
	links *links.Reverser
}

// NewNetworkHandler creates a new NetworkHandler.
func NewNetworkHandler(s store.NetworkStore, lr *links.Reverser) *NetworkHandler {
	if lr == nil {
		lr = links.New("")
	}
	return &NetworkHandler{store: s, links: lr}
}

// InterfaceResponse is an interface row with its addresses in CIDR form,
// aliases included.
type InterfaceResponse struct {
	*models.NetworkInterface
	IPv4Addresses []string `json:"ipv4_addresses"`
	IPv6Addresses []string `json:"ipv6_addresses"`
	links.ModelLinks
}

// ListInterfaces handles GET /api/v1/network/interfaces.
func (h *NetworkHandler) ListInterfaces(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "interfaces", h.store.ListInterfaces, func(i *models.NetworkInterface) (InterfaceResponse, error) {
		return InterfaceResponse{
			NetworkInterface: i,
			IPv4Addresses:    i.IPv4Addresses(),
			IPv6Addresses:    i.IPv6Addresses(),
			ModelLinks:       h.links.Model("network", "interfaces", i.ID),
		}, nil
	})
}

// LAGGResponse is a link aggregation row. Its edit and delete links point
// at the underlying interface.
type LAGGResponse struct {
	*models.LAGGInterface
	Display      string `json:"lagg_interface"`
	IntInterface string `json:"int_interface"`
	IntName      string `json:"int_name"`
	links.LAGGLinks
}

// ListLAGGs handles GET /api/v1/network/lagg.
func (h *NetworkHandler) ListLAGGs(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "lagg", h.store.ListLAGGs, func(l *models.LAGGInterface) (LAGGResponse, error) {
		return LAGGResponse{
			LAGGInterface: l,
			Display:       l.String(),
			IntInterface:  l.Interface.Interface,
			IntName:       l.Interface.Name,
			LAGGLinks:     h.links.LAGG(l.ID, l.InterfaceID),
		}, nil
	})
}

// LAGGMemberResponse is a LAGG member row with the name of its group.
type LAGGMemberResponse struct {
	*models.LAGGInterfaceMember
	Group string `json:"lagg_interfacegroup"`
	links.ModelLinks
}

// ListLAGGMembers handles GET /api/v1/network/lagg-members, optionally
// filtered by ?lagg_interfacegroup__id=.
func (h *NetworkHandler) ListLAGGMembers(w http.ResponseWriter, r *http.Request) {
	var laggID *uint
	if v := r.URL.Query().Get(laggGroupFilter); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			BadRequest(w, laggGroupFilter+" must be a positive integer")
			return
		}
		u := uint(id)
		laggID = &u
	}

	list := func(ctx context.Context, opts store.ListOptions) ([]*models.LAGGInterfaceMember, int64, error) {
		return h.store.ListLAGGMembers(ctx, laggID, opts)
	}
	serveList(w, r, "lagg_members", list, func(m *models.LAGGInterfaceMember) (LAGGMemberResponse, error) {
		return LAGGMemberResponse{
			LAGGInterfaceMember: m,
			Group:               m.LAGGGroup.String(),
			ModelLinks:          h.links.Model("network", "lagginterfacemembers", m.ID),
		}, nil
	})
}
