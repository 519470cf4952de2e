package handlers

import (
	"net/http"
	"time"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// InventoryHandler reports which inventory snapshot the API is serving.
type InventoryHandler struct {
	store store.SettingsStore
}

func NewInventoryHandler(s store.SettingsStore) *InventoryHandler {
	return &InventoryHandler{store: s}
}

// InventoryStatusResponse describes the last import. Both fields are empty
// before the first import.
type InventoryStatusResponse struct {
	Source     string     `json:"source"`
	ImportedAt *time.Time `json:"imported_at"`
}

// Status handles GET /api/v1/system/inventory.
func (h *InventoryHandler) Status(w http.ResponseWriter, r *http.Request) {
	source, err := h.store.GetSetting(r.Context(), models.SettingInventorySource)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	importedAt, err := h.store.GetSetting(r.Context(), models.SettingInventoryImportedAt)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	resp := InventoryStatusResponse{Source: source}
	if importedAt != "" {
		if ts, err := time.Parse(time.RFC3339, importedAt); err == nil {
			resp.ImportedAt = &ts
		}
	}
	WriteJSONOK(w, resp)
}
