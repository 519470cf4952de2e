package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/internal/telemetry"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
	"github.com/marmos91/dittonas/pkg/metrics"
	"github.com/marmos91/dittonas/pkg/schedule"
	"github.com/marmos91/dittonas/pkg/storagetree"
)

// StorageHandler serves volumes with their dataset trees, disks, scrubs and
// periodic snapshot tasks.
type StorageHandler struct {
	store   store.StorageStore
	links   *links.Reverser
	stride  int
	metrics metrics.TreeMetrics
}

// NewStorageHandler creates a new StorageHandler. A stride <= 0 selects
// storagetree.DefaultStride; m may be nil.
func NewStorageHandler(s store.StorageStore, lr *links.Reverser, stride int, m metrics.TreeMetrics) *StorageHandler {
	if stride <= 0 {
		stride = storagetree.DefaultStride
	}
	if lr == nil {
		lr = links.New("")
	}
	return &StorageHandler{store: s, links: lr, stride: stride, metrics: m}
}

// VolumeResponse is a volume row: the stored volume, its primary mount
// point usage and the projected dataset/zvol tree.
type VolumeResponse struct {
	*models.Volume
	Name        string `json:"name"`
	Mountpoint  string `json:"mountpoint"`
	Status      string `json:"status"`
	TotalSI     string `json:"total_si"`
	AvailSI     string `json:"avail_si"`
	UsedSI      string `json:"used_si"`
	UsedPct     string `json:"used_pct"`
	Used        string `json:"used"`
	IsDecrypted bool   `json:"is_decrypted"`
	links.ModelLinks
	links.VolumeLinks
	Children []*storagetree.Node `json:"children"`
}

// ListVolumes handles GET /api/v1/storage/volumes.
func (h *StorageHandler) ListVolumes(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "volumes", h.store.ListVolumes, func(v *models.Volume) (*VolumeResponse, error) {
		return h.volumeResponse(r.Context(), v)
	})
}

// GetVolume handles GET /api/v1/storage/volumes/{id}.
func (h *StorageHandler) GetVolume(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		BadRequest(w, "Volume id must be a positive integer")
		return
	}

	ctx, span := telemetry.StartStoreSpan(r.Context(), "get_volume", telemetry.VolumeID(uint(id)))
	vol, err := h.store.GetVolume(ctx, uint(id))
	span.End()
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).SetVolume(vol.Name)

	resp, err := h.volumeResponse(r.Context(), vol)
	if err != nil {
		HandleStoreError(w, r, err)
		return
	}
	WriteJSONOK(w, resp)
}

func (h *StorageHandler) volumeResponse(ctx context.Context, v *models.Volume) (*VolumeResponse, error) {
	tv, err := v.TreeVolume()
	if err != nil {
		return nil, fmt.Errorf("volume %q: %w", v.Name, err)
	}

	children, err := h.tree(ctx, v)
	if err != nil {
		return nil, err
	}

	mp := tv.MountPoint
	return &VolumeResponse{
		Volume:      v,
		Name:        v.Name,
		Mountpoint:  mp.Path,
		Status:      mp.Status,
		TotalSI:     mp.Usage.TotalSI(),
		AvailSI:     mp.Usage.AvailSI(),
		UsedSI:      mp.Usage.UsedSI(),
		UsedPct:     mp.Usage.UsedPct(),
		Used:        storagetree.VolumeUsed(tv),
		IsDecrypted: tv.Decrypted,
		ModelLinks:  h.links.Model("storage", "volume", v.ID),
		VolumeLinks: h.links.Volume(v.ID, v.Name, mp.ID, mp.Path),
		Children:    children,
	}, nil
}

// tree loads the datasets and zvols of v and projects them. The result is
// never nil so that a volume without datasets serializes "children": [].
func (h *StorageHandler) tree(ctx context.Context, v *models.Volume) ([]*storagetree.Node, error) {
	datasets, err := h.store.ListDatasets(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	zvols, err := h.store.ListZVols(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartTreeSpan(ctx, v.Name, telemetry.VolumeID(v.ID), telemetry.Stride(h.stride))
	defer span.End()

	start := time.Now()
	nodes, err := v.Project(datasets, zvols, storagetree.WithStride(h.stride), storagetree.WithLinks(h.links))
	n := storagetree.Count(nodes)
	metrics.ObserveProjection(h.metrics, v.Name, n, time.Since(start), err)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("project volume %q: %w", v.Name, err)
	}
	span.SetAttributes(telemetry.Nodes(n))

	if n > h.stride {
		logger.WarnCtx(ctx, "storage tree ids spill into the next volume's block",
			logger.Volume(v.Name), logger.Nodes(n), "stride", h.stride)
		metrics.ObserveStrideOverflow(h.metrics, v.Name)
	}

	if nodes == nil {
		nodes = []*storagetree.Node{}
	}
	return nodes, nil
}

// DiskResponse is a disk row. Disks cannot be deleted from the edit form.
type DiskResponse struct {
	*models.Disk
	links.ModelLinks
	WipeURL string `json:"_wipe_url"`
}

// ListDisks handles GET /api/v1/storage/disks.
func (h *StorageHandler) ListDisks(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "disks", h.store.ListDisks, func(d *models.Disk) (DiskResponse, error) {
		ml := h.links.Model("storage", "disk", d.ID)
		ml.EditURL += "?deletable=false"
		return DiskResponse{Disk: d, ModelLinks: ml, WipeURL: h.links.DiskWipe(d.Name)}, nil
	})
}

// ScrubResponse is a scrub row with its volume name and rendered schedule.
type ScrubResponse struct {
	*models.Scrub
	Volume string `json:"scrub_volume"`
	models.CronSchedule
	schedule.Human
	links.ModelLinks
}

// ListScrubs handles GET /api/v1/storage/scrubs.
func (h *StorageHandler) ListScrubs(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "scrubs", h.store.ListScrubs, func(s *models.Scrub) (ScrubResponse, error) {
		return ScrubResponse{
			Scrub:        s,
			Volume:       s.Volume.Name,
			CronSchedule: s.Schedule,
			Human:        schedule.HumanFields(s.Schedule),
			ModelLinks:   h.links.Model("storage", "scrub", s.ID),
		}, nil
	})
}

// TaskResponse is a periodic snapshot task row.
type TaskResponse struct {
	*models.PeriodicSnapshotTask
	How     string `json:"how"`
	KeepFor string `json:"keepfor"`
	links.ModelLinks
}

// ListTasks handles GET /api/v1/storage/tasks.
func (h *StorageHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "tasks", h.store.ListSnapshotTasks, func(t *models.PeriodicSnapshotTask) (TaskResponse, error) {
		st, err := t.SnapshotTask()
		if err != nil {
			return TaskResponse{}, fmt.Errorf("snapshot task %d: %w", t.ID, err)
		}
		return TaskResponse{
			PeriodicSnapshotTask: t,
			How:                  st.How(),
			KeepFor:              st.KeepFor(),
			ModelLinks:           h.links.Model("storage", "task", t.ID),
		}, nil
	})
}
