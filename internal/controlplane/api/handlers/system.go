package handlers

import (
	"net/http"

	"github.com/marmos91/dittonas/internal/controlplane/api/links"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
	"github.com/marmos91/dittonas/pkg/schedule"
)

// SystemHandler serves the scheduled system jobs.
type SystemHandler struct {
	store store.SystemStore
	links *links.Reverser
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(s store.SystemStore, lr *links.Reverser) *SystemHandler {
	if lr == nil {
		lr = links.New("")
	}
	return &SystemHandler{store: s, links: lr}
}

// CronJobResponse is a cron job row with its rendered schedule.
type CronJobResponse struct {
	*models.CronJob
	models.CronSchedule
	schedule.Human
	links.ModelLinks
}

// ListCronJobs handles GET /api/v1/system/cronjobs.
func (h *SystemHandler) ListCronJobs(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "cronjobs", h.store.ListCronJobs, func(c *models.CronJob) (CronJobResponse, error) {
		return CronJobResponse{
			CronJob:      c,
			CronSchedule: c.Schedule,
			Human:        schedule.HumanFields(c.Schedule),
			ModelLinks:   h.links.Model("system", "cronjob", c.ID),
		}, nil
	})
}

// RsyncResponse is an rsync task row with its rendered schedule.
type RsyncResponse struct {
	*models.RsyncTask
	models.CronSchedule
	schedule.Human
	links.ModelLinks
}

// ListRsyncTasks handles GET /api/v1/system/rsyncs.
func (h *SystemHandler) ListRsyncTasks(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "rsyncs", h.store.ListRsyncTasks, func(t *models.RsyncTask) (RsyncResponse, error) {
		return RsyncResponse{
			RsyncTask:    t,
			CronSchedule: t.Schedule,
			Human:        schedule.HumanFields(t.Schedule),
			ModelLinks:   h.links.Model("system", "rsync", t.ID),
		}, nil
	})
}

// SMARTTestResponse is a SMART test row. Its schedule has no minute field.
type SMARTTestResponse struct {
	*models.SMARTTest
	models.DailySchedule
	schedule.Human
	TypeDisplay string   `json:"smarttest_type"`
	Disks       []string `json:"smarttest_disks"`
	links.ModelLinks
}

// ListSMARTTests handles GET /api/v1/system/smarttests.
func (h *SystemHandler) ListSMARTTests(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "smarttests", h.store.ListSMARTTests, func(t *models.SMARTTest) (SMARTTestResponse, error) {
		return SMARTTestResponse{
			SMARTTest:     t,
			DailySchedule: t.Schedule,
			Human:         schedule.HumanFields(t.Schedule),
			TypeDisplay:   t.TypeDisplay(),
			Disks:         t.DiskNames(),
			ModelLinks:    h.links.Model("system", "smarttest", t.ID),
		}, nil
	})
}
