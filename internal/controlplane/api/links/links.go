// Package links renders the web UI action URLs attached to API resources.
//
// Every link is a named route template with {param} placeholders, rendered
// under a configurable UI base URL. Links are plain strings: the API never
// performs the actions they point to.
package links

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/marmos91/dittonas/pkg/storagetree"
)

// Route names a UI URL template.
type Route string

// Storage routes.
const (
	StorageDetach           Route = "storage_detach"
	StorageScrub            Route = "storage_scrub"
	StorageVolumeEdit       Route = "storage_volume_edit"
	StorageDataset          Route = "storage_dataset"
	StorageDatasetEdit      Route = "storage_dataset_edit"
	StorageDatasetDelete    Route = "storage_dataset_delete"
	StorageZVol             Route = "storage_zvol"
	StorageZVolDelete       Route = "storage_zvol_delete"
	StoragePermission       Route = "storage_mp_permission"
	StorageVolumeStatus     Route = "storage_volume_status"
	StorageManualSnapshot   Route = "storage_manualsnap"
	StorageVolumeUnlock     Route = "storage_volume_unlock"
	StorageVolumeKey        Route = "storage_volume_key"
	StorageVolumeRekey      Route = "storage_volume_rekey"
	StorageRecoveryKeyAdd   Route = "storage_volume_recoverykey_add"
	StorageRecoveryKeyRem   Route = "storage_volume_recoverykey_remove"
	StorageCreatePassphrase Route = "storage_volume_create_passphrase"
	StorageChangePassphrase Route = "storage_volume_change_passphrase"
	StorageDiskWipe         Route = "storage_disk_wipe"
)

// Network routes.
const (
	NetworkInterfaceEdit   Route = "network_interfaces_edit"
	NetworkInterfaceDelete Route = "network_interfaces_delete"
	NetworkLAGGMembers     Route = "network_lagginterfacemembers_datagrid"
)

// Generic model routes, parameterised by resource name and object id.
const (
	ModelEdit   Route = "model_edit"
	ModelDelete Route = "model_delete"
)

var templates = map[Route]string{
	StorageDetach:           "/storage/detach/{vid}/",
	StorageScrub:            "/storage/scrub/{vid}/",
	StorageVolumeEdit:       "/storage/volume/edit/{object_id}/",
	StorageDataset:          "/storage/dataset/create/{fs}/",
	StorageDatasetEdit:      "/storage/dataset/edit/{dataset_name}/",
	StorageDatasetDelete:    "/storage/dataset/delete/{name}/",
	StorageZVol:             "/storage/zvol/create/{volume_name}/",
	StorageZVolDelete:       "/storage/zvol/delete/{name}/",
	StoragePermission:       "/storage/permission/{path}/",
	StorageVolumeStatus:     "/storage/volume/status/{vid}/",
	StorageManualSnapshot:   "/storage/snapshot/manual/{fs}/",
	StorageVolumeUnlock:     "/storage/volume/unlock/{object_id}/",
	StorageVolumeKey:        "/storage/volume/key/{object_id}/",
	StorageVolumeRekey:      "/storage/volume/rekey/{object_id}/",
	StorageRecoveryKeyAdd:   "/storage/volume/recoverykey/add/{object_id}/",
	StorageRecoveryKeyRem:   "/storage/volume/recoverykey/remove/{object_id}/",
	StorageCreatePassphrase: "/storage/volume/passphrase/create/{object_id}/",
	StorageChangePassphrase: "/storage/volume/passphrase/change/{object_id}/",
	StorageDiskWipe:         "/storage/disk/wipe/{devname}/",

	NetworkInterfaceEdit:   "/admin/network/interfaces/edit/{oid}/",
	NetworkInterfaceDelete: "/admin/network/interfaces/delete/{oid}/",
	NetworkLAGGMembers:     "/admin/network/lagginterfacemembers/datagrid/",

	ModelEdit:   "/admin/{app}/{model}/edit/{oid}/",
	ModelDelete: "/admin/{app}/{model}/delete/{oid}/",
}

// Reverser renders routes under a base URL.
// It is immutable and safe for concurrent use.
type Reverser struct {
	base string
}

// New returns a Reverser rooted at baseURL. A trailing slash is dropped;
// an empty base yields host-relative URLs.
func New(baseURL string) *Reverser {
	return &Reverser{base: strings.TrimRight(baseURL, "/")}
}

// Reverse renders route with the given key/value pairs. Values are escaped
// per path segment, so slashes in dataset names and mount paths survive.
// It panics on an unknown route or a missing parameter: both are programming
// errors.
func (r *Reverser) Reverse(route Route, kv ...string) string {
	tmpl, ok := templates[route]
	if !ok {
		panic("links: unknown route " + string(route))
	}
	if len(kv)%2 != 0 {
		panic("links: odd number of parameters for " + string(route))
	}
	for i := 0; i < len(kv); i += 2 {
		tmpl = strings.ReplaceAll(tmpl, "{"+kv[i]+"}", escapePath(kv[i+1]))
	}
	if strings.Contains(tmpl, "{") {
		panic("links: missing parameter for " + string(route) + ": " + tmpl)
	}
	return r.base + tmpl
}

// escapePath escapes each segment of p and strips surrounding slashes.
func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func id(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

// VolumeLinks are the actions of a volume row.
type VolumeLinks struct {
	DetachURL           string `json:"_detach_url"`
	ScrubURL            string `json:"_scrub_url"`
	OptionsURL          string `json:"_options_url"`
	AddDatasetURL       string `json:"_add_dataset_url"`
	AddZFSVolumeURL     string `json:"_add_zfs_volume_url"`
	PermissionsURL      string `json:"_permissions_url"`
	StatusURL           string `json:"_status_url"`
	ManualSnapshotURL   string `json:"_manual_snapshot_url"`
	UnlockURL           string `json:"_unlock_url"`
	DownloadKeyURL      string `json:"_download_key_url"`
	RekeyURL            string `json:"_rekey_url"`
	AddRecoveryKeyURL   string `json:"_add_reckey_url"`
	RemRecoveryKeyURL   string `json:"_rem_reckey_url"`
	CreatePassphraseURL string `json:"_create_passphrase_url"`
	ChangePassphraseURL string `json:"_change_passphrase_url"`
}

// Volume builds the links of volume volID named name, whose primary mount
// point has id mpID and path mpPath.
func (r *Reverser) Volume(volID uint, name string, mpID uint, mpPath string) VolumeLinks {
	vid := id(volID)
	return VolumeLinks{
		DetachURL:           r.Reverse(StorageDetach, "vid", vid),
		ScrubURL:            r.Reverse(StorageScrub, "vid", vid),
		OptionsURL:          r.Reverse(StorageVolumeEdit, "object_id", id(mpID)),
		AddDatasetURL:       r.Reverse(StorageDataset, "fs", name),
		AddZFSVolumeURL:     r.Reverse(StorageZVol, "volume_name", name),
		PermissionsURL:      r.Reverse(StoragePermission, "path", mpPath),
		StatusURL:           r.Reverse(StorageVolumeStatus, "vid", vid),
		ManualSnapshotURL:   r.Reverse(StorageManualSnapshot, "fs", name),
		UnlockURL:           r.Reverse(StorageVolumeUnlock, "object_id", vid),
		DownloadKeyURL:      r.Reverse(StorageVolumeKey, "object_id", vid),
		RekeyURL:            r.Reverse(StorageVolumeRekey, "object_id", vid),
		AddRecoveryKeyURL:   r.Reverse(StorageRecoveryKeyAdd, "object_id", vid),
		RemRecoveryKeyURL:   r.Reverse(StorageRecoveryKeyRem, "object_id", vid),
		CreatePassphraseURL: r.Reverse(StorageCreatePassphrase, "object_id", vid),
		ChangePassphraseURL: r.Reverse(StorageChangePassphrase, "object_id", vid),
	}
}

// DatasetLinks implements storagetree.LinkBuilder.
func (r *Reverser) DatasetLinks(ds *storagetree.Dataset) storagetree.Links {
	return storagetree.Links{
		DatasetDeleteURL:  r.Reverse(StorageDatasetDelete, "name", ds.Path),
		DatasetEditURL:    r.Reverse(StorageDatasetEdit, "dataset_name", ds.Path),
		DatasetCreateURL:  r.Reverse(StorageDataset, "fs", ds.Path),
		PermissionsURL:    r.Reverse(StoragePermission, "path", ds.Mountpoint),
		ManualSnapshotURL: r.Reverse(StorageManualSnapshot, "fs", ds.Path),
	}
}

// ZVolLinks implements storagetree.LinkBuilder.
func (r *Reverser) ZVolLinks(name string) storagetree.Links {
	return storagetree.Links{
		ZVolDeleteURL:     r.Reverse(StorageZVolDelete, "name", name),
		ManualSnapshotURL: r.Reverse(StorageManualSnapshot, "fs", name),
	}
}

// ModelLinks are the generic edit and delete actions every row carries.
type ModelLinks struct {
	EditURL   string `json:"_edit_url"`
	DeleteURL string `json:"_delete_url"`
}

// Model builds the generic links of object oid of model in app.
func (r *Reverser) Model(app, model string, oid uint) ModelLinks {
	return ModelLinks{
		EditURL:   r.Reverse(ModelEdit, "app", app, "model", model, "oid", id(oid)),
		DeleteURL: r.Reverse(ModelDelete, "app", app, "model", model, "oid", id(oid)),
	}
}

// DiskWipe returns the wipe action of a disk device.
func (r *Reverser) DiskWipe(devname string) string {
	return r.Reverse(StorageDiskWipe, "devname", devname)
}

// LAGGLinks are the actions of a link aggregation row. Edit and delete act on
// the underlying interface.
type LAGGLinks struct {
	EditURL    string `json:"_edit_url"`
	DeleteURL  string `json:"_delete_url"`
	MembersURL string `json:"_members_url"`
}

// LAGG builds the links of LAGG laggID built on interface interfaceID.
func (r *Reverser) LAGG(laggID, interfaceID uint) LAGGLinks {
	oid := id(interfaceID)
	return LAGGLinks{
		EditURL:    r.Reverse(NetworkInterfaceEdit, "oid", oid) + "?deletable=false",
		DeleteURL:  r.Reverse(NetworkInterfaceDelete, "oid", oid),
		MembersURL: r.Reverse(NetworkLAGGMembers) + "?id=" + id(laggID),
	}
}

var _ storagetree.LinkBuilder = (*Reverser)(nil)
