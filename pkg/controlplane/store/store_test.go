package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testInventory() *models.Inventory {
	return &models.Inventory{
		Volumes: []models.Volume{
			{
				ID:     1,
				Name:   "tank",
				Status: "HEALTHY",
				MountPoints: []models.MountPoint{
					{Path: "/mnt/tank", Status: "HEALTHY", TotalBytes: 1000, AvailBytes: 600, UsedBytes: 400},
				},
				Datasets: []models.Dataset{
					{Name: "tank/media", Mountpoint: "/mnt/tank/media"},
					{Name: "tank/media/photos", Mountpoint: "/mnt/tank/media/photos"},
					{Name: "tank/home", Mountpoint: "/mnt/tank/home"},
				},
				ZVols: []models.ZVol{{Name: "vm0", Size: 10 << 30}},
			},
			{
				ID:          2,
				Name:        "backup",
				Encrypt:     models.EncryptPassphrase,
				Status:      "LOCKED",
				MountPoints: []models.MountPoint{{Path: "/mnt/backup"}},
			},
		},
		Disks: []models.Disk{
			{Name: "ada0", Serial: "S1", Enabled: true},
			{Name: "ada1", Serial: "S2", Enabled: true, MultipathName: "disk1"},
			{Name: "multipath/disk1", Enabled: true},
			{Name: "ada2", Serial: "S3", Enabled: false},
			{Name: "ada3", Serial: "S4", Enabled: true},
		},
		Scrubs: []models.Scrub{
			{VolumeName: "tank", Threshold: 35, Enabled: true, Schedule: models.CronSchedule{Minute: "00", Hour: "00", Daymonth: "*/7", Month: "*", Dayweek: "7"}},
		},
		SnapshotTasks: []models.PeriodicSnapshotTask{
			{Filesystem: "tank/media", Interval: 60, RepeatUnit: "weekly", ByWeekday: "1,5", RetCount: 2, RetUnit: "week", Enabled: true},
		},
		NFSShares: []models.NFSShare{
			{Comment: "media", Paths: []models.NFSSharePath{{Path: "/mnt/tank/media"}, {Path: "/mnt/tank/home"}}},
		},
		Interfaces: []models.NetworkInterface{
			{Interface: "em0", Name: "lan", IPv4Address: "192.168.1.10", IPv4Netmask: 24},
			{Interface: "lagg0", Name: "uplink"},
		},
		LAGGs: []models.LAGGInterface{
			{InterfaceName: "lagg0", Protocol: models.LAGGLACP},
		},
		LAGGMembers: []models.LAGGInterfaceMember{
			{LAGGName: "lagg0", PhysNIC: "em1", OrderNum: 0},
			{LAGGName: "lagg0", PhysNIC: "em2", OrderNum: 1},
		},
		CronJobs: []models.CronJob{
			{User: "root", Command: "/usr/local/bin/cleanup", Enabled: true, Schedule: models.CronSchedule{Minute: "30", Hour: "2", Daymonth: "*", Month: "*", Dayweek: "*"}},
		},
		RsyncTasks: []models.RsyncTask{
			{Path: "/mnt/tank/media", RemoteHost: "nas2", Direction: models.RsyncPush, Enabled: true},
		},
		SMARTTests: []models.SMARTTest{
			{Type: "L", DiskRefs: []string{"ada0", "ada3"}, Schedule: models.DailySchedule{Hour: "3", Daymonth: "*", Month: "*", Dayweek: "7"}},
		},
	}
}

func importTestInventory(t *testing.T, s *GORMStore) {
	t.Helper()
	require.NoError(t, s.ReplaceInventory(context.Background(), testInventory(), "test.yaml"))
}

func TestReplaceInventory(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	vol, err := s.GetVolumeByName(ctx, "tank")
	require.NoError(t, err)
	assert.Equal(t, uint(1), vol.ID)
	require.Len(t, vol.MountPoints, 1)
	assert.Equal(t, "/mnt/tank", vol.MountPoints[0].Path)

	datasets, err := s.ListDatasets(ctx, vol.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(datasets))
	for _, d := range datasets {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"tank/media", "tank/media/photos", "tank/home"}, names)

	zvols, err := s.ListZVols(ctx, vol.ID)
	require.NoError(t, err)
	require.Len(t, zvols, 1)
	assert.Equal(t, uint64(10<<30), zvols[0].Size)

	source, err := s.GetSetting(ctx, models.SettingInventorySource)
	require.NoError(t, err)
	assert.Equal(t, "test.yaml", source)

	importedAt, err := s.GetSetting(ctx, models.SettingInventoryImportedAt)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, importedAt)
	assert.NoError(t, err)
}

func TestReplaceInventory_ReplacesPreviousContent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	next := &models.Inventory{
		Volumes: []models.Volume{{ID: 7, Name: "fresh", MountPoints: []models.MountPoint{{Path: "/mnt/fresh"}}}},
	}
	require.NoError(t, s.ReplaceInventory(ctx, next, "next.yaml"))

	_, err := s.GetVolumeByName(ctx, "tank")
	assert.ErrorIs(t, err, models.ErrVolumeNotFound)

	vols, total, err := s.ListVolumes(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, vols, 1)
	assert.Equal(t, "fresh", vols[0].Name)

	tests, _, err := s.ListSMARTTests(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, tests)
}

func TestReplaceInventory_UnresolvedReferenceRollsBack(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	tests := []struct {
		name    string
		mutate  func(inv *models.Inventory)
		wantErr error
	}{
		{"scrub volume", func(inv *models.Inventory) { inv.Scrubs[0].VolumeName = "nope" }, models.ErrVolumeNotFound},
		{"lagg interface", func(inv *models.Inventory) { inv.LAGGs[0].InterfaceName = "nope" }, models.ErrInterfaceNotFound},
		{"lagg member group", func(inv *models.Inventory) { inv.LAGGMembers[1].LAGGName = "nope" }, models.ErrLAGGNotFound},
		{"smart disk", func(inv *models.Inventory) { inv.SMARTTests[0].DiskRefs = []string{"ada9"} }, models.ErrDiskNotFound},
		{"duplicate volume", func(inv *models.Inventory) { inv.Volumes[1].Name = "renamed" }, models.ErrDuplicateVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := testInventory()
			inv.Volumes[0].Name = "renamed"
			inv.Scrubs[0].VolumeName = "renamed"
			tt.mutate(inv)

			err := s.ReplaceInventory(ctx, inv, "bad.yaml")
			require.ErrorIs(t, err, tt.wantErr)

			// Nothing from the failed import is visible.
			_, err = s.GetVolumeByName(ctx, "tank")
			require.NoError(t, err)
			source, err := s.GetSetting(ctx, models.SettingInventorySource)
			require.NoError(t, err)
			assert.Equal(t, "test.yaml", source)
		})
	}
}

func TestListVolumes(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	t.Run("DefaultOrderIsID", func(t *testing.T) {
		vols, total, err := s.ListVolumes(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, vols, 2)
		assert.Equal(t, "tank", vols[0].Name)
		assert.Equal(t, "backup", vols[1].Name)
		assert.Len(t, vols[1].MountPoints, 1)
	})

	t.Run("OrderByName", func(t *testing.T) {
		vols, _, err := s.ListVolumes(ctx, ListOptions{OrderBy: []string{"vol_name"}})
		require.NoError(t, err)
		assert.Equal(t, "backup", vols[0].Name)

		vols, _, err = s.ListVolumes(ctx, ListOptions{OrderBy: []string{"-vol_name"}})
		require.NoError(t, err)
		assert.Equal(t, "tank", vols[0].Name)
	})

	t.Run("Paging", func(t *testing.T) {
		vols, total, err := s.ListVolumes(ctx, ListOptions{Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, vols, 1)
		assert.Equal(t, "backup", vols[0].Name)
	})

	t.Run("UnknownOrdering", func(t *testing.T) {
		_, _, err := s.ListVolumes(ctx, ListOptions{OrderBy: []string{"password"}})
		assert.ErrorIs(t, err, models.ErrInvalidOrdering)
	})

	t.Run("NegativeOffset", func(t *testing.T) {
		_, _, err := s.ListVolumes(ctx, ListOptions{Offset: -1})
		assert.ErrorIs(t, err, models.ErrInvalidRange)
	})
}

func TestGetVolume_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetVolume(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrVolumeNotFound)
}

func TestListDisks_FiltersMultipathAndDisabled(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	disks, total, err := s.ListDisks(ctx, ListOptions{OrderBy: []string{"-disk_name"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, disks, 2)
	assert.Equal(t, "ada3", disks[0].Name)
	assert.Equal(t, "ada0", disks[1].Name)
	for _, d := range disks {
		assert.True(t, d.IsListable())
	}
}

func TestListScrubsAndTasks(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	scrubs, _, err := s.ListScrubs(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, scrubs, 1)
	assert.Equal(t, "tank", scrubs[0].Volume.Name)
	assert.Equal(t, "*/7", scrubs[0].Schedule.Daymonth)

	tasks, _, err := s.ListSnapshotTasks(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1,5", tasks[0].ByWeekday)
}

func TestListNFSShares(t *testing.T) {
	s := createTestStore(t)
	importTestInventory(t, s)

	shares, total, err := s.ListNFSShares(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shares, 1)
	assert.Equal(t, []string{"/mnt/tank/media", "/mnt/tank/home"}, shares[0].NFSPaths())
}

func TestNetwork(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	nics, total, err := s.ListInterfaces(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"192.168.1.10/24"}, nics[0].IPv4Addresses())

	laggs, _, err := s.ListLAGGs(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, laggs, 1)
	assert.Equal(t, "lagg0", laggs[0].String())

	members, total, err := s.ListLAGGMembers(ctx, &laggs[0].ID, ListOptions{OrderBy: []string{"-lagg_ordernum"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, members, 2)
	assert.Equal(t, "em2", members[0].PhysNIC)
	assert.Equal(t, "lagg0", members[0].LAGGGroup.String())

	other := laggs[0].ID + 100
	members, total, err = s.ListLAGGMembers(ctx, &other, ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, members)

	members, _, err = s.ListLAGGMembers(ctx, nil, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestSystemJobs(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	importTestInventory(t, s)

	crons, _, err := s.ListCronJobs(ctx, ListOptions{OrderBy: []string{"cron_user"}})
	require.NoError(t, err)
	require.Len(t, crons, 1)
	assert.Equal(t, "30", crons[0].Schedule.Minute)

	rsyncs, _, err := s.ListRsyncTasks(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, rsyncs, 1)
	assert.Equal(t, "nas2", rsyncs[0].RemoteHost)

	tests, _, err := s.ListSMARTTests(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.ElementsMatch(t, []string{"ada0", "ada3"}, tests[0].DiskNames())
	assert.Equal(t, "Long Self-Test", tests[0].TypeDisplay())
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	v, err := s.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetSetting(ctx, "k", "one"))
	require.NoError(t, s.SetSetting(ctx, "k", "two"))
	v, err = s.GetSetting(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	all, err := s.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteSetting(ctx, "k"))
	v, err = s.GetSetting(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	t.Run("EnsureAdminUserFromEnv", func(t *testing.T) {
		t.Setenv(models.EnvAdminInitialPassword, "correct-horse")

		password, err := s.EnsureAdminUser(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, "correct-horse", password)

		ok, err := s.IsAdminInitialized(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		admin, err := s.GetUser(ctx, models.AdminUsername)
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin())
		assert.False(t, admin.MustChangePassword)

		again, err := s.EnsureAdminUser(ctx, "", "")
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("ValidateCredentials", func(t *testing.T) {
		_, err := s.ValidateCredentials(ctx, models.AdminUsername, "correct-horse")
		require.NoError(t, err)

		_, err = s.ValidateCredentials(ctx, models.AdminUsername, "wrong-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)

		_, err = s.ValidateCredentials(ctx, "ghost", "whatever1")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("DisabledUser", func(t *testing.T) {
		hash, err := models.HashPassword("operator-pass")
		require.NoError(t, err)
		_, err = s.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: hash, Role: string(models.RoleOperator)})
		require.NoError(t, err)

		_, err = s.ValidateCredentials(ctx, "bob", "operator-pass")
		assert.ErrorIs(t, err, models.ErrUserDisabled)
	})

	t.Run("DuplicateUser", func(t *testing.T) {
		_, err := s.CreateUser(ctx, &models.User{Username: "bob", PasswordHash: "x"})
		assert.ErrorIs(t, err, models.ErrDuplicateUser)
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		hash, err := models.HashPassword("new-password")
		require.NoError(t, err)
		require.NoError(t, s.UpdatePassword(ctx, models.AdminUsername, hash))

		_, err = s.ValidateCredentials(ctx, models.AdminUsername, "new-password")
		assert.NoError(t, err)

		assert.ErrorIs(t, s.UpdatePassword(ctx, "ghost", hash), models.ErrUserNotFound)
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.UpdateLastLogin(ctx, models.AdminUsername, now))

		admin, err := s.GetUser(ctx, models.AdminUsername)
		require.NoError(t, err)
		require.NotNil(t, admin.LastLogin)
		assert.True(t, admin.LastLogin.Equal(now))
	})

	t.Run("ListUsers", func(t *testing.T) {
		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestHealthcheck(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.Healthcheck(context.Background()))
}

func TestEnsureAdminUser_Named(t *testing.T) {
	t.Setenv(models.EnvAdminInitialPassword, "")
	ctx := context.Background()
	s := createTestStore(t)

	ok, err := s.IsAdminInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	password, err := s.EnsureAdminUser(ctx, "root", "root@nas.local")
	require.NoError(t, err)
	assert.NotEmpty(t, password)

	root, err := s.GetUser(ctx, "root")
	require.NoError(t, err)
	assert.True(t, root.IsAdmin())
	assert.True(t, root.MustChangePassword)
	assert.Equal(t, "root@nas.local", root.Email)

	ok, err = s.IsAdminInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetUser(ctx, models.AdminUsername)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestEnsureAdminUser_SingleAdmin(t *testing.T) {
	t.Setenv(models.EnvAdminInitialPassword, "")
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.EnsureAdminUser(ctx, "root", "")
	require.NoError(t, err)

	password, err := s.EnsureAdminUser(ctx, "renamed", "")
	require.NoError(t, err)
	assert.Empty(t, password)

	_, err = s.GetUser(ctx, "renamed")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestValidateCredentials_UpgradesWeakHash(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	weak, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &models.User{
		Username:     "legacy",
		PasswordHash: string(weak),
		Role:         string(models.RoleOperator),
		Enabled:      true,
	})
	require.NoError(t, err)

	_, err = s.ValidateCredentials(ctx, "legacy", "wrong-pass")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
	stored, err := s.GetUser(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, string(weak), stored.PasswordHash)

	user, err := s.ValidateCredentials(ctx, "legacy", "legacy-pass")
	require.NoError(t, err)
	assert.False(t, models.NeedsRehash(user.PasswordHash))

	stored, err = s.GetUser(ctx, "legacy")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, models.PasswordCost, cost)
	assert.True(t, models.VerifyPassword("legacy-pass", stored.PasswordHash))

	_, err = s.ValidateCredentials(ctx, "legacy", "legacy-pass")
	assert.NoError(t, err)
}

func TestVolumeMountPointsInIDOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	inv := &models.Inventory{Volumes: []models.Volume{{
		ID:   3,
		Name: "tank",
		MountPoints: []models.MountPoint{
			{ID: 9, Path: "/mnt/tank/secondary"},
			{ID: 4, Path: "/mnt/tank"},
			{ID: 6, Path: "/mnt/tank/tertiary"},
		},
	}}}
	require.NoError(t, s.ReplaceInventory(ctx, inv, "test"))

	byName, err := s.GetVolumeByName(ctx, "tank")
	require.NoError(t, err)
	byID, err := s.GetVolume(ctx, 3)
	require.NoError(t, err)
	listed, _, err := s.ListVolumes(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	for _, v := range []*models.Volume{byName, byID, listed[0]} {
		require.Len(t, v.MountPoints, 3)
		assert.Equal(t, []uint{4, 6, 9}, []uint{v.MountPoints[0].ID, v.MountPoints[1].ID, v.MountPoints[2].ID})

		mp, err := v.PrimaryMountPoint()
		require.NoError(t, err)
		assert.Equal(t, "/mnt/tank", mp.Path)
	}
}
