package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gymctl/internal/api"
	"gymctl/internal/config"
	"gymctl/internal/membership"
	"gymctl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	seen []string
}

func (f *fakeRecorder) RecordAttendance(ctx context.Context, id string) (*models.AttendanceReceipt, error) {
	f.seen = append(f.seen, id)
	if id == "bad" {
		return nil, &api.Error{Op: "record attendance", StatusCode: http.StatusOK, Message: "Membership expired"}
	}
	if id == "offline" {
		return nil, fmt.Errorf("%w: record attendance: connection refused", api.ErrNetwork)
	}
	return &models.AttendanceReceipt{Name: "Member " + id, TotalAttendance: 3}, nil
}

type listOnly []models.Member

func (l listOnly) ListMembers(ctx context.Context) ([]models.Member, error) {
	return l, nil
}

func (l listOnly) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Member, error) {
	return nil, errors.New("not supported")
}

func (l listOnly) DeleteMember(ctx context.Context, id string) error {
	return errors.New("not supported")
}

func TestRecordAttendance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var out bytes.Buffer
		ok := recordAttendance(context.Background(), &fakeRecorder{}, &out, "42")

		assert.True(t, ok)
		assert.Contains(t, out.String(), "Attendance recorded for Member 42 successfully!")
	})

	t.Run("ServerMessage", func(t *testing.T) {
		var out bytes.Buffer
		ok := recordAttendance(context.Background(), &fakeRecorder{}, &out, "bad")

		assert.False(t, ok)
		assert.Contains(t, out.String(), "Membership expired")
	})

	t.Run("GenericMessage", func(t *testing.T) {
		var out bytes.Buffer
		ok := recordAttendance(context.Background(), &fakeRecorder{}, &out, "offline")

		assert.False(t, ok)
		assert.Contains(t, out.String(), "An error occurred.")
	})
}

func TestScanAttendanceSkipsBlankLines(t *testing.T) {
	rec := &fakeRecorder{}
	in := strings.NewReader("1\n\n  \nbad\n 2 \n")

	recorded, failed, err := scanAttendance(context.Background(), rec, in, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "bad", "2"}, rec.seen)
	assert.Equal(t, 2, recorded)
	assert.Equal(t, 1, failed)
}

func TestScanAttendanceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &fakeRecorder{}
	_, _, err := scanAttendance(ctx, rec, strings.NewReader("1\n2\n"), io.Discard)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.seen)
}

func TestRegistrationMessage(t *testing.T) {
	assert.Equal(t, "Network error. Please try again later.",
		registrationMessage(fmt.Errorf("%w: register member: timeout", api.ErrNetwork)))
	assert.Equal(t, "Phone number already registered",
		registrationMessage(&api.Error{StatusCode: http.StatusConflict, Message: "Phone number already registered"}))
	assert.Equal(t, "An unknown error occurred.",
		registrationMessage(&api.Error{StatusCode: http.StatusInternalServerError}))
}

func TestResolveMember(t *testing.T) {
	ctrl := membership.NewController(listOnly{
		{ID: "6f1c2f4e-1b1a-4d8e-9a43-2d6b3b0c5a11", FullName: "Abebe Kebede", Role: "user", Status: models.StatusActive},
		{ID: "b", FullName: "Sara Tesfaye", Role: "user", Status: models.StatusPending},
		{ID: "c", FullName: "Sara Tesfaye", Role: "user", Status: models.StatusFrozen},
	})
	require.NoError(t, ctrl.Refresh(context.Background()))

	t.Run("ByID", func(t *testing.T) {
		m, err := resolveMember(ctrl, "6f1c2f4e-1b1a-4d8e-9a43-2d6b3b0c5a11")
		require.NoError(t, err)
		assert.Equal(t, "Abebe Kebede", m.FullName)
	})

	t.Run("ByName", func(t *testing.T) {
		m, err := resolveMember(ctrl, "  abebe kebede ")
		require.NoError(t, err)
		assert.Equal(t, "6f1c2f4e-1b1a-4d8e-9a43-2d6b3b0c5a11", m.ID)
	})

	t.Run("UnknownUUID", func(t *testing.T) {
		_, err := resolveMember(ctrl, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, models.ErrMemberNotFound)
	})

	t.Run("AmbiguousName", func(t *testing.T) {
		_, err := resolveMember(ctrl, "Sara Tesfaye")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "b, c")
	})
}

func TestMemberTable(t *testing.T) {
	out := memberTable([]models.Member{
		{ID: "1", FullName: "Abebe", PhoneNumber: "0911", Status: models.StatusActive, DaysLeft: 12,
			StartDate: "2024-03-01T00:00:00.000Z", Service: &models.Service{Name: "Gold"}},
		{ID: "2", FullName: "Kebede", Status: models.StatusFrozen, DaysLeft: 9},
	})

	assert.Contains(t, out, "Abebe")
	assert.Contains(t, out, "Gold")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "12")
	assert.NotContains(t, out, " 9 ")
}

func TestWriteExport(t *testing.T) {
	outDir = t.TempDir()
	t.Cleanup(func() { outDir = "." })

	t.Run("Success", func(t *testing.T) {
		err := writeExport("members.csv", func(w io.Writer) error {
			_, err := io.WriteString(w, "Name\n")
			return err
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(outDir, "members.csv"))
		require.NoError(t, err)
		assert.Equal(t, "Name\n", string(data))
	})

	t.Run("FailureRemovesFile", func(t *testing.T) {
		err := writeExport("broken.pdf", func(w io.Writer) error {
			return errors.New("render failed")
		})
		require.Error(t, err)

		_, statErr := os.Stat(filepath.Join(outDir, "broken.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestCommandsNeedLogin(t *testing.T) {
	t.Setenv("GYMCTL_HOME", t.TempDir())
	t.Setenv("GYMCTL_TOKEN", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"members", "list"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err = Execute(cfg, nil)
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)
}

func TestConfigFlagControlsLogging(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GYMCTL_HOME", dir)
	t.Setenv("GYMCTL_TOKEN", "")

	logPath := filepath.Join(dir, "custom.log")
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: debug\n  file: "+logPath+"\n"), 0o644))

	rootCmd.SetArgs([]string{"--config", cfgPath, "members", "list"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configFile = ""
		globalConfig = nil
		logger = zap.NewNop()
	})

	err := Execute(nil, nil)
	require.ErrorIs(t, err, models.ErrNotLoggedIn)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "command failed")
}
